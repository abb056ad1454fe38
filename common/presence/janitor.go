/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

package presence

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically sweeps the MAC cache, evicting addresses that
// haven't been seen within the configured timeout.
type Janitor struct {
	Cache   *MacCache
	Period  time.Duration
	Timeout time.Duration
	Log     *zap.SugaredLogger
}

// Run sweeps every Period until ctx is canceled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-j.Timeout)
			removed := j.Cache.ExpireOlderThan(cutoff)
			j.Log.Debugw("cache sweep complete", "removed", removed)
		}
	}
}
