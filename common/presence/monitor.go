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

	"presenced/ap_common/aputil"
)

// LinkMonitor polls the scan interface's connectivity and triggers the
// reconnect runner on every transition from up to down. A ThrottledLogger
// keeps a flapping link from flooding the log with the same error.
type LinkMonitor struct {
	Interface  string
	Period     time.Duration
	IsUp       func(name string) bool
	Reconnect  *ReconnectRunner
	Log        *zap.SugaredLogger
	lostLogger *aputil.ThrottledLogger
}

// Run polls every Period until ctx is canceled.
func (m *LinkMonitor) Run(ctx context.Context) {
	if m.lostLogger == nil {
		m.lostLogger = aputil.GetThrottledLogger(m.Log, time.Second, time.Minute)
	}

	ticker := time.NewTicker(m.Period)
	defer ticker.Stop()

	wasUp := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			up := m.IsUp(m.Interface)
			if !up {
				m.lostLogger.Errorf("interface %s is no longer connected", m.Interface)
			}
			if wasUp && !up {
				m.Reconnect.Trigger()
			}
			if !wasUp && up {
				m.lostLogger.Clear()
				m.Log.Infow("interface reconnected", "interface", m.Interface)
			}
			wasUp = up
		}
	}
}
