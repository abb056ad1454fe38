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
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"presenced/common/zaperr"
)

// Report is a single device-count observation, the unit of work handed to
// a Sink. It marshals to the wire shape
// {"location", "device_count", "created_at"} with created_at as Unix
// seconds, matching the HTTP sink's request body.
type Report struct {
	CreatedAt   time.Time
	Location    string
	DeviceCount int
}

// MarshalJSON renders CreatedAt as Unix seconds rather than time.Time's
// default RFC 3339 encoding.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Location    string `json:"location"`
		DeviceCount int    `json:"device_count"`
		CreatedAt   int64  `json:"created_at"`
	}{
		Location:    r.Location,
		DeviceCount: r.DeviceCount,
		CreatedAt:   r.CreatedAt.Unix(),
	})
}

// Sink delivers a Report somewhere: a local log file, a remote HTTP
// endpoint, or (in tests) an in-memory slice.
type Sink interface {
	Send(ctx context.Context, r Report) error
}

// FailureFunc is invoked on every failed delivery attempt a Sink makes for
// a single Report, not only when the Sink finally gives up on it.
type FailureFunc func(r Report, attempt int, err error)

// Reporter periodically samples the MAC cache's size and hands the result
// to a Sink.
type Reporter struct {
	Cache     *MacCache
	Sink      Sink
	Period    time.Duration
	Location  string
	Interface string // logging context only, not part of the wire Report
	Log       *zap.SugaredLogger
	Metrics   *Metrics
}

// Run samples and reports on Period until ctx is canceled. If the system
// clock ever reads a time before the Unix epoch, created_at can't be
// represented meaningfully; the reporter logs ErrClockBeforeEpoch and stops,
// leaving the rest of the scanner running.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			if now.Before(time.Unix(0, 0)) {
				r.Log.Errorw("stopping reporter", "error", ErrClockBeforeEpoch)
				return
			}

			count := r.Cache.Size()
			report := Report{
				CreatedAt:   now,
				Location:    r.Location,
				DeviceCount: count,
			}
			if r.Metrics != nil {
				r.Metrics.CacheSize.Set(float64(count))
			}
			if err := r.Sink.Send(ctx, report); err != nil {
				ze := zaperr.Errorw("report delivery failed",
					"interface", r.Interface, "device_count", count, "cause", err.Error())
				r.Log.Errorw("report delivery failed", "error", ze)
				if r.Metrics != nil {
					r.Metrics.Reports.WithLabelValues("fail").Inc()
				}
			} else if r.Metrics != nil {
				r.Metrics.Reports.WithLabelValues("ok").Inc()
			}
		}
	}
}
