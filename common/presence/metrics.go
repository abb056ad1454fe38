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

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors the scanner exposes at /metrics:
// the current cache size, a result-labeled report counter, and a count of
// completed reconnect runs.
type Metrics struct {
	CacheSize     prometheus.Gauge
	Reports       *prometheus.CounterVec
	ReconnectRuns prometheus.Counter
}

// NewMetrics constructs and registers the scanner's metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presenced_cache_size",
			Help: "Number of MAC addresses currently cached as present.",
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presenced_reports_total",
			Help: "Number of device-count reports, labeled by delivery result.",
		}, []string{"result"}),
		ReconnectRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presenced_reconnects_total",
			Help: "Number of reconnect commands executed.",
		}),
	}

	reg.MustRegister(m.CacheSize, m.Reports, m.ReconnectRuns)
	return m
}
