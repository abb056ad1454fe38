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
	"net"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"presenced/ap_common/iface"
	"presenced/ap_common/ouilookup"
)

// Supervisor owns the scan interface, the datalink channel, the MAC cache,
// and the five long-running activities (sender, receiver, janitor, link
// monitor, reporter). It is the single place that wires ScannerConfig into
// running goroutines.
type Supervisor struct {
	cfg     *ScannerConfig
	log     *zap.SugaredLogger
	metrics *Metrics
	vendors *ouilookup.DB

	Info    iface.Info
	Cache   *MacCache
	Channel Channel
}

// NewSupervisor selects the default interface and opens its datalink
// channel. It returns a fatal error (one of ap_common/iface's selection
// sentinels, or ErrOpenChannel / ErrUnsupportedMask) if startup can't
// proceed.
func NewSupervisor(cfg *ScannerConfig, log *zap.SugaredLogger, reg prometheus.Registerer) (*Supervisor, error) {
	info, err := iface.Select()
	if err != nil {
		return nil, errors.Wrap(err, "selecting scan interface")
	}
	if len(info.SubnetMask) != 4 {
		return nil, ErrUnsupportedMask
	}

	channel, err := OpenChannel(info.Name)
	if err != nil {
		return nil, err
	}

	var vendors *ouilookup.DB
	if cfg.OuiDBPath != "" {
		vendors, err = ouilookup.Open(cfg.OuiDBPath)
		if err != nil {
			log.Warnw("vendor lookup disabled", "error", err)
		}
	}

	return &Supervisor{
		cfg:     cfg,
		log:     log,
		metrics: NewMetrics(reg),
		vendors: vendors,
		Info:    info,
		Cache:   NewMacCache(),
		Channel: channel,
	}, nil
}

// Run starts every activity and blocks until ctx is canceled.
func (s *Supervisor) Run(ctx context.Context) error {
	defer s.Channel.Close()

	sink, err := s.buildSink()
	if err != nil {
		return err
	}

	reconnect := NewReconnectRunner(s.cfg.ReconnectCommand, s.log).WithMetrics(s.metrics)

	sender := &Sender{
		SourceMAC: s.Info.HWAddr,
		SourceIP:  s.Info.IPv4,
		Mask:      s.Info.SubnetMask,
		Period:    s.cfg.ScanPeriod,
		Channel:   s.Channel,
		Log:       s.log,
	}
	receiver := &Receiver{
		SourceMAC: s.Info.HWAddr,
		Cache:     s.Cache,
		Channel:   s.Channel,
		Log:       s.log,
		VendorOf:  s.VendorOf,
	}
	janitor := &Janitor{
		Cache:   s.Cache,
		Period:  s.cfg.CacheCleanPeriod,
		Timeout: s.cfg.MacAddrTimeout,
		Log:     s.log,
	}
	monitor := &LinkMonitor{
		Interface: s.Info.Name,
		Period:    s.cfg.LinkPollPeriod,
		IsUp:      iface.IsConnected,
		Reconnect: reconnect,
		Log:       s.log,
	}
	reporter := &Reporter{
		Cache:     s.Cache,
		Sink:      sink,
		Period:    s.cfg.ReportPeriod,
		Location:  s.cfg.Location,
		Interface: s.Info.Name,
		Log:       s.log,
		Metrics:   s.metrics,
	}

	go sender.Run(ctx)
	go receiver.Run(ctx)
	go janitor.Run(ctx)
	go monitor.Run(ctx)
	go reporter.Run(ctx)

	<-ctx.Done()
	return ctx.Err()
}

func (s *Supervisor) buildSink() (Sink, error) {
	if s.cfg.APIEndpoint != "" {
		onFailure := func(r Report, attempt int, err error) {
			s.log.Warnw("report attempt failed", "attempt", attempt, "error", err)
		}
		return NewHTTPSink(s.cfg.APIEndpoint, s.cfg.APIRetryLimit, s.cfg.APIKey, onFailure), nil
	}
	return NewLocalLogSink(s.cfg.LocalLogPath)
}

// VendorOf returns the manufacturer name for mac, or "" if vendor lookup is
// disabled or the OUI is unknown.
func (s *Supervisor) VendorOf(mac net.HardwareAddr) string {
	if s.vendors == nil {
		return ""
	}
	return s.vendors.Lookup(mac)
}
