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
	"time"

	"go.uber.org/zap"

	pnet "presenced/ap_common/network"
)

// Sender periodically broadcasts ARP requests to every host address on the
// local subnet, prompting replies that the receiver activity observes.
type Sender struct {
	SourceMAC net.HardwareAddr
	SourceIP  net.IP
	Mask      net.IPMask
	Period    time.Duration
	Channel   Channel
	Log       *zap.SugaredLogger
}

// Run sweeps the subnet every Period until ctx is canceled.
func (s *Sender) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sender) sweep() {
	targets := pnet.ComputeSubnetIPs(s.SourceIP, net.IP(s.Mask))
	s.Log.Debugw("sweeping subnet", "targets", len(targets))
	for _, target := range targets {
		frame, err := pnet.GenArpRequest(s.SourceMAC, s.SourceIP, target)
		if err != nil {
			s.Log.Errorw("building arp request", "target", target, "error", err)
			continue
		}
		if err := s.Channel.WritePacketData(frame); err != nil {
			s.Log.Errorw("sending arp request", "target", target, "error", ErrTransientSend, "cause", err)
		}
	}
}
