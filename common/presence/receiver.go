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
	"bytes"
	"context"
	"net"
	"time"

	"github.com/google/gopacket/pcap"
	"go.uber.org/zap"

	pnet "presenced/ap_common/network"
)

// Receiver reads every inbound frame off the channel, classifies it, and
// records the source MAC of any ARP frame in the cache. It filters out the
// scanner's own requests, which pcap's promiscuous capture would otherwise
// loop straight back.
type Receiver struct {
	SourceMAC net.HardwareAddr
	Cache     *MacCache
	Channel   Channel
	Log       *zap.SugaredLogger

	// VendorOf resolves a MAC's manufacturer for the trace log below. It
	// may be nil, in which case vendor resolution is skipped.
	VendorOf func(net.HardwareAddr) string
}

// Run reads until ctx is canceled. Read timeouts from the underlying
// channel are not errors; they just mean no packet arrived in the capture
// window, and the loop checks ctx and tries again.
func (r *Receiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, _, err := r.Channel.ReadPacketData()
		if err != nil {
			if isCaptureTimeout(err) {
				continue
			}
			r.Log.Errorw("reading packet", "error", ErrTransientRecv, "cause", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		inbound, err := pnet.ClassifyInbound(data)
		if err != nil {
			continue
		}
		r.Log.Debugw("inbound frame classified", "kind", inbound.Kind, "source", inbound.SourceMAC)
		if inbound.Kind != pnet.ArpFrame {
			continue
		}
		if bytes.Equal(inbound.SourceMAC, r.SourceMAC) {
			continue
		}

		r.Cache.Touch(inbound.SourceMAC, time.Now())
		if r.VendorOf != nil {
			r.Log.Debugw("device observed", "mac", inbound.SourceMAC, "vendor", r.VendorOf(inbound.SourceMAC))
		}
	}
}

// isCaptureTimeout reports whether err is pcap's "no packet within the
// capture window" sentinel rather than a real I/O failure.
func isCaptureTimeout(err error) bool {
	return err == pcap.NextErrorTimeoutExpired
}
