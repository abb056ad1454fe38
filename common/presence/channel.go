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
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
)

// Channel is the datalink abstraction the sender and receiver activities
// operate over. *pcap.Handle satisfies it; tests substitute an in-memory
// fake.
type Channel interface {
	WritePacketData(data []byte) error
	ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error)
	Close()
}

// OpenChannel opens a live pcap capture/injection handle on the named
// interface, in promiscuous mode so replies addressed to other hosts'
// broadcast-sourced ARP requests are still visible.
func OpenChannel(ifaceName string) (Channel, error) {
	handle, err := pcap.OpenLive(ifaceName, 65536, true, 50*time.Millisecond)
	if err != nil {
		return nil, errors.Wrapf(ErrOpenChannel, "%s: %v", ifaceName, err)
	}
	return handle, nil
}
