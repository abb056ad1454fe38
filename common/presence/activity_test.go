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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	"github.com/stretchr/testify/require"

	pnet "presenced/ap_common/network"
)

// fakeChannel is an in-memory stand-in for a pcap handle: writes land in
// a queue that ReadPacketData drains, so a sender and receiver can be
// wired together without a real network interface.
type fakeChannel struct {
	mu    sync.Mutex
	queue [][]byte
}

func (f *fakeChannel) WritePacketData(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	f.queue = append(f.queue, cp)
	return nil
}

func (f *fakeChannel) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, gopacket.CaptureInfo{}, pcap.NextErrorTimeoutExpired
	}
	data := f.queue[0]
	f.queue = f.queue[1:]
	return data, gopacket.CaptureInfo{}, nil
}

func (f *fakeChannel) Close() {}

func TestSenderBroadcastsToEveryHost(t *testing.T) {
	assert := require.New(t)

	mac := mustMAC(t, "00:11:22:33:44:55")
	ch := &fakeChannel{}
	s := &Sender{
		SourceMAC: mac,
		SourceIP:  net.ParseIP("192.168.5.1"),
		Mask:      net.CIDRMask(30, 32),
		Channel:   ch,
		Log:       testLogger(t),
	}

	s.sweep()

	assert.Len(ch.queue, 2) // /30 host range has exactly 2 usable addresses
	for _, frame := range ch.queue {
		assert.Len(frame, pnet.EthernetFrameSize)
	}
}

func TestReceiverRecordsPeerAndFiltersSelf(t *testing.T) {
	assert := require.New(t)

	self := mustMAC(t, "00:11:22:33:44:55")
	peer := mustMAC(t, "aa:bb:cc:dd:ee:ff")

	selfFrame, err := pnet.GenArpRequest(self, net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"))
	assert.NoError(err)
	peerFrame, err := pnet.GenArpRequest(peer, net.ParseIP("10.0.0.2"), net.ParseIP("10.0.0.1"))
	assert.NoError(err)

	ch := &fakeChannel{queue: [][]byte{selfFrame, peerFrame}}
	cache := NewMacCache()
	r := &Receiver{SourceMAC: self, Cache: cache, Channel: ch, Log: testLogger(t)}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		return cache.Size() == 1
	}, 500*time.Millisecond, 5*time.Millisecond)

	snap := cache.Snapshot()
	_, gotPeer := snap[peer.String()]
	assert.True(gotPeer)
	_, gotSelf := snap[self.String()]
	assert.False(gotSelf)
}

func TestJanitorExpiresOnSchedule(t *testing.T) {
	cache := NewMacCache()
	cache.Touch(mustMAC(t, "00:11:22:33:44:55"), time.Now().Add(-time.Hour))

	j := &Janitor{Cache: cache, Period: 10 * time.Millisecond, Timeout: time.Minute, Log: testLogger(t)}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	j.Run(ctx)

	require.Equal(t, 0, cache.Size())
}

func TestLinkMonitorTriggersReconnectOnLoss(t *testing.T) {
	marker := t.TempDir() + "/marker"
	runner := NewReconnectRunner("sh -c \"echo x >> "+marker+"\"", testLogger(t))

	up := true
	m := &LinkMonitor{
		Interface: "eth0",
		Period:    10 * time.Millisecond,
		IsUp:      func(string) bool { return up },
		Reconnect: runner,
		Log:       testLogger(t),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	time.Sleep(30 * time.Millisecond)
	up = false

	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}
