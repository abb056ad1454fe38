/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

package iface

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func withCandidates(t *testing.T, cs []candidate) {
	t.Helper()
	orig := enumerate
	enumerate = func() ([]candidate, error) { return cs, nil }
	t.Cleanup(func() { enumerate = orig })
}

func mac(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	m, err := net.ParseMAC(s)
	require.NoError(t, err)
	return m
}

func TestSelectPicksFirstMatch(t *testing.T) {
	assert := require.New(t)

	loopback := candidate{
		iface: net.Interface{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
	}
	good := candidate{
		iface: net.Interface{Name: "eth1", Flags: net.FlagUp | net.FlagBroadcast, HardwareAddr: mac(t, "00:11:22:33:44:66")},
		addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("192.168.1.5").To4(), Mask: net.CIDRMask(24, 32)}},
	}

	withCandidates(t, []candidate{loopback, good})

	info, err := Select()
	assert.NoError(err)
	assert.Equal("eth1", info.Name)
	assert.True(info.IPv4.Equal(net.ParseIP("192.168.1.5")))
}

func TestSelectReturnsNoMacForMatchWithoutHardwareAddr(t *testing.T) {
	noMac := candidate{
		iface: net.Interface{Name: "eth0", Flags: net.FlagUp | net.FlagBroadcast},
		addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("192.168.1.5").To4(), Mask: net.CIDRMask(24, 32)}},
	}
	withCandidates(t, []candidate{noMac})

	_, err := Select()
	require.ErrorIs(t, err, ErrNoMac)
}

func TestSelectReturnsNoIpv4ForMatchWithoutAddress(t *testing.T) {
	noIP := candidate{
		iface: net.Interface{Name: "eth0", Flags: net.FlagUp | net.FlagBroadcast, HardwareAddr: mac(t, "00:11:22:33:44:55")},
	}
	withCandidates(t, []candidate{noIP})

	_, err := Select()
	require.ErrorIs(t, err, ErrNoIpv4)
}

func TestSelectNotFound(t *testing.T) {
	withCandidates(t, nil)

	_, err := Select()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSelectSkipsDown(t *testing.T) {
	down := candidate{
		iface: net.Interface{Name: "eth0", Flags: net.FlagBroadcast, HardwareAddr: mac(t, "00:11:22:33:44:55")},
		addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("10.0.0.5").To4(), Mask: net.CIDRMask(24, 32)}},
	}
	withCandidates(t, []candidate{down})

	_, err := Select()
	require.ErrorIs(t, err, ErrNotFound)
}
