/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package network contains the byte-exact ARP/Ethernet frame codec and the
// subnet-enumeration and address helpers the scanner builds on.
package network

import (
	"encoding/binary"
	"net"
)

// MacBcast is the Ethernet broadcast address, FF:FF:FF:FF:FF:FF.
var MacBcast = net.HardwareAddr([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

// IsBroadcast reports whether a is the Ethernet broadcast address.
func IsBroadcast(a net.HardwareAddr) bool {
	return len(a) == 6 && bytes6Equal(a, MacBcast)
}

func bytes6Equal(a, b net.HardwareAddr) bool {
	if len(a) != 6 || len(b) != 6 {
		return false
	}
	for i := 0; i < 6; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HWAddrToUint64 encodes a net.HardwareAddr as a uint64, matching the wire
// layout used by ap_common/network in the rest of the fleet: the top two
// bytes are zeroed and the six MAC octets occupy the low 48 bits.
func HWAddrToUint64(a net.HardwareAddr) uint64 {
	hwaddr := make([]byte, 8)
	copy(hwaddr[2:], a)
	return binary.BigEndian.Uint64(hwaddr)
}

// Uint64ToHWAddr decodes a uint64 produced by HWAddrToUint64 back into a
// net.HardwareAddr.
func Uint64ToHWAddr(a uint64) net.HardwareAddr {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, a)
	return net.HardwareAddr(b[2:])
}

// IPv4ToUint32 encodes an IPv4 net.IP as a big-endian uint32. Returns 0 if ip
// is not a valid IPv4 address.
func IPv4ToUint32(ip net.IP) uint32 {
	b := ip.To4()
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Uint32ToIPv4 decodes a big-endian uint32 into a 4-byte net.IP.
func Uint32ToIPv4(a uint32) net.IP {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, a)
	return ip
}
