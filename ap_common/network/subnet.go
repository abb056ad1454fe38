/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

package network

import "net"

// ComputeSubnetIPs returns, in ascending numeric order, every host IPv4
// address in the subnet described by (sourceIP, mask), excluding the
// network and broadcast addresses. It accepts any mask width: /31 and /32
// yield an empty slice, since there are no usable host addresses once
// network and broadcast are excluded. This is the permissive enumerator;
// the fleet's legacy /18-/24-only variant is not reproduced here.
func ComputeSubnetIPs(sourceIP, mask net.IP) []net.IP {
	raw := IPv4ToUint32(sourceIP)
	rawMask := IPv4ToUint32(mask)

	network := raw & rawMask
	broadcast := raw | ^rawMask

	if broadcast <= network+1 {
		return nil
	}

	ips := make([]net.IP, 0, broadcast-network-1)
	for v := network + 1; v < broadcast; v++ {
		ips = append(ips, Uint32ToIPv4(v))
	}

	return ips
}
