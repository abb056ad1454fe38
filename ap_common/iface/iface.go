/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package iface selects the default scan interface and watches it for link
// loss.
package iface

import (
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// Errors returned by Select. Each corresponds to a fatal startup condition
// in the core spec.
var (
	ErrNotFound    = errors.New("no suitable interface found")
	ErrNoMac       = errors.New("interface has no hardware address")
	ErrNoIpv4      = errors.New("interface has no IPv4 address")
	ErrInvalidMask = errors.New("interface IPv4 address has no usable subnet mask")
)

// Info is the subset of an interface's attributes the scanner needs: its
// name, hardware address, and an IPv4 address with its subnet mask.
type Info struct {
	Name       string
	HWAddr     net.HardwareAddr
	IPv4       net.IP
	SubnetMask net.IPMask
}

// candidate is the enumeration abstraction Select operates over, so tests
// can supply a fixed interface list instead of depending on net.Interfaces.
type candidate struct {
	iface net.Interface
	addrs []net.Addr
}

// enumerate lists every OS network interface along with its addresses. It
// is a variable so tests can stub it out.
var enumerate = func() ([]candidate, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(ifs))
	for _, i := range ifs {
		addrs, err := i.Addrs()
		if err != nil {
			continue
		}
		out = append(out, candidate{iface: i, addrs: addrs})
	}
	return out, nil
}

// isDefaultCandidate applies the default-interface predicate from the core
// spec: up, broadcast-capable, and not loopback. The first candidate to
// match is the one Select commits to; whether it actually has a usable MAC
// and IPv4 address is checked separately, as a fatal condition rather than
// a reason to keep scanning.
func isDefaultCandidate(c candidate) bool {
	f := c.iface.Flags
	return f&net.FlagUp != 0 && f&net.FlagBroadcast != 0 && f&net.FlagLoopback == 0
}

func firstIPv4(addrs []net.Addr) *net.IPNet {
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return &net.IPNet{IP: v4, Mask: ipnet.Mask}
		}
	}
	return nil
}

// Select applies the default-interface predicate, in enumeration order, and
// extracts the source MAC, source IPv4 address, and subnet mask the scanner
// needs to start. It returns one of the sentinel errors above on failure.
func Select() (Info, error) {
	candidates, err := enumerate()
	if err != nil {
		return Info{}, errors.Wrap(err, "enumerate interfaces")
	}

	for _, c := range candidates {
		if !isDefaultCandidate(c) {
			continue
		}

		if len(c.iface.HardwareAddr) == 0 {
			return Info{}, ErrNoMac
		}

		ipnet := firstIPv4(c.addrs)
		if ipnet == nil {
			return Info{}, ErrNoIpv4
		}
		if len(ipnet.Mask) != net.IPv4len {
			return Info{}, ErrInvalidMask
		}

		return Info{
			Name:       c.iface.Name,
			HWAddr:     c.iface.HardwareAddr,
			IPv4:       ipnet.IP,
			SubnetMask: net.IPMask(ipnet.Mask),
		}, nil
	}

	return Info{}, ErrNotFound
}

// IsConnected reports whether the named interface currently has carrier
// (netlink's "running" operational state). It re-reads link state on every
// call rather than caching it, matching the core spec's re-enumerate-each-
// call contract; an interface that has disappeared is reported as not
// connected rather than as an error.
var IsConnected = func(name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	attrs := link.Attrs()
	return attrs.Flags&net.FlagRunning != 0 || attrs.OperState == netlink.OperUp
}
