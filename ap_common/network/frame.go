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

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
)

// EthernetFrameSize is the exact size, in bytes, of a frame produced by
// GenArpRequest: a 14-byte Ethernet header plus a 28-byte ARP payload.
const EthernetFrameSize = 42

// GenArpRequest builds a 42-byte Ethernet-encapsulated ARP request asking
// "who has targetIP?", broadcast from sourceMAC/sourceIP. The result always
// has exactly EthernetFrameSize bytes for fixed-width MAC/IPv4 inputs; a
// non-nil error here indicates a buffer-sizing bug, not a runtime condition
// callers should expect to handle.
func GenArpRequest(sourceMAC net.HardwareAddr, sourceIP, targetIP net.IP) ([]byte, error) {
	ether := layers.Ethernet{
		DstMAC:       MacBcast,
		SrcMAC:       sourceMAC,
		EthernetType: layers.EthernetTypeARP,
	}

	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(sourceMAC),
		SourceProtAddress: []byte(sourceIP.To4()),
		DstHwAddress:      []byte(MacBcast),
		DstProtAddress:    []byte(targetIP.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err := gopacket.SerializeLayers(buf, opts, &ether, &arp); err != nil {
		return nil, errors.Wrap(err, "no frame")
	}

	// The Ethernet layer pads its output to the 60-byte minimum frame
	// size; keep only the header and the ARP payload.
	frame := buf.Bytes()
	if len(frame) < EthernetFrameSize {
		return nil, errors.New("no frame")
	}
	return frame[:EthernetFrameSize], nil
}

// InboundKind classifies a parsed inbound Ethernet frame.
type InboundKind int

const (
	// Ignore indicates the frame is not ARP and the caller should discard
	// it.
	Ignore InboundKind = iota
	// ArpFrame indicates the frame carries the ARP EtherType.
	ArpFrame
)

// Inbound is the result of classifying one inbound raw frame.
type Inbound struct {
	Kind InboundKind
	// SourceMAC is the Ethernet-header source address, not the ARP
	// payload's sender hardware address. This is deliberate: it captures
	// where the frame actually originated at the link layer, even if a
	// (spoofed) ARP payload claims otherwise.
	SourceMAC net.HardwareAddr
}

// ClassifyInbound parses the Ethernet header of a raw frame and reports
// whether it is ARP, returning the frame-layer source MAC when it is.
func ClassifyInbound(data []byte) (Inbound, error) {
	var eth layers.Ethernet
	decoded := make([]gopacket.LayerType, 0, 1)

	parser := gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet, &eth)
	// Only the Ethernet header is decoded; the payload's layer type has no
	// decoder here and is not an error.
	parser.IgnoreUnsupported = true
	if err := parser.DecodeLayers(data, &decoded); err != nil {
		return Inbound{}, errors.Wrap(err, "malformed ethernet frame")
	}

	if eth.EthernetType != layers.EthernetTypeARP {
		return Inbound{Kind: Ignore}, nil
	}

	return Inbound{Kind: ArpFrame, SourceMAC: eth.SrcMAC}, nil
}
