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

import "github.com/pkg/errors"

// Sentinel errors for the scanner's fatal startup conditions and the
// recoverable conditions its activities log or return.
// Interface-selection failures keep their distinct sentinels from
// ap_common/iface (NotFound/NoMac/NoIpv4/InvalidMask) rather than being
// collapsed into one here.
var (
	// ErrOpenChannel means the pcap datalink handle could not be opened
	// on the selected interface.
	ErrOpenChannel = errors.New("failed to open datalink channel")

	// ErrUnsupportedMask means the selected interface's subnet mask is
	// not a 4-byte IPv4 mask, so no host range can be computed from it.
	ErrUnsupportedMask = errors.New("unsupported subnet mask")

	// ErrTransientRecv is logged by the receive activity when a single
	// read fails; the receiver keeps receiving.
	ErrTransientRecv = errors.New("transient receive error")

	// ErrTransientSend is logged by the send activity when a single
	// write fails; the sender keeps sending.
	ErrTransientSend = errors.New("transient send error")

	// ErrReportAttemptFailed is returned by a Sink that could not deliver
	// a report: the HTTP sink returns it once every attempt has failed
	// (each failed attempt is passed to its FailureFunc), the local-log
	// sink when its write fails.
	ErrReportAttemptFailed = errors.New("report attempt failed")

	// ErrClockBeforeEpoch means the system clock read a time before the
	// Unix epoch at the moment a report was sampled, making created_at
	// meaningless. The reporter treats this as fatal to its own activity.
	ErrClockBeforeEpoch = errors.New("system clock is before the unix epoch")
)
