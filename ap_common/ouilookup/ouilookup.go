/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package ouilookup resolves a MAC address's organizationally unique
// identifier to a manufacturer name, using a local copy of the IEEE OUI
// database. It is optional: the scanner runs without it, simply omitting
// the manufacturer name from its trace log.
package ouilookup

import (
	"net"

	"github.com/klauspost/oui"
	"github.com/pkg/errors"
)

// DB wraps a loaded OUI database.
type DB struct {
	static oui.StaticDB
}

// Open loads the OUI database at path. Callers should treat a load failure
// as non-fatal: vendor lookup is a convenience, not a core function.
func Open(path string) (*DB, error) {
	static, err := oui.OpenStaticFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening oui database %s", path)
	}
	return &DB{static: static}, nil
}

// Lookup returns the manufacturer name registered for mac's OUI prefix, or
// "" if the prefix isn't found.
func (d *DB) Lookup(mac net.HardwareAddr) string {
	if d == nil {
		return ""
	}
	entry, err := d.static.Query(mac.String())
	if err != nil {
		return ""
	}
	return entry.Manufacturer
}
