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
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// LocalLogSink appends each Report as a JSON line to a local file. It is
// the default sink when no API endpoint is configured.
type LocalLogSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewLocalLogSink opens (creating if necessary) the file at path for
// appending.
func NewLocalLogSink(path string) (*LocalLogSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening local log sink %s", path)
	}
	return &LocalLogSink{path: path, file: f}, nil
}

// Send writes r as a single JSON line.
func (s *LocalLogSink) Send(_ context.Context, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	line = append(line, '\n')
	if _, err := s.file.Write(line); err != nil {
		return errors.Wrapf(ErrReportAttemptFailed, "writing to %s: %v", s.path, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (s *LocalLogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
