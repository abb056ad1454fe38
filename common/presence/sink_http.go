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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// HTTPSink POSTs each Report as JSON to a remote endpoint, retrying a
// bounded number of times on failure. The report's CreatedAt is captured
// once by the caller and reused verbatim across every retry of the same
// report, so a slow series of retries doesn't skew the timestamp.
type HTTPSink struct {
	Client     *http.Client
	Endpoint   string
	APIKey     string
	RetryLimit int
	RetryDelay time.Duration
	OnFailure  FailureFunc
}

// NewHTTPSink builds an HTTPSink with a bounded-timeout client, matching
// the transport settings the teacher's daemons use for outbound requests.
// An empty apiKey omits the x-api-key header.
func NewHTTPSink(endpoint string, retryLimit int, apiKey string, onFailure FailureFunc) *HTTPSink {
	return &HTTPSink{
		Client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		Endpoint:   endpoint,
		APIKey:     apiKey,
		RetryLimit: retryLimit,
		RetryDelay: time.Second,
		OnFailure:  onFailure,
	}
}

// Send attempts delivery up to RetryLimit times total, invoking OnFailure
// after every failed attempt, including ones that will be retried.
func (s *HTTPSink) Send(ctx context.Context, r Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}

	var lastErr error
	for attempt := 0; attempt < s.RetryLimit; attempt++ {
		lastErr = s.attempt(ctx, body)
		if lastErr == nil {
			return nil
		}
		if s.OnFailure != nil {
			s.OnFailure(r, attempt+1, lastErr)
		}
		if attempt < s.RetryLimit-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.RetryDelay):
			}
		}
	}
	return errors.Wrapf(ErrReportAttemptFailed, "giving up after %d attempts: %v", s.RetryLimit, lastErr)
}

func (s *HTTPSink) attempt(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "performing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
