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
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalLogSinkAppendsJSONLines(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "presence.log")
	sink, err := NewLocalLogSink(path)
	assert.NoError(err)
	defer sink.Close()

	assert.NoError(sink.Send(context.Background(), Report{DeviceCount: 3, Location: "lab"}))
	assert.NoError(sink.Send(context.Background(), Report{DeviceCount: 4, Location: "lab"}))

	f, err := os.Open(path)
	assert.NoError(err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	assert.Equal(2, lines)
}

func TestHTTPSinkSucceedsOnFirstAttempt(t *testing.T) {
	assert := require.New(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, 3, "", nil)
	sink.RetryDelay = time.Millisecond

	err := sink.Send(context.Background(), Report{DeviceCount: 1})
	assert.NoError(err)
	assert.Equal(int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPSinkRetriesAndInvokesOnFailureEachTime(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var failures int32
	sink := NewHTTPSink(srv.URL, 3, "", func(r Report, attempt int, err error) {
		atomic.AddInt32(&failures, 1)
	})
	sink.RetryDelay = time.Millisecond

	err := sink.Send(context.Background(), Report{DeviceCount: 1})
	assert.Error(err)
	// RetryLimit=3 means 3 total attempts (spec.md S6), each one a failure callback.
	assert.Equal(int32(3), atomic.LoadInt32(&failures))
}

func TestHTTPSinkReusesCreatedAtAcrossRetries(t *testing.T) {
	assert := require.New(t)

	created := time.Now().Add(-time.Hour)
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		seen = append(seen, string(body))
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, 2, "", nil)
	sink.RetryDelay = time.Millisecond

	sink.Send(context.Background(), Report{CreatedAt: created, DeviceCount: 2})

	assert.Len(seen, 2)
	assert.Equal(seen[0], seen[1])
}

func TestHTTPSinkSendsAPIKeyHeaderWhenConfigured(t *testing.T) {
	assert := require.New(t)

	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, 1, "secret-token", nil)
	assert.NoError(sink.Send(context.Background(), Report{DeviceCount: 1}))
	assert.Equal("secret-token", gotHeader)
}

func TestReportMarshalsCreatedAtAsUnixSeconds(t *testing.T) {
	assert := require.New(t)

	when := time.Unix(1700000000, 0)
	r := Report{CreatedAt: when, Location: "lab", DeviceCount: 5}

	data, err := json.Marshal(r)
	assert.NoError(err)

	var decoded map[string]interface{}
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("lab", decoded["location"])
	assert.Equal(float64(5), decoded["device_count"])
	assert.Equal(float64(1700000000), decoded["created_at"])
}
