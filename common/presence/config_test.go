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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load("")
	assert.NoError(err)
	assert.Equal(5*time.Second, cfg.ScanPeriod)
	assert.Equal(300*time.Second, cfg.MacAddrTimeout)
	assert.Equal("dev-location", cfg.Location)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	assert := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "scan_period: 2s\napi_endpoint: https://example.test/report\n"
	assert.NoError(os.WriteFile(path, []byte(yamlBody), 0644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(2*time.Second, cfg.ScanPeriod)
	assert.Equal("https://example.test/report", cfg.APIEndpoint)
	// Untouched fields keep their defaults.
	assert.Equal(300*time.Second, cfg.MacAddrTimeout)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.NoError(err)
	assert.Equal(5*time.Second, cfg.ScanPeriod)
}

func TestValidateRejectsNonPositivePeriods(t *testing.T) {
	assert := require.New(t)

	cfg := Defaults()
	cfg.ScanPeriod = 0
	assert.Error(cfg.Validate())
}

func TestValidateRequiresASink(t *testing.T) {
	assert := require.New(t)

	cfg := Defaults()
	cfg.ReconnectCommand = "/sbin/ifup eth0"
	cfg.LocalLogPath = ""
	cfg.APIEndpoint = ""
	assert.Error(cfg.Validate())
}

func TestValidateRequiresReconnectCommand(t *testing.T) {
	assert := require.New(t)

	cfg := Defaults()
	cfg.ReconnectCommand = ""
	assert.Error(cfg.Validate())
}

func TestValidateRequiresRetryLimitWhenAPIEndpointSet(t *testing.T) {
	assert := require.New(t)

	cfg := Defaults()
	cfg.ReconnectCommand = "/sbin/ifup eth0"
	cfg.APIEndpoint = "https://example.test/report"
	cfg.APIRetryLimit = 0
	assert.Error(cfg.Validate())
}
