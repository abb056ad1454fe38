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
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/tomazk/envcfg"
)

// ScannerConfig holds every tunable of the scanner daemon. Values start
// from compiled-in defaults and are overridden in three layers of
// increasing precedence: a YAML config file, then environment variables,
// then explicitly-set command line flags.
type ScannerConfig struct {
	// ScanPeriod is how often the sender sweeps the subnet with ARP
	// requests.
	ScanPeriod time.Duration `yaml:"scan_period" envcfg:"B10E_SCAN_PERIOD"`

	// CacheCleanPeriod is how often the janitor sweeps the MAC cache for
	// expired entries.
	CacheCleanPeriod time.Duration `yaml:"mac_cache_clean_period" envcfg:"B10E_MAC_CACHE_CLEAN_PERIOD"`

	// MacAddrTimeout is how long a MAC address is considered present
	// after its last sighting.
	MacAddrTimeout time.Duration `yaml:"mac_addr_timeout" envcfg:"B10E_MAC_ADDR_TIMEOUT"`

	// ReportPeriod is how often the reporter emits a device-count
	// report.
	ReportPeriod time.Duration `yaml:"report_period" envcfg:"B10E_REPORT_PERIOD"`

	// APIEndpoint, if non-empty, selects the HTTP sink; an empty value
	// selects the local-log sink.
	APIEndpoint string `yaml:"api_endpoint" envcfg:"B10E_API_ENDPOINT"`

	// APIRetryLimit bounds how many times the HTTP sink retries a single
	// report before giving up on it.
	APIRetryLimit int `yaml:"api_retry_limit" envcfg:"B10E_API_RETRY_LIMIT"`

	// APIKey, if non-empty, is sent as the x-api-key header on every HTTP
	// sink request.
	APIKey string `yaml:"api_key" envcfg:"B10E_API_KEY"`

	// Location is the human-readable tag included with every report.
	Location string `yaml:"location" envcfg:"B10E_LOCATION"`

	// LocalLogPath is where the local-log sink appends its reports.
	LocalLogPath string `yaml:"local_log_path" envcfg:"B10E_LOCAL_LOG_PATH"`

	// ReconnectCommand is the shell command run to restore connectivity
	// when the link monitor observes the interface go down.
	ReconnectCommand string `yaml:"reconnect_command" envcfg:"B10E_RECONNECT_COMMAND"`

	// LinkPollPeriod is how often the link monitor polls interface
	// health.
	LinkPollPeriod time.Duration `yaml:"link_poll_period" envcfg:"B10E_LINK_POLL_PERIOD"`

	// LogPath is where the scanner's own log is written.
	LogPath string `yaml:"log_path" envcfg:"B10E_LOG_PATH"`

	// LogToStdout additionally tees log output to stdout.
	LogToStdout bool `yaml:"log_to_stdout" envcfg:"B10E_LOG_TO_STDOUT"`

	// OuiDBPath, if non-empty, enables manufacturer lookup for observed
	// MAC addresses.
	OuiDBPath string `yaml:"oui_db_path" envcfg:"B10E_OUI_DB_PATH"`

	// MetricsAddr, if non-empty, serves Prometheus metrics at
	// http://<MetricsAddr>/metrics.
	MetricsAddr string `yaml:"metrics_addr" envcfg:"B10E_METRICS_ADDR"`

	// Trace enables verbose per-packet logging.
	Trace bool `yaml:"trace" envcfg:"B10E_TRACE"`

	// ConfigFile is the path to the YAML file this config was loaded
	// from, if any. It is never itself read from that file.
	ConfigFile string `yaml:"-" envcfg:"B10E_CONFIG_FILE"`
}

// Defaults returns the compiled-in configuration, matching the constants
// carried over from the original scanner: a 5 second scan period, a 10
// second cache-clean period, and a 300 second (5 minute) address timeout.
func Defaults() ScannerConfig {
	return ScannerConfig{
		ScanPeriod:       5 * time.Second,
		CacheCleanPeriod: 10 * time.Second,
		MacAddrTimeout:   300 * time.Second,
		ReportPeriod:     60 * time.Second,
		APIRetryLimit:    3,
		Location:         "dev-location",
		LocalLogPath:     "presence.log",
		LinkPollPeriod:   100 * time.Millisecond,
		LogPath:          "scanner.log",
	}
}

// Load resolves a ScannerConfig from defaults, an optional YAML file at
// path, and the process environment, in that order of increasing
// precedence. Command line flags are applied afterward by ApplyFlags.
func Load(path string) (*ScannerConfig, error) {
	cfg := Defaults()
	cfg.ConfigFile = path

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "reading config file %s", path)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	if err := envcfg.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "reading environment configuration")
	}

	return &cfg, nil
}

// ApplyFlags overlays any flag in fs that the user explicitly set onto cfg,
// giving command line flags the final say over file and environment
// configuration.
func ApplyFlags(cfg *ScannerConfig, fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "scan-period":
			cfg.ScanPeriod, _ = time.ParseDuration(f.Value.String())
		case "cache-clean-period":
			cfg.CacheCleanPeriod, _ = time.ParseDuration(f.Value.String())
		case "mac-addr-timeout":
			cfg.MacAddrTimeout, _ = time.ParseDuration(f.Value.String())
		case "report-period":
			cfg.ReportPeriod, _ = time.ParseDuration(f.Value.String())
		case "api-endpoint":
			cfg.APIEndpoint = f.Value.String()
		case "api-key":
			cfg.APIKey = f.Value.String()
		case "location":
			cfg.Location = f.Value.String()
		case "local-log-path":
			cfg.LocalLogPath = f.Value.String()
		case "reconnect-command":
			cfg.ReconnectCommand = f.Value.String()
		case "oui-db-path":
			cfg.OuiDBPath = f.Value.String()
		case "metrics-addr":
			cfg.MetricsAddr = f.Value.String()
		case "trace":
			cfg.Trace = f.Value.String() == "true"
		}
	})
}

// Validate rejects configurations that would make the scanner's activities
// meaningless or unsafe to start.
func (c *ScannerConfig) Validate() error {
	if c.ScanPeriod <= 0 {
		return errors.New("scan_period must be positive")
	}
	if c.CacheCleanPeriod <= 0 {
		return errors.New("mac_cache_clean_period must be positive")
	}
	if c.MacAddrTimeout <= 0 {
		return errors.New("mac_addr_timeout must be positive")
	}
	if c.ReportPeriod <= 0 {
		return errors.New("report_period must be positive")
	}
	if c.APIRetryLimit < 0 {
		return errors.New("api_retry_limit must not be negative")
	}
	if c.APIEndpoint != "" && c.APIRetryLimit <= 0 {
		return errors.New("api_retry_limit must be positive when api_endpoint is set")
	}
	if c.ReconnectCommand == "" {
		return errors.New("reconnect_command must be set")
	}
	if c.APIEndpoint == "" && c.LocalLogPath == "" {
		return errors.New("one of api_endpoint or local_log_path must be set")
	}
	return nil
}
