/*
 * COPYRIGHT 2024 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// ap.presenced is a passive-plus-active LAN presence scanner. It ARP-sweeps
// its local subnet, tracks which MAC addresses have answered recently, and
// periodically reports the device count to a local log file or a remote
// HTTP endpoint.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"presenced/ap_common/aputil"
	"presenced/common/presence"
)

const pname = "ap.presenced"

func run(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config-file")

	cfg, err := presence.Load(configFile)
	if err != nil {
		return err
	}
	presence.ApplyFlags(cfg, cmd.Flags())

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := aputil.NewLogger(pname, cfg.LogPath, cfg.LogToStdout)
	if err != nil {
		return err
	}
	defer log.Sync()

	traceLevel := "info"
	if cfg.Trace {
		traceLevel = "debug"
	}
	if err := aputil.LogSetLevel(pname, traceLevel); err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Errorw("metrics server exited", "error", err)
			}
		}()
	}

	sup, err := presence.NewSupervisor(cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Infow("scanner starting", "interface", sup.Info.Name, "address", sup.Info.IPv4)

	if err := sup.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Infow("scanner shutting down")
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   pname,
		Short: "LAN presence scanner daemon",
		RunE:  run,
	}

	rootCmd.Flags().String("config-file", "", "path to YAML config file")
	rootCmd.Flags().Duration("scan-period", 0, "how often to ARP-sweep the subnet")
	rootCmd.Flags().Duration("cache-clean-period", 0, "how often to expire stale cache entries")
	rootCmd.Flags().Duration("mac-addr-timeout", 0, "how long a MAC address stays present after last sighting")
	rootCmd.Flags().Duration("report-period", 0, "how often to report the device count")
	rootCmd.Flags().String("api-endpoint", "", "remote HTTP endpoint to report device counts to")
	rootCmd.Flags().String("api-key", "", "credential sent as the x-api-key header to the remote endpoint")
	rootCmd.Flags().String("location", "", "human-readable tag included with every report")
	rootCmd.Flags().String("local-log-path", "", "local file to append device-count reports to")
	rootCmd.Flags().String("reconnect-command", "", "shell command run to restore connectivity on link loss")
	rootCmd.Flags().String("oui-db-path", "", "path to IEEE OUI database for vendor lookup")
	rootCmd.Flags().String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9120")
	rootCmd.Flags().Bool("trace", false, "enable verbose per-packet logging")

	if err := rootCmd.Execute(); err != nil {
		aputil.Fatalf("%s: %v\n", pname, err)
	}
}
