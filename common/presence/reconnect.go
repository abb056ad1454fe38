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

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/tevino/abool"
	"go.uber.org/zap"

	"presenced/ap_common/aputil"
)

// ReconnectRunner restores network connectivity by running a configured
// shell command when the link monitor observes the interface go down. A
// single in-flight attempt is enforced with an atomic flag, so a flapping
// link can't pile up overlapping reconnect attempts.
type ReconnectRunner struct {
	command string
	log     *zap.SugaredLogger
	running *abool.AtomicBool
	metrics *Metrics
}

// NewReconnectRunner builds a runner for the given shell command line. An
// empty command makes Trigger a no-op, which is useful in environments
// where reconnection is handled externally.
func NewReconnectRunner(command string, log *zap.SugaredLogger) *ReconnectRunner {
	return &ReconnectRunner{
		command: command,
		log:     log,
		running: abool.NewBool(false),
	}
}

// WithMetrics attaches a Metrics collector, incremented once per completed
// reconnect attempt.
func (r *ReconnectRunner) WithMetrics(m *Metrics) *ReconnectRunner {
	r.metrics = m
	return r
}

// Trigger runs the reconnect command inline and blocks until it completes,
// unless an attempt is already in flight, in which case it returns
// immediately.
func (r *ReconnectRunner) Trigger() {
	if r.command == "" {
		return
	}
	if !r.running.CAS(false, true) {
		r.log.Debugw("reconnect already in flight, skipping", "command", r.command)
		return
	}
	defer r.running.UnSet()

	if err := r.run(); err != nil {
		r.log.Errorw("reconnect command failed", "command", r.command, "error", err)
	}
	if r.metrics != nil {
		r.metrics.ReconnectRuns.Inc()
	}
}

func (r *ReconnectRunner) run() error {
	argv, err := shlex.Split(r.command)
	if err != nil || len(argv) == 0 {
		return errors.Wrapf(err, "parsing reconnect command %q", r.command)
	}

	child := aputil.NewChild(argv[0], argv[1:]...)
	child.LogOutputTo("reconnect: ", 0, os.Stdout)

	if err := child.Start(); err != nil {
		return errors.Wrap(err, "starting reconnect command")
	}
	if err := child.Wait(); err != nil {
		return errors.Wrap(err, "running reconnect command")
	}

	r.log.Infow("reconnect command completed", "command", r.command)
	return nil
}
