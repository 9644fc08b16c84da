// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Runner drives scheduling passes on a cron cadence inside the serve
// process. A pass still running when the next tick arrives causes that tick
// to be skipped.
type Runner struct {
	scheduler *Scheduler
	cron      *cron.Cron
	spec      string
}

// ParseSpec validates a six-field cron expression (seconds first).
func ParseSpec(spec string) (cron.Schedule, error) {
	sched, err := newParser().Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("schedule cron %q: %w", spec, err)
	}
	return sched, nil
}

func newParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// NewRunner creates a runner for the given cron expression.
func NewRunner(spec string, s *Scheduler) (*Runner, error) {
	if _, err := ParseSpec(spec); err != nil {
		return nil, err
	}
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	c := cron.New(
		cron.WithParser(newParser()),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	return &Runner{scheduler: s, cron: c, spec: spec}, nil
}

// Run schedules passes until ctx is cancelled, then waits for a running
// pass to finish.
func (r *Runner) Run(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		if _, err := r.scheduler.RunPass(ctx); err != nil {
			slog.Error("scheduling pass failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add schedule job: %w", err)
	}

	r.cron.Start()
	slog.Info("schedule runner started", "cron", r.spec)

	<-ctx.Done()

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	slog.Info("schedule runner stopped")
	return nil
}
