// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"autogensocial/internal/config"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one scheduling pass and exit",
	Long:  "Evaluate every active template once and trigger the pipeline for due slots. Intended for external schedulers such as cron or a Kubernetes CronJob.",
	Args:  cobra.NoArgs,
	RunE:  runTick,
}

func init() {
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(os.Stdout, cfg.Env)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.scheduler().RunPass(ctx)
	if err != nil {
		return err
	}
	slog.Info("tick finished",
		"templates", res.Templates,
		"evaluated", res.Evaluated,
		"fired", res.Fired,
		"failed", res.Failed,
	)
	return nil
}
