// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"autogensocial/internal/config"
	"autogensocial/internal/handlers"
	"autogensocial/internal/imaging/vipsdecode"
	"autogensocial/internal/middleware"
	"autogensocial/internal/router"
	"autogensocial/internal/schedule"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 30 * time.Second

var (
	serveNoScheduler bool
	serveRateLimit   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the scheduler",
	Long:  "Start the HTTP server exposing the pipeline endpoint and run scheduling passes on the configured cron cadence.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "Serve the API without running scheduling passes")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 60, "Pipeline requests allowed per client per minute (0 disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(os.Stdout, cfg.Env)
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	vipsdecode.Startup(runtime.NumCPU())
	defer vipsdecode.Shutdown()

	coord, err := a.coordinator(ctx)
	if err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if serveRateLimit > 0 {
		limiter = middleware.NewRateLimiter(serveRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(router.Deps{
		Content:     handlers.NewContent(coord, a.posts),
		FunctionKey: cfg.FunctionKey,
		Metrics:     a.metrics,
		Gatherer:    a.registry,
		RateLimiter: limiter,
	})

	// WriteTimeout must cover a whole pipeline run, which the scheduler
	// bounds with TriggerTimeout.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.TriggerTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var runner *schedule.Runner
	if !serveNoScheduler {
		runner, err = schedule.NewRunner(cfg.ScheduleCron, a.scheduler())
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if runner != nil {
		g.Go(func() error { return runner.Run(gctx) })
	} else {
		slog.Info("scheduler disabled")
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
