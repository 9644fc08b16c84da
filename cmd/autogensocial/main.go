// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point of the autogensocial service. The serve
// command runs the HTTP API and the in-process scheduler; tick runs a single
// scheduling pass for external schedulers; migrate applies the schema.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var rootCmd = &cobra.Command{
	Use:           "autogensocial",
	Short:         "Scheduled social media content generation",
	Long:          "autogensocial generates captions and quote images from brand templates on a schedule and publishes them to Instagram.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger installs the default slog logger: text output in
// development, JSON otherwise.
func setupLogger(w io.Writer, env string) *slog.Logger {
	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler).With("service", "autogensocial")
	slog.SetDefault(logger)
	return logger
}
