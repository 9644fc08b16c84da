// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"autogensocial/internal/ai"
	"autogensocial/internal/cache"
	"autogensocial/internal/config"
	"autogensocial/internal/content"
	"autogensocial/internal/database"
	"autogensocial/internal/imaging"
	"autogensocial/internal/imaging/vipsdecode"
	"autogensocial/internal/media"
	"autogensocial/internal/metrics"
	"autogensocial/internal/pipeline"
	"autogensocial/internal/rng"
	"autogensocial/internal/schedule"
	"autogensocial/internal/social"
	"autogensocial/internal/storage"
	"autogensocial/internal/store"
)

// app holds the long-lived collaborators shared by the commands.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	valkey   *redis.Client
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	templates *store.TemplateStore
	brands    *store.BrandStore
	posts     *store.PostStore
}

// newApp loads configuration, connects to PostgreSQL and runs migrations.
// Valkey is connected only when the fire guard is enabled.
func newApp(cfg *config.Config) (*app, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dbx := sqlx.NewDb(db, database.DriverName)
	a := &app{
		cfg:       cfg,
		db:        db,
		registry:  reg,
		metrics:   metrics.New(reg),
		templates: store.NewTemplateStore(dbx),
		brands:    store.NewBrandStore(dbx),
		posts:     store.NewPostStore(dbx),
	}

	if cfg.FireGuardEnabled {
		a.valkey, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect valkey: %w", err)
		}
	}

	return a, nil
}

// Close releases the database and Valkey connections.
func (a *app) Close() {
	if a.valkey != nil {
		if err := a.valkey.Close(); err != nil {
			slog.Warn("failed to close valkey", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// scheduler builds the scheduling pass that POSTs due templates to the
// pipeline endpoint.
func (a *app) scheduler() *schedule.Scheduler {
	trigger := schedule.NewHTTPTrigger(a.cfg.TriggerURL(), a.cfg.FunctionKey, a.cfg.TriggerTimeout)
	opts := []schedule.Option{schedule.WithMetrics(a.metrics)}
	if a.valkey != nil {
		opts = append(opts, schedule.WithGuard(cache.NewFireGuard(a.valkey, 0)))
		slog.Info("fire guard enabled")
	}
	return schedule.New(a.templates, trigger, opts...)
}

// coordinator wires the content pipeline: language model, prompt defaults,
// image compositor, object storage and the social dispatcher.
func (a *app) coordinator(ctx context.Context) (*pipeline.Coordinator, error) {
	cfg := a.cfg

	registry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {
			APIKey:          cfg.OpenAIKey,
			Model:           cfg.OpenAIModel,
			BaseURL:         cfg.OpenAIBaseURL,
			AzureDeployment: cfg.OpenAIAzureDeployment,
			APIVersion:      cfg.OpenAIAPIVersion,
		},
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel},
	})
	if _, err := registry.Active(); err != nil {
		slog.Warn("no language model provider configured, generation will fail", "provider", cfg.AIProvider)
	}

	defaults, err := content.LoadDefaults(cfg.PromptDefaultsFile)
	if err != nil {
		return nil, err
	}

	rnd := rng.NewTimeSeeded()
	deps := pipeline.Deps{
		Templates: a.templates,
		Brands:    a.brands,
		Posts:     a.posts,
		Generator: content.NewGenerator(registry, rnd),
		Defaults:  defaults,
		Poster:    social.NewDispatcher(cfg.InstagramGraphURL, nil, social.WithMetrics(a.metrics)),
		Metrics:   a.metrics,
	}

	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3ImageBucket, cfg.S3PublicURL,
	)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	searcher, err := media.NewSearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
	if err != nil {
		return nil, fmt.Errorf("init image search: %w", err)
	}

	compositorOpts := []imaging.Option{imaging.WithRand(rnd)}
	if searcher != nil {
		compositorOpts = append(compositorOpts, imaging.WithFinder(searcher))
	} else {
		slog.Warn("image search not configured, online backgrounds fall back to black")
	}
	if vipsdecode.Started() {
		compositorOpts = append(compositorOpts, imaging.WithFallbackDecoder(vipsdecode.Decode))
	}

	// Explicit nil keeps a nil *storage.Client out of the interfaces.
	var fetcher imaging.Fetcher
	if storageClient != nil {
		fetcher = storageClient
		deps.Images = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, image templates will fail")
	}
	deps.Renderer = imaging.NewCompositor(fetcher, compositorOpts...)

	return pipeline.New(deps), nil
}
