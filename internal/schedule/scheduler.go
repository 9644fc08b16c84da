// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"autogensocial/internal/metrics"
	"autogensocial/internal/models"
)

// TemplateRepository lists active templates and records a firing. Only
// lastExecutionTime is written; the rest of the document is not touched.
type TemplateRepository interface {
	ListActive(ctx context.Context) ([]models.Template, error)
	MarkExecuted(ctx context.Context, id, brandID string, at time.Time) error
}

// Trigger starts the content pipeline for one template.
type Trigger interface {
	Trigger(ctx context.Context, brandID, templateID string) error
}

// Claimer arbitrates between overlapping passes. Claim returns false when
// another pass already owns the slot for that minute.
type Claimer interface {
	Claim(ctx context.Context, templateID string, slot int, at time.Time) (bool, error)
	Release(ctx context.Context, templateID string, slot int, at time.Time)
}

// PassResult summarizes one scheduling pass.
type PassResult struct {
	Templates int
	Evaluated int
	Fired     int
	Failed    int
}

// Scheduler runs scheduling passes.
type Scheduler struct {
	templates TemplateRepository
	trigger   Trigger
	guard     Claimer
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGuard claims each due slot before the template is updated.
func WithGuard(g Claimer) Option {
	return func(s *Scheduler) { s.guard = g }
}

// WithMetrics records pass metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a Scheduler.
func New(templates TemplateRepository, trigger Trigger, opts ...Option) *Scheduler {
	s := &Scheduler{
		templates: templates,
		trigger:   trigger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunPass evaluates all active templates once. Templates and slots are
// processed sequentially in insertion order. Only a failure to list
// templates is returned; per-slot failures are logged and counted.
func (s *Scheduler) RunPass(ctx context.Context) (PassResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePass(time.Since(start)) }()

	templates, err := s.templates.ListActive(ctx)
	if err != nil {
		return PassResult{}, fmt.Errorf("scheduling pass: %w", err)
	}

	now := s.now().UTC()
	res := PassResult{Templates: len(templates)}
	slog.Info("scheduling pass started", "templates", len(templates), "now", now.Format(time.RFC3339))

	for i := range templates {
		tmpl := &templates[i]
		for idx, slot := range tmpl.Schedule.TimeSlots {
			res.Evaluated++
			s.metrics.SlotEvaluated()

			fired, ok := s.evaluateSlot(ctx, tmpl, idx, slot, now)
			switch {
			case fired:
				res.Fired++
			case !ok:
				res.Failed++
			}
		}
	}

	slog.Info("scheduling pass completed",
		"evaluated", res.Evaluated,
		"fired", res.Fired,
		"failed", res.Failed,
	)
	return res, nil
}

// evaluateSlot returns fired=true when the pipeline was triggered and
// ok=false when a due slot failed to fire.
func (s *Scheduler) evaluateSlot(ctx context.Context, tmpl *models.Template, idx int, slot models.TimeSlot, now time.Time) (fired, ok bool) {
	log := slog.With("template_id", tmpl.ID, "brand_id", tmpl.BrandID, "slot", idx)

	d, err := Evaluate(tmpl, slot, now)
	if err != nil {
		log.Warn("slot skipped", "error", err)
		return false, false
	}
	log.Debug("slot evaluated",
		"local", d.Local.Format(time.RFC3339),
		"is_scheduled_day", d.ScheduledDay,
		"is_scheduled_time", d.ScheduledTime,
		"already_executed", d.AlreadyExecuted,
	)
	if !d.Due() {
		return false, true
	}

	if s.guard != nil {
		won, err := s.guard.Claim(ctx, tmpl.ID, idx, now)
		switch {
		case err != nil:
			log.Warn("fire guard unavailable, continuing unguarded", "error", err)
		case !won:
			log.Info("slot claimed by another pass")
			s.metrics.SlotFired(metrics.FireResultClaimed)
			return false, true
		}
	}

	// Persist before triggering so an overlapping pass sees the firing.
	if err := s.templates.MarkExecuted(ctx, tmpl.ID, tmpl.BrandID, now); err != nil {
		if s.guard != nil {
			s.guard.Release(ctx, tmpl.ID, idx, now)
		}
		log.Error("failed to record lastExecutionTime, not triggering", "error", err)
		s.metrics.SlotFired(metrics.FireResultPersistError)
		return false, false
	}

	stamp := now
	tmpl.Metadata.LastExecutionTime = &stamp

	log.Info("triggering content pipeline")
	if err := s.trigger.Trigger(ctx, tmpl.BrandID, tmpl.ID); err != nil {
		log.Error("pipeline trigger failed", "error", err)
		s.metrics.SlotFired(metrics.FireResultTriggerError)
		return false, false
	}
	s.metrics.SlotFired(metrics.FireResultFired)
	return true, true
}
