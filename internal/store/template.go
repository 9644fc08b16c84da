// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"autogensocial/internal/models"
)

// TemplateStore handles template document operations.
type TemplateStore struct {
	db *sqlx.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sqlx.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// ListActive returns every active template in insertion order. Documents
// that fail to decode or validate are logged and skipped so one bad
// template cannot stall a scheduling pass.
func (s *TemplateStore) ListActive(ctx context.Context) ([]models.Template, error) {
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, doc FROM templates
		WHERE (doc->'metadata'->>'isActive')::boolean IS TRUE
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list active templates: %w", err)
	}

	templates := make([]models.Template, 0, len(rows))
	for _, row := range rows {
		t, err := decode[models.Template]("template", row)
		if err == nil {
			err = models.ValidateTemplate(t)
		}
		if err != nil {
			slog.Warn("skipping malformed template", "template_id", row.ID, "error", err)
			continue
		}
		templates = append(templates, *t)
	}
	return templates, nil
}

// Get reads one template by (id, brand). Returns nil if not found.
func (s *TemplateStore) Get(ctx context.Context, id, brandID string) (*models.Template, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, doc FROM templates WHERE id = $1 AND brand_id = $2`, id, brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}

	t, err := decode[models.Template]("template", row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	if err := models.ValidateTemplate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new template document.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal template %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, brand_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, t.ID, t.BrandID, doc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create template %s: %w: %w", t.ID, models.ErrPersistence, err)
	}
	return nil
}

// MarkExecuted stamps metadata.lastExecutionTime in place. The rest of the
// document is owned by template management and is left byte-for-byte as
// stored. Two concurrent stamps race and the later one wins.
func (s *TemplateStore) MarkExecuted(ctx context.Context, id, brandID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE templates
		SET doc = jsonb_set(doc, '{metadata}',
				COALESCE(doc->'metadata', '{}'::jsonb) || jsonb_build_object('lastExecutionTime', $1::text)),
			updated_at = $2
		WHERE id = $3 AND brand_id = $4
	`, at.UTC().Format(time.RFC3339Nano), time.Now().UTC(), id, brandID)
	if err != nil {
		return fmt.Errorf("mark template %s executed: %w: %w", id, models.ErrPersistence, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark template %s executed: %w", id, models.ErrNotFound)
	}
	return nil
}
