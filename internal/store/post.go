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

	"github.com/jmoiron/sqlx"

	"autogensocial/internal/models"
)

// PostStore handles post document operations. Posts are created once per
// template firing and replaced in place as the pipeline advances.
type PostStore struct {
	db *sqlx.DB
}

// NewPostStore creates a new PostStore.
func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post document.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal post %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, brand_id, template_id, status, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.BrandID, p.TemplateID, p.Status, doc, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post %s: %w: %w", p.ID, models.ErrPersistence, err)
	}
	return nil
}

// Replace overwrites the stored post document and its status column.
func (s *PostStore) Replace(ctx context.Context, p *models.Post) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal post %s: %w", p.ID, err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET status = $1, doc = $2, updated_at = $3
		WHERE id = $4
	`, p.Status, doc, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("replace post %s: %w: %w", p.ID, models.ErrPersistence, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("replace post %s: %w: %w", p.ID, models.ErrPersistence, models.ErrNotFound)
	}
	return nil
}

// Get reads one post by ID. Returns nil if not found.
func (s *PostStore) Get(ctx context.Context, id string) (*models.Post, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT id, doc FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return decode[models.Post]("post", row)
}
