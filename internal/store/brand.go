// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"autogensocial/internal/models"
)

// BrandStore reads brand documents. Brands are managed elsewhere; this
// service only reads their descriptions and social credentials.
type BrandStore struct {
	db *sqlx.DB
}

// NewBrandStore creates a new BrandStore.
func NewBrandStore(db *sqlx.DB) *BrandStore {
	return &BrandStore{db: db}
}

// Get reads a brand by ID. Returns nil if not found.
func (s *BrandStore) Get(ctx context.Context, id string) (*models.Brand, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT id, doc FROM brands WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get brand %s: %w", id, err)
	}
	return decode[models.Brand]("brand", row)
}
