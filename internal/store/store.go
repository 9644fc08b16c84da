// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the document repositories for templates, posts
// and brands. Each document is kept as JSONB next to the columns it is
// queried by; reads decode the document, writes replace it whole
// (last writer wins).
package store

import (
	"encoding/json"
	"fmt"
)

// documentRow is the scan target shared by the repositories.
type documentRow struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}

func decode[T any](kind string, row documentRow) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(row.Doc, v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", kind, row.ID, err)
	}
	return v, nil
}
