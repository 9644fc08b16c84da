// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Error categories shared by the pipeline stages. Callers wrap one of these
// with context via fmt.Errorf("...: %w", ...) and the HTTP layer maps them
// to status codes with errors.Is.
var (
	// ErrInvalidInput marks missing or malformed required fields (400).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an absent template or brand document (404).
	ErrNotFound = errors.New("not found")

	// ErrGeneration marks a failed model call or an unparseable model response.
	ErrGeneration = errors.New("content generation failed")

	// ErrRender marks an image composition failure. Background fetch errors
	// are recovered inside the compositor and never surface as ErrRender.
	ErrRender = errors.New("image render failed")

	// ErrPersistence marks a failed document write. It aborts the pipeline.
	ErrPersistence = errors.New("persistence failed")
)
