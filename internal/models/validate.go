// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTemplate checks a template document at the store boundary so the
// scheduler and pipeline only see well-formed schedules and image templates.
func ValidateTemplate(t *Template) error {
	if t == nil {
		return fmt.Errorf("template is nil: %w", ErrInvalidInput)
	}
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("template %s: %s: %w", t.ID, describe(err), ErrInvalidInput)
	}
	return nil
}

// describe flattens validator field errors into "Field: tag" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
