// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// replySchema accepts any array, or an object whose known fields have the
// types the pipeline reads. Unknown fields are allowed.
const replySchema = `{
  "type": ["object", "array"],
  "properties": {
    "comment": {"type": "string"},
    "hashtags": {
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "images": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"quote": {"type": "string"}}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(replySchema))
	})
	return schema, schemaErr
}

// ShapeError lists the fields of a reply that have the wrong type.
type ShapeError struct {
	Errors []FieldError
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "unexpected reply shape: " + strings.Join(parts, "; ")
}

// checkShape parses doc and validates it against replySchema. Invalid JSON
// is reported as a parse error.
func checkShape(doc []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile reply schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("parse model reply: %w", err)
	}
	if result.Valid() {
		return nil
	}
	shapeErr := &ShapeError{}
	for _, re := range result.Errors() {
		shapeErr.Errors = append(shapeErr.Errors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return shapeErr
}
