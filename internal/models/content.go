// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GeneratedContent is the structured model response. The raw JSON is kept
// verbatim and re-emitted on marshal; the known fields are decoded from it
// when the response is an object.
type GeneratedContent struct {
	Comment  string
	Hashtags []string
	Images   []ImageQuote
	Raw      json.RawMessage
}

// ImageQuote is one per-image entry of the response.
type ImageQuote struct {
	Quote string `json:"quote"`
}

// MarshalJSON emits the raw model response.
func (c GeneratedContent) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return []byte("null"), nil
	}
	return c.Raw, nil
}

// UnmarshalJSON accepts any JSON object or array. Objects populate Comment,
// Hashtags and Images when present; a present field of the wrong type is an
// error.
func (c *GeneratedContent) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return fmt.Errorf("content must be a JSON object or array")
	}
	c.Raw = append(json.RawMessage(nil), trimmed...)
	if trimmed[0] != '{' {
		return nil
	}

	var fields struct {
		Comment  json.RawMessage `json:"comment"`
		Hashtags json.RawMessage `json:"hashtags"`
		Images   []ImageQuote    `json:"images"`
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}
	c.Images = fields.Images
	if len(fields.Comment) > 0 {
		if err := json.Unmarshal(fields.Comment, &c.Comment); err != nil {
			return fmt.Errorf("content comment must be a string: %w", err)
		}
	}
	hashtags, err := decodeHashtags(fields.Hashtags)
	if err != nil {
		return err
	}
	c.Hashtags = hashtags
	return nil
}

// decodeHashtags accepts ["#a","#b"] or "#a #b".
func decodeHashtags(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("content hashtags must be a string or a list of strings: %w", err)
	}
	return strings.Fields(s), nil
}
