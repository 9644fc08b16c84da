// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"autogensocial/internal/models"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// Defaults maps a content type to its prompt config.
type Defaults map[models.ContentType]PromptConfig

// LoadDefaults reads prompt defaults from path, or the embedded defaults
// when path is empty.
func LoadDefaults(path string) (Defaults, error) {
	data := embeddedDefaults
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt defaults %s: %w", path, err)
		}
		data = b
	}
	return ParseDefaults(data)
}

// ParseDefaults decodes a YAML prompt defaults document.
func ParseDefaults(data []byte) (Defaults, error) {
	d := Defaults{}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse prompt defaults: %w", err)
	}
	return d, nil
}

// For returns a copy of the config for a content type. A missing entry
// yields an empty config; the generator then falls back to its own
// defaults.
func (d Defaults) For(ct models.ContentType) *PromptConfig {
	cfg, ok := d[ct]
	if !ok {
		slog.Warn("no prompt defaults for content type", "content_type", ct)
		return &PromptConfig{}
	}
	if cfg.SystemPrompt == "" {
		slog.Info("prompt defaults missing key", "content_type", ct, "key", "systemPrompt")
	}
	if cfg.Model == "" {
		slog.Info("prompt defaults missing key", "content_type", ct, "key", "model")
	}
	return &cfg
}
