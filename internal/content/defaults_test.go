// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogensocial/internal/models"
)

func TestLoadDefaults_Embedded(t *testing.T) {
	d, err := LoadDefaults("")
	require.NoError(t, err)

	for _, ct := range []models.ContentType{models.ContentTypeText, models.ContentTypeImages, models.ContentTypeVideo} {
		cfg := d.For(ct)
		require.NotNil(t, cfg)
		assert.NotEmpty(t, cfg.SystemPrompt, ct)
	}
	assert.Contains(t, d.For(models.ContentTypeImages).SystemPrompt, "{numImages}")
}

func TestLoadDefaults_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
images:
  systemPrompt: "make {numImages}"
  temperature: 0.3
  maxTokens: 250
`), 0o600))

	d, err := LoadDefaults(path)
	require.NoError(t, err)

	cfg := d.For(models.ContentTypeImages)
	assert.Equal(t, "make {numImages}", cfg.SystemPrompt)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.3, *cfg.Temperature)
	require.NotNil(t, cfg.MaxTokens)
	assert.Equal(t, 250, *cfg.MaxTokens)
	assert.Empty(t, cfg.Model)
}

func TestDefaultsFor_MissingType(t *testing.T) {
	d, err := ParseDefaults([]byte("text:\n  model: m\n"))
	require.NoError(t, err)

	cfg := d.For(models.ContentTypeVideo)
	require.NotNil(t, cfg)
	assert.Equal(t, PromptConfig{}, *cfg)
}

func TestDefaultsFor_ReturnsCopy(t *testing.T) {
	d, err := ParseDefaults([]byte("text:\n  model: m\n"))
	require.NoError(t, err)

	cfg := d.For(models.ContentTypeText)
	cfg.Model = "changed"
	assert.Equal(t, "m", d.For(models.ContentTypeText).Model)
}

func TestLoadDefaults_Errors(t *testing.T) {
	_, err := LoadDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseDefaults([]byte("text: [unclosed"))
	assert.Error(t, err)
}
