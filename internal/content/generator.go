// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content composes prompts from a template and its per-content-type
// defaults, calls the language model and parses the structured response.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"autogensocial/internal/ai"
	"autogensocial/internal/models"
	"autogensocial/internal/rng"
)

// Fallbacks used when neither the prompt config nor the template sets a value.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 100
	DefaultModel       = "gpt-4.1"
)

const numImagesToken = "{numImages}"

// Completer is the language-model call the generator depends on.
// *ai.Registry satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (string, error)
}

// PromptConfig carries the per-content-type overrides applied on top of a
// prompt template. Nil pointers and empty strings mean unset.
type PromptConfig struct {
	SystemPrompt string   `yaml:"systemPrompt" json:"systemPrompt,omitempty"`
	Temperature  *float64 `yaml:"temperature" json:"temperature,omitempty"`
	MaxTokens    *int     `yaml:"maxTokens" json:"maxTokens,omitempty"`
	Model        string   `yaml:"model" json:"model,omitempty"`

	// NumImages is the image count taken from the template's content item.
	NumImages *int `yaml:"-" json:"numImages,omitempty"`
}

// Generator turns a prompt template into generated content.
type Generator struct {
	completer Completer
	rnd       rng.Source
}

// NewGenerator creates a generator. rnd picks variable values; pass a
// seeded rng.New in tests.
func NewGenerator(completer Completer, rnd rng.Source) *Generator {
	if rnd == nil {
		rnd = rng.NewTimeSeeded()
	}
	return &Generator{completer: completer, rnd: rnd}
}

// Generate composes the request, calls the model and parses its reply as
// strict JSON. A missing user prompt or config is ErrInvalidInput; a failed
// call or an unparseable reply is ErrGeneration with the cause attached.
func (g *Generator) Generate(ctx context.Context, tmpl *models.PromptTemplate, cfg *PromptConfig) (*models.GeneratedContent, error) {
	if tmpl == nil || strings.TrimSpace(tmpl.UserPrompt) == "" {
		return nil, fmt.Errorf("prompt template and user prompt are required: %w", models.ErrInvalidInput)
	}
	if cfg == nil {
		return nil, fmt.Errorf("prompt config is required: %w", models.ErrInvalidInput)
	}

	req := Compose(tmpl, cfg, g.rnd)
	slog.Debug("content request composed",
		"model", req.Model,
		"temperature", req.Temperature,
		"max_tokens", req.MaxTokens,
		"has_system_prompt", req.SystemPrompt != "",
	)

	reply, err := g.completer.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrGeneration, err)
	}
	out, err := Parse(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrGeneration, err)
	}
	return out, nil
}

// Compose resolves every request parameter. Config values win over the
// template's, which win over the package defaults.
func Compose(tmpl *models.PromptTemplate, cfg *PromptConfig, rnd rng.Source) ai.Request {
	req := ai.Request{
		SystemPrompt: firstNonEmpty(cfg.SystemPrompt, tmpl.SystemPrompt),
		Model:        firstNonEmpty(cfg.Model, tmpl.Model, DefaultModel),
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		JSON:         true,
	}
	switch {
	case cfg.Temperature != nil:
		req.Temperature = *cfg.Temperature
	case tmpl.Temperature != nil:
		req.Temperature = *tmpl.Temperature
	}
	switch {
	case cfg.MaxTokens != nil && *cfg.MaxTokens > 0:
		req.MaxTokens = *cfg.MaxTokens
	case tmpl.MaxTokens != nil && *tmpl.MaxTokens > 0:
		req.MaxTokens = *tmpl.MaxTokens
	}

	if strings.Contains(req.SystemPrompt, numImagesToken) {
		n := "1"
		switch {
		case cfg.NumImages != nil:
			n = strconv.Itoa(*cfg.NumImages)
		case tmpl.NumImages != nil:
			n = strconv.Itoa(*tmpl.NumImages)
		}
		req.SystemPrompt = strings.ReplaceAll(req.SystemPrompt, numImagesToken, n)
	}

	req.UserPrompt = Substitute(tmpl.UserPrompt, tmpl.Variables, rnd)
	return req
}

// Substitute replaces every {name} token of each declared variable with one
// value picked uniformly at random. Variables without a name or without
// candidate values leave their tokens untouched. Replacement is a single pass
// over the original prompt, so tokens inside a picked value stay literal.
func Substitute(prompt string, vars []models.PromptVariable, rnd rng.Source) string {
	pairs := make([]string, 0, 2*len(vars))
	for _, v := range vars {
		if v.Name == "" {
			continue
		}
		value, ok := rng.Pick(rnd, v.Values)
		if !ok {
			continue
		}
		pairs = append(pairs, "{"+v.Name+"}", value)
	}
	if len(pairs) == 0 {
		return prompt
	}
	return strings.NewReplacer(pairs...).Replace(prompt)
}

// ErrEmptyReply is returned by Parse when the model sent no content.
var ErrEmptyReply = errors.New("no content returned from model")

// Parse decodes a model reply. The reply must be a JSON object or array
// and, when it is an object, match the expected content shape.
func Parse(reply string) (*models.GeneratedContent, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, ErrEmptyReply
	}
	if err := checkShape([]byte(reply)); err != nil {
		return nil, err
	}
	var out models.GeneratedContent
	if err := out.UnmarshalJSON([]byte(reply)); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return &out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
