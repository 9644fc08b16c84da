// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiProvider implements the Provider interface on the Gemini SDK. The
// SDK client is created on first use and reused.
type geminiProvider struct {
	config ProviderConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

// newGemini creates a new Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	return &geminiProvider{config: cfg}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) connect() (*genai.Client, error) {
	p.once.Do(func() {
		opts := []option.ClientOption{option.WithAPIKey(p.config.APIKey)}
		if p.config.BaseURL != "" {
			opts = append(opts, option.WithEndpoint(p.config.BaseURL))
		}
		p.client, p.initErr = genai.NewClient(context.Background(), opts...)
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("gemini client: %w", p.initErr)
	}
	return p.client, nil
}

// modelFor keeps a Gemini model named by the request and otherwise uses the
// configured one, since template defaults name OpenAI models.
func (p *geminiProvider) modelFor(requested string) string {
	if strings.HasPrefix(requested, "gemini") {
		return requested
	}
	return p.config.Model
}

// Complete generates content for the request.
func (p *geminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	client, err := p.connect()
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(p.modelFor(req.Model))
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	if req.JSON {
		text = cleanJSONBlock(text)
	}
	return text, nil
}

// Close releases the SDK client.
func (p *geminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code fences around JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
