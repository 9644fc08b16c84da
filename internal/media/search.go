// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media finds background images for rendered posts.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"autogensocial/internal/models"
)

// Query describes the post an image is wanted for.
type Query struct {
	MediaType           models.MediaType
	Quote               string
	TemplateDescription string
	BrandDescription    string
}

// Text joins the quote and descriptions into one search string.
func (q Query) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{q.Quote, q.TemplateDescription, q.BrandDescription} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Searcher looks up images through the Google Custom Search JSON API.
type Searcher struct {
	svc *customsearch.Service
	cx  string
}

// NewSearcher creates a searcher. Returns (nil, nil) when the API key or
// engine ID is empty; a nil searcher finds nothing.
func NewSearcher(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*Searcher, error) {
	if apiKey == "" || engineID == "" {
		return nil, nil
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Searcher{svc: svc, cx: engineID}, nil
}

// Find returns the URL of the most relevant image, or "" when nothing
// matched. Only "online" queries reach the search API; uploaded media has
// no index yet and yields no result.
func (s *Searcher) Find(ctx context.Context, q Query) (string, error) {
	if s == nil || q.MediaType != models.MediaOnline {
		return "", nil
	}
	text := q.Text()
	if text == "" {
		return "", nil
	}

	resp, err := s.svc.Cse.List().
		Cx(s.cx).
		Q(text).
		SearchType("image").
		ImgType("photo").
		Rights("cc_publicdomain").
		Safe("active").
		Num(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("image search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		slog.Debug("image search returned no results", "query", text)
		return "", nil
	}
	return resp.Items[0].Link, nil
}
