// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package instagram publishes media through the Instagram Graph API.
// Every post is created as a media container and then published by
// container ID; carousels first create one child container per image.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Graph API root used when none is configured.
const DefaultBaseURL = "https://graph.facebook.com/v19.0"

// MaxCarouselItems is the platform limit for carousel children.
const MaxCarouselItems = 10

// Client posts on behalf of one business account.
type Client struct {
	baseURL     string
	accessToken string
	accountID   string
	http        *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL and a
// nil httpClient gets a 60s timeout client.
func NewClient(baseURL, accessToken, accountID string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		accountID:   accountID,
		http:        httpClient,
	}
}

// APIError is a failed Graph API step.
type APIError struct {
	Step    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("instagram: %s failed (HTTP %d)", e.Step, e.Status)
	}
	return fmt.Sprintf("instagram: %s failed (HTTP %d): %s", e.Step, e.Status, e.Message)
}

// PostImage creates and publishes a single-image post. It returns the
// published media ID.
func (c *Client) PostImage(ctx context.Context, imageURL, caption string) (string, error) {
	slog.Info("instagram single image post", "account", c.accountID)
	container, err := c.createContainer(ctx, "create media object", map[string]any{
		"image_url": imageURL,
		"caption":   caption,
	})
	if err != nil {
		return "", err
	}
	return c.publish(ctx, container)
}

// PostCarousel creates one child container per image, a carousel container
// holding them and publishes it.
func (c *Client) PostCarousel(ctx context.Context, imageURLs []string, caption string) (string, error) {
	if len(imageURLs) < 2 {
		return "", fmt.Errorf("instagram: carousel needs at least 2 images, got %d", len(imageURLs))
	}
	if len(imageURLs) > MaxCarouselItems {
		slog.Warn("carousel truncated", "images", len(imageURLs), "limit", MaxCarouselItems)
		imageURLs = imageURLs[:MaxCarouselItems]
	}
	slog.Info("instagram carousel post", "account", c.accountID, "images", len(imageURLs))

	children := make([]string, 0, len(imageURLs))
	for i, u := range imageURLs {
		id, err := c.createContainer(ctx, fmt.Sprintf("create carousel item %d", i+1), map[string]any{
			"image_url":        u,
			"is_carousel_item": true,
		})
		if err != nil {
			return "", err
		}
		children = append(children, id)
	}

	container, err := c.createContainer(ctx, "create carousel container", map[string]any{
		"media_type": "CAROUSEL",
		"children":   children,
		"caption":    caption,
	})
	if err != nil {
		return "", err
	}
	return c.publish(ctx, container)
}

// PostReel creates a REELS container for a hosted video and publishes it.
func (c *Client) PostReel(ctx context.Context, videoURL, caption string) (string, error) {
	slog.Info("instagram reel post", "account", c.accountID)
	container, err := c.createContainer(ctx, "create reel container", map[string]any{
		"media_type": "REELS",
		"video_url":  videoURL,
		"caption":    caption,
	})
	if err != nil {
		return "", err
	}
	return c.publish(ctx, container)
}

func (c *Client) createContainer(ctx context.Context, step string, fields map[string]any) (string, error) {
	return c.call(ctx, step, "/"+c.accountID+"/media", fields)
}

func (c *Client) publish(ctx context.Context, containerID string) (string, error) {
	return c.call(ctx, "publish", "/"+c.accountID+"/media_publish", map[string]any{
		"creation_id": containerID,
	})
}

// graphResponse covers both the success and the error envelope.
type graphResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// call POSTs a JSON body and returns the "id" of the response. A non-2xx
// status or a missing id is an APIError.
func (c *Client) call(ctx context.Context, step, path string, fields map[string]any) (string, error) {
	fields["access_token"] = c.accessToken
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("instagram: %s: marshal: %w", step, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("instagram: %s: %w", step, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("instagram: %s: %w", step, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("instagram: %s: read body: %w", step, err)
	}

	var out graphResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || out.ID == "" {
		apiErr := &APIError{Step: step, Status: resp.StatusCode}
		switch {
		case out.Error != nil:
			apiErr.Message = out.Error.Message
		case out.ID == "" && resp.StatusCode < 300:
			apiErr.Message = "response has no id"
		}
		slog.Error("instagram api call failed", "step", step, "status", resp.StatusCode, "error", apiErr.Message)
		return "", apiErr
	}
	return out.ID, nil
}
