// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package social posts generated content to the social accounts linked to
// a post.
package social

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"autogensocial/internal/metrics"
	"autogensocial/internal/models"
	"autogensocial/internal/social/instagram"
)

// InstagramPoster is the subset of the Instagram client the dispatcher
// uses. *instagram.Client satisfies it.
type InstagramPoster interface {
	PostImage(ctx context.Context, imageURL, caption string) (string, error)
	PostCarousel(ctx context.Context, imageURLs []string, caption string) (string, error)
	PostReel(ctx context.Context, videoURL, caption string) (string, error)
}

// InstagramFactory builds a poster for one account.
type InstagramFactory func(accessToken, accountID string) InstagramPoster

// Dispatcher routes a post to each of its social accounts in order.
type Dispatcher struct {
	instagram InstagramFactory
	metrics   *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInstagramFactory replaces the Graph API client, mainly for tests.
func WithInstagramFactory(f InstagramFactory) Option {
	return func(d *Dispatcher) { d.instagram = f }
}

// WithMetrics records per-platform outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a dispatcher that talks to the Graph API at
// graphURL with httpClient.
func NewDispatcher(graphURL string, httpClient *http.Client, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		instagram: func(token, accountID string) InstagramPoster {
			return instagram.NewClient(graphURL, token, accountID, httpClient)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Post publishes the post to every linked account. Failures never abort
// the loop. The returned Success and Message are those of the last
// account that produced an outcome; Platforms lists every outcome in
// order.
func (d *Dispatcher) Post(ctx context.Context, post *models.Post) *models.PostResult {
	result := &models.PostResult{Message: "No platforms posted."}
	if post == nil || len(post.SocialAccounts) == 0 {
		slog.Info("no social accounts specified")
		result.Message = "No social accounts specified."
		return result
	}

	for idx, entry := range post.SocialAccounts {
		var outcome models.PlatformResult
		switch {
		case entry.Platform == "":
			slog.Error("missing platform in social account entry", "post_id", post.ID, "index", idx)
			outcome = models.PlatformResult{Message: fmt.Sprintf("Missing platform in socialAccounts entry at index %d.", idx)}
		case entry.Account.IsEmpty():
			slog.Error("missing account details", "post_id", post.ID, "platform", entry.Platform, "index", idx)
			outcome = models.PlatformResult{
				Platform: string(entry.Platform),
				Message:  fmt.Sprintf("Missing account details for platform: %s at index %d.", entry.Platform, idx),
			}
		case entry.Platform == models.PlatformInstagram:
			outcome = d.postInstagram(ctx, post, entry.Account)
		default:
			slog.Warn("unsupported platform skipped", "post_id", post.ID, "platform", entry.Platform)
			result.Platforms = append(result.Platforms, models.PlatformResult{
				Platform: string(entry.Platform),
				Message:  fmt.Sprintf("Unsupported platform: %s.", entry.Platform),
			})
			continue
		}

		d.metrics.PlatformResult(outcome.Platform, outcome.Success)
		result.Platforms = append(result.Platforms, outcome)
		result.Success = outcome.Success
		result.Message = outcome.Message
	}
	return result
}

// postInstagram picks the posting strategy: a video becomes a reel, one
// image a single post, several images a carousel.
func (d *Dispatcher) postInstagram(ctx context.Context, post *models.Post, acct models.AccountCredentials) models.PlatformResult {
	res := models.PlatformResult{Platform: string(models.PlatformInstagram)}
	if !acct.InstagramReady() {
		slog.Error("missing instagram credentials", "post_id", post.ID)
		res.Message = "Missing Instagram credentials."
		return res
	}

	client := d.instagram(acct.AccessToken, acct.AccountIdentifier())
	caption := Caption(post.ContentResponse)

	var (
		err     error
		success string
	)
	switch strategy := Strategy(post); strategy {
	case StrategyReel:
		_, err = client.PostReel(ctx, post.VideoURL, caption)
		success = "Posted reel to Instagram."
	case StrategySingle:
		_, err = client.PostImage(ctx, post.ImageURLs[0], caption)
		success = "Posted single image to Instagram."
	case StrategyCarousel:
		_, err = client.PostCarousel(ctx, post.ImageURLs, caption)
		success = "Posted carousel to Instagram."
	default:
		slog.Error("nothing to post to instagram", "post_id", post.ID)
		res.Message = "No images or video to post to Instagram."
		return res
	}

	if err != nil {
		res.Message = err.Error()
		return res
	}
	slog.Info("posted to instagram", "post_id", post.ID, "images", len(post.ImageURLs))
	res.Success = true
	res.Message = success
	return res
}

// PostStrategy is how a post is published on a platform.
type PostStrategy string

const (
	StrategyNone     PostStrategy = "none"
	StrategyReel     PostStrategy = "reel"
	StrategySingle   PostStrategy = "single"
	StrategyCarousel PostStrategy = "carousel"
)

// Strategy picks the posting strategy from the post's media.
func Strategy(post *models.Post) PostStrategy {
	switch {
	case post.VideoURL != "":
		return StrategyReel
	case len(post.ImageURLs) == 1:
		return StrategySingle
	case len(post.ImageURLs) > 1:
		return StrategyCarousel
	default:
		return StrategyNone
	}
}
