// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline runs one template firing end to end: it records a post,
// generates content, renders and uploads images, publishes them and keeps
// the post record current at every transition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"autogensocial/internal/content"
	"autogensocial/internal/metrics"
	"autogensocial/internal/models"
)

// MaxImages caps the images rendered for one post.
const MaxImages = 20

// Stage names used for timing metrics.
const (
	StageGenerate = "generate"
	StageRender   = "render"
	StageUpload   = "upload"
	StagePost     = "post"
)

const unknownUser = "unknownUser"

// Lookup failures. Both match models.ErrNotFound.
var (
	ErrTemplateNotFound = fmt.Errorf("template %w", models.ErrNotFound)
	ErrBrandNotFound    = fmt.Errorf("brand %w", models.ErrNotFound)
)

// TemplateReader reads a template by ID within its brand partition.
type TemplateReader interface {
	Get(ctx context.Context, id, brandID string) (*models.Template, error)
}

// BrandReader reads a brand by ID.
type BrandReader interface {
	Get(ctx context.Context, id string) (*models.Brand, error)
}

// PostWriter persists post records.
type PostWriter interface {
	Create(ctx context.Context, p *models.Post) error
	Replace(ctx context.Context, p *models.Post) error
}

// Generator produces structured content from a prompt template.
type Generator interface {
	Generate(ctx context.Context, tmpl *models.PromptTemplate, cfg *content.PromptConfig) (*models.GeneratedContent, error)
}

// PromptDefaults supplies the prompt config for a content type.
type PromptDefaults interface {
	For(ct models.ContentType) *content.PromptConfig
}

// Renderer draws one quote image as PNG.
type Renderer interface {
	Render(ctx context.Context, tmpl *models.ImageTemplate, quote string) ([]byte, error)
}

// ImageStore uploads rendered images and returns their public URLs.
type ImageStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Poster publishes a post to its linked social accounts.
type Poster interface {
	Post(ctx context.Context, post *models.Post) *models.PostResult
}

// Request identifies the template to run.
type Request struct {
	BrandID    string `json:"brandId"`
	TemplateID string `json:"templateId"`
}

// Response is the outcome of a successful run.
type Response struct {
	PostID          string                   `json:"postId"`
	Status          models.PostStatus        `json:"status,omitempty"`
	ContentResponse *models.GeneratedContent `json:"contentResponse,omitempty"`
	ImageURLs       []string                 `json:"imageUrls,omitempty"`
	PostResult      *models.PostResult       `json:"postResult,omitempty"`
}

// RunError is a failure after the post record was created. The post has
// been moved to the error state with the same message.
type RunError struct {
	PostID string
	Err    error
}

func (e *RunError) Error() string {
	return "Failed to generate content: " + e.Err.Error()
}

func (e *RunError) Unwrap() error { return e.Err }

// Deps are the collaborators of a Coordinator. Images and Renderer may be
// nil when no template renders images.
type Deps struct {
	Templates TemplateReader
	Brands    BrandReader
	Posts     PostWriter
	Generator Generator
	Defaults  PromptDefaults
	Renderer  Renderer
	Images    ImageStore
	Poster    Poster
	Metrics   *metrics.Metrics
	Now       func() time.Time
	NewID     func() string
}

// Coordinator runs the content pipeline.
type Coordinator struct {
	d Deps
}

// New creates a Coordinator.
func New(d Deps) *Coordinator {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &Coordinator{d: d}
}

// Run executes the pipeline for one template. Lookup failures return
// ErrInvalidInput or ErrNotFound before any post exists; a failed post
// insert returns ErrPersistence. Later failures mark the post as errored
// and return a *RunError.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Response, error) {
	req.BrandID = strings.TrimSpace(req.BrandID)
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if req.BrandID == "" || req.TemplateID == "" {
		return nil, fmt.Errorf("brandId and templateId are required: %w", models.ErrInvalidInput)
	}
	log := slog.With("template_id", req.TemplateID, "brand_id", req.BrandID)

	tmpl, err := c.d.Templates.Get(ctx, req.TemplateID, req.BrandID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if tmpl == nil {
		log.Warn("template not found")
		return nil, fmt.Errorf("%s: %w", req.TemplateID, ErrTemplateNotFound)
	}

	brand, err := c.d.Brands.Get(ctx, req.BrandID)
	if err != nil {
		return nil, fmt.Errorf("load brand: %w", err)
	}
	if brand == nil {
		log.Warn("brand not found")
		return nil, fmt.Errorf("%s: %w", req.BrandID, ErrBrandNotFound)
	}

	prompt := tmpl.Settings.PromptTemplate
	if prompt == nil {
		log.Warn("template has no prompt template")
		return nil, fmt.Errorf("no promptTemplate found in template document: %w", models.ErrInvalidInput)
	}

	accounts := brand.ResolveAccounts(tmpl.Info.SocialAccounts)
	if len(accounts) == 0 {
		log.Warn("no social accounts mapped for posting")
	}
	if !hasInstagram(accounts) {
		log.Info("no valid instagram credentials, instagram posting will be skipped")
	}

	now := c.d.Now().UTC()
	post := &models.Post{
		ID:             c.d.NewID(),
		BrandID:        req.BrandID,
		TemplateID:     req.TemplateID,
		SocialAccounts: accounts,
		Status:         models.PostStatusGeneratingContent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.d.Posts.Create(ctx, post); err != nil {
		log.Error("failed to create post document", "error", err)
		return nil, err
	}
	log = log.With("post_id", post.ID)
	log.Info("post created", "status", post.Status)

	if err := c.execute(ctx, log, tmpl, brand, post); err != nil {
		log.Error("pipeline failed", "error", err)
		post.Fail(err.Error(), c.d.Now().UTC())
		if rerr := c.d.Posts.Replace(ctx, post); rerr != nil {
			log.Error("failed to record post error", "error", rerr)
		}
		c.d.Metrics.PostFinished(string(models.PostStatusError))
		return nil, &RunError{PostID: post.ID, Err: err}
	}

	c.d.Metrics.PostFinished(string(post.Status))
	log.Info("pipeline finished", "status", post.Status, "images", len(post.ImageURLs))
	return &Response{
		PostID:          post.ID,
		Status:          post.Status,
		ContentResponse: post.ContentResponse,
		ImageURLs:       post.ImageURLs,
		PostResult:      post.PostResult,
	}, nil
}

// execute runs generation, rendering and posting, persisting each status
// change. Any returned error fails the post.
func (c *Coordinator) execute(ctx context.Context, log *slog.Logger, tmpl *models.Template, brand *models.Brand, post *models.Post) error {
	settings := tmpl.Settings
	contentType := settings.ContentTypeOrDefault()

	cfg := &content.PromptConfig{}
	if c.d.Defaults != nil {
		cfg = c.d.Defaults.For(contentType)
	}
	cfg.NumImages = settings.NumImages()

	start := time.Now()
	generated, err := c.d.Generator.Generate(ctx, settings.PromptTemplate, cfg)
	c.d.Metrics.ObserveStage(StageGenerate, time.Since(start))
	if err != nil {
		return err
	}
	post.ContentResponse = generated
	log.Info("content generated", "content_type", contentType, "images", len(generated.Images))

	if contentType == models.ContentTypeImages && len(generated.Images) > 0 {
		urls, err := c.renderImages(ctx, log, settings.ImageTemplates(), generated.Images, brand, post)
		if err != nil {
			return err
		}
		post.ImageURLs = urls
	}

	if len(post.ImageURLs) == 0 {
		if err := post.Advance(models.PostStatusGenerated, c.d.Now().UTC()); err != nil {
			return err
		}
		return c.d.Posts.Replace(ctx, post)
	}

	if err := post.Advance(models.PostStatusPosting, c.d.Now().UTC()); err != nil {
		return err
	}
	if err := c.d.Posts.Replace(ctx, post); err != nil {
		return err
	}

	if c.d.Poster != nil {
		start = time.Now()
		post.PostResult = c.d.Poster.Post(ctx, post)
		c.d.Metrics.ObserveStage(StagePost, time.Since(start))
		log.Info("posting finished", "success", post.PostResult.Success, "message", post.PostResult.Message)
	}

	now := c.d.Now().UTC()
	if post.PostResult != nil && post.PostResult.Success {
		if err := post.Advance(models.PostStatusPosted, now); err != nil {
			return err
		}
	} else {
		post.UpdatedAt = now
	}
	return c.d.Posts.Replace(ctx, post)
}

// renderImages renders up to MaxImages quotes, one per image template, and
// uploads them. Entries with an empty quote are skipped.
func (c *Coordinator) renderImages(ctx context.Context, log *slog.Logger, templates []models.ImageTemplate, quotes []models.ImageQuote, brand *models.Brand, post *models.Post) ([]string, error) {
	n := min(len(quotes), len(templates), MaxImages)
	if n == 0 {
		log.Warn("no image templates configured, skipping rendering")
		return nil, nil
	}
	if c.d.Renderer == nil || c.d.Images == nil {
		return nil, errors.New("image rendering requires object storage")
	}
	if err := c.d.Images.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	userID := brand.UserID
	if userID == "" {
		userID = unknownUser
	}

	var urls []string
	for i := 0; i < n; i++ {
		quote := strings.TrimSpace(quotes[i].Quote)
		if quote == "" {
			log.Info("skipping image with missing quote", "index", i)
			continue
		}
		it := templates[i]
		if it.BrandDescription == "" {
			it.BrandDescription = brand.Description
		}

		start := time.Now()
		png, err := c.d.Renderer.Render(ctx, &it, quote)
		c.d.Metrics.ObserveStage(StageRender, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		key := ImageKey(userID, post.BrandID, post.ID, i+1)
		start = time.Now()
		url, err := c.d.Images.Upload(ctx, key, "image/png", png)
		c.d.Metrics.ObserveStage(StageUpload, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		log.Info("uploaded image", "index", i, "url", url)
		urls = append(urls, url)
	}
	return urls, nil
}

// ImageKey is the object key of the n-th (1-based) image of a post.
func ImageKey(userID, brandID, postID string, n int) string {
	return fmt.Sprintf("%s/%s/%s/%s-%d.png", userID, brandID, postID, postID, n)
}

func hasInstagram(accounts []models.SocialAccountEntry) bool {
	for _, a := range accounts {
		if a.Platform == models.PlatformInstagram && a.Account.InstagramReady() {
			return true
		}
	}
	return false
}
