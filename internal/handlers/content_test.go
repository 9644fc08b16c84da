// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogensocial/internal/models"
	"autogensocial/internal/pipeline"
)

type fakeRunner struct {
	got  []pipeline.Request
	resp *pipeline.Response
	err  error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Response, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

type fakePosts struct {
	posts map[string]*models.Post
	err   error
}

func (f *fakePosts) Get(_ context.Context, id string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts[id], nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestOrchestrate_QueryParams(t *testing.T) {
	runner := &fakeRunner{resp: &pipeline.Response{
		PostID:    "p1",
		Status:    models.PostStatusPosted,
		ImageURLs: []string{"https://cdn.example/a.png"},
	}}
	h := NewContent(runner, &fakePosts{})

	req := httptest.NewRequest(http.MethodPost, "/orchestrate-content?brandId=b1&templateId=t1", nil)
	rec := httptest.NewRecorder()
	h.Orchestrate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Len(t, runner.got, 1)
	assert.Equal(t, pipeline.Request{BrandID: "b1", TemplateID: "t1"}, runner.got[0])

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.PostID)
	assert.Equal(t, models.PostStatusPosted, resp.Status)
	assert.Equal(t, []string{"https://cdn.example/a.png"}, resp.ImageURLs)
}

func TestOrchestrate_JSONBody(t *testing.T) {
	runner := &fakeRunner{resp: &pipeline.Response{PostID: "p2"}}
	h := NewContent(runner, &fakePosts{})

	req := httptest.NewRequest(http.MethodPost, "/orchestrate-content",
		strings.NewReader(`{"brandId":"b2","templateId":"t2"}`))
	rec := httptest.NewRecorder()
	h.Orchestrate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runner.got, 1)
	assert.Equal(t, pipeline.Request{BrandID: "b2", TemplateID: "t2"}, runner.got[0])
}

func TestOrchestrate_QueryOverridesBody(t *testing.T) {
	runner := &fakeRunner{resp: &pipeline.Response{PostID: "p3"}}
	h := NewContent(runner, &fakePosts{})

	req := httptest.NewRequest(http.MethodPost, "/orchestrate-content?brandId=fromQuery",
		strings.NewReader(`{"brandId":"fromBody","templateId":"t3"}`))
	rec := httptest.NewRecorder()
	h.Orchestrate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runner.got, 1)
	assert.Equal(t, pipeline.Request{BrandID: "fromQuery", TemplateID: "t3"}, runner.got[0])
}

func TestOrchestrate_MissingParams(t *testing.T) {
	runner := &fakeRunner{}
	h := NewContent(runner, &fakePosts{})

	req := httptest.NewRequest(http.MethodPost, "/orchestrate-content?brandId=b1", nil)
	rec := httptest.NewRecorder()
	h.Orchestrate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "brandId and templateId are required.", decodeMessage(t, rec))
	assert.Empty(t, runner.got, "runner must not be called")
}

func TestOrchestrate_MalformedBody(t *testing.T) {
	runner := &fakeRunner{}
	h := NewContent(runner, &fakePosts{})

	req := httptest.NewRequest(http.MethodPost, "/orchestrate-content", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Orchestrate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body must be valid JSON.", decodeMessage(t, rec))
	assert.Empty(t, runner.got)
}

func TestOrchestrate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "missing prompt template",
			err:     fmt.Errorf("no promptTemplate found in template document: %w", models.ErrInvalidInput),
			status:  http.StatusBadRequest,
			message: "no promptTemplate found in template document.",
		},
		{
			name:    "template not found",
			err:     fmt.Errorf("template t1: %w", models.ErrNotFound),
			status:  http.StatusNotFound,
			message: "ContentGenerationTemplateDocument not found.",
		},
		{
			name:    "brand not found",
			err:     fmt.Errorf("b1: %w", pipeline.ErrBrandNotFound),
			status:  http.StatusNotFound,
			message: "Brand not found.",
		},
		{
			name:    "template not found via pipeline",
			err:     fmt.Errorf("t1: %w", pipeline.ErrTemplateNotFound),
			status:  http.StatusNotFound,
			message: "ContentGenerationTemplateDocument not found.",
		},
		{
			name:    "post insert failed",
			err:     fmt.Errorf("create post p1: %w: %w", models.ErrPersistence, errors.New("conn refused")),
			status:  http.StatusInternalServerError,
			message: "Failed to create post document.",
		},
		{
			name:    "pipeline failed after post creation",
			err:     &pipeline.RunError{PostID: "p1", Err: errors.New("model timeout")},
			status:  http.StatusInternalServerError,
			message: "Failed to generate content: model timeout",
		},
		{
			name:    "unexpected error",
			err:     errors.New("load template: boom"),
			status:  http.StatusInternalServerError,
			message: "Internal server error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewContent(&fakeRunner{err: tt.err}, &fakePosts{})

			req := httptest.NewRequest(http.MethodPost, "/orchestrate-content?brandId=b1&templateId=t1", nil)
			rec := httptest.NewRecorder()
			h.Orchestrate(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
		})
	}
}

func getPost(h *Content, id string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/posts/{id}", h.GetPost)
	req := httptest.NewRequest(http.MethodGet, "/posts/"+id, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetPost(t *testing.T) {
	posts := &fakePosts{posts: map[string]*models.Post{
		"p1": {
			ID:     "p1",
			Status: models.PostStatusGenerated,
			SocialAccounts: []models.SocialAccountEntry{{
				Platform: models.PlatformInstagram,
				Account:  models.AccountCredentials{AccessToken: "secret", PlatformAccountID: "123"},
			}},
		},
	}}
	h := NewContent(&fakeRunner{}, posts)

	t.Run("found, tokens redacted", func(t *testing.T) {
		rec := getPost(h, "p1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")

		var post models.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
		assert.Equal(t, "p1", post.ID)
		require.Len(t, post.SocialAccounts, 1)
		assert.Equal(t, "123", post.SocialAccounts[0].Account.PlatformAccountID)

		assert.Equal(t, "secret", posts.posts["p1"].SocialAccounts[0].Account.AccessToken,
			"stored post must not be modified")
	})

	t.Run("not found", func(t *testing.T) {
		rec := getPost(h, "missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Post not found.", decodeMessage(t, rec))
	})

	t.Run("store error", func(t *testing.T) {
		rec := getPost(NewContent(&fakeRunner{}, &fakePosts{err: errors.New("db down")}), "p1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error.", decodeMessage(t, rec))
	})
}
