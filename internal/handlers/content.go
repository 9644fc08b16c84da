// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP endpoints of the content service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"autogensocial/internal/models"
	"autogensocial/internal/pipeline"
)

// maxBodySize caps the trigger request body.
const maxBodySize = 64 << 10

// Runner executes the content pipeline for one template.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Response, error)
}

// PostReader reads post records. Get returns nil when the post does not exist.
type PostReader interface {
	Get(ctx context.Context, id string) (*models.Post, error)
}

// Content groups the pipeline endpoints.
type Content struct {
	runner Runner
	posts  PostReader
}

// NewContent creates the content handlers.
func NewContent(runner Runner, posts PostReader) *Content {
	return &Content{runner: runner, posts: posts}
}

// messageBody is the JSON shape of every non-success response.
type messageBody struct {
	Message string `json:"message"`
}

// Orchestrate runs the pipeline for the template named by brandId and
// templateId, taken from the query string first and the JSON body second.
func (h *Content) Orchestrate(w http.ResponseWriter, r *http.Request) {
	req, err := readRequest(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if msg := validateRequest(req.BrandID, req.TemplateID); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.runner.Run(r.Context(), req)
	if err != nil {
		status, msg := errorResponse(err)
		if status == http.StatusInternalServerError {
			slog.Error("orchestrate content failed",
				"brand_id", req.BrandID,
				"template_id", req.TemplateID,
				"error", err,
			)
		}
		writeMessage(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPost returns one post record as JSON, with access tokens removed.
func (h *Content) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		writeMessage(w, http.StatusBadRequest, "Post id is required.")
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		slog.Error("get post failed", "post_id", id, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if post == nil {
		writeMessage(w, http.StatusNotFound, "Post not found.")
		return
	}

	writeJSON(w, http.StatusOK, redact(post))
}

// redact returns a copy of p without platform access tokens.
func redact(p *models.Post) *models.Post {
	out := *p
	out.SocialAccounts = make([]models.SocialAccountEntry, len(p.SocialAccounts))
	for i, e := range p.SocialAccounts {
		e.Account.AccessToken = ""
		out.SocialAccounts[i] = e
	}
	return &out
}

// readRequest merges query parameters over an optional JSON body.
func readRequest(r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()
	req := pipeline.Request{
		BrandID:    q.Get("brandId"),
		TemplateID: q.Get("templateId"),
	}
	if req.BrandID != "" && req.TemplateID != "" {
		return req, nil
	}
	if r.Body == nil {
		return req, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return req, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return req, nil
	}

	var body pipeline.Request
	if err := json.Unmarshal(data, &body); err != nil {
		return req, err
	}
	if req.BrandID == "" {
		req.BrandID = body.BrandID
	}
	if req.TemplateID == "" {
		req.TemplateID = body.TemplateID
	}
	return req, nil
}

// errorResponse maps a pipeline error to a status code and message.
func errorResponse(err error) (int, string) {
	var runErr *pipeline.RunError
	switch {
	case errors.As(err, &runErr):
		return http.StatusInternalServerError, runErr.Error()
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, invalidInputMessage(err)
	case errors.Is(err, pipeline.ErrBrandNotFound):
		return http.StatusNotFound, "Brand not found."
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "ContentGenerationTemplateDocument not found."
	case errors.Is(err, models.ErrPersistence):
		return http.StatusInternalServerError, "Failed to create post document."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// invalidInputMessage strips the sentinel suffix from an invalid-input error.
func invalidInputMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+models.ErrInvalidInput.Error())
	if msg == "" || msg == err.Error() {
		return "Invalid request."
	}
	return msg + "."
}

// writeMessage writes a {"message": ...} JSON body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
