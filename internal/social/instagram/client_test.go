// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphStub records calls and hands out sequential IDs.
type graphStub struct {
	mu       sync.Mutex
	calls    []stubCall
	failStep int // 1-based call index that fails; 0 = none
	noID     bool
}

type stubCall struct {
	Path string
	Body map[string]any
}

func (g *graphStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	g.calls = append(g.calls, stubCall{Path: r.URL.Path, Body: body})
	n := len(g.calls)

	w.Header().Set("Content-Type", "application/json")
	if n == g.failStep {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image URL","type":"OAuthException","code":9004}}`))
		return
	}
	if g.noID {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	_, _ = fmt.Fprintf(w, `{"id":"id-%d"}`, n)
}

func newStubClient(t *testing.T, stub *graphStub) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "token", "17841", srv.Client())
}

func TestPostImage(t *testing.T) {
	stub := &graphStub{}
	c := newStubClient(t, stub)

	id, err := c.PostImage(context.Background(), "https://cdn/x.png", "hello #tag")
	require.NoError(t, err)
	assert.Equal(t, "id-2", id)

	require.Len(t, stub.calls, 2)
	assert.Equal(t, "/17841/media", stub.calls[0].Path)
	assert.Equal(t, "https://cdn/x.png", stub.calls[0].Body["image_url"])
	assert.Equal(t, "hello #tag", stub.calls[0].Body["caption"])
	assert.Equal(t, "token", stub.calls[0].Body["access_token"])

	assert.Equal(t, "/17841/media_publish", stub.calls[1].Path)
	assert.Equal(t, "id-1", stub.calls[1].Body["creation_id"])
}

func TestPostCarousel(t *testing.T) {
	stub := &graphStub{}
	c := newStubClient(t, stub)

	id, err := c.PostCarousel(context.Background(), []string{"a.png", "b.png", "c.png"}, "cap")
	require.NoError(t, err)
	assert.Equal(t, "id-5", id)

	require.Len(t, stub.calls, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, true, stub.calls[i].Body["is_carousel_item"])
		assert.Nil(t, stub.calls[i].Body["caption"])
	}
	container := stub.calls[3].Body
	assert.Equal(t, "CAROUSEL", container["media_type"])
	assert.Equal(t, []any{"id-1", "id-2", "id-3"}, container["children"])
	assert.Equal(t, "cap", container["caption"])
	assert.Equal(t, "id-4", stub.calls[4].Body["creation_id"])
}

func TestPostCarousel_TooFew(t *testing.T) {
	c := NewClient("", "t", "a", nil)
	_, err := c.PostCarousel(context.Background(), []string{"one.png"}, "")
	assert.Error(t, err)
}

func TestPostCarousel_ChildFailureStops(t *testing.T) {
	stub := &graphStub{failStep: 2}
	c := newStubClient(t, stub)

	_, err := c.PostCarousel(context.Background(), []string{"a.png", "b.png", "c.png"}, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "create carousel item 2", apiErr.Step)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid image URL", apiErr.Message)
	assert.Len(t, stub.calls, 2, "no retry and no further calls")
}

func TestPostReel(t *testing.T) {
	stub := &graphStub{}
	c := newStubClient(t, stub)

	_, err := c.PostReel(context.Background(), "https://cdn/v.mp4", "watch")
	require.NoError(t, err)
	require.Len(t, stub.calls, 2)
	assert.Equal(t, "REELS", stub.calls[0].Body["media_type"])
	assert.Equal(t, "https://cdn/v.mp4", stub.calls[0].Body["video_url"])
}

func TestCall_MissingID(t *testing.T) {
	stub := &graphStub{noID: true}
	c := newStubClient(t, stub)

	_, err := c.PostImage(context.Background(), "x.png", "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "create media object", apiErr.Step)
	assert.Contains(t, apiErr.Error(), "no id")
}

func TestPublishFailure(t *testing.T) {
	stub := &graphStub{failStep: 2}
	c := newStubClient(t, stub)

	_, err := c.PostImage(context.Background(), "x.png", "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "publish", apiErr.Step)
}
