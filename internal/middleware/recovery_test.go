// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverer(t *testing.T) {
	panics := map[string]any{
		"string": "something went wrong",
		"int":    42,
		"error":  errors.New("boom"),
	}
	for name, value := range panics {
		t.Run("catches "+name+" panic", func(t *testing.T) {
			captureLogs(t)
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(value)
			})

			rr := httptest.NewRecorder()
			assert.NotPanics(t, func() {
				Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orchestrate-content", nil))
			})

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"message":"Internal server error."}`, rr.Body.String())
		})
	}

	t.Run("re-panics on ErrAbortHandler", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})
		assert.Panics(t, func() {
			Recoverer(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRecovererNoPanic(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "test-value")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(method, "/health", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "ok", rr.Body.String())
			assert.Equal(t, "test-value", rr.Header().Get("X-Custom"))
		})
	}
}
