// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// FunctionKeyHeader carries the shared secret of the trigger endpoint.
// The "code" query parameter is accepted as well.
const FunctionKeyHeader = "x-functions-key"

// RequireFunctionKey rejects requests that do not present key. An empty
// key disables the check.
func RequireFunctionKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		want := []byte(key)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(FunctionKeyHeader)
			if got == "" {
				got = r.URL.Query().Get("code")
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				slog.Warn("rejected request without valid function key",
					"path", r.URL.Path,
					"remote", clientIP(r),
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Unauthorized."}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
