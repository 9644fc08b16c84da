// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Just words.", "Just words."},
		{"emphasis", "**Monday** _motivation_ for ~~no one~~ you", "Monday motivation for no one you"},
		{"link label", "Read [our story](https://example.com/about) today", "Read our story today"},
		{"autolink", "Visit https://example.com now", "Visit https://example.com now"},
		{"soft break", "line one\nline two", "line one line two"},
		{"paragraphs", "First.\n\nSecond.", "First.\n\nSecond."},
		{"heading and list", "# Title\n\n- one\n- two", "Title\n\none\n\ntwo"},
		{"inline code", "use `go test`", "use go test"},
		{"raw html dropped", "hi <b>there</b>", "hi there"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPlainText(tt.in))
		})
	}
}
