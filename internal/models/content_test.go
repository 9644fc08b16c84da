// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedContent_UnmarshalObject(t *testing.T) {
	raw := `{"comment":"Stay curious","hashtags":["#learn","#grow"],"images":[{"quote":"One"},{"quote":"Two"}],"extra":1}`

	var c GeneratedContent
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "Stay curious", c.Comment)
	assert.Equal(t, []string{"#learn", "#grow"}, c.Hashtags)
	require.Len(t, c.Images, 2)
	assert.Equal(t, "Two", c.Images[1].Quote)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out), "raw response is preserved")
}

func TestGeneratedContent_HashtagString(t *testing.T) {
	var c GeneratedContent
	require.NoError(t, json.Unmarshal([]byte(`{"hashtags":"#a #b"}`), &c))
	assert.Equal(t, []string{"#a", "#b"}, c.Hashtags)
}

func TestGeneratedContent_Array(t *testing.T) {
	var c GeneratedContent
	require.NoError(t, json.Unmarshal([]byte(`[1,2,3]`), &c))
	assert.Empty(t, c.Comment)
	assert.JSONEq(t, `[1,2,3]`, string(c.Raw))
}

func TestGeneratedContent_RejectsScalars(t *testing.T) {
	for _, raw := range []string{`"text"`, `42`, `true`} {
		var c GeneratedContent
		assert.Error(t, json.Unmarshal([]byte(raw), &c), raw)
	}
}

func TestGeneratedContent_RejectsMistypedFields(t *testing.T) {
	tests := map[string]string{
		"numeric comment":  `{"comment":42}`,
		"object comment":   `{"comment":{"text":"hi"}}`,
		"numeric hashtags": `{"hashtags":7}`,
		"mixed hashtags":   `{"hashtags":["#a",1]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var c GeneratedContent
			assert.Error(t, json.Unmarshal([]byte(raw), &c))
		})
	}
}

func TestGeneratedContent_NullFields(t *testing.T) {
	var c GeneratedContent
	require.NoError(t, json.Unmarshal([]byte(`{"comment":null,"hashtags":null}`), &c))
	assert.Empty(t, c.Comment)
	assert.Empty(t, c.Hashtags)
}
