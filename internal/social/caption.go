// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package social

import (
	"strings"

	"autogensocial/internal/markdown"
	"autogensocial/internal/models"
)

// Caption builds the post text: the comment flattened to plain text,
// followed by the hashtags, space separated.
func Caption(content *models.GeneratedContent) string {
	if content == nil {
		return ""
	}
	parts := make([]string, 0, 1+len(content.Hashtags))
	if comment := markdown.ToPlainText(content.Comment); comment != "" {
		parts = append(parts, comment)
	}
	for _, tag := range content.Hashtags {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " ")
}
