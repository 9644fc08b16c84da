// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// maxIDLen bounds the document IDs accepted on the trigger endpoint.
const maxIDLen = 200

// validateRequest checks the trigger parameters and returns the first
// error found, or "" when they are usable.
func validateRequest(brandID, templateID string) string {
	brandID = strings.TrimSpace(brandID)
	templateID = strings.TrimSpace(templateID)
	if brandID == "" || templateID == "" {
		return "brandId and templateId are required."
	}
	if utf8.RuneCountInString(brandID) > maxIDLen {
		return "brandId is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(templateID) > maxIDLen {
		return "templateId is too long (max 200 characters)."
	}
	return ""
}
