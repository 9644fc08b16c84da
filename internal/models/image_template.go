// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AspectRatio selects the output canvas size.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "square"
	AspectPortrait  AspectRatio = "portrait"
	AspectLandscape AspectRatio = "landscape"
	AspectStory     AspectRatio = "story"
)

// MediaType selects where the image background comes from.
type MediaType string

const (
	MediaColor    MediaType = "color"
	MediaUploaded MediaType = "uploaded"
	MediaSet      MediaType = "set"
	MediaOnline   MediaType = "online"
)

// ImageTemplate describes how to render one image of a post.
type ImageTemplate struct {
	AspectRatio      AspectRatio `json:"aspectRatio,omitempty"`
	MediaType        MediaType   `json:"mediaType,omitempty" validate:"omitempty,oneof=color uploaded set online"`
	SetURL           string      `json:"setUrl,omitempty"`
	Description      string      `json:"description,omitempty"`
	BrandDescription string      `json:"brandDescription,omitempty"`
	VisualStyle      VisualStyle `json:"visualStyleObj"`
}

// VisualStyle is a set of interchangeable themes; one is picked per render.
type VisualStyle struct {
	Themes []Theme `json:"themes,omitempty"`
}

// Theme is one visual variant: background color, optional overlay box and
// the text style.
type Theme struct {
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	OverlayBox      *OverlayBox `json:"overlayBox,omitempty"`
	TextStyle       *TextStyle  `json:"textStyle,omitempty"`
}

// OverlayBox is a translucent rectangle drawn behind the text block.
// Transparency is the fill opacity in [0,1].
type OverlayBox struct {
	HorizontalLocation string   `json:"horizontalLocation,omitempty"`
	VerticalLocation   string   `json:"verticalLocation,omitempty"`
	Color              string   `json:"color,omitempty"`
	Transparency       *float64 `json:"transparency,omitempty"`
}

// TextStyle controls the quote's font, color, alignment and outline.
// Transparency is the text opacity in [0,1].
type TextStyle struct {
	Font         *Font    `json:"font,omitempty"`
	Alignment    string   `json:"alignment,omitempty"`
	Transparency *float64 `json:"transparency,omitempty"`
	Outline      *Outline `json:"outline,omitempty"`
}

// Font describes the typeface. Size accepts "48px", "48" or 48.
type Font struct {
	Family string   `json:"family,omitempty"`
	Size   FontSize `json:"size,omitempty"`
	Weight string   `json:"weight,omitempty"`
	Style  string   `json:"style,omitempty"`
	Color  string   `json:"color,omitempty"`
}

// Outline strokes each text line before it is filled.
type Outline struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// FontSize is a pixel size decoded from either a JSON number or a CSS-like
// string such as "48px". Zero means unset.
type FontSize float64

// UnmarshalJSON accepts numbers and strings whose leading number is the
// size, such as "48px" or "36pt". A string without a leading number is unset.
func (f *FontSize) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FontSize(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("font size: %w", err)
	}
	*f = ParseFontSize(s)
	return nil
}

// ParseFontSize reads the leading decimal number of s and ignores whatever
// follows it, so "48px", "48pt" and "3rem" give 48, 48 and 3. It returns 0
// when s does not start with a number.
func ParseFontSize(s string) FontSize {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits, dot := 0, false
	for ; end < len(s); end++ {
		c := s[end]
		if c >= '0' && c <= '9' {
			digits++
			continue
		}
		if c == '.' && !dot {
			dot = true
			continue
		}
		break
	}
	if digits == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return FontSize(v)
}
