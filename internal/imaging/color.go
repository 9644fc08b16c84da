// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts CSS-style colors: named colors, #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(r,g,b) and rgba(r,g,b,a) with a in [0,1].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunc(s)
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

// colorOr parses s and returns fallback when it is empty or invalid.
func colorOr(s string, fallback color.NRGBA) color.NRGBA {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(h string) (color.NRGBA, error) {
	switch len(h) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range h {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		h = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex color #%s", h)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color #%s: %w", h, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	args := strings.Split(s[open+1:len(s)-1], ",")
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("bad color %q", s)
		}
		rgb[i] = uint8(v)
	}
	alpha := 1.0
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("bad color %q", s)
		}
		alpha = a
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: uint8(alpha*255 + 0.5)}, nil
}

// withOpacity scales the color's alpha by opacity, clamped to [0,1].
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
