// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"autogensocial/internal/models"
)

// fontKey selects one of the bundled Go fonts.
type fontKey struct {
	mono   bool
	bold   bool
	italic bool
}

var fontFiles = map[fontKey][]byte{
	{false, false, false}: goregular.TTF,
	{false, true, false}:  gobold.TTF,
	{false, false, true}:  goitalic.TTF,
	{false, true, true}:   gobolditalic.TTF,
	{true, false, false}:  gomono.TTF,
	{true, true, false}:   gomonobold.TTF,
	{true, false, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

var (
	fontsMu sync.Mutex
	fonts   = map[fontKey]*opentype.Font{}
)

// monoFamilies are family names rendered with Go Mono. Every other family
// maps to the proportional Go font.
var monoFamilies = []string{"mono", "courier", "consolas", "menlo", "monaco"}

// keyFor maps a font description onto a bundled font.
func keyFor(f *models.Font) fontKey {
	if f == nil {
		return fontKey{}
	}
	family := strings.ToLower(f.Family)
	var k fontKey
	for _, m := range monoFamilies {
		if strings.Contains(family, m) {
			k.mono = true
			break
		}
	}
	switch strings.ToLower(strings.TrimSpace(f.Weight)) {
	case "bold", "bolder", "600", "700", "800", "900":
		k.bold = true
	}
	switch strings.ToLower(strings.TrimSpace(f.Style)) {
	case "italic", "oblique":
		k.italic = true
	}
	return k
}

func loadFont(k fontKey) (*opentype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()
	if f, ok := fonts[k]; ok {
		return f, nil
	}
	f, err := opentype.Parse(fontFiles[k])
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	fonts[k] = f
	return f, nil
}

// newFace builds a face for one render. Faces are not safe for concurrent
// use; callers close them when done.
func newFace(f *models.Font, size float64) (font.Face, error) {
	otf, err := loadFont(keyFor(f))
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

// fontSize returns the configured size, DefaultFontSize when unset.
func fontSize(f *models.Font) float64 {
	if f == nil || f.Size <= 0 {
		return DefaultFontSize
	}
	return float64(f.Size)
}

// measurer returns a width function for face in float pixels.
func measurer(face font.Face) func(string) float64 {
	return func(s string) float64 {
		return fixedToFloat(font.MeasureString(face, s))
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
