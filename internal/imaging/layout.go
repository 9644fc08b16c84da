// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging renders quote images: a background (solid color or a
// center-cropped photo), an optional translucent overlay box and the
// word-wrapped quote on top.
package imaging

import (
	"image"
	"math"
	"strings"

	"autogensocial/internal/models"
)

// Size is a canvas size in pixels.
type Size struct {
	Width  int
	Height int
}

var aspectSizes = map[models.AspectRatio]Size{
	models.AspectSquare:    {1080, 1080},
	models.AspectPortrait:  {1080, 1350},
	models.AspectLandscape: {1200, 628},
	models.AspectStory:     {1080, 1920},
}

// Layout constants, in pixels or fractions of the canvas.
const (
	DefaultFontSize     = 48
	LineHeightFactor    = 1.2
	TextWidthFraction   = 0.9
	MarginFraction      = 0.05
	OverlayPadX         = 16
	OverlayPadY         = 8
	DefaultOverlayAlpha = 0.5
)

// Dimensions returns the canvas size for an aspect ratio. Unknown or empty
// values fall back to square.
func Dimensions(ar models.AspectRatio) Size {
	if s, ok := aspectSizes[ar]; ok {
		return s
	}
	return aspectSizes[models.AspectSquare]
}

// CropRect returns the largest centered region of src whose aspect ratio
// matches dst. Wider sources lose their sides, taller ones top and bottom.
func CropRect(src image.Rectangle, dst Size) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || dst.Width <= 0 || dst.Height <= 0 {
		return src
	}
	srcAspect := float64(sw) / float64(sh)
	dstAspect := float64(dst.Width) / float64(dst.Height)

	switch {
	case srcAspect > dstAspect:
		w := int(math.Round(float64(sh) * dstAspect))
		x0 := src.Min.X + (sw-w)/2
		return image.Rect(x0, src.Min.Y, x0+w, src.Max.Y)
	case srcAspect < dstAspect:
		h := int(math.Round(float64(sw) / dstAspect))
		y0 := src.Min.Y + (sh-h)/2
		return image.Rect(src.Min.X, y0, src.Max.X, y0+h)
	default:
		return src
	}
}

// Wrap breaks text into lines no wider than maxWidth, filling each line
// greedily. A single word wider than maxWidth gets a line of its own.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// Align is a horizontal position.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// ParseAlign maps "left"/"right"/"center" (any case) to an Align. Anything
// else is center.
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft
	case "right", "end":
		return AlignRight
	default:
		return AlignCenter
	}
}

// VAlign is a vertical position.
type VAlign int

const (
	VAlignMiddle VAlign = iota
	VAlignTop
	VAlignBottom
)

// ParseVAlign maps "top"/"bottom" to a VAlign; anything else is middle.
func ParseVAlign(s string) VAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return VAlignTop
	case "bottom":
		return VAlignBottom
	default:
		return VAlignMiddle
	}
}

// TextBlock is the placement of the wrapped quote on the canvas.
type TextBlock struct {
	Lines      []string
	LineWidths []float64
	LineHeight float64

	// Box is the unpadded text bounding box.
	Box Rectf
}

// Rectf is a rectangle in float pixel coordinates.
type Rectf struct {
	X, Y, W, H float64
}

// Image converts r to integer pixel bounds.
func (r Rectf) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// Pad grows r by dx on each side horizontally and dy vertically.
func (r Rectf) Pad(dx, dy float64) Rectf {
	return Rectf{X: r.X - dx, Y: r.Y - dy, W: r.W + 2*dx, H: r.H + 2*dy}
}

// PlaceText wraps text and anchors the resulting block on a canvas. The
// block is anchored at a 5% margin from the chosen edges, or centered.
func PlaceText(text string, canvas Size, fontSize float64, h Align, v VAlign, measure func(string) float64) TextBlock {
	maxWidth := float64(canvas.Width) * TextWidthFraction
	lineHeight := fontSize * LineHeightFactor

	lines := Wrap(text, maxWidth, measure)
	widths := make([]float64, len(lines))
	boxW := 0.0
	for i, l := range lines {
		widths[i] = measure(l)
		boxW = math.Max(boxW, widths[i])
	}
	boxW = math.Min(boxW, maxWidth)
	boxH := float64(len(lines)) * lineHeight

	marginX := float64(canvas.Width) * MarginFraction
	marginY := float64(canvas.Height) * MarginFraction

	var x float64
	switch h {
	case AlignLeft:
		x = marginX
	case AlignRight:
		x = float64(canvas.Width) - marginX - boxW
	default:
		x = (float64(canvas.Width) - boxW) / 2
	}

	var y float64
	switch v {
	case VAlignTop:
		y = marginY
	case VAlignBottom:
		y = float64(canvas.Height) - marginY - boxH
	default:
		y = (float64(canvas.Height) - boxH) / 2
	}

	return TextBlock{
		Lines:      lines,
		LineWidths: widths,
		LineHeight: lineHeight,
		Box:        Rectf{X: x, Y: y, W: boxW, H: boxH},
	}
}

// LineX returns the left edge of line i for the given text alignment
// within the block.
func (b TextBlock) LineX(i int, align Align) float64 {
	w := math.Min(b.LineWidths[i], b.Box.W)
	switch align {
	case AlignLeft:
		return b.Box.X
	case AlignRight:
		return b.Box.X + b.Box.W - w
	default:
		return b.Box.X + (b.Box.W-w)/2
	}
}

// LineMiddle returns the vertical center of line i.
func (b TextBlock) LineMiddle(i int) float64 {
	return b.Box.Y + (float64(i)+0.5)*b.LineHeight
}
