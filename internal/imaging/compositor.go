// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"log/slog"
	"math"
	"net/http"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"autogensocial/internal/media"
	"autogensocial/internal/models"
	"autogensocial/internal/rng"
	"autogensocial/internal/storage"
)

var (
	defaultTextColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	defaultOverlayColor = color.NRGBA{A: 255}
	defaultOutlineColor = color.NRGBA{A: 255}
	fallbackBackground  = color.NRGBA{A: 255}
)

const defaultOutlineWidth = 2

// Fetcher downloads a background image. *storage.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Finder looks up a background URL for a quote. *media.Searcher
// satisfies it.
type Finder interface {
	Find(ctx context.Context, q media.Query) (string, error)
}

// DecodeFunc decodes formats the standard decoders do not handle.
type DecodeFunc func(data []byte) (image.Image, error)

// HTTPFetcher fetches backgrounds over plain HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return storage.FetchURL(ctx, f.Client, url)
}

// Compositor renders quote images.
type Compositor struct {
	fetcher  Fetcher
	finder   Finder
	rnd      rng.Source
	fallback DecodeFunc
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithFinder sets the media search used for "online" and URL-less
// "uploaded" backgrounds.
func WithFinder(f Finder) Option {
	return func(c *Compositor) { c.finder = f }
}

// WithRand sets the source used to pick a theme.
func WithRand(src rng.Source) Option {
	return func(c *Compositor) { c.rnd = src }
}

// WithFallbackDecoder sets a decoder tried when the built-in ones fail.
func WithFallbackDecoder(fn DecodeFunc) Option {
	return func(c *Compositor) { c.fallback = fn }
}

// NewCompositor creates a compositor. A nil fetcher downloads over HTTP.
func NewCompositor(fetcher Fetcher, opts ...Option) *Compositor {
	if fetcher == nil {
		fetcher = HTTPFetcher{}
	}
	c := &Compositor{fetcher: fetcher}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = rng.NewTimeSeeded()
	}
	return c
}

// Render draws the quote with the template and returns PNG bytes.
func (c *Compositor) Render(ctx context.Context, tmpl *models.ImageTemplate, quote string) ([]byte, error) {
	img, err := c.RenderImage(ctx, tmpl, quote)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", models.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// RenderImage draws the quote with the template. Background failures fall
// back to a black fill and are only logged; text rendering failures are
// returned as ErrRender.
func (c *Compositor) RenderImage(ctx context.Context, tmpl *models.ImageTemplate, quote string) (*image.RGBA, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("image template is nil: %w", models.ErrRender)
	}
	size := Dimensions(tmpl.AspectRatio)
	canvas := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))

	var theme *models.Theme
	if t, ok := rng.Pick(c.rnd, tmpl.VisualStyle.Themes); ok {
		theme = &t
	} else {
		slog.Debug("image template has no themes, using default style")
	}

	c.drawBackground(ctx, canvas, tmpl, theme, quote)

	if err := drawText(canvas, size, theme, quote); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRender, err)
	}
	return canvas, nil
}

// resolveURL returns the background URL, asking the finder when the
// template has no usable direct URL.
func (c *Compositor) resolveURL(ctx context.Context, tmpl *models.ImageTemplate, quote string) string {
	url := tmpl.SetURL
	needsLookup := (tmpl.MediaType == models.MediaUploaded && url == "") || tmpl.MediaType == models.MediaOnline
	if !needsLookup {
		return url
	}
	if c.finder == nil {
		return ""
	}
	found, err := c.finder.Find(ctx, media.Query{
		MediaType:           tmpl.MediaType,
		Quote:               quote,
		TemplateDescription: tmpl.Description,
		BrandDescription:    tmpl.BrandDescription,
	})
	if err != nil {
		slog.Warn("background lookup failed", "media_type", tmpl.MediaType, "error", err)
		return ""
	}
	return found
}

func (c *Compositor) drawBackground(ctx context.Context, canvas *image.RGBA, tmpl *models.ImageTemplate, theme *models.Theme, quote string) {
	switch tmpl.MediaType {
	case models.MediaUploaded, models.MediaSet, models.MediaOnline:
		url := c.resolveURL(ctx, tmpl, quote)
		if url == "" {
			break
		}
		if err := c.drawPhoto(ctx, canvas, url); err != nil {
			slog.Warn("background image failed, using black", "url", url, "error", err)
			break
		}
		return
	case models.MediaColor:
		if theme == nil || theme.BackgroundColor == "" {
			break
		}
		bg, err := ParseColor(theme.BackgroundColor)
		if err != nil {
			slog.Warn("invalid background color, using black", "color", theme.BackgroundColor, "error", err)
			break
		}
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
		return
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fallbackBackground), image.Point{}, draw.Src)
}

// drawPhoto downloads url and scales its center crop onto the canvas.
func (c *Compositor) drawPhoto(ctx context.Context, canvas *image.RGBA, url string) error {
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	src, err := c.decode(data)
	if err != nil {
		return err
	}
	b := canvas.Bounds()
	crop := CropRect(src.Bounds(), Size{Width: b.Dx(), Height: b.Dy()})
	draw.Draw(canvas, b, image.NewUniform(fallbackBackground), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(canvas, b, src, crop, draw.Over, nil)
	return nil
}

func (c *Compositor) decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if c.fallback == nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	img, ferr := c.fallback(data)
	if ferr != nil {
		return nil, fmt.Errorf("decode background: %w (fallback: %v)", err, ferr)
	}
	return img, nil
}

// drawText lays out the quote and draws the overlay box, outline and fill.
func drawText(canvas *image.RGBA, size Size, theme *models.Theme, quote string) error {
	var (
		style   *models.TextStyle
		overlay *models.OverlayBox
	)
	if theme != nil {
		style, overlay = theme.TextStyle, theme.OverlayBox
	}
	var fontSpec *models.Font
	if style != nil {
		fontSpec = style.Font
	}

	px := fontSize(fontSpec)
	face, err := newFace(fontSpec, px)
	if err != nil {
		return err
	}
	defer face.Close()

	blockH, blockV := AlignCenter, VAlignMiddle
	if overlay != nil {
		blockH = ParseAlign(overlay.HorizontalLocation)
		blockV = ParseVAlign(overlay.VerticalLocation)
	}
	block := PlaceText(quote, size, px, blockH, blockV, measurer(face))
	if len(block.Lines) == 0 {
		return nil
	}

	if overlay != nil {
		alpha := DefaultOverlayAlpha
		if overlay.Transparency != nil {
			alpha = *overlay.Transparency
		}
		fill := withOpacity(colorOr(overlay.Color, defaultOverlayColor), alpha)
		box := block.Box.Pad(OverlayPadX, OverlayPadY).Image()
		draw.Draw(canvas, box, image.NewUniform(fill), image.Point{}, draw.Over)
	}

	textAlign := blockH
	textColor := defaultTextColor
	opacity := 1.0
	var outline *models.Outline
	if style != nil {
		if style.Alignment != "" {
			textAlign = ParseAlign(style.Alignment)
		}
		if fontSpec != nil {
			textColor = colorOr(fontSpec.Color, defaultTextColor)
		}
		if style.Transparency != nil {
			opacity = *style.Transparency
		}
		outline = style.Outline
	}

	m := face.Metrics()
	baselineShift := (fixedToFloat(m.Ascent) - fixedToFloat(m.Descent)) / 2

	if outline != nil {
		width := outline.Width
		if width <= 0 {
			width = defaultOutlineWidth
		}
		src := image.NewUniform(withOpacity(colorOr(outline.Color, defaultOutlineColor), opacity))
		offsets := strokeOffsets(width)
		for i, line := range block.Lines {
			x, y := block.LineX(i, textAlign), block.LineMiddle(i)+baselineShift
			for _, off := range offsets {
				drawString(canvas, face, src, line, x+off.X, y+off.Y)
			}
		}
	}

	src := image.NewUniform(withOpacity(textColor, opacity))
	for i, line := range block.Lines {
		drawString(canvas, face, src, line, block.LineX(i, textAlign), block.LineMiddle(i)+baselineShift)
	}
	return nil
}

func drawString(dst draw.Image, face font.Face, src image.Image, s string, x, y float64) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(s)
}

type offset struct{ X, Y float64 }

// strokeOffsets approximates a stroke of the given width with copies of
// the glyphs shifted around a disc of radius width/2.
func strokeOffsets(width float64) []offset {
	r := math.Max(1, width/2)
	n := int(math.Ceil(r))
	var out []offset
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if float64(dx*dx+dy*dy) > r*r+0.5 {
				continue
			}
			out = append(out, offset{X: float64(dx), Y: float64(dy)})
		}
	}
	return out
}
