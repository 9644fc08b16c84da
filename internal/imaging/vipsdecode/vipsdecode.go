// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package vipsdecode decodes background images in formats the Go image
// decoders do not cover (HEIC, AVIF, JPEG XL, ...) using libvips. The
// result is auto-rotated from EXIF orientation and returned as an
// image.Image for the compositor.
package vipsdecode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync/atomic"

	"github.com/davidbyttow/govips/v2/vips"
)

var started atomic.Bool

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	started.Store(true)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	if started.CompareAndSwap(true, false) {
		vips.Shutdown()
	}
}

// Started reports whether Startup has run.
func Started() bool {
	return started.Load()
}

// Decode loads data with libvips, applies EXIF rotation and converts the
// result to an image.Image via a lossless PNG round trip.
func Decode(data []byte) (image.Image, error) {
	if !started.Load() {
		return nil, fmt.Errorf("vipsdecode: libvips not started")
	}
	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("vipsdecode: load: %w", err)
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return nil, fmt.Errorf("vipsdecode: autorotate: %w", err)
	}

	params := vips.NewPngExportParams()
	params.StripMetadata = true
	params.Compression = 1
	buf, _, err := img.ExportPng(params)
	if err != nil {
		return nil, fmt.Errorf("vipsdecode: export: %w", err)
	}
	out, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("vipsdecode: decode png: %w", err)
	}
	return out, nil
}
