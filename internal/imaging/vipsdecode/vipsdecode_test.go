// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package vipsdecode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_NotStarted(t *testing.T) {
	if Started() {
		t.Skip("libvips already running")
	}
	_, err := Decode([]byte("anything"))
	assert.Error(t, err)
}

func TestDecode_PNGRoundTrip(t *testing.T) {
	Startup(1)
	defer Shutdown()

	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())

	r, _, _, _ := out.At(5, 5).RGBA()
	assert.Equal(t, uint32(200), r>>8)

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}
