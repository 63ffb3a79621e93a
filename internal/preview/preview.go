/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview rasterizes schematic page previews: the page background
// plus one flat rectangle per object, scaled to a requested raster size.
// Previews are navigation aids, not proofs; image content and text glyphs
// are not fetched or shaped here.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"gophotobook/internal/domain"
)

// DefaultEdge is the raster size of the longest page edge when the caller
// passes 0.
const DefaultEdge = 256

var imageFill = color.NRGBA{R: 0xb0, G: 0xc4, B: 0xde, A: 0xff}
var textFill = color.NRGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
var border = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

// Size returns the raster dimensions for a page: the longest edge maps to
// edge pixels, the other follows the page aspect ratio.
func Size(page domain.Page, v domain.VariantConfig, displayDPI float64, edge int) (int, int) {
	if edge <= 0 {
		edge = DefaultEdge
	}
	sz := page.EffectiveSize(v, displayDPI)
	if sz.W <= 0 || sz.H <= 0 {
		return edge, edge
	}
	if sz.W >= sz.H {
		return edge, int(float64(edge) * sz.H / sz.W)
	}
	return int(float64(edge) * sz.W / sz.H), edge
}

// Render rasterizes one page into PNG bytes at the given raster size.
func Render(page domain.Page, v domain.VariantConfig, displayDPI float64, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("preview raster size must be positive")
	}
	docSize := page.EffectiveSize(v, displayDPI)
	if docSize.W <= 0 || docSize.H <= 0 {
		return nil, fmt.Errorf("page %s has no printable area", page.ID)
	}
	k := float64(w) / docSize.W

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background(page)), image.Point{}, draw.Src)

	for _, o := range page.SortedByZ() {
		fill := imageFill
		if o.Type == domain.ObjectText {
			fill = textFill
		}
		if o.Opacity < 1 {
			fill.A = uint8(o.Opacity * 255)
		}
		r := image.Rect(
			int(o.X*k), int(o.Y*k),
			int((o.X+o.Width)*k), int((o.Y+o.Height)*k),
		).Intersect(img.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
		outline(img, r)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func outline(img *image.NRGBA, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, border)
		img.SetNRGBA(x, r.Max.Y-1, border)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, border)
		img.SetNRGBA(r.Max.X-1, y, border)
	}
}

// background decodes the page's #rrggbb background, defaulting to white.
func background(page domain.Page) color.Color {
	s := page.Background
	if len(s) != 7 || s[0] != '#' {
		return color.White
	}
	var rr, gg, bb uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return color.White
	}
	return color.NRGBA{R: rr, G: gg, B: bb, A: 0xff}
}
