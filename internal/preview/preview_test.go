/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package preview

import (
	"bytes"
	"image/png"
	"testing"

	"gophotobook/internal/domain"
)

func squareVariant() domain.VariantConfig {
	return domain.VariantConfig{WidthMm: 100, HeightMm: 100, BleedMm: 0, DPI: 300}
}

func TestSizeFollowsAspectRatio(t *testing.T) {
	v := domain.VariantConfig{WidthMm: 200, HeightMm: 100, DPI: 300}
	pg := domain.NewPage()
	w, h := Size(pg, v, 100, 256)
	if w != 256 || h != 128 {
		t.Fatalf("landscape raster size: got %dx%d", w, h)
	}
	if w, h = Size(pg, v, 100, 0); w != DefaultEdge || h != DefaultEdge/2 {
		t.Fatalf("default edge not applied: got %dx%d", w, h)
	}
}

func TestRenderProducesDecodablePNG(t *testing.T) {
	p := domain.NewProject("p", squareVariant(), 100)
	p = p.SetBackground(0, "#204060")
	p = p.AddObject(0, domain.CanvasObject{
		Type: domain.ObjectImage, X: 100, Y: 100, Width: 200, Height: 200,
	})
	pg := p.Pages[0]

	data, err := Render(pg, p.Variant, p.EditorDPI, 128, 128)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 128 {
		t.Fatalf("raster bounds: %v", b)
	}

	// Page is 100mm at DPI 100 display scale: about 394 doc px, so the
	// object spans raster (32,32)-(97,97) at k=128/394.
	rCorner, gCorner, bCorner, _ := img.At(2, 2).RGBA()
	rObj, gObj, bObj, _ := img.At(64, 64).RGBA()
	if rCorner == rObj && gCorner == gObj && bCorner == bObj {
		t.Fatalf("object fill indistinguishable from background")
	}
	if uint8(rCorner>>8) != 0x20 || uint8(gCorner>>8) != 0x40 || uint8(bCorner>>8) != 0x60 {
		t.Fatalf("background color not honored: %v %v %v", rCorner>>8, gCorner>>8, bCorner>>8)
	}
}

func TestRenderRejectsDegenerateInput(t *testing.T) {
	pg := domain.NewPage()
	if _, err := Render(pg, squareVariant(), 100, 0, 64); err == nil {
		t.Fatalf("zero raster width must error")
	}
	if _, err := Render(pg, domain.VariantConfig{}, 100, 64, 64); err == nil {
		t.Fatalf("zero-area page must error")
	}
}
