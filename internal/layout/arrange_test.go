/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"math"
	"testing"

	"gophotobook/internal/domain"
	"gophotobook/internal/geom"
)

// square 2000x2000px page at DPI 100, no bleed
func squareVariant() domain.VariantConfig {
	return domain.VariantConfig{WidthMm: 2000 * domain.MmPerInch / 100, HeightMm: 2000 * domain.MmPerInch / 100, DPI: 300}
}

func pageWith(objs ...domain.CanvasObject) domain.Page {
	pg := domain.NewPage()
	for i := range objs {
		objs[i].Z = i + 1
		pg.Objects = append(pg.Objects, objs[i])
	}
	return pg
}

func TestArrangeEmptyPageReturnsEmptyUpdates(t *testing.T) {
	u := Arrange(domain.NewPage(), squareVariant(), 100, Options{})
	if u == nil || len(u) != 0 {
		t.Fatalf("expected empty non-nil update list, got %v", u)
	}
}

func TestArrangeFourObjectsNonOverlappingWithinBounds(t *testing.T) {
	pg := pageWith(
		domain.CanvasObject{ID: "a", Type: domain.ObjectImage, Width: 800, Height: 600},
		domain.CanvasObject{ID: "b", Type: domain.ObjectImage, Width: 600, Height: 800},
		domain.CanvasObject{ID: "c", Type: domain.ObjectImage, Width: 1000, Height: 1000},
		domain.CanvasObject{ID: "d", Type: domain.ObjectImage, Width: 400, Height: 300},
	)
	updates := Arrange(pg, squareVariant(), 100, Options{})
	if len(updates) != 4 {
		t.Fatalf("expected 4 updates, got %d", len(updates))
	}
	canvas := geom.Rect{X: 0, Y: 0, W: 2000, H: 2000}
	for i, u := range updates {
		f := u.Frame
		if f.X < 0 || f.Y < 0 || f.X+f.W > canvas.W+1e-9 || f.Y+f.H > canvas.H+1e-9 {
			t.Fatalf("frame %d out of bounds: %+v", i, f)
		}
		if f.W > 1000 || f.H > 1000 {
			t.Fatalf("cell constraint violated for 4 objects on 2000x2000: %+v", f)
		}
		for j := i + 1; j < len(updates); j++ {
			if f.Overlaps(updates[j].Frame) {
				t.Fatalf("frames %d and %d overlap: %+v %+v", i, j, f, updates[j].Frame)
			}
		}
	}
}

func TestArrangePreservesObjectAspectRatio(t *testing.T) {
	pg := pageWith(
		domain.CanvasObject{ID: "wide", Type: domain.ObjectImage, Width: 1600, Height: 400},
		domain.CanvasObject{ID: "tall", Type: domain.ObjectImage, Width: 400, Height: 1600},
	)
	updates := Arrange(pg, squareVariant(), 100, Options{})
	for _, u := range updates {
		var want float64
		switch u.ID {
		case "wide":
			want = 4
		case "tall":
			want = 0.25
		}
		got := u.Frame.W / u.Frame.H
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("aspect ratio of %s broken: got %v want %v", u.ID, got, want)
		}
	}
}

func TestArrangeExcludesBleedArea(t *testing.T) {
	v := squareVariant()
	v.BleedMm = 10 * domain.MmPerInch / 100 // 10px bleed at DPI 100
	pg := pageWith(domain.CanvasObject{ID: "a", Type: domain.ObjectImage, Width: 4000, Height: 4000})

	updates := Arrange(pg, v, 100, Options{})
	f := updates[0].Frame
	if f.X < 10 || f.Y < 10 || f.X+f.W > 1990+1e-9 || f.Y+f.H > 1990+1e-9 {
		t.Fatalf("placement entered bleed area: %+v", f)
	}
}

func TestArrangePlacesInZOrderRowMajor(t *testing.T) {
	pg := pageWith(
		domain.CanvasObject{ID: "first", Type: domain.ObjectImage, Width: 500, Height: 500},
		domain.CanvasObject{ID: "second", Type: domain.ObjectImage, Width: 500, Height: 500},
	)
	updates := Arrange(pg, squareVariant(), 100, Options{})
	if updates[0].ID != "first" || updates[1].ID != "second" {
		t.Fatalf("placement must follow z-order: %v", updates)
	}
	if updates[1].Frame.X <= updates[0].Frame.X && updates[1].Frame.Y <= updates[0].Frame.Y {
		t.Fatalf("second object should land in a later cell: %+v %+v", updates[0].Frame, updates[1].Frame)
	}
}

func TestArrangeZPolicyDefaultPreservesZ(t *testing.T) {
	pg := pageWith(
		domain.CanvasObject{ID: "a", Type: domain.ObjectImage, Width: 500, Height: 500},
		domain.CanvasObject{ID: "b", Type: domain.ObjectImage, Width: 500, Height: 500},
	)
	for _, u := range Arrange(pg, squareVariant(), 100, Options{}) {
		if u.Z != 0 {
			t.Fatalf("default policy must not emit z: %+v", u)
		}
	}
	for i, u := range Arrange(pg, squareVariant(), 100, Options{RederiveZOrder: true}) {
		if u.Z != i+1 {
			t.Fatalf("re-derive policy z mismatch: %+v", u)
		}
	}
}

func TestApplyResetsCropAndMovesObjects(t *testing.T) {
	p := domain.NewProject("t", squareVariant(), 100)
	p = p.AddObject(0, domain.CanvasObject{ID: "a", Type: domain.ObjectImage, X: 5, Y: 5, Width: 800, Height: 600,
		Crop: &domain.CropRect{ContentX: 10, ContentY: 10, ContentWidth: 100, ContentHeight: 100}})

	updates := Arrange(p.Pages[0], p.Variant, p.EditorDPI, Options{})
	q := Apply(p, 0, updates)

	o, ok := q.ObjectByID(0, "a")
	if !ok {
		t.Fatalf("object lost during apply")
	}
	if o.Crop != nil {
		t.Fatalf("crop must reset to uncropped on arrange")
	}
	if o.X == 5 && o.Y == 5 {
		t.Fatalf("object did not move")
	}
}
