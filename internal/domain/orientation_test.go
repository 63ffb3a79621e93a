/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"math"
	"testing"
)

// variant yielding pixel sizes 4000x3000 landscape / 3000x4000 portrait at DPI 100
func rectVariant() VariantConfig {
	return VariantConfig{WidthMm: 3000 * MmPerInch / 100, HeightMm: 4000 * MmPerInch / 100, DPI: 300}
}

// square variant: 3000x3000 either way
func squareVariant() VariantConfig {
	return VariantConfig{WidthMm: 3000 * MmPerInch / 100, HeightMm: 3000 * MmPerInch / 100, DPI: 300}
}

func TestToggleOrientationSquareIsNoOpOnFrames(t *testing.T) {
	p := NewProject("sq", squareVariant(), 100)
	p.Pages[0].Orientation = Landscape
	p = p.AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, X: 0, Y: 0, Width: 800, Height: 600})

	q := p.ToggleOrientation(0)
	if q.Pages[0].Orientation != Portrait {
		t.Fatalf("orientation did not flip")
	}
	o, _ := q.ObjectByID(0, "o1")
	if o.X != 0 || o.Y != 0 || o.Width != 800 || o.Height != 600 {
		t.Fatalf("square page toggle must not move objects: %+v", o)
	}
}

func TestToggleOrientationRemapsRelativeCenter(t *testing.T) {
	p := NewProject("rc", rectVariant(), 100)
	p.Pages[0].Orientation = Landscape // 4000x3000
	p = p.AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, X: 1600, Y: 1200, Width: 800, Height: 600})
	// center (2000,1500)

	q := p.ToggleOrientation(0) // portrait 3000x4000
	o, _ := q.ObjectByID(0, "o1")
	cx, cy := o.X+o.Width/2, o.Y+o.Height/2
	if math.Abs(cx-1500) > 1e-6 || math.Abs(cy-2000) > 1e-6 {
		t.Fatalf("center remap wrong: (%v,%v)", cx, cy)
	}
	if o.Width != 800 || o.Height != 600 {
		t.Fatalf("object size must not rescale: %+v", o)
	}
}

func TestToggleOrientationClampsToNewBounds(t *testing.T) {
	p := NewProject("cl", rectVariant(), 100)
	p.Pages[0].Orientation = Landscape // 4000x3000
	// object hugging the right edge of the wide page
	p = p.AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, X: 3200, Y: 0, Width: 800, Height: 600})

	q := p.ToggleOrientation(0) // portrait 3000x4000
	o, _ := q.ObjectByID(0, "o1")
	if o.X < 0 || o.X+o.Width > 3000 {
		t.Fatalf("frame not clamped into new bounds: %+v", o)
	}
	if o.Y < 0 || o.Y+o.Height > 4000 {
		t.Fatalf("frame not clamped vertically: %+v", o)
	}
}

func TestToggleOrientationTwiceRoundTripsWithoutClamping(t *testing.T) {
	p := NewProject("rt", rectVariant(), 100)
	p.Pages[0].Orientation = Landscape
	p = p.AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, X: 1600, Y: 1200, Width: 800, Height: 600})

	q := p.ToggleOrientation(0).ToggleOrientation(0)
	if q.Pages[0].Orientation != Landscape {
		t.Fatalf("double toggle must restore orientation")
	}
	o, _ := q.ObjectByID(0, "o1")
	if math.Abs(o.X-1600) > 1e-6 || math.Abs(o.Y-1200) > 1e-6 {
		t.Fatalf("double toggle did not round trip: %+v", o)
	}
}

func TestToggleOrientationProcessesObjectsInZOrder(t *testing.T) {
	p := NewProject("zo", rectVariant(), 100)
	p.Pages[0].Orientation = Landscape
	p = p.
		AddObject(0, CanvasObject{ID: "low", Type: ObjectImage, X: 3300, Y: 100, Width: 600, Height: 400}).
		AddObject(0, CanvasObject{ID: "high", Type: ObjectImage, X: 3300, Y: 100, Width: 600, Height: 400})

	q := p.ToggleOrientation(0)
	lo, _ := q.ObjectByID(0, "low")
	hi, _ := q.ObjectByID(0, "high")
	// both clamped independently against page bounds; identical inputs land identically
	if lo.X != hi.X || lo.Y != hi.Y {
		t.Fatalf("clamp processing diverged: %+v vs %+v", lo, hi)
	}
	if lo.X+lo.Width > 3000 {
		t.Fatalf("clamp failed: %+v", lo)
	}
}
