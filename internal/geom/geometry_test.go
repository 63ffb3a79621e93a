/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestRectOverlapAndIntersect(t *testing.T) {
	a := R(0, 0, 100, 100)
	b := R(50, 50, 100, 100)
	if !a.Overlaps(b) {
		t.Fatalf("expected overlap")
	}
	in := a.Intersect(b)
	if in.X != 50 || in.Y != 50 || in.W != 50 || in.H != 50 {
		t.Fatalf("unexpected intersection: %+v", in)
	}
	// touching edges share zero area and do not overlap
	c := R(100, 0, 10, 10)
	if a.Overlaps(c) {
		t.Fatalf("edge-touching rects must not count as overlapping")
	}
}

func TestClampInto(t *testing.T) {
	bounds := R(0, 0, 1000, 800)
	r := R(-20, 750, 100, 100).ClampInto(bounds)
	if r.X != 0 {
		t.Fatalf("expected x clamped to 0, got %v", r.X)
	}
	if r.Y != 700 {
		t.Fatalf("expected y clamped to 700, got %v", r.Y)
	}
	// oversized rect pins to origin
	big := R(100, 100, 2000, 100).ClampInto(bounds)
	if big.X != 0 {
		t.Fatalf("oversized rect should pin to bounds origin, got %v", big.X)
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(1.23456, 3); got != 1.235 {
		t.Fatalf("unexpected rounding: %v", got)
	}
	if got := FloatRound(2.5, 0); got != 3 {
		t.Fatalf("unexpected rounding: %v", got)
	}
}
