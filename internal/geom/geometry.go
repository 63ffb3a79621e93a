/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// Basic 2D geometry for the document coordinate space. Document coordinates
// are pixels at the editor's display DPI; float64 keeps round-trips through
// JSON and coordinate migrations lossless enough for the tolerances we test.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Intersect returns the overlapping region of both rects; a rect with
// non-positive W or H means the rects do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	minX := math.Max(r.X, o.X)
	minY := math.Max(r.Y, o.Y)
	maxX := math.Min(r.X+r.W, o.X+o.W)
	maxY := math.Min(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Overlaps reports whether the intersection of both rects has positive area.
func (r Rect) Overlaps(o Rect) bool {
	in := r.Intersect(o)
	return in.W > 0 && in.H > 0
}

// ClampInto moves the rect so it lies within bounds where possible.
// Position is adjusted, size is preserved; an oversized rect is pinned to the
// bounds origin on that axis.
func (r Rect) ClampInto(bounds Rect) Rect {
	out := r
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.X+out.W > bounds.X+bounds.W {
		out.X = bounds.X + bounds.W - out.W
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	if out.Y+out.H > bounds.Y+bounds.H {
		out.Y = bounds.Y + bounds.H - out.H
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	return out
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
