/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout implements the auto-arrange engine: a deterministic,
// non-overlapping grid packing of a page's objects. The engine is pure; it
// emits frame updates and never touches the document itself. Arranging is
// destructive to manual placement, so callers gate it behind an explicit
// user confirmation before applying the updates.
package layout

import (
	"math"

	"gophotobook/internal/domain"
	"gophotobook/internal/geom"
)

// DefaultGutter is the spacing between grid cells in document pixels.
const DefaultGutter = 24.0

// Options tunes the arrangement.
type Options struct {
	// Gutter is the uniform spacing between cells and around the grid edge.
	// Zero selects DefaultGutter.
	Gutter float64
	// RederiveZOrder renumbers z by grid position (row-major) instead of
	// preserving the current stacking order. Preserving is the default: it
	// is the safer policy for users who layered objects intentionally.
	RederiveZOrder bool
}

// Update is one per-object placement emitted by Arrange. Applying an update
// also resets the object's crop to match the new frame. Z is only set when
// Options.RederiveZOrder is enabled; zero means "leave z alone".
type Update struct {
	ID    string
	Frame geom.Rect
	Z     int
}

// Arrange computes a tiled layout for the page's objects inside the page's
// effective bounds minus bleed. Objects keep their own aspect ratio, shrink
// to fit their cell, and are centered within it. Placement order is the
// current z-order (ascending), row-major across the grid.
//
// Guarantees: no two emitted frames overlap with positive area, and every
// frame lies within the canvas bounds. Called with zero objects it returns
// an empty update list.
func Arrange(page domain.Page, variant domain.VariantConfig, displayDPI float64, opts Options) []Update {
	n := len(page.Objects)
	if n == 0 {
		return []Update{}
	}
	gutter := opts.Gutter
	if gutter <= 0 {
		gutter = DefaultGutter
	}

	size := page.EffectiveSize(variant, displayDPI)
	bleed := variant.BleedPx(displayDPI)
	area := geom.Rect{X: 0, Y: 0, W: size.W, H: size.H}.Inset(bleed, bleed)
	if area.W <= 0 || area.H <= 0 {
		return []Update{}
	}

	cols, rows := gridShape(n, area.W/area.H)
	cellW := (area.W - float64(cols+1)*gutter) / float64(cols)
	cellH := (area.H - float64(rows+1)*gutter) / float64(rows)
	if cellW <= 0 || cellH <= 0 {
		// gutter left no room; degrade to gutterless cells
		gutter = 0
		cellW = area.W / float64(cols)
		cellH = area.H / float64(rows)
	}

	order := page.SortedByZ()
	updates := make([]Update, 0, n)
	for i, o := range order {
		col := i % cols
		row := i / cols
		cell := geom.Rect{
			X: area.X + gutter + float64(col)*(cellW+gutter),
			Y: area.Y + gutter + float64(row)*(cellH+gutter),
			W: cellW,
			H: cellH,
		}
		u := Update{ID: o.ID, Frame: fitInto(o, cell)}
		if opts.RederiveZOrder {
			u.Z = i + 1
		}
		updates = append(updates, u)
	}
	return updates
}

// Apply merges arrange updates into the project, resetting each touched
// object's crop to the uncropped default so the content rect tracks the new
// frame.
func Apply(p domain.Project, pageIdx int, updates []Update) domain.Project {
	for _, u := range updates {
		patch := domain.ObjectPatch{
			X:         &u.Frame.X,
			Y:         &u.Frame.Y,
			Width:     &u.Frame.W,
			Height:    &u.Frame.H,
			ResetCrop: true,
		}
		p = p.UpdateObject(pageIdx, u.ID, patch)
	}
	// second pass for re-derived z so renumbering sees all frames in place
	for _, u := range updates {
		if u.Z > 0 {
			p = setZ(p, pageIdx, u.ID, u.Z)
		}
	}
	return p
}

// gridShape picks a column count from ceil(sqrt(n * aspect)) clamped to
// [1, n], and enough rows to hold every object.
func gridShape(n int, aspect float64) (cols, rows int) {
	if aspect <= 0 {
		aspect = 1
	}
	cols = int(math.Ceil(math.Sqrt(float64(n) * aspect)))
	if cols < 1 {
		cols = 1
	}
	if cols > n {
		cols = n
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}

// fitInto shrinks the object to its cell preserving its own aspect ratio and
// centers it. Degenerate (zero-sized) objects fill the cell.
func fitInto(o domain.CanvasObject, cell geom.Rect) geom.Rect {
	w, h := o.Width, o.Height
	if w <= 0 || h <= 0 {
		return cell
	}
	scale := math.Min(cell.W/w, cell.H/h)
	if scale > 1 {
		scale = 1 // arrange shrinks; it never upscales past the source frame
	}
	nw, nh := w*scale, h*scale
	return geom.Rect{
		X: cell.X + (cell.W-nw)/2,
		Y: cell.Y + (cell.H-nh)/2,
		W: nw,
		H: nh,
	}
}

// setZ rewrites one object's z value.
func setZ(p domain.Project, pageIdx int, id string, z int) domain.Project {
	if pageIdx < 0 || pageIdx >= len(p.Pages) {
		return p
	}
	out := p
	out.Pages = append([]domain.Page(nil), p.Pages...)
	pg := out.Pages[pageIdx]
	pg.Objects = append([]domain.CanvasObject(nil), pg.Objects...)
	for i := range pg.Objects {
		if pg.Objects[i].ID == id {
			pg.Objects[i].Z = z
		}
	}
	out.Pages[pageIdx] = pg
	return out
}
