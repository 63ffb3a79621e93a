/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "gophotobook/internal/geom"

// ToggleOrientation flips the orientation of the page at pageIdx and remaps
// every object's frame so its relative center (center / old dimension) is
// preserved against the new effective dimensions, then clamps the frame to
// stay fully inside the new bounds. Object width/height are not rescaled.
//
// Objects are processed in ascending z-order so simultaneous clamp conflicts
// resolve deterministically. Position remapping at extreme aspect-ratio
// changes is lossy by design; a second toggle restores original frames only
// when no clamping occurred on either pass.
func (p Project) ToggleOrientation(pageIdx int) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("toggle orientation", pageIndexID(p, pageIdx), "")
		return p
	}
	oldSize := pg.EffectiveSize(out.Variant, out.EditorDPI)
	pg.Orientation = pg.Orientation.Toggled()
	newSize := pg.EffectiveSize(out.Variant, out.EditorDPI)
	if oldSize.W <= 0 || oldSize.H <= 0 {
		return out
	}

	bounds := geom.Rect{X: 0, Y: 0, W: newSize.W, H: newSize.H}
	order := pg.SortedByZ()
	for _, ord := range order {
		i := indexOfObject(pg.Objects, ord.ID)
		if i < 0 {
			continue
		}
		o := &pg.Objects[i]
		c := o.Frame().Center()
		newCx := c.X / oldSize.W * newSize.W
		newCy := c.Y / oldSize.H * newSize.H
		frame := geom.Rect{
			X: newCx - o.Width/2,
			Y: newCy - o.Height/2,
			W: o.Width,
			H: o.Height,
		}
		o.SetFrame(frame.ClampInto(bounds))
	}
	return out
}
