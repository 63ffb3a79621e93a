/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Z-order management. Rendering order is ascending z-index. Gaps in z values
// are tolerated (only relative order matters); reordering renormalizes the
// page to a dense 1..N sequence. Neighbor swaps go through the sorted order,
// not z±1 arithmetic, so they stay correct after arbitrary insert/delete
// histories.

import "sort"

// Direction of a one-slot reorder.
type Direction int

const (
	Backward Direction = -1 // deeper into the stack
	Forward  Direction = +1 // closer to the viewer
)

// SortedByZ returns the page's objects in rendering order (ascending z).
func (p Page) SortedByZ() []CanvasObject {
	out := append([]CanvasObject(nil), p.Objects...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

func maxZ(objs []CanvasObject) int {
	m := 0
	for i := range objs {
		if objs[i].Z > m {
			m = objs[i].Z
		}
	}
	return m
}

// ReorderObject moves the object one slot forward or backward in z-order and
// renormalizes all z-indices on that page to a dense 1..N sequence in the new
// order. Moving the topmost object forward or the bottommost backward is a
// no-op.
func (p Project) ReorderObject(pageIdx int, id string, dir Direction) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("reorder object", pageIndexID(p, pageIdx), id)
		return p
	}
	order := pg.SortedByZ()
	pos := -1
	for i := range order {
		if order[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		notFound("reorder object", pg.ID, id)
		return p
	}
	swap := pos + int(dir)
	if swap < 0 || swap >= len(order) {
		return p // already at the boundary
	}
	order[pos], order[swap] = order[swap], order[pos]
	// dense renormalization in the new order
	byID := make(map[string]int, len(order))
	for i := range order {
		byID[order[i].ID] = i + 1
	}
	for i := range pg.Objects {
		pg.Objects[i].Z = byID[pg.Objects[i].ID]
	}
	return out
}

// BringForward swaps the object with its immediate upper neighbor in z-order.
func (p Project) BringForward(pageIdx int, id string) Project {
	return p.ReorderObject(pageIdx, id, Forward)
}

// SendBackward swaps the object with its immediate lower neighbor in z-order.
func (p Project) SendBackward(pageIdx int, id string) Project {
	return p.ReorderObject(pageIdx, id, Backward)
}
