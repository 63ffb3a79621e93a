/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Mutation operations follow an immutable-update discipline: every operation
// returns a new Project value and leaves the receiver untouched. This keeps
// dirty-detection (serialize-and-compare) and testing tractable, and gives
// callers atomic all-or-nothing updates.

import (
	"github.com/google/uuid"
)

// NewProject creates a project with a single default portrait page.
func NewProject(title string, variant VariantConfig, editorDPI float64) Project {
	return Project{
		Title:     title,
		Variant:   variant,
		EditorDPI: editorDPI,
		Pages:     []Page{NewPage()},
		Assets:    []Asset{},
	}
}

// NewPage creates an empty portrait page with a fresh identity.
func NewPage() Page {
	return Page{
		ID:          uuid.NewString(),
		Background:  "#ffffff",
		Orientation: Portrait,
		Quantity:    1,
		Objects:     []CanvasObject{},
	}
}

// NewSpread creates a two-up page carrying left/right sub-page identities.
// The sub-page ids exist for layout chrome only; object coordinates stay
// spread-relative.
func NewSpread() Page {
	p := NewPage()
	p.LeftPageID = uuid.NewString()
	p.RightPageID = uuid.NewString()
	return p
}

// ObjectPatch is a partial update merged into an object by UpdateObject.
// Nil fields are left unchanged. ResetCrop clears the crop back to the
// uncropped default and wins over Crop.
type ObjectPatch struct {
	X         *float64
	Y         *float64
	Width     *float64
	Height    *float64
	Rotation  *float64
	Opacity   *float64
	Crop      *CropRect
	ResetCrop bool
	Src       *string
	FullSrc   *string
	Text      *string
}

// clonePage returns a copy of the project with the page at idx deep-copied so
// its object slice can be mutated without aliasing the receiver.
func (p Project) clonePage(idx int) (Project, *Page, bool) {
	if idx < 0 || idx >= len(p.Pages) {
		return p, nil, false
	}
	out := p
	out.Pages = append([]Page(nil), p.Pages...)
	pg := out.Pages[idx]
	pg.Objects = append([]CanvasObject{}, pg.Objects...)
	out.Pages[idx] = pg
	return out, &out.Pages[idx], true
}

// AddObject appends obj to the page at pageIdx, assigning a fresh id when
// absent and the next z-index (current max + 1). A zero Opacity means unset
// and defaults to fully opaque; to insert a fully transparent object, add it
// and then patch Opacity to an explicit 0 via UpdateObject.
func (p Project) AddObject(pageIdx int, obj CanvasObject) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("add object", pageIndexID(p, pageIdx), obj.ID)
		return p
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	if obj.Opacity == 0 {
		obj.Opacity = 1
	}
	obj.Width = max(obj.Width, 0)
	obj.Height = max(obj.Height, 0)
	obj.Z = maxZ(pg.Objects) + 1
	pg.Objects = append(pg.Objects, obj)
	return out
}

// UpdateObject merges patch into the object with the given id. An unknown id
// is a no-op (logged in development builds); it indicates a caller bug, not a
// runtime error.
func (p Project) UpdateObject(pageIdx int, id string, patch ObjectPatch) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("update object", pageIndexID(p, pageIdx), id)
		return p
	}
	i := indexOfObject(pg.Objects, id)
	if i < 0 {
		notFound("update object", pg.ID, id)
		return p
	}
	o := &pg.Objects[i]
	if patch.X != nil {
		o.X = *patch.X
	}
	if patch.Y != nil {
		o.Y = *patch.Y
	}
	if patch.Width != nil {
		o.Width = max(*patch.Width, 0)
	}
	if patch.Height != nil {
		o.Height = max(*patch.Height, 0)
	}
	if patch.Rotation != nil {
		o.Rotation = *patch.Rotation
	}
	if patch.Opacity != nil {
		o.Opacity = clamp01(*patch.Opacity)
	}
	if patch.ResetCrop {
		o.Crop = nil
	} else if patch.Crop != nil {
		c := *patch.Crop
		o.Crop = &c
	}
	if patch.Src != nil {
		o.Src = *patch.Src
	}
	if patch.FullSrc != nil {
		o.FullSrc = *patch.FullSrc
	}
	if patch.Text != nil {
		o.Text = *patch.Text
	}
	return out
}

// DeleteObject removes the object with the given id; unknown ids are a no-op.
// Callers owning a selection must clear it when it referenced the deleted id.
func (p Project) DeleteObject(pageIdx int, id string) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("delete object", pageIndexID(p, pageIdx), id)
		return p
	}
	i := indexOfObject(pg.Objects, id)
	if i < 0 {
		notFound("delete object", pg.ID, id)
		return p
	}
	pg.Objects = append(pg.Objects[:i], pg.Objects[i+1:]...)
	return out
}

// AddPage appends a new empty page.
func (p Project) AddPage() Project {
	out := p
	out.Pages = append(append([]Page(nil), p.Pages...), NewPage())
	return out
}

// DeletePage removes the page at idx. Deleting the last remaining page is
// rejected with ErrLastPage and the project is returned unchanged.
func (p Project) DeletePage(idx int) (Project, error) {
	if len(p.Pages) <= 1 {
		return p, ErrLastPage
	}
	if idx < 0 || idx >= len(p.Pages) {
		return p, &PreconditionError{Op: "delete page", Message: "page index out of range"}
	}
	out := p
	out.Pages = append([]Page(nil), p.Pages...)
	out.Pages = append(out.Pages[:idx], out.Pages[idx+1:]...)
	return out, nil
}

// SetBackground replaces the background color of the page at idx.
func (p Project) SetBackground(pageIdx int, color string) Project {
	out, pg, ok := p.clonePage(pageIdx)
	if !ok {
		notFound("set background", pageIndexID(p, pageIdx), "")
		return p
	}
	pg.Background = color
	return out
}

// ObjectByID looks up an object on a page.
func (p Project) ObjectByID(pageIdx int, id string) (CanvasObject, bool) {
	if pageIdx < 0 || pageIdx >= len(p.Pages) {
		return CanvasObject{}, false
	}
	i := indexOfObject(p.Pages[pageIdx].Objects, id)
	if i < 0 {
		return CanvasObject{}, false
	}
	return p.Pages[pageIdx].Objects[i], true
}

func indexOfObject(objs []CanvasObject, id string) int {
	for i := range objs {
		if objs[i].ID == id {
			return i
		}
	}
	return -1
}

func pageIndexID(p Project, idx int) string {
	if idx >= 0 && idx < len(p.Pages) {
		return p.Pages[idx].ID
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
