/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"testing"
)

func testProject() Project {
	return NewProject("test", VariantConfig{WidthMm: 210, HeightMm: 297, BleedMm: 3, DPI: 300}, 100)
}

func f(v float64) *float64 { return &v }

func TestAddObjectAssignsZAndDefaults(t *testing.T) {
	p := testProject()
	p = p.AddObject(0, CanvasObject{Type: ObjectImage, Width: 100, Height: 80, Src: "a.jpg"})
	p = p.AddObject(0, CanvasObject{Type: ObjectText, Width: 200, Height: 40, Text: "hi"})

	objs := p.Pages[0].Objects
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if objs[0].Z != 1 || objs[1].Z != 2 {
		t.Fatalf("z assignment wrong: %d %d", objs[0].Z, objs[1].Z)
	}
	if objs[0].ID == "" || objs[1].ID == "" {
		t.Fatalf("ids must be assigned")
	}
	if objs[0].Opacity != 1 {
		t.Fatalf("opacity should default to 1, got %v", objs[0].Opacity)
	}
}

func TestFullTransparencyViaExplicitPatch(t *testing.T) {
	p := testProject()
	p = p.AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, Width: 10, Height: 10})
	p = p.UpdateObject(0, "o1", ObjectPatch{Opacity: f(0)})
	o, _ := p.ObjectByID(0, "o1")
	if o.Opacity != 0 {
		t.Fatalf("explicit zero opacity must stick, got %v", o.Opacity)
	}
}

func TestAddObjectDoesNotMutateReceiver(t *testing.T) {
	p := testProject()
	q := p.AddObject(0, CanvasObject{Type: ObjectImage, Width: 10, Height: 10})
	if len(p.Pages[0].Objects) != 0 {
		t.Fatalf("receiver mutated: %d objects", len(p.Pages[0].Objects))
	}
	if len(q.Pages[0].Objects) != 1 {
		t.Fatalf("result missing object")
	}
}

func TestUpdateObjectMergesPatch(t *testing.T) {
	p := testProject().AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, X: 5, Y: 5, Width: 100, Height: 100})
	q := p.UpdateObject(0, "o1", ObjectPatch{X: f(50), Rotation: f(45), Opacity: f(0.5)})

	o, ok := q.ObjectByID(0, "o1")
	if !ok {
		t.Fatalf("object missing after update")
	}
	if o.X != 50 || o.Y != 5 || o.Rotation != 45 || o.Opacity != 0.5 {
		t.Fatalf("patch merge wrong: %+v", o)
	}
	// receiver untouched
	orig, _ := p.ObjectByID(0, "o1")
	if orig.X != 5 {
		t.Fatalf("receiver mutated by update")
	}
}

func TestUpdateObjectClampsNegativeSizeAndOpacity(t *testing.T) {
	p := testProject().AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, Width: 100, Height: 100})
	q := p.UpdateObject(0, "o1", ObjectPatch{Width: f(-20), Opacity: f(3)})
	o, _ := q.ObjectByID(0, "o1")
	if o.Width != 0 {
		t.Fatalf("negative width must clamp to 0, got %v", o.Width)
	}
	if o.Opacity != 1 {
		t.Fatalf("opacity must clamp to 1, got %v", o.Opacity)
	}
}

func TestUpdateObjectUnknownIDIsNoOp(t *testing.T) {
	p := testProject().AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, Width: 10, Height: 10})
	q := p.UpdateObject(0, "missing", ObjectPatch{X: f(99)})
	o, _ := q.ObjectByID(0, "o1")
	if o.X != 0 {
		t.Fatalf("no-op update changed state")
	}
}

func TestResetCropClearsToUncropped(t *testing.T) {
	p := testProject().AddObject(0, CanvasObject{ID: "o1", Type: ObjectImage, Width: 100, Height: 100,
		Crop: &CropRect{ContentX: 10, ContentY: 10, ContentWidth: 50, ContentHeight: 50}})
	q := p.UpdateObject(0, "o1", ObjectPatch{ResetCrop: true})
	o, _ := q.ObjectByID(0, "o1")
	if o.Crop != nil {
		t.Fatalf("crop should be cleared")
	}
	c := o.EffectiveCrop()
	if c.ContentWidth != 100 || c.ContentHeight != 100 {
		t.Fatalf("uncropped default wrong: %+v", c)
	}
}

func TestDeleteObject(t *testing.T) {
	p := testProject().
		AddObject(0, CanvasObject{ID: "a", Type: ObjectImage, Width: 10, Height: 10}).
		AddObject(0, CanvasObject{ID: "b", Type: ObjectImage, Width: 10, Height: 10})
	q := p.DeleteObject(0, "a")
	if len(q.Pages[0].Objects) != 1 || q.Pages[0].Objects[0].ID != "b" {
		t.Fatalf("delete failed: %+v", q.Pages[0].Objects)
	}
	// unknown id: no-op
	r := q.DeleteObject(0, "ghost")
	if len(r.Pages[0].Objects) != 1 {
		t.Fatalf("no-op delete changed state")
	}
}

func TestDeleteLastPageRejected(t *testing.T) {
	p := testProject()
	q, err := p.DeletePage(0)
	if err == nil {
		t.Fatalf("expected rejection deleting last page")
	}
	if !errors.Is(err, ErrLastPage) && !IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if len(q.Pages) != 1 {
		t.Fatalf("project must be unchanged after rejection")
	}
}

func TestAddAndDeletePage(t *testing.T) {
	p := testProject().AddPage().AddPage()
	if len(p.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(p.Pages))
	}
	victim := p.Pages[1].ID
	q, err := p.DeletePage(1)
	if err != nil {
		t.Fatalf("delete page: %v", err)
	}
	if len(q.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(q.Pages))
	}
	for _, pg := range q.Pages {
		if pg.ID == victim {
			t.Fatalf("deleted page still present")
		}
	}
}
