/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact turns keyboard and pointer gestures into session
// mutations. It is UI-toolkit agnostic: the shell translates raw toolkit
// events into Key and drag calls here, so the behavior is testable headless.
package interact

import (
	"context"

	"gophotobook/internal/domain"
	"gophotobook/internal/editor"
	"gophotobook/internal/geom"
	"gophotobook/internal/viewport"
)

// Key identifies an editor shortcut independent of toolkit key codes.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeySpace
	KeyZoomIn
	KeyZoomOut
)

// Modifiers carried with a key press.
type Modifiers struct {
	Shift bool
}

const (
	nudgeStep      = 1.0
	nudgeStepShift = 10.0
)

// Controller binds a session and a viewport state to input gestures.
type Controller struct {
	Session  *editor.Session
	Viewport viewport.State
	Limits   viewport.Limits

	// PanMode is toggled with space; while set, pointer drags pan the
	// canvas instead of moving objects.
	PanMode bool

	// Snap configures drag snapping against page edges, centers and
	// sibling objects.
	Snap geom.SnapOptions

	drag *dragState
}

type dragState struct {
	objectID string
	start    geom.Pt // pointer position in document space at press
	origin   geom.Pt // object position at press
}

// NewController wires a controller with default zoom limits and snapping.
func NewController(s *editor.Session) *Controller {
	return &Controller{
		Session:  s,
		Viewport: viewport.State{Scale: 1},
		Limits:   viewport.DefaultLimits(),
		Snap:     geom.SnapOptions{SnapToEdges: true, SnapToCenters: true},
	}
}

// HandleKey processes one shortcut press. Returns true when the key was
// consumed.
func (c *Controller) HandleKey(_ context.Context, k Key, mods Modifiers) bool {
	switch k {
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		return c.nudge(k, mods)
	case KeyDelete:
		c.Session.DeleteSelected()
		return true
	case KeySpace:
		c.PanMode = !c.PanMode
		return true
	case KeyZoomIn:
		c.Viewport = c.Viewport.ZoomIn(c.Limits)
		return true
	case KeyZoomOut:
		c.Viewport = c.Viewport.ZoomOut(c.Limits)
		return true
	}
	return false
}

func (c *Controller) nudge(k Key, mods Modifiers) bool {
	snap := c.Session.Snapshot()
	if snap.SelectedID == "" {
		return false
	}
	step := nudgeStep
	if mods.Shift {
		step = nudgeStepShift
	}
	var dx, dy float64
	switch k {
	case KeyLeft:
		dx = -step
	case KeyRight:
		dx = step
	case KeyUp:
		dy = -step
	case KeyDown:
		dy = step
	}
	obj, ok := snap.Project.ObjectByID(snap.PageIdx, snap.SelectedID)
	if !ok {
		return false
	}
	x := obj.X + dx
	y := obj.Y + dy
	c.Session.Apply(func(p domain.Project) domain.Project {
		return p.UpdateObject(snap.PageIdx, snap.SelectedID, domain.ObjectPatch{X: &x, Y: &y})
	})
	return true
}

// BeginDrag starts moving the object under the pointer. screen is the raw
// pointer position; origin the canvas widget origin. Returns false when
// nothing was hit or pan mode is active (the shell pans itself).
func (c *Controller) BeginDrag(screen, widgetOrigin geom.Pt) bool {
	if c.PanMode {
		return false
	}
	doc := c.Viewport.ScreenToDocument(screen, widgetOrigin)
	snap := c.Session.Snapshot()
	id := hitTest(snap.Project, snap.PageIdx, doc)
	if id == "" {
		c.Session.SelectObject("")
		return false
	}
	c.Session.SelectObject(id)
	obj, _ := snap.Project.ObjectByID(snap.PageIdx, id)
	c.drag = &dragState{objectID: id, start: doc, origin: geom.Pt{X: obj.X, Y: obj.Y}}
	return true
}

// DragTo moves the dragged object to track the pointer, snapping against
// smart guides. Returns the active guide lines for the shell to draw.
func (c *Controller) DragTo(screen, widgetOrigin geom.Pt) []geom.GuideLine {
	if c.drag == nil {
		return nil
	}
	doc := c.Viewport.ScreenToDocument(screen, widgetOrigin)
	x := c.drag.origin.X + (doc.X - c.drag.start.X)
	y := c.drag.origin.Y + (doc.Y - c.drag.start.Y)

	snap := c.Session.Snapshot()
	obj, ok := snap.Project.ObjectByID(snap.PageIdx, c.drag.objectID)
	if !ok {
		c.drag = nil
		return nil
	}
	moving := geom.Rect{X: x, Y: y, W: obj.Width, H: obj.Height}
	page := snap.Project.PageSize(snap.PageIdx)
	anchors := []geom.Anchor{{Rect: geom.Rect{W: page.W, H: page.H}, Weight: 1}}
	for _, o := range snap.Project.Pages[snap.PageIdx].Objects {
		if o.ID == c.drag.objectID {
			continue
		}
		anchors = append(anchors, geom.Anchor{Rect: o.Frame()})
	}
	snapped, guides := geom.ComputeSmartGuides(moving, anchors, c.Snap)
	nx, ny := snapped.X, snapped.Y
	c.Session.Apply(func(p domain.Project) domain.Project {
		return p.UpdateObject(snap.PageIdx, c.drag.objectID, domain.ObjectPatch{X: &nx, Y: &ny})
	})
	return guides
}

// DragActive reports whether a move gesture is in progress.
func (c *Controller) DragActive() bool { return c.drag != nil }

// EndDrag finishes the move gesture.
func (c *Controller) EndDrag() {
	c.drag = nil
}

// Pan shifts the viewport by a screen-space delta while pan mode is active.
func (c *Controller) Pan(dx, dy float64) {
	if !c.PanMode {
		return
	}
	c.Viewport.Pan.X += dx
	c.Viewport.Pan.Y += dy
}

// hitTest returns the id of the topmost object containing the point, or "".
func hitTest(p domain.Project, pageIdx int, pt geom.Pt) string {
	if pageIdx < 0 || pageIdx >= len(p.Pages) {
		return ""
	}
	objs := p.Pages[pageIdx].SortedByZ()
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i].Frame().Contains(pt) {
			return objs[i].ID
		}
	}
	return ""
}
