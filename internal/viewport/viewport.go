/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport maintains the zoom/pan state mapping between document
// pixel space and screen space. All functions are pure over the State value;
// the caller owns applying returned values to its state.
package viewport

import "gophotobook/internal/geom"

const (
	// DefaultMinScale and DefaultMaxScale bound user zoom.
	DefaultMinScale = 0.1
	DefaultMaxScale = 5.0
	// MaxFitScale caps fit-to-viewport so tiny documents do not zoom absurdly.
	MaxFitScale = 1.5
	// FitPadding is the margin kept around a fitted document, in screen pixels.
	FitPadding = 40.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Limits configures the allowed scale range.
type Limits struct {
	Min float64
	Max float64
}

// DefaultLimits returns the standard zoom bounds.
func DefaultLimits() Limits { return Limits{Min: DefaultMinScale, Max: DefaultMaxScale} }

func (l Limits) normalized() Limits {
	if l.Min <= 0 {
		l.Min = DefaultMinScale
	}
	if l.Max <= l.Min {
		l.Max = DefaultMaxScale
	}
	return l
}

// Clamp bounds a scale into the limit range.
func (l Limits) Clamp(scale float64) float64 {
	l = l.normalized()
	if scale < l.Min {
		return l.Min
	}
	if scale > l.Max {
		return l.Max
	}
	return scale
}

// State is the current viewport: a scale factor and a pan offset in screen
// pixels.
type State struct {
	Scale float64
	Pan   geom.Pt
}

// ScreenToDocument converts a screen point into document space:
// (screen - containerOrigin - pan) / scale.
func (s State) ScreenToDocument(screen, containerOrigin geom.Pt) geom.Pt {
	if s.Scale == 0 {
		return geom.Pt{}
	}
	return geom.Pt{
		X: (screen.X - containerOrigin.X - s.Pan.X) / s.Scale,
		Y: (screen.Y - containerOrigin.Y - s.Pan.Y) / s.Scale,
	}
}

// DocumentToScreen is the inverse of ScreenToDocument.
func (s State) DocumentToScreen(doc, containerOrigin geom.Pt) geom.Pt {
	return geom.Pt{
		X: doc.X*s.Scale + s.Pan.X + containerOrigin.X,
		Y: doc.Y*s.Scale + s.Pan.Y + containerOrigin.Y,
	}
}

// ZoomIn returns the scale multiplied by the zoom-in step, re-clamped.
func (s State) ZoomIn(l Limits) State {
	s.Scale = l.Clamp(s.Scale * zoomInFactor)
	return s
}

// ZoomOut returns the scale multiplied by the zoom-out step, re-clamped.
func (s State) ZoomOut(l Limits) State {
	s.Scale = l.Clamp(s.Scale * zoomOutFactor)
	return s
}

// FitToViewport computes the largest scale at which the document fits within
// the container minus padding, capped at MaxFitScale, plus the pan offset
// centering the document. The caller applies the returned state.
func FitToViewport(container, document geom.Size) State {
	availW := container.W - 2*FitPadding
	availH := container.H - 2*FitPadding
	if availW <= 0 || availH <= 0 || document.W <= 0 || document.H <= 0 {
		return State{Scale: 1}
	}
	scale := availW / document.W
	if s := availH / document.H; s < scale {
		scale = s
	}
	if scale > MaxFitScale {
		scale = MaxFitScale
	}
	return State{
		Scale: scale,
		Pan: geom.Pt{
			X: (container.W - document.W*scale) / 2,
			Y: (container.H - document.H*scale) / 2,
		},
	}
}
