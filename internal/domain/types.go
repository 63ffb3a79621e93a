/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the photobook/postcard editor:
// a Project of ordered Pages, each holding positioned canvas objects, plus
// the asset registry and the physical product (variant) configuration.
// The structures serialize to the JSON shape the persistence and thumbnail
// collaborators consume.

import (
	"gophotobook/internal/geom"
)

// Orientation of a page's printable surface.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Toggled returns the opposite orientation.
func (o Orientation) Toggled() Orientation {
	if o == Landscape {
		return Portrait
	}
	return Landscape
}

// ObjectType discriminates canvas object payloads.
type ObjectType string

const (
	ObjectImage ObjectType = "image"
	ObjectText  ObjectType = "text"
)

// MmPerInch converts millimeters to inches for pixel derivation.
const MmPerInch = 25.4

// VariantConfig describes the physical product medium. Width/height are the
// portrait-base dimensions; effective pixel dimensions swap for landscape.
type VariantConfig struct {
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
	BleedMm  float64 `json:"bleedMm"`
	DPI      float64 `json:"dpi"`
}

// PixelSize derives a page's effective pixel dimensions at the given display
// DPI: (mm / 25.4) * displayDPI, width/height swapped for landscape.
func (v VariantConfig) PixelSize(displayDPI float64, o Orientation) geom.Size {
	w := v.WidthMm / MmPerInch * displayDPI
	h := v.HeightMm / MmPerInch * displayDPI
	if o == Landscape {
		return geom.Size{W: h, H: w}
	}
	return geom.Size{W: w, H: h}
}

// BleedPx converts the bleed margin to display pixels.
func (v VariantConfig) BleedPx(displayDPI float64) float64 {
	return v.BleedMm / MmPerInch * displayDPI
}

// CropRect is the sub-region of source content visible inside a frame.
// Absence on an object means "uncropped": the content rect matches the frame.
type CropRect struct {
	ContentX      float64 `json:"contentX"`
	ContentY      float64 `json:"contentY"`
	ContentWidth  float64 `json:"contentWidth"`
	ContentHeight float64 `json:"contentHeight"`
}

// CanvasObject is a positioned visual element on a page. Coordinates are
// document pixels at the project's editor DPI.
type CanvasObject struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Rotation float64    `json:"rotation,omitempty"` // degrees
	Z        int        `json:"z"`
	// Opacity is in [0,1]. Zero reads as "unset": AddObject substitutes 1, so
	// full transparency is set after insertion via an ObjectPatch.Opacity of 0.
	Opacity float64   `json:"opacity"`
	Crop    *CropRect `json:"crop,omitempty"`
	// type-specific payload
	Src     string `json:"src,omitempty"`     // image preview source URL
	FullSrc string `json:"fullSrc,omitempty"` // full-resolution companion, if known
	Text    string `json:"text,omitempty"`
}

// Frame returns the object's outer positioned rectangle.
func (o CanvasObject) Frame() geom.Rect {
	return geom.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
}

// SetFrame replaces the object's frame rectangle, keeping width/height non-negative.
func (o *CanvasObject) SetFrame(r geom.Rect) {
	o.X, o.Y = r.X, r.Y
	o.Width, o.Height = max(r.W, 0), max(r.H, 0)
}

// EffectiveCrop resolves the optional crop to its default: uncropped objects
// expose a content rect matching the frame.
func (o CanvasObject) EffectiveCrop() CropRect {
	if o.Crop != nil {
		return *o.Crop
	}
	return CropRect{ContentX: 0, ContentY: 0, ContentWidth: o.Width, ContentHeight: o.Height}
}

// Page represents one printable surface. A two-up spread additionally carries
// left/right sub-page identities for layout chrome only; object coordinates
// remain spread-relative regardless.
type Page struct {
	ID          string         `json:"id"`
	Background  string         `json:"background,omitempty"`
	Orientation Orientation    `json:"orientation"`
	Quantity    int            `json:"quantity,omitempty"`
	LeftPageID  string         `json:"leftPageId,omitempty"`
	RightPageID string         `json:"rightPageId,omitempty"`
	Objects     []CanvasObject `json:"objects"`
}

// EffectiveSize returns the page's pixel dimensions for its orientation.
func (p Page) EffectiveSize(v VariantConfig, displayDPI float64) geom.Size {
	return v.PixelSize(displayDPI, p.Orientation)
}

// Asset is a reusable image reference available for placement.
type Asset struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	URL     string  `json:"url"`               // preview URL
	FullURL string  `json:"fullUrl,omitempty"` // full-resolution URL if it differs
	Width   float64 `json:"width,omitempty"`   // intrinsic pixel dimensions
	Height  float64 `json:"height,omitempty"`
}

// Project is the top-level editable unit. ID is nil until the first save.
// Invariant: Pages always holds at least one entry.
type Project struct {
	ID           *int64        `json:"id,omitempty"`
	Title        string        `json:"title"`
	VariantID    *int64        `json:"variantId"`
	SubMissionID *int64        `json:"subMissionId,omitempty"`
	Variant      VariantConfig `json:"variantConfig"`
	EditorDPI    float64       `json:"editorDpi"`
	ShowBleed    bool          `json:"showBleed,omitempty"`
	Pages        []Page        `json:"designs"`
	Assets       []Asset       `json:"assets"`
}

// PageSize returns the effective pixel size of the page at index idx.
func (p Project) PageSize(idx int) geom.Size {
	if idx < 0 || idx >= len(p.Pages) {
		return geom.Size{}
	}
	return p.Pages[idx].EffectiveSize(p.Variant, p.EditorDPI)
}
