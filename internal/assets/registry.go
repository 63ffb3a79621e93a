/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets manages a project's image library: registration, removal
// guarded by an in-use scan, and pending-upload placeholders that keep their
// display position while the upload is in flight.
package assets

import (
	"strings"

	"github.com/google/uuid"

	"gophotobook/internal/domain"
)

// PendingPrefix marks placeholder asset IDs for uploads that have not
// completed yet. Pending assets must never be placed on a page.
const PendingPrefix = "pending:"

// Add appends an asset to the project library. An empty ID is assigned a
// fresh one. Returns an updated copy; the receiver project is untouched.
func Add(p domain.Project, a domain.Asset) domain.Project {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	out := p
	out.Assets = append(append([]domain.Asset{}, p.Assets...), a)
	return out
}

// Remove deletes the asset with the given id from the library. If any canvas
// object on any page still references the asset's URLs, removal fails with a
// ResourceInUseError. Removing an unknown id is a no-op.
func Remove(p domain.Project, id string) (domain.Project, error) {
	idx := -1
	for i := range p.Assets {
		if p.Assets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, nil
	}
	a := p.Assets[idx]
	if inUse(p, a) {
		return p, &domain.ResourceInUseError{Resource: "asset", ID: id}
	}
	out := p
	out.Assets = make([]domain.Asset, 0, len(p.Assets)-1)
	out.Assets = append(out.Assets, p.Assets[:idx]...)
	out.Assets = append(out.Assets, p.Assets[idx+1:]...)
	return out, nil
}

func inUse(p domain.Project, a domain.Asset) bool {
	for pi := range p.Pages {
		for oi := range p.Pages[pi].Objects {
			o := &p.Pages[pi].Objects[oi]
			if o.Type != domain.ObjectImage {
				continue
			}
			if o.Src != "" && (o.Src == a.URL || o.Src == a.FullURL) {
				return true
			}
			if o.FullSrc != "" && (o.FullSrc == a.URL || o.FullSrc == a.FullURL) {
				return true
			}
		}
	}
	return false
}

// ByID looks up an asset in the library.
func ByID(p domain.Project, id string) (domain.Asset, bool) {
	for i := range p.Assets {
		if p.Assets[i].ID == id {
			return p.Assets[i], true
		}
	}
	return domain.Asset{}, false
}

// AddPending inserts a placeholder for an upload that has been started but
// not finished. The returned token identifies the placeholder for
// ResolvePending or FailPending.
func AddPending(p domain.Project, name string) (domain.Project, string) {
	token := PendingPrefix + uuid.NewString()
	out := Add(p, domain.Asset{ID: token, Name: name})
	return out, token
}

// IsPending reports whether an asset id is an unresolved upload placeholder.
func IsPending(id string) bool { return strings.HasPrefix(id, PendingPrefix) }

// ResolvePending replaces the placeholder identified by token with the real
// asset, keeping the placeholder's position so the library display order is
// stable. An unknown token falls back to a plain Add.
func ResolvePending(p domain.Project, token string, a domain.Asset) domain.Project {
	if a.ID == "" || IsPending(a.ID) {
		a.ID = uuid.NewString()
	}
	for i := range p.Assets {
		if p.Assets[i].ID == token {
			out := p
			out.Assets = append([]domain.Asset{}, p.Assets...)
			if a.Name == "" {
				a.Name = out.Assets[i].Name
			}
			out.Assets[i] = a
			return out
		}
	}
	return Add(p, a)
}

// FailPending drops the placeholder identified by token. Unknown tokens are
// a no-op.
func FailPending(p domain.Project, token string) domain.Project {
	for i := range p.Assets {
		if p.Assets[i].ID == token {
			out := p
			out.Assets = make([]domain.Asset, 0, len(p.Assets)-1)
			out.Assets = append(out.Assets, p.Assets[:i]...)
			out.Assets = append(out.Assets, p.Assets[i+1:]...)
			return out
		}
	}
	return p
}
