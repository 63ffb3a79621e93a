/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package assets

import (
	"strings"

	"gophotobook/internal/domain"
)

// MigrateURL upgrades a legacy thumbnail src to its full-resolution
// counterpart. If the object carries an explicit fullSrc hint that hint wins;
// otherwise the first "/thumbnails/" path segment is rewritten to
// "/originals/". URLs without either stay unchanged.
func MigrateURL(src, fullSrc string) string {
	if fullSrc != "" {
		return fullSrc
	}
	if i := strings.Index(src, "/thumbnails/"); i >= 0 {
		return src[:i] + "/originals/" + src[i+len("/thumbnails/"):]
	}
	return src
}

// MigrateProjectURLs applies MigrateURL to every image object and every
// registry asset in the project and returns the updated copy plus the number
// of rewritten sources.
func MigrateProjectURLs(p domain.Project) (domain.Project, int) {
	changed := 0
	out := p
	out.Pages = append([]domain.Page{}, p.Pages...)
	for pi := range out.Pages {
		pg := out.Pages[pi]
		pg.Objects = append([]domain.CanvasObject{}, pg.Objects...)
		for oi := range pg.Objects {
			o := &pg.Objects[oi]
			if o.Type != domain.ObjectImage {
				continue
			}
			if next := MigrateURL(o.Src, o.FullSrc); next != o.Src {
				o.Src = next
				changed++
			}
		}
		out.Pages[pi] = pg
	}
	out.Assets = append([]domain.Asset{}, p.Assets...)
	for ai := range out.Assets {
		a := &out.Assets[ai]
		if next := MigrateURL(a.URL, a.FullURL); next != a.URL {
			a.URL = next
			changed++
		}
	}
	return out, changed
}
