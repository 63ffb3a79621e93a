/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"

	"gophotobook/internal/assets"
	"gophotobook/internal/domain"
	applog "gophotobook/internal/log"
)

// Load fetches a project and installs it as the session document. While the
// load and its migrations run, dirty comparison is suspended; once finished
// the migrated document becomes the clean baseline, so migrations alone
// never leave a freshly opened project dirty.
func (s *Session) Load(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	p, err := s.backend.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	p = s.migrate(p)

	s.mu.Lock()
	s.project = p
	s.pageIdx = 0
	s.selectedID = ""
	s.baseline = serialize(p)
	s.mu.Unlock()
	return nil
}

// migrate normalizes a stored project for this session: fills defaults for
// fields older documents lack, rescales coordinates when the stored editor
// DPI differs from the session's, and upgrades legacy asset URLs.
func (s *Session) migrate(p domain.Project) domain.Project {
	logger := applog.WithOperation(applog.L(), "load")

	if p.Assets == nil {
		p.Assets = []domain.Asset{}
	}
	if len(p.Pages) == 0 {
		p.Pages = []domain.Page{domain.NewPage()}
	}
	for i := range p.Pages {
		if p.Pages[i].Orientation == "" {
			p.Pages[i].Orientation = domain.Portrait
		}
		if p.Pages[i].Objects == nil {
			p.Pages[i].Objects = []domain.CanvasObject{}
		}
	}
	if p.Variant == (domain.VariantConfig{}) {
		p.Variant = s.variant
	}
	if p.EditorDPI == 0 {
		p.EditorDPI = s.displayDPI
	}

	if p.EditorDPI != s.displayDPI {
		logger.Info("rescaling document", "from_dpi", p.EditorDPI, "to_dpi", s.displayDPI)
		p = Rescale(p, p.EditorDPI, s.displayDPI)
	}

	if migrated, n := assets.MigrateProjectURLs(p); n > 0 {
		logger.Info("migrated legacy asset urls", "count", n)
		p = migrated
	}
	return p
}

// Rescale converts every object coordinate from one editor DPI to another.
// The factor applies uniformly to positions, sizes and crop rectangles; the
// variant itself is millimetre-based and unchanged.
func Rescale(p domain.Project, fromDPI, toDPI float64) domain.Project {
	if fromDPI <= 0 || toDPI <= 0 || fromDPI == toDPI {
		return p
	}
	k := toDPI / fromDPI
	out := p
	out.EditorDPI = toDPI
	out.Pages = append([]domain.Page{}, p.Pages...)
	for pi := range out.Pages {
		pg := out.Pages[pi]
		pg.Objects = append([]domain.CanvasObject{}, pg.Objects...)
		for oi := range pg.Objects {
			o := &pg.Objects[oi]
			o.X *= k
			o.Y *= k
			o.Width *= k
			o.Height *= k
			if o.Crop != nil {
				c := *o.Crop
				c.ContentX *= k
				c.ContentY *= k
				c.ContentWidth *= k
				c.ContentHeight *= k
				o.Crop = &c
			}
		}
		out.Pages[pi] = pg
	}
	return out
}
