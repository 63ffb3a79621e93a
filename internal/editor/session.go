/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the live editing session: the current project, page
// and object selection, and the dirty-state machine gating navigation away
// from unsaved work.
package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gophotobook/internal/backend"
	"gophotobook/internal/domain"
	applog "gophotobook/internal/log"
	"gophotobook/internal/telemetry"
)

// Backend is the subset of the persistence client the session needs.
type Backend interface {
	SaveProject(ctx context.Context, p domain.Project) (int64, error)
	LoadProject(ctx context.Context, id int64) (domain.Project, error)
	RenderThumbnail(ctx context.Context, p domain.Project, pageIdx int) (string, error)
}

// Snapshot is a consistent read of session state for rendering.
type Snapshot struct {
	Project    domain.Project
	PageIdx    int
	SelectedID string
	Dirty      bool
}

// Session owns the mutable editing state. All exported methods are safe for
// concurrent use.
type Session struct {
	mu         sync.Mutex
	project    domain.Project
	baseline   string
	loading    bool
	pageIdx    int
	selectedID string

	backend    Backend
	displayDPI float64
	variant    domain.VariantConfig
}

// NewSession builds a session around an empty untitled project.
func NewSession(b Backend, displayDPI float64, variant domain.VariantConfig) *Session {
	s := &Session{backend: b, displayDPI: displayDPI, variant: variant}
	s.project = domain.NewProject("Untitled", variant, displayDPI)
	s.baseline = serialize(s.project)
	return s
}

// serialize produces the canonical document form used for dirty comparison.
// Only persisted content participates; viewport and selection never do.
func serialize(p domain.Project) string {
	raw, err := json.Marshal(backend.SaveProjectPayload(p))
	if err != nil {
		// Marshal of plain structs cannot fail; keep a distinct sentinel
		// so a broken serialization always reads as dirty.
		return fmt.Sprintf("!err:%v", err)
	}
	return string(raw)
}

// Snapshot returns a consistent copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Project:    s.project,
		PageIdx:    s.pageIdx,
		SelectedID: s.selectedID,
		Dirty:      s.dirtyLocked(),
	}
}

// Dirty reports whether the document differs from the last saved or loaded
// baseline. Always false while a load is in progress.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	if s.loading {
		return false
	}
	return serialize(s.project) != s.baseline
}

// Apply runs a document mutation and stores the result. The mutation fn
// receives the current project and returns the replacement; it must not
// retain the input.
func (s *Session) Apply(fn func(domain.Project) domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = fn(s.project)
	s.clampSelectionLocked()
}

// ApplyErr is Apply for mutations that can fail; on error the document is
// left unchanged.
func (s *Session) ApplyErr(fn func(domain.Project) (domain.Project, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.project)
	if err != nil {
		return err
	}
	s.project = next
	s.clampSelectionLocked()
	return nil
}

// SelectPage switches the current page and clears the object selection.
func (s *Session) SelectPage(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.project.Pages) {
		return
	}
	s.pageIdx = idx
	s.selectedID = ""
}

// SelectObject sets the selected object on the current page. An empty id
// clears the selection; unknown ids clear it too.
func (s *Session) SelectObject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selectedID = ""
		return
	}
	if _, ok := s.project.ObjectByID(s.pageIdx, id); !ok {
		s.selectedID = ""
		return
	}
	s.selectedID = id
}

// DeleteSelected removes the selected object, if any, and clears selection.
func (s *Session) DeleteSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return
	}
	s.project = s.project.DeleteObject(s.pageIdx, s.selectedID)
	s.selectedID = ""
}

// DeletePage removes the page at idx, clamping the current page index into
// the remaining range.
func (s *Session) DeletePage(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.project.DeletePage(idx)
	if err != nil {
		return err
	}
	s.project = next
	if s.pageIdx >= len(s.project.Pages) {
		s.pageIdx = len(s.project.Pages) - 1
	}
	s.selectedID = ""
	return nil
}

// clampSelectionLocked drops a selection that no longer resolves after a
// mutation, and keeps pageIdx inside the page list.
func (s *Session) clampSelectionLocked() {
	if s.pageIdx >= len(s.project.Pages) {
		s.pageIdx = len(s.project.Pages) - 1
	}
	if s.pageIdx < 0 {
		s.pageIdx = 0
	}
	if s.selectedID == "" {
		return
	}
	if _, ok := s.project.ObjectByID(s.pageIdx, s.selectedID); !ok {
		s.selectedID = ""
	}
}

// Save persists the document. The payload is assembled from the state at
// send time, so edits made after Save is requested but before the request is
// built are included. On success the baseline resets and a thumbnail render
// is attempted for the current page; thumbnail failures are logged and do
// not fail the save. On save failure the document stays dirty.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	p := s.project
	pageIdx := s.pageIdx
	s.mu.Unlock()

	logger := applog.WithOperation(applog.L(), "save")
	id, err := s.backend.SaveProject(ctx, p)
	if err != nil {
		logger.Error("project save failed", "err", err)
		return err
	}

	s.mu.Lock()
	if s.project.ID == nil {
		s.project.ID = &id
		p.ID = &id
	}
	s.baseline = serialize(p)
	s.mu.Unlock()
	logger.Info("project saved", "project_id", id)
	telemetry.Event("project_saved", map[string]any{"pages": len(p.Pages)})

	if _, err := s.backend.RenderThumbnail(ctx, p, pageIdx); err != nil {
		logger.Warn("thumbnail render failed", "err", err)
	}
	return nil
}

// NavigateDecision is the user's answer to the unsaved-changes prompt.
type NavigateDecision int

const (
	// NavigateSave saves first, then navigates.
	NavigateSave NavigateDecision = iota
	// NavigateDiscard drops unsaved changes and navigates.
	NavigateDiscard
	// NavigateCancel stays on the document.
	NavigateCancel
)

// GuardedNavigate runs navigate only when leaving is safe: immediately when
// the document is clean, otherwise according to the decision. With
// NavigateSave a failed save blocks navigation and returns the error.
func (s *Session) GuardedNavigate(ctx context.Context, decision NavigateDecision, navigate func()) error {
	if !s.Dirty() {
		navigate()
		return nil
	}
	switch decision {
	case NavigateSave:
		if err := s.Save(ctx); err != nil {
			return err
		}
		navigate()
		return nil
	case NavigateDiscard:
		s.mu.Lock()
		s.baseline = serialize(s.project)
		s.mu.Unlock()
		navigate()
		return nil
	default:
		return nil
	}
}
