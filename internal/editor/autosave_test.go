/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"sync/atomic"
	"testing"
	"time"

	"gophotobook/internal/domain"
)

func TestAutosaveWritesOnlyWhenDirty(t *testing.T) {
	s := newTestSession(&fakeBackend{})
	var writes atomic.Int32
	stop := s.StartAutosave(20*time.Millisecond, func(p domain.Project) error {
		writes.Add(1)
		return nil
	})
	defer stop()

	time.Sleep(80 * time.Millisecond)
	if writes.Load() != 0 {
		t.Fatalf("clean session must not autosave, got %d writes", writes.Load())
	}

	s.Apply(func(p domain.Project) domain.Project {
		return p.SetBackground(0, "#abcdef")
	})
	deadline := time.Now().Add(2 * time.Second)
	for writes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if writes.Load() == 0 {
		t.Fatalf("dirty session must autosave")
	}
}

func TestAutosaveStopIsIdempotent(t *testing.T) {
	s := newTestSession(&fakeBackend{})
	stop := s.StartAutosave(10*time.Millisecond, func(domain.Project) error { return nil })
	stop()
	stop()

	if got := s.StartAutosave(0, nil); got == nil {
		t.Fatalf("disabled autosave must still return a stop func")
	}
}
