/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gophotobook/internal/domain"
	"gophotobook/internal/storage"
)

func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	ws, err := storage.InitWorkspace(root, domain.NewProject("crashy", domain.VariantConfig{WidthMm: 100, HeightMm: 100, DPI: 300}, 100))
	if err != nil {
		t.Fatalf("init workspace: %v", err)
	}

	exitCode := -1
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = os.Exit }()

	func() {
		defer Recover(ws)
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode)
	}
	ents, err := os.ReadDir(filepath.Join(root, storage.BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	var haveReport, haveSnapshot bool
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			haveReport = true
		}
		if strings.Contains(e.Name(), ".crash-") && strings.HasSuffix(e.Name(), ".json") {
			haveSnapshot = true
		}
	}
	if !haveReport || !haveSnapshot {
		t.Fatalf("expected crash report and snapshot, report=%v snapshot=%v", haveReport, haveSnapshot)
	}
	if snap := storage.LatestCrashSnapshot(root); snap == "" {
		t.Fatalf("latest crash snapshot not found")
	}
}

func TestRecoverWithoutPanicIsNoOp(t *testing.T) {
	exitCode := -1
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = os.Exit }()

	func() {
		defer Recover(nil)
	}()
	if exitCode != -1 {
		t.Fatalf("recover without panic must not exit")
	}
}
