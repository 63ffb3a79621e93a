/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage manages the local project workspace: the autosaved
// document file with transactional writes and timestamped backups, and the
// SQLite-backed preview cache.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gophotobook/internal/domain"
)

const (
	DocumentFileName = "project.json"
	BackupsDirName   = "backups"
	PreviewsDirName  = "previews"
)

var standardSubDirs = []string{
	"assets",
	PreviewsDirName,
	BackupsDirName,
}

// Workspace tracks the on-disk state of a locally opened project.
// Root is the workspace directory containing project.json and subfolders.
type Workspace struct {
	Root         string
	DocumentPath string
	Project      domain.Project
}

// InitWorkspace creates a workspace directory at root (creating it if
// needed), scaffolds the standard subfolders, and writes the document
// transactionally.
func InitWorkspace(root string, proj domain.Project) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	ws := &Workspace{
		Root:         root,
		DocumentPath: filepath.Join(root, DocumentFileName),
		Project:      proj,
	}
	if err := Save(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Open loads an existing workspace from the given root directory. If the
// current document cannot be read or parsed, the latest backup is tried.
func Open(root string) (*Workspace, error) {
	dpath := filepath.Join(root, DocumentFileName)
	b, err := os.ReadFile(dpath)
	if err != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &Workspace{Root: root, DocumentPath: dpath, Project: *proj}, nil
	}
	var p domain.Project
	if uerr := json.Unmarshal(b, &p); uerr != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", uerr, berr)
		}
		return &Workspace{Root: root, DocumentPath: dpath, Project: *proj}, nil
	}
	return &Workspace{Root: root, DocumentPath: dpath, Project: p}, nil
}

// Save writes the workspace document to disk with transactional semantics
// and a timestamped backup of the previous document (if present).
func Save(ws *Workspace) error {
	if ws == nil {
		return errors.New("nil Workspace")
	}
	if ws.Root == "" || ws.DocumentPath == "" {
		return errors.New("invalid Workspace: missing paths")
	}
	data, err := json.MarshalIndent(ws.Project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ws.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// Copy the current document to a timestamped backup before replacing.
	if _, statErr := os.Stat(ws.DocumentPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", DocumentFileName, stamp)
		if cerr := copyFile(ws.DocumentPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename.
	dir := filepath.Dir(ws.DocumentPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", DocumentFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed.
	if _, err := os.Stat(ws.DocumentPath); err == nil {
		_ = os.Remove(ws.DocumentPath)
	}
	if rerr := os.Rename(temp, ws.DocumentPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// SaveAs writes the document to a new root folder, scaffolding structure if
// needed, and updates the workspace handle.
func SaveAs(ws *Workspace, newRoot string) error {
	if ws == nil {
		return errors.New("nil Workspace")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	ws.Root = newRoot
	ws.DocumentPath = filepath.Join(newRoot, DocumentFileName)
	return Save(ws)
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Project, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DocumentFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &p, nil
}
