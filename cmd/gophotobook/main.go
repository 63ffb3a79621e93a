/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gophotobook/internal/backend"
	"gophotobook/internal/config"
	"gophotobook/internal/crash"
	"gophotobook/internal/domain"
	"gophotobook/internal/layout"
	applog "gophotobook/internal/log"
	"gophotobook/internal/preview"
	"gophotobook/internal/storage"
	"gophotobook/internal/telemetry"
	"gophotobook/internal/ui"
	"gophotobook/internal/version"
)

func usage() {
	fmt.Println("GoPhotobook — page layout editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gophotobook version|-v|--version           Show version")
	fmt.Println("  gophotobook new <dir> <title>              Create a local workspace at <dir>")
	fmt.Println("  gophotobook open <dir>                     Open workspace at <dir> and print summary")
	fmt.Println("  gophotobook save <dir>                     Re-save workspace at <dir> (creates backup)")
	fmt.Println("  gophotobook arrange <dir> <page>           Auto-arrange objects on 1-based page <page>")
	fmt.Println("  gophotobook previews <dir> [edge]          Render cached page previews into previews/")
	fmt.Println("  gophotobook pull <dir> <id>                Fetch project <id> from the backend into <dir>")
	fmt.Println("  gophotobook ui [<dir>]                     Launch desktop UI (build with -tags fyne)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ws *storage.Workspace
	defer func() { crash.Recover(ws) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GoPhotobook — page layout editor")
			fmt.Println(version.String())
			return
		case "new":
			if len(args) < 4 {
				fmt.Println("new requires <dir> and <title>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			title := args[3]
			cfg, _, _ := config.Load()
			l.Info("new workspace", slog.String("root", abs), slog.String("title", title))
			p := domain.NewProject(title, domain.VariantConfig{WidthMm: 210, HeightMm: 297, BleedMm: 3, DPI: 300}, cfg.Editor.DisplayDPI)
			h, err := storage.InitWorkspace(abs, p)
			if err != nil {
				l.Error("new failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Println("Created workspace at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open workspace", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Printf("Opened project: %s\n", h.Project.Title)
			fmt.Printf("Pages: %d  Assets: %d\n", len(h.Project.Pages), len(h.Project.Assets))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save workspace", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved project and created a backup of the previous document (if any).")
			return
		case "arrange":
			if len(args) < 4 {
				fmt.Println("arrange requires <dir> and <page>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			pageNo, err := strconv.Atoi(args[3])
			if err != nil || pageNo < 1 {
				fmt.Println("page must be a positive number")
				os.Exit(2)
			}
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			idx := pageNo - 1
			if idx >= len(h.Project.Pages) {
				fmt.Printf("page %d out of range (%d pages)\n", pageNo, len(h.Project.Pages))
				os.Exit(2)
			}
			updates := layout.Arrange(h.Project.Pages[idx], h.Project.Variant, h.Project.EditorDPI, layout.Options{})
			h.Project = layout.Apply(h.Project, idx, updates)
			if err := storage.Save(h); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			// Cached previews for the page are stale now.
			if db, err := storage.OpenCache(abs); err == nil {
				_ = storage.DeletePagePreviews(context.Background(), db, h.Project.Pages[idx].ID)
				_ = db.Close()
			}
			l.Info("arranged page", slog.Int("page", pageNo), slog.Int("objects", len(updates)))
			telemetry.Event("page_arranged", map[string]any{"objects": len(updates)})
			fmt.Printf("Arranged %d objects on page %d.\n", len(updates), pageNo)
			return
		case "previews":
			if len(args) < 3 {
				fmt.Println("previews requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			edge := preview.DefaultEdge
			if len(args) >= 4 {
				n, err := strconv.Atoi(args[3])
				if err != nil || n < 16 {
					fmt.Println("edge must be a number >= 16")
					os.Exit(2)
				}
				edge = n
			}
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			db, err := storage.OpenCache(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer db.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			outDir := filepath.Join(abs, storage.PreviewsDirName)
			for i, pg := range h.Project.Pages {
				w, ph := preview.Size(pg, h.Project.Variant, h.Project.EditorDPI, edge)
				data, err := storage.GetOrCreatePreview(ctx, db, pg.ID, w, ph, func(context.Context) ([]byte, error) {
					return preview.Render(pg, h.Project.Variant, h.Project.EditorDPI, w, ph)
				})
				if err != nil {
					l.Error("preview failed", slog.Int("page", i+1), slog.Any("err", err))
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				name := filepath.Join(outDir, fmt.Sprintf("page-%03d.png", i+1))
				if err := os.WriteFile(name, data, 0o644); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
			}
			fmt.Printf("Wrote %d previews into %s\n", len(h.Project.Pages), outDir)
			return
		case "pull":
			if len(args) < 4 {
				fmt.Println("pull requires <dir> and <id>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			id, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				fmt.Println("id must be a number")
				os.Exit(2)
			}
			cfg, token, _ := config.Load()
			client := backend.NewClient(cfg.Backend.BaseURL, token, time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			p, err := client.LoadProject(ctx, id)
			if err != nil {
				l.Error("pull failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h, err := storage.InitWorkspace(abs, p)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ws = h
			fmt.Printf("Pulled project %d (%s) into %s\n", id, p.Title, abs)
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
