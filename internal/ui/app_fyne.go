//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gophotobook/internal/backend"
	"gophotobook/internal/config"
	"gophotobook/internal/crash"
	"gophotobook/internal/domain"
	"gophotobook/internal/editor"
	"gophotobook/internal/geom"
	"gophotobook/internal/interact"
	applog "gophotobook/internal/log"
	"gophotobook/internal/layout"
	"gophotobook/internal/storage"
	"gophotobook/internal/version"
	"gophotobook/internal/viewport"
)

// Run starts the Fyne-based desktop editor. workspaceDir may name an
// existing local workspace to open; empty starts an untitled project.
func Run(workspaceDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	var ws *storage.Workspace
	defer func() { crash.Recover(ws) }()

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	client := backend.NewClient(cfg.Backend.BaseURL, token, time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond)

	variant := domain.VariantConfig{WidthMm: 210, HeightMm: 297, BleedMm: 3, DPI: 300}
	session := editor.NewSession(client, cfg.Editor.DisplayDPI, variant)
	if workspaceDir != "" {
		abs, _ := filepath.Abs(workspaceDir)
		h, err := storage.Open(abs)
		if err != nil {
			return fmt.Errorf("open workspace: %w", err)
		}
		ws = h
		session.Apply(func(domain.Project) domain.Project { return h.Project })
	}

	ctrl := interact.NewController(session)
	ctrl.Limits = viewport.Limits{Min: cfg.Editor.MinZoom, Max: cfg.Editor.MaxZoom}

	if ws != nil && cfg.Editor.AutosaveSec > 0 {
		stop := session.StartAutosave(time.Duration(cfg.Editor.AutosaveSec)*time.Second, func(p domain.Project) error {
			ws.Project = p
			return storage.Save(ws)
		})
		defer stop()
	}

	a := app.New()
	w := a.NewWindow("GoPhotobook")
	w.Resize(fyne.NewSize(1280, 860))

	pc := newPageCanvas(session, ctrl)
	status := widget.NewLabel("")

	refresh := func() {
		pc.Refresh()
		snap := session.Snapshot()
		dirty := ""
		if snap.Dirty {
			dirty = " *"
		}
		status.SetText(fmt.Sprintf("%s%s — page %d/%d — zoom %.0f%%",
			snap.Project.Title, dirty, snap.PageIdx+1, len(snap.Project.Pages), ctrl.Viewport.Scale*100))
	}

	saveAction := func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := session.Save(ctx); err != nil {
				fyne.Do(func() { dialog.ShowError(err, w) })
				return
			}
			if ws != nil {
				ws.Project = session.Snapshot().Project
				if err := storage.Save(ws); err != nil {
					l.Warn("local autosave failed", slog.Any("err", err))
				}
			}
			fyne.Do(refresh)
		}()
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), saveAction),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			session.Apply(func(p domain.Project) domain.Project { return p.AddPage() })
			refresh()
		}),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			snap := session.Snapshot()
			if err := session.DeletePage(snap.PageIdx); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refresh()
		}),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			snap := session.Snapshot()
			session.Apply(func(p domain.Project) domain.Project {
				return p.ToggleOrientation(snap.PageIdx)
			})
			refresh()
		}),
		widget.NewToolbarAction(theme.GridIcon(), func() {
			snap := session.Snapshot()
			session.Apply(func(p domain.Project) domain.Project {
				updates := layout.Arrange(p.Pages[snap.PageIdx], p.Variant, p.EditorDPI, layout.Options{})
				return layout.Apply(p, snap.PageIdx, updates)
			})
			refresh()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() {
			ctrl.Viewport = ctrl.Viewport.ZoomIn(ctrl.Limits)
			refresh()
		}),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() {
			ctrl.Viewport = ctrl.Viewport.ZoomOut(ctrl.Limits)
			refresh()
		}),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() {
			pc.fit()
			refresh()
		}),
	)

	pageList := widget.NewList(
		func() int { return len(session.Snapshot().Project.Pages) },
		func() fyne.CanvasObject { return widget.NewLabel("Page") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(fmt.Sprintf("Page %d", i+1))
		},
	)
	pageList.OnSelected = func(i widget.ListItemID) {
		session.SelectPage(i)
		refresh()
	}

	w.SetContent(container.NewBorder(toolbar, status, pageList, nil, pc))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		key := interact.KeyNone
		switch ev.Name {
		case fyne.KeyLeft:
			key = interact.KeyLeft
		case fyne.KeyRight:
			key = interact.KeyRight
		case fyne.KeyUp:
			key = interact.KeyUp
		case fyne.KeyDown:
			key = interact.KeyDown
		case fyne.KeyDelete, fyne.KeyBackspace:
			key = interact.KeyDelete
		case fyne.KeySpace:
			key = interact.KeySpace
		}
		if key == interact.KeyNone {
			return
		}
		if ctrl.HandleKey(context.Background(), key, interact.Modifiers{}) {
			refresh()
		}
	})
	// Shift variants arrive as shortcuts, not typed keys.
	for name, key := range map[fyne.KeyName]interact.Key{
		fyne.KeyLeft:  interact.KeyLeft,
		fyne.KeyRight: interact.KeyRight,
		fyne.KeyUp:    interact.KeyUp,
		fyne.KeyDown:  interact.KeyDown,
	} {
		k := key
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: name, Modifier: fyne.KeyModifierShift}, func(fyne.Shortcut) {
			if ctrl.HandleKey(context.Background(), k, interact.Modifiers{Shift: true}) {
				refresh()
			}
		})
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		saveAction()
	})

	w.SetCloseIntercept(func() {
		if !session.Dirty() {
			w.Close()
			return
		}
		content := widget.NewLabel("This project has unsaved changes.")
		var d *dialog.CustomDialog
		saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
			d.Hide()
			go func() {
				err := session.GuardedNavigate(context.Background(), editor.NavigateSave, func() {
					fyne.Do(w.Close)
				})
				if err != nil {
					fyne.Do(func() { dialog.ShowError(err, w) })
				}
			}()
		})
		discardBtn := widget.NewButtonWithIcon("Discard", theme.DeleteIcon(), func() {
			d.Hide()
			_ = session.GuardedNavigate(context.Background(), editor.NavigateDiscard, w.Close)
		})
		d = dialog.NewCustom("Unsaved Changes", "Cancel",
			container.NewVBox(content, container.NewHBox(saveBtn, discardBtn)), w)
		d.Show()
	})

	pc.onChange = refresh
	refresh()
	w.ShowAndRun()
	return nil
}

// pageCanvas renders the current page and routes pointer gestures to the
// interaction controller.
type pageCanvas struct {
	widget.BaseWidget
	session  *editor.Session
	ctrl     *interact.Controller
	onChange func()
	guides   []geom.GuideLine
	fitOnce  bool
	refit    *viewport.Debouncer
}

func newPageCanvas(s *editor.Session, c *interact.Controller) *pageCanvas {
	pc := &pageCanvas{session: s, ctrl: c}
	pc.refit = viewport.NewDebouncer(viewport.DefaultRefitDelay, func() {
		fyne.Do(func() {
			pc.fit()
			if pc.onChange != nil {
				pc.onChange()
			}
		})
	})
	pc.ExtendBaseWidget(pc)
	return pc
}

func (p *pageCanvas) fit() {
	sz := p.Size()
	snap := p.session.Snapshot()
	doc := snap.Project.PageSize(snap.PageIdx)
	p.ctrl.Viewport = viewport.FitToViewport(
		geom.Size{W: float64(sz.Width), H: float64(sz.Height)}, doc)
}

func (p *pageCanvas) Resize(size fyne.Size) {
	p.BaseWidget.Resize(size)
	if !p.fitOnce {
		p.fitOnce = true
		p.fit()
		return
	}
	p.refit.Trigger()
}

func (p *pageCanvas) Tapped(e *fyne.PointEvent) {
	pt := geom.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	doc := p.ctrl.Viewport.ScreenToDocument(pt, geom.Pt{})
	snap := p.session.Snapshot()
	id := ""
	for _, o := range snap.Project.Pages[snap.PageIdx].SortedByZ() {
		if o.Frame().Contains(doc) {
			id = o.ID
		}
	}
	p.session.SelectObject(id)
	if p.onChange != nil {
		p.onChange()
	}
}

func (p *pageCanvas) Dragged(e *fyne.DragEvent) {
	pt := geom.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	if p.ctrl.PanMode {
		p.ctrl.Pan(float64(e.Dragged.DX), float64(e.Dragged.DY))
	} else if p.ctrl.DragActive() {
		p.guides = p.ctrl.DragTo(pt, geom.Pt{})
	} else {
		prev := geom.Pt{X: pt.X - float64(e.Dragged.DX), Y: pt.Y - float64(e.Dragged.DY)}
		if p.ctrl.BeginDrag(prev, geom.Pt{}) {
			p.guides = p.ctrl.DragTo(pt, geom.Pt{})
		}
	}
	if p.onChange != nil {
		p.onChange()
	}
}

func (p *pageCanvas) DragEnd() {
	p.ctrl.EndDrag()
	p.guides = nil
	if p.onChange != nil {
		p.onChange()
	}
}

func (p *pageCanvas) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY > 0 {
		p.ctrl.Viewport = p.ctrl.Viewport.ZoomIn(p.ctrl.Limits)
	} else if e.Scrolled.DY < 0 {
		p.ctrl.Viewport = p.ctrl.Viewport.ZoomOut(p.ctrl.Limits)
	}
	if p.onChange != nil {
		p.onChange()
	}
}

func (p *pageCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 0x2e, G: 0x2e, B: 0x2e, A: 0xff})
	return &pageCanvasRenderer{pc: p, bg: bg}
}

type pageCanvasRenderer struct {
	pc      *pageCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(640, 480) }

func (r *pageCanvasRenderer) Refresh() {
	r.Layout(r.pc.Size())
	canvas.Refresh(r.pc)
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	objs := []fyne.CanvasObject{r.bg}

	snap := r.pc.session.Snapshot()
	vp := r.pc.ctrl.Viewport
	toScreen := func(pt geom.Pt) fyne.Position {
		s := vp.DocumentToScreen(pt, geom.Pt{})
		return fyne.NewPos(float32(s.X), float32(s.Y))
	}

	pageSize := snap.Project.PageSize(snap.PageIdx)
	page := canvas.NewRectangle(parseColor(snap.Project.Pages[snap.PageIdx].Background))
	page.Move(toScreen(geom.Pt{}))
	page.Resize(fyne.NewSize(float32(pageSize.W*vp.Scale), float32(pageSize.H*vp.Scale)))
	objs = append(objs, page)

	if snap.Project.ShowBleed {
		bleed := canvas.NewRectangle(color.Transparent)
		bleed.StrokeColor = color.NRGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xa0}
		bleed.StrokeWidth = 1
		inset := snap.Project.Variant.BleedPx(snap.Project.EditorDPI)
		bleed.Move(toScreen(geom.Pt{X: inset, Y: inset}))
		bleed.Resize(fyne.NewSize(
			float32((pageSize.W-2*inset)*vp.Scale), float32((pageSize.H-2*inset)*vp.Scale)))
		objs = append(objs, bleed)
	}

	for _, o := range snap.Project.Pages[snap.PageIdx].SortedByZ() {
		var co fyne.CanvasObject
		switch o.Type {
		case domain.ObjectText:
			txt := canvas.NewText(o.Text, color.Black)
			txt.TextSize = float32(16 * vp.Scale)
			co = txt
		default:
			rect := canvas.NewRectangle(color.NRGBA{R: 0xb0, G: 0xc4, B: 0xde, A: uint8(o.Opacity * 255)})
			rect.StrokeColor = color.NRGBA{A: 0x60}
			rect.StrokeWidth = 1
			co = rect
		}
		co.Move(toScreen(geom.Pt{X: o.X, Y: o.Y}))
		co.Resize(fyne.NewSize(float32(o.Width*vp.Scale), float32(o.Height*vp.Scale)))
		objs = append(objs, co)

		if o.ID == snap.SelectedID {
			sel := canvas.NewRectangle(color.Transparent)
			sel.StrokeColor = theme.Color(theme.ColorNamePrimary)
			sel.StrokeWidth = 2
			sel.Move(toScreen(geom.Pt{X: o.X, Y: o.Y}))
			sel.Resize(fyne.NewSize(float32(o.Width*vp.Scale), float32(o.Height*vp.Scale)))
			objs = append(objs, sel)
		}
	}

	for _, g := range r.pc.guides {
		line := canvas.NewLine(color.NRGBA{R: 0xff, G: 0x4d, B: 0x9e, A: 0xff})
		line.StrokeWidth = 1
		line.Position1 = toScreen(g.From)
		line.Position2 = toScreen(g.To)
		objs = append(objs, line)
	}

	r.objects = objs
}

// parseColor decodes a #rrggbb background string, defaulting to white.
func parseColor(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.White
	}
	var rr, gg, bb uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return color.White
	}
	return color.NRGBA{R: rr, G: gg, B: bb, A: 0xff}
}
