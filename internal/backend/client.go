/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package backend is the HTTP client for the project persistence API: saving
// and loading projects and requesting server-side thumbnail renders.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gophotobook/internal/domain"
)

// Client talks to the photobook persistence service.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a backend client. baseURL may include a trailing slash;
// it will be normalized. A non-positive timeout defaults to 10s.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// DesignsData is the nested document payload inside a save request.
type DesignsData struct {
	Designs       []domain.Page        `json:"designs"`
	Assets        []domain.Asset       `json:"assets"`
	VariantConfig domain.VariantConfig `json:"variantConfig"`
	EditorDPI     float64              `json:"editorDpi"`
}

// SaveRequest is the wire shape of a project save.
type SaveRequest struct {
	Title        string      `json:"title"`
	VariantID    *int64      `json:"variantId"`
	DesignsData  DesignsData `json:"designsData"`
	SubMissionID *int64      `json:"subMissionId,omitempty"`
}

// SaveResponse carries the server-assigned project id.
type SaveResponse struct {
	ID int64 `json:"id"`
}

// SaveProjectPayload builds the wire payload for a project.
func SaveProjectPayload(p domain.Project) SaveRequest {
	assets := p.Assets
	if assets == nil {
		assets = []domain.Asset{}
	}
	return SaveRequest{
		Title:     p.Title,
		VariantID: p.VariantID,
		DesignsData: DesignsData{
			Designs:       p.Pages,
			Assets:        assets,
			VariantConfig: p.Variant,
			EditorDPI:     p.EditorDPI,
		},
		SubMissionID: p.SubMissionID,
	}
}

// SaveProject persists the project. A nil project ID creates a new record
// via POST; an existing ID updates it via PUT. The returned id is the
// server-assigned one (equal to the existing id on update).
func (c *Client) SaveProject(ctx context.Context, p domain.Project) (int64, error) {
	req := SaveProjectPayload(p)
	var resp SaveResponse
	if p.ID == nil {
		if err := c.doJSON(ctx, http.MethodPost, "/api/projects", req, &resp); err != nil {
			return 0, err
		}
		return resp.ID, nil
	}
	path := fmt.Sprintf("/api/projects/%d", *p.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &resp); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return *p.ID, nil
	}
	return resp.ID, nil
}

// loadEnvelope is the wire shape of a project fetch.
type loadEnvelope struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	VariantID    *int64           `json:"variantId"`
	SubMissionID *int64           `json:"subMissionId"`
	DesignsData  *json.RawMessage `json:"designsData"`
}

// LoadProject fetches a project by id and reassembles the domain model.
// Missing designsData fields fall back to zero values; the editor layer is
// responsible for filling defaults and running migrations.
func (c *Client) LoadProject(ctx context.Context, id int64) (domain.Project, error) {
	var env loadEnvelope
	path := fmt.Sprintf("/api/projects/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return domain.Project{}, err
	}
	p := domain.Project{
		ID:           &env.ID,
		Title:        env.Title,
		VariantID:    env.VariantID,
		SubMissionID: env.SubMissionID,
	}
	if env.DesignsData != nil {
		var dd DesignsData
		if err := json.Unmarshal(*env.DesignsData, &dd); err != nil {
			return domain.Project{}, fmt.Errorf("decode designsData: %w", err)
		}
		p.Pages = dd.Designs
		p.Assets = dd.Assets
		p.Variant = dd.VariantConfig
		p.EditorDPI = dd.EditorDPI
	}
	return p, nil
}

// ThumbnailRequest asks the server to render a page preview.
type ThumbnailRequest struct {
	Design struct {
		Objects     []domain.CanvasObject `json:"objects"`
		Background  string                `json:"background"`
		Orientation domain.Orientation    `json:"orientation"`
	} `json:"design"`
	Variant struct {
		WidthMm  float64 `json:"widthMm"`
		HeightMm float64 `json:"heightMm"`
		BleedMm  float64 `json:"bleedMm"`
	} `json:"variant"`
	ProjectID   int64  `json:"projectId"`
	ProjectType string `json:"projectType"`
}

// ThumbnailResponse is the render result.
type ThumbnailResponse struct {
	Success      bool   `json:"success"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// RenderThumbnail requests a server-side render of one page. Callers treat
// failures as non-fatal; a saved project without a fresh thumbnail is still
// saved.
func (c *Client) RenderThumbnail(ctx context.Context, p domain.Project, pageIdx int) (string, error) {
	if pageIdx < 0 || pageIdx >= len(p.Pages) {
		return "", fmt.Errorf("render thumbnail: page index %d out of range", pageIdx)
	}
	if p.ID == nil {
		return "", fmt.Errorf("render thumbnail: project not saved yet")
	}
	pg := p.Pages[pageIdx]
	var req ThumbnailRequest
	req.Design.Objects = pg.SortedByZ()
	req.Design.Background = pg.Background
	req.Design.Orientation = pg.Orientation
	req.Variant.WidthMm = p.Variant.WidthMm
	req.Variant.HeightMm = p.Variant.HeightMm
	req.Variant.BleedMm = p.Variant.BleedMm
	req.ProjectID = *p.ID
	req.ProjectType = "photobook"

	var resp ThumbnailResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/thumbnails", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("render thumbnail: server reported failure")
	}
	return resp.ThumbnailURL, nil
}
