/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestDisabledByDefault(t *testing.T) {
	c := New(Config{})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("telemetry must be disabled without opt-in")
	}
	c = New(Config{OptIn: true})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("opt-in without endpoint must stay disabled")
	}
}

func TestEventDelivery(t *testing.T) {
	var mu sync.Mutex
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("project_saved", map[string]any{"pages": 3})
	c.Flush(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected one event, got %d", len(got))
	}
	ev := got[0]
	if ev["name"] != "project_saved" || ev["pages"] != 3.0 {
		t.Fatalf("event payload: %v", ev)
	}
	for _, key := range []string{"ts", "version", "os", "arch"} {
		if _, ok := ev[key]; !ok {
			t.Fatalf("event missing %q: %v", key, ev)
		}
	}
}

func TestEventDroppedWhenDisabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("ignored", nil)
	c.Flush(context.Background())
	time.Sleep(50 * time.Millisecond)
	if hits != 0 {
		t.Fatalf("disabled client must not send, got %d hits", hits)
	}
}

func TestUploadCrashRequiresOptIn(t *testing.T) {
	done := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done <- struct{}{}
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.UploadCrash([]byte("report"))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("crash upload never arrived")
	}

	off := New(Config{OptIn: false, CrashURL: srv.URL, Timeout: time.Second})
	defer off.Close()
	off.UploadCrash([]byte("report"))
	select {
	case <-done:
		t.Fatalf("opt-out client must not upload")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GPB_TELEMETRY_OPT_IN", "yes")
	t.Setenv("GPB_TELEMETRY_URL", "https://example.com/events")
	t.Setenv("GPB_CRASH_UPLOAD_URL", "https://example.com/crash")
	t.Setenv("GPB_TELEMETRY_TIMEOUT_MS", "250")
	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "https://example.com/events" || cfg.CrashURL != "https://example.com/crash" {
		t.Fatalf("env config: %+v", cfg)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("timeout: %v", cfg.Timeout)
	}
}
