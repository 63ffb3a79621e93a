/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"time"

	"gophotobook/internal/domain"
	applog "gophotobook/internal/log"
)

// StartAutosave periodically hands the current document to write while the
// session is dirty, for crash-safety local snapshots. Write failures are
// logged and retried on the next tick. The returned stop function ends the
// loop; it is safe to call more than once.
func (s *Session) StartAutosave(interval time.Duration, write func(domain.Project) error) (stop func()) {
	if interval <= 0 || write == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		logger := applog.WithOperation(applog.L(), "autosave")
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if !s.Dirty() {
					continue
				}
				if err := write(s.Snapshot().Project); err != nil {
					logger.Warn("local autosave failed", "err", err)
				} else {
					logger.Debug("local autosave written")
				}
			}
		}
	}()
	var stopped bool
	return func() {
		if !stopped {
			stopped = true
			close(done)
		}
	}
}
