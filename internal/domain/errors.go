/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"log/slog"

	applog "gophotobook/internal/log"
)

// PreconditionError marks operations rejected synchronously with no state
// change. It carries a user-facing message and is never raised as a panic.
type PreconditionError struct {
	Op      string
	Message string
}

func (e *PreconditionError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Message) }

// IsPrecondition reports whether err is a precondition rejection.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// ResourceInUseError signals a removal attempt on a resource still referenced
// by the document (e.g. an asset placed on a page).
type ResourceInUseError struct {
	Resource string
	ID       string
}

func (e *ResourceInUseError) Error() string {
	return fmt.Sprintf("%s %s is in use", e.Resource, e.ID)
}

// IsResourceInUse reports whether err is a resource-in-use rejection.
func IsResourceInUse(err error) bool {
	var re *ResourceInUseError
	return errors.As(err, &re)
}

// ErrLastPage is returned when deleting the only remaining page.
var ErrLastPage = &PreconditionError{Op: "delete page", Message: "at least one page required"}

// notFound records a mutation aimed at an unknown object id. This indicates a
// caller/state-sync bug, not a legitimate runtime condition: the mutation is a
// no-op in production, logged at debug level for development builds.
func notFound(op, pageID, objectID string) {
	applog.WithComponent("domain").Debug("mutation target not found",
		slog.String("op", op), slog.String("page", pageID), slog.String("object", objectID))
}
