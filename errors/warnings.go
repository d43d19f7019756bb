// Copyright 2026 The Vague Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcclowes/vague-sub003/token"
)

// WarningKind enumerates the non-fatal conditions §7 requires be collected
// and mirrored to standard error.
type WarningKind string

const (
	UniqueValueExhaustion        WarningKind = "UniqueValueExhaustion"
	ConstraintRetryLimit         WarningKind = "ConstraintRetryLimit"
	ConstraintEvaluationError    WarningKind = "ConstraintEvaluationError"
	MutationTargetNotFound       WarningKind = "MutationTargetNotFound"
	EmptyCollectionReference     WarningKind = "EmptyCollectionReference"
	UnknownFieldInImportedSchema WarningKind = "UnknownFieldInImportedSchema"
)

// Warning is a single non-fatal diagnostic raised during generation.
type Warning struct {
	Kind    WarningKind
	Message string
	Path    []string
	Pos     token.Position
}

// Collector accumulates warnings for a single compilation. It is not a
// process-global: each call to vague.Compile constructs its own Collector so
// concurrent compilations never share state (see spec.md §5).
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
	log      *slog.Logger
}

// NewCollector returns a Collector that mirrors every warning to log, or to
// slog.Default() if log is nil.
func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{log: log}
}

// Warn records a warning and logs it at Warn level.
func (c *Collector) Warn(kind WarningKind, pos token.Position, path []string, format string, args ...interface{}) {
	w := Warning{Kind: kind, Message: fmt.Sprintf(format, args...), Path: path, Pos: pos}
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
	c.log.Warn(w.Message,
		slog.String("kind", string(kind)),
		slog.Any("path", path),
		slog.String("pos", pos.String()),
	)
}

// Warnings returns a snapshot of the warnings recorded so far.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Reset clears the warnings recorded so far.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.warnings = c.warnings[:0]
	c.mu.Unlock()
}
