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

// Package errors defines the error taxonomy shared by the lexer, parser, and
// generator, along with a position-sorted error List and a Handler callback
// threaded through the scanner and parser.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcclowes/vague-sub003/token"
)

// Error is the common interface satisfied by every error kind in this
// package. Path returns the schema/field/collection path where an error
// originated, if applicable.
type Error interface {
	error
	Position() token.Position
	Path() []string
}

// Handler is called by the scanner for each lexical error encountered while
// processing source text; the parser installs one that records each as a
// LexError in its List. A nil Handler silently drops diagnostics
// (the caller must still inspect ErrorCount / the returned List).
type Handler func(pos token.Position, msg string)

// LexError reports an unrecognised byte, unterminated string literal, or
// malformed number literal.
type LexError struct {
	Message string
	Pos     token.Position
}

func (e *LexError) Error() string            { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *LexError) Position() token.Position { return e.Pos }
func (e *LexError) Path() []string           { return nil }

// ParseError reports an unexpected token. Expected names the token class
// that was expected, when known; Snippet is the offending source line.
type ParseError struct {
	Message  string
	Tok      token.Token
	Expected string
	Snippet  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Tok.Pos, e.Message)
	if e.Expected != "" {
		fmt.Fprintf(&b, " (expected %s)", e.Expected)
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, "\n\t%s", e.Snippet)
	}
	return b.String()
}
func (e *ParseError) Position() token.Position { return e.Tok.Pos }
func (e *ParseError) Path() []string           { return nil }

// ResolutionError reports an unknown schema, context, plugin, or identifier
// discovered at generation time. Always fatal.
type ResolutionError struct {
	Message string
	Pos     token.Position
	path    []string
}

func (e *ResolutionError) Error() string            { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *ResolutionError) Position() token.Position { return e.Pos }
func (e *ResolutionError) Path() []string           { return e.path }

// NewResolutionError constructs a ResolutionError with an attached path.
func NewResolutionError(pos token.Position, path []string, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{Message: fmt.Sprintf(format, args...), Pos: pos, path: path}
}

// EvaluationError reports a type mismatch, division by zero, or invalid
// range encountered while evaluating an expression. Outside of a constraint
// (assume/where/validate) this is fatal; inside one it is demoted to a
// ConstraintEvaluationError warning by the caller.
type EvaluationError struct {
	Message string
	Pos     token.Position
	path    []string
}

func (e *EvaluationError) Error() string            { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }
func (e *EvaluationError) Position() token.Position { return e.Pos }
func (e *EvaluationError) Path() []string           { return e.path }

// NewEvaluationError constructs an EvaluationError with an attached path.
func NewEvaluationError(pos token.Position, path []string, format string, args ...interface{}) *EvaluationError {
	return &EvaluationError{Message: fmt.Sprintf(format, args...), Pos: pos, path: path}
}

// ConstraintSatisfactionError reports that a schema's or dataset's retry
// budget was exhausted under strict mode.
type ConstraintSatisfactionError struct {
	Schema   string
	Mode     string // "satisfying" or "violating"
	Attempts int
}

func (e *ConstraintSatisfactionError) Error() string {
	return fmt.Sprintf("%s: constraint satisfaction failed after %d attempts (mode=%s)",
		e.Schema, e.Attempts, e.Mode)
}
func (e *ConstraintSatisfactionError) Position() token.Position { return token.Position{} }
func (e *ConstraintSatisfactionError) Path() []string           { return []string{e.Schema} }

// List is an accumulator of Error values, sorted by position. It implements
// error so a pipeline stage can return it directly.
type List []Error

// Add appends err to the list.
func (l *List) Add(err Error) { *l = append(*l, err) }

// Len, Less, Swap implement sort.Interface, ordering by filename then line
// then column.
func (l List) Len() int      { return len(l) }
func (l List) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l List) Less(i, j int) bool {
	pi, pj := l[i].Position(), l[j].Position()
	if pi.Filename != pj.Filename {
		return pi.Filename < pj.Filename
	}
	if pi.Line != pj.Line {
		return pi.Line < pj.Line
	}
	return pi.Column < pj.Column
}

// Sort orders the list by position.
func (l List) Sort() { sort.Sort(l) }

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more errors)", l[0].Error(), len(l)-1)
	return b.String()
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
