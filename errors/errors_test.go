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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/mcclowes/vague-sub003/token"
)

func TestListSortsByPosition(t *testing.T) {
	var l List
	l.Add(&LexError{Message: "b", Pos: token.Position{Filename: "a", Line: 3, Column: 1}})
	l.Add(&LexError{Message: "a", Pos: token.Position{Filename: "a", Line: 1, Column: 5}})
	l.Add(&LexError{Message: "c", Pos: token.Position{Filename: "a", Line: 1, Column: 1}})
	l.Sort()
	qt.Assert(t, qt.Equals(l[0].Error(), l[0].(*LexError).Error()))
	qt.Assert(t, qt.Equals(l[0].(*LexError).Message, "c"))
	qt.Assert(t, qt.Equals(l[1].(*LexError).Message, "a"))
	qt.Assert(t, qt.Equals(l[2].(*LexError).Message, "b"))
}

func TestListErrSummary(t *testing.T) {
	var empty List
	qt.Assert(t, qt.IsNil(empty.Err()))

	var l List
	l.Add(&LexError{Message: "first", Pos: token.Position{Line: 1, Column: 1}})
	l.Add(&LexError{Message: "second", Pos: token.Position{Line: 2, Column: 1}})
	err := l.Err()
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	qt.Assert(t, qt.Equals(err.Error(), "1:1: first (and 1 more errors)"))
}

func TestResolutionErrorPath(t *testing.T) {
	err := NewResolutionError(token.Position{Line: 4, Column: 2}, []string{"Schema", "field"}, "unknown %s", "thing")
	qt.Assert(t, qt.DeepEquals(err.Path(), []string{"Schema", "field"}))
	qt.Assert(t, qt.Equals(err.Error(), "4:2: unknown thing"))
}

func TestCollectorAccumulatesAndResets(t *testing.T) {
	c := NewCollector(nil)
	c.Warn(UniqueValueExhaustion, token.Position{Line: 1, Column: 1}, []string{"X"}, "ran out after %d", 3)
	ws := c.Warnings()
	qt.Assert(t, qt.Equals(len(ws), 1))
	qt.Assert(t, qt.Equals(ws[0].Kind, UniqueValueExhaustion))
	qt.Assert(t, qt.Equals(ws[0].Message, "ran out after 3"))

	c.Reset()
	qt.Assert(t, qt.Equals(len(c.Warnings()), 0))
}

func TestConstraintSatisfactionErrorMessage(t *testing.T) {
	err := &ConstraintSatisfactionError{Schema: "User", Mode: "satisfying", Attempts: 100}
	qt.Assert(t, qt.Equals(err.Error(), "User: constraint satisfaction failed after 100 attempts (mode=satisfying)"))
	qt.Assert(t, qt.DeepEquals(err.Path(), []string{"User"}))
}
