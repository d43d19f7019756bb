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

package vague

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-quicktest/qt"

	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/options"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

func seed(n int64) options.CompileOptions {
	return options.CompileOptions{Seed: &n}
}

// S1: an unsatisfiable assume under strict mode raises a
// ConstraintSatisfactionError naming the schema and "satisfying" mode.
func TestConstraintSatisfactionErrorStrict(t *testing.T) {
	src := `
schema S {
  x: int in 1..10
  assume x > 100
}
dataset D {
  items: 1 of S
}
`
	opts := seed(1)
	opts.Strict = true
	_, err := Compile([]byte(src), opts, nil, nil, "")
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	cerr, ok := err.(*errors.ConstraintSatisfactionError)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(cerr.Schema, "S"))
	qt.Assert(t, qt.Equals(cerr.Mode, "satisfying"))
	qt.Assert(t, cerr.Attempts >= 1)
}

// S2: the same source under non-strict mode keeps the last attempt and
// emits a ConstraintRetryLimit warning instead of failing outright.
func TestConstraintRetryLimitWarning(t *testing.T) {
	src := `
schema S {
  x: int in 1..10
  assume x > 100
}
dataset D {
  items: 1 of S
}
`
	result, err := Compile([]byte(src), seed(1), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 1))

	rec, ok := items[0].(*value.Record)
	qt.Assert(t, qt.Equals(ok, true))
	x, ok := rec.Get("x")
	qt.Assert(t, qt.Equals(ok, true))
	n, ok := x.(int64)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, n >= 1 && n <= 10)

	found := false
	for _, w := range result.Warnings() {
		if w.Kind == errors.ConstraintRetryLimit {
			found = true
		}
	}
	qt.Assert(t, qt.Equals(found, true))
}

// S3: compiling the same source with the same seed twice produces
// byte-identical output.
func TestDeterminism(t *testing.T) {
	src := `
schema Item {
  x: int in 1..1000
}
dataset D {
  items: 10 of Item
}
`
	r1, err := Compile([]byte(src), seed(12345), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	r2, err := Compile([]byte(src), seed(12345), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))

	b1, err := json.Marshal(r1.Dataset)
	qt.Assert(t, qt.IsNil(err))
	b2, err := json.Marshal(r2.Dataset)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(string(b1), string(b2)))
}

// S4: unique(key, expr) over a 5-element range produces five distinct
// values when exactly five records are generated.
func TestUniqueFieldNoDuplicates(t *testing.T) {
	src := `
schema U {
  id: unique("u.id", int in 1..5)
}
dataset D {
  items: 5 of U
}
`
	result, err := Compile([]byte(src), seed(7), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 5))

	seen := make(map[int64]bool)
	for _, it := range items {
		rec := it.(*value.Record)
		id, ok := rec.Get("id")
		qt.Assert(t, qt.Equals(ok, true))
		n := id.(int64)
		qt.Assert(t, n >= 1 && n <= 5)
		qt.Assert(t, qt.Equals(seen[n], false))
		seen[n] = true
	}
}

// S5: a computed field aggregating over a collection field sees that
// collection already generated (tier 2 before tier 3), and the sum is
// exact.
func TestComputedFieldSeesCollection(t *testing.T) {
	src := `
schema Line {
  amount: decimal in 1..10
}
schema Inv {
  amount: decimal in 100..1000
  lines: 3 of Line
  total: = sum(lines.amount)
}
dataset D {
  items: 4 of Inv
}
`
	result, err := Compile([]byte(src), seed(99), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 4))

	for _, it := range items {
		rec := it.(*value.Record)
		linesV, ok := rec.Get("lines")
		qt.Assert(t, qt.Equals(ok, true))
		lines := linesV.(value.List)
		qt.Assert(t, qt.Equals(len(lines), 3))

		want := new(apd.Decimal)
		for _, l := range lines {
			amt, _ := l.(*value.Record).Get("amount")
			d, ok := value.AsDecimal(amt)
			qt.Assert(t, qt.Equals(ok, true))
			_, err := value.DecimalContext.Add(want, want, d)
			qt.Assert(t, qt.IsNil(err))
		}

		totalV, ok := rec.Get("total")
		qt.Assert(t, qt.Equals(ok, true))
		total, ok := value.AsDecimal(totalV)
		qt.Assert(t, qt.Equals(ok, true))
		qt.Assert(t, qt.Equals(total.Cmp(want), 0))
	}
}

// S6: weighted superposition frequencies converge to weight/sum(weights)
// within statistical tolerance over many samples.
func TestWeightedSuperpositionConvergence(t *testing.T) {
	src := `
schema A {
  s: 0.8: "active" | 0.2: "inactive"
}
dataset D {
  items: 10000 of A
}
`
	result, err := Compile([]byte(src), seed(42), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 10000))

	active := 0
	for _, it := range items {
		rec := it.(*value.Record)
		s, _ := rec.Get("s")
		if s == "active" {
			active++
		}
	}
	frac := float64(active) / float64(len(items))
	qt.Assert(t, frac >= 0.78 && frac <= 0.82)
}

// Violating-mode datasets must fail at least one assume/validation clause.
func TestViolatingDatasetFailsAssumption(t *testing.T) {
	src := `
schema S {
  x: int in 1..10
  assume x > 5
}
dataset D violating {
  items: 1 of S
}
`
	result, err := Compile([]byte(src), seed(3), nil, nil, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 1))
	rec := items[0].(*value.Record)
	x, _ := rec.Get("x")
	qt.Assert(t, x.(int64) <= 5)
}

// A schema declared `from Qualified` inherits the imported schema's fields
// as defaults, which its own fields may then override or reference.
func TestSchemaBaseInheritsImportedFields(t *testing.T) {
	src := `
schema Customer from billing.Account {
  tier: string
}
dataset D {
  items: 1 of Customer
}
`
	imported := registry.NewImportedSchemas()
	imported.Register("billing.Account", []registry.ImportedField{
		{Name: "accountId", Type: "int"},
		{Name: "tier", Type: "string"},
	})

	result, err := Compile([]byte(src), seed(5), nil, imported, "")
	qt.Assert(t, qt.IsNil(err))
	items := result.Dataset["items"]
	qt.Assert(t, qt.Equals(len(items), 1))

	rec := items[0].(*value.Record)
	_, ok := rec.Get("accountId")
	qt.Assert(t, qt.Equals(ok, true))
	tier, ok := rec.Get("tier")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Not(qt.IsNil(tier)))
}

// An unresolvable `from` base is a fatal ResolutionError, not a silently
// dropped inheritance clause.
func TestSchemaBaseUnresolvedIsFatal(t *testing.T) {
	src := `
schema Customer from nosuch.Schema {
  tier: string
}
dataset D {
  items: 1 of Customer
}
`
	_, err := Compile([]byte(src), seed(1), nil, nil, "")
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	_, ok := err.(*errors.ResolutionError)
	qt.Assert(t, qt.Equals(ok, true))
}
