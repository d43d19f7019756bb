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

// Package eval implements expression evaluation against a generation
// context: the current/parent/previous record, the collections generated
// so far, let-bindings, named distributions, and schema/context/import
// registries. It has no notion of field ordering or retry loops; that
// belongs to the generate package, which drives an eval.Context as it
// walks a schema.
package eval

import (
	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// Context is the single mutable structure threaded through one
// compilation's generation run (spec.md §5, "Shared state"). It satisfies
// registry.Context so built-ins and plugins can read current/parent/
// previous and re-evaluate raw AST against a rebound current value.
type Context struct {
	RNG      *prng.Source
	Warnings *errors.Collector
	Plugins  *registry.Plugins
	Imported *registry.ImportedSchemas

	Lets          map[string]value.Value
	Distributions map[string][]*ast.WeightedOption
	Contexts      map[string]map[string]value.Value // named `context` applications' let-bindings, by context name
	Collections   map[string]value.List

	current  *value.Record
	parent   *value.Record
	previous *value.Record

	Violating bool

	// UniqueSeen tracks values already produced per unique() key namespace.
	UniqueSeen map[string]map[string]bool
}

// NewContext returns a fresh evaluation context for one compilation.
func NewContext(rng *prng.Source, warnings *errors.Collector, plugins *registry.Plugins, imported *registry.ImportedSchemas) *Context {
	return &Context{
		RNG:           rng,
		Warnings:      warnings,
		Plugins:       plugins,
		Imported:      imported,
		Lets:          make(map[string]value.Value),
		Distributions: make(map[string][]*ast.WeightedOption),
		Contexts:      make(map[string]map[string]value.Value),
		Collections:   make(map[string]value.List),
		UniqueSeen:    make(map[string]map[string]bool),
	}
}

func (c *Context) CurrentRecord() *value.Record  { return c.current }
func (c *Context) ParentRecord() *value.Record   { return c.parent }
func (c *Context) PreviousRecord() *value.Record { return c.previous }

// Collection returns the named collection's records generated so far.
func (c *Context) Collection(name string) (value.List, bool) {
	l, ok := c.Collections[name]
	return l, ok
}

// WithCurrent temporarily rebinds current to r for the duration of fn,
// restoring the prior value on every exit path, per the scoped-current
// discipline spec.md §5 requires of any helper that iterates or filters a
// collection.
func (c *Context) WithCurrent(r *value.Record, fn func() error) error {
	prev := c.current
	c.current = r
	defer func() { c.current = prev }()
	return fn()
}

// WithParent temporarily rebinds parent to r for the duration of fn.
func (c *Context) WithParent(r *value.Record, fn func() error) error {
	prev := c.parent
	c.parent = r
	defer func() { c.parent = prev }()
	return fn()
}

// WithPrevious temporarily rebinds previous to r for the duration of fn.
func (c *Context) WithPrevious(r *value.Record, fn func() error) error {
	prev := c.previous
	c.previous = r
	defer func() { c.previous = prev }()
	return fn()
}

// WithContext temporarily installs bindings as the active let-binding set
// for a named `context` application, restoring whatever was previously
// registered under name on every exit path.
func (c *Context) WithContext(name string, bindings map[string]value.Value, fn func() error) error {
	prev, had := c.Contexts[name]
	c.Contexts[name] = bindings
	defer func() {
		if had {
			c.Contexts[name] = prev
		} else {
			delete(c.Contexts, name)
		}
	}()
	return fn()
}

// EvalWithElement evaluates node with current rebound to elem wrapped as a
// single-field pseudo-record when elem is a scalar, or to elem directly
// when it is already a record, satisfying registry.Context for predicate
// built-ins (all/some/none); evalAnyOf also uses it for where clauses.
func (c *Context) EvalWithElement(node ast.Expr, elem value.Value) (value.Value, error) {
	rec, ok := elem.(*value.Record)
	if !ok {
		rec = value.NewRecord()
		rec.Set("", elem)
	}
	var result value.Value
	err := c.WithCurrent(rec, func() error {
		v, evalErr := c.Eval(node)
		result = v
		return evalErr
	})
	return result, err
}

// MarkUnique records that val has been produced under key, reporting
// whether it is a fresh value.
func (c *Context) MarkUnique(key, val string) bool {
	seen, ok := c.UniqueSeen[key]
	if !ok {
		seen = make(map[string]bool)
		c.UniqueSeen[key] = seen
	}
	if seen[val] {
		return false
	}
	seen[val] = true
	return true
}
