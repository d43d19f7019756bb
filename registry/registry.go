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

// Package registry holds the two abstract collaborator interfaces the
// generator consumes: a plugin registry (name -> generator function) and an
// imported schema registry (qualified name -> external field list). Both are
// plain value types constructed per compilation, never package-globals, so
// concurrent compilations never share state.
package registry

import (
	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/token"
	"github.com/mcclowes/vague-sub003/value"
	"github.com/mpvl/unique"
)

// sortableStrings adapts a []string to unique.Interface (sort.Interface plus
// Truncate) so the merged keyword set can be deduplicated with
// github.com/mpvl/unique instead of a hand-rolled dedup loop.
type sortableStrings struct{ data []string }

func (s *sortableStrings) Len() int           { return len(s.data) }
func (s *sortableStrings) Less(i, j int) bool { return s.data[i] < s.data[j] }
func (s *sortableStrings) Swap(i, j int)      { s.data[i], s.data[j] = s.data[j], s.data[i] }
func (s *sortableStrings) Truncate(n int)     { s.data = s.data[:n] }

// Arg pairs an already-evaluated argument value with the raw AST node it
// came from, so predicate-style plugins (all/some/none/unique-like) can
// re-evaluate the node per iteration while simple plugins just use Value.
type Arg struct {
	Node  ast.Expr
	Value value.Value
}

// Context is the minimal read-only view of the evaluation context a plugin
// function needs: the current/parent/previous record and the collections
// generated so far. It is implemented by *eval.Context (see the internal/eval
// package) to avoid a dependency cycle between registry and eval.
type Context interface {
	CurrentRecord() *value.Record
	ParentRecord() *value.Record
	PreviousRecord() *value.Record
	Collection(name string) (value.List, bool)

	// EvalWithElement evaluates node with the implicit current value (for
	// `.field` resolution) rebound to elem, restoring the prior current
	// value before returning. It is how predicate-style built-ins
	// (all/some/none) re-evaluate their raw AST argument once per element.
	EvalWithElement(node ast.Expr, elem value.Value) (value.Value, error)
}

// Func is a plugin-provided generator function. Each Arg carries the
// unevaluated call-argument AST node alongside its evaluated value, for
// plugins that need lazy, per-iteration evaluation.
type Func func(args []Arg, ctx Context) (value.Value, error)

// ImportedField is one field of an externally-defined schema.
type ImportedField struct {
	Name string
	Type string // "int", "decimal", "string", "date", "boolean"
}

// Plugins is the plugin registry: name -> generator function, plus any
// additional keywords the plugin wants the lexer to recognize.
type Plugins struct {
	funcs    map[string]Func
	keywords map[string]token.Kind
}

// NewPlugins returns an empty plugin registry.
func NewPlugins() *Plugins {
	return &Plugins{funcs: make(map[string]Func)}
}

// Register adds or replaces the generator function bound to name. Dotted
// names (e.g. "faker.internet.email") are supported directly as map keys.
func (p *Plugins) Register(name string, fn Func) {
	p.funcs[name] = fn
}

// RegisterKeyword adds an identifier to the lexer's keyword table. It is an
// error (silently ignored here; callers can check token.IsKeyword first)
// to register a keyword that collides with a built-in.
func (p *Plugins) RegisterKeyword(ident string, kind token.Kind) {
	if token.IsKeyword(ident) {
		return
	}
	if p.keywords == nil {
		p.keywords = make(map[string]token.Kind)
	}
	p.keywords[ident] = kind
}

// Lookup returns the generator function registered for name.
func (p *Plugins) Lookup(name string) (Func, bool) {
	if p == nil {
		return nil, false
	}
	fn, ok := p.funcs[name]
	return fn, ok
}

// Keywords returns the merged set of plugin-registered keyword names, sorted
// and deduplicated with github.com/mpvl/unique (the base built-in keyword
// table lives in package token and is merged in by the scanner).
func (p *Plugins) Keywords() map[string]token.Kind {
	if p == nil || len(p.keywords) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.keywords))
	for k := range p.keywords {
		names = append(names, k)
	}
	ss := &sortableStrings{data: names}
	n := unique.Sort(ss)
	names = ss.data[:n]
	out := make(map[string]token.Kind, len(names))
	for _, n := range names {
		out[n] = p.keywords[n]
	}
	return out
}

// ImportedSchemas is the imported-schema registry: qualified name -> ordered
// field list, as populated by whatever external loader resolves
// `import Alias from "path"` statements before generation begins.
type ImportedSchemas struct {
	schemas map[string][]ImportedField
}

// NewImportedSchemas returns an empty imported-schema registry.
func NewImportedSchemas() *ImportedSchemas {
	return &ImportedSchemas{schemas: make(map[string][]ImportedField)}
}

// Register associates qualifiedName with its external field list.
func (r *ImportedSchemas) Register(qualifiedName string, fields []ImportedField) {
	r.schemas[qualifiedName] = fields
}

// Lookup returns the field list registered for qualifiedName.
func (r *ImportedSchemas) Lookup(qualifiedName string) ([]ImportedField, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.schemas[qualifiedName]
	return f, ok
}
