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

// Package generate implements the record generator (§4.4) and dataset
// generator (§4.5): the part of the pipeline that drives an eval.Context
// through field ordering, rejection-sampled constraints, uniqueness, and
// then-block mutations to produce actual data.
package generate

import (
	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/internal/eval"
	"github.com/mcclowes/vague-sub003/options"
	"github.com/mcclowes/vague-sub003/value"
)

// Generator drives generation for one compilation: it resolves schema,
// context, and distribution declarations once, then the dataset generator
// and record generator walk them repeatedly.
type Generator struct {
	Ctx  *eval.Context
	Opts options.CompileOptions

	schemas       map[string]*ast.SchemaDecl
	contexts      map[string]*ast.ContextDecl
	distributions map[string][]*ast.WeightedOption
}

// New returns a Generator over program's declarations, bound to ctx.
func New(ctx *eval.Context, opts options.CompileOptions, program *ast.Program) (*Generator, error) {
	g := &Generator{
		Ctx:           ctx,
		Opts:          opts,
		schemas:       make(map[string]*ast.SchemaDecl),
		contexts:      make(map[string]*ast.ContextDecl),
		distributions: make(map[string][]*ast.WeightedOption),
	}
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.LetDecl:
			v, err := ctx.Eval(s.Value)
			if err != nil {
				return nil, err
			}
			ctx.Lets[s.Name] = v
		case *ast.SchemaDecl:
			g.schemas[s.Name] = s
		case *ast.ContextDecl:
			g.contexts[s.Name] = s
		case *ast.DistributionDecl:
			g.distributions[s.Name] = s.Options
			ctx.Distributions[s.Name] = s.Options
		}
	}
	return g, nil
}

// FindDataset returns the AST of the named dataset declaration in program
// (the first dataset when name is ""), or nil if none matches.
func FindDataset(program *ast.Program, name string) *ast.DatasetDecl {
	for _, stmt := range program.Statements {
		if d, ok := stmt.(*ast.DatasetDecl); ok {
			if name == "" || d.Name == name {
				return d
			}
		}
	}
	return nil
}

// applyContexts resolves each context application in apps in order,
// binding its declared params to the evaluated call arguments and its
// `let` body sequentially, then invokes fn with every application's
// bindings installed. Bindings unwind in reverse order once fn returns.
func (g *Generator) applyContexts(apps []*ast.ContextApplication, fn func() error) error {
	if len(apps) == 0 {
		return fn()
	}
	app := apps[0]
	decl, ok := g.contexts[app.Name]
	if !ok {
		return errors.NewResolutionError(app.Pos, []string{app.Name}, "unknown context %q", app.Name)
	}
	bindings := make(map[string]value.Value, len(decl.Params)+len(decl.Lets))
	for i, param := range decl.Params {
		if i >= len(app.Args) {
			break
		}
		v, err := g.Ctx.Eval(app.Args[i])
		if err != nil {
			return err
		}
		bindings[param] = v
	}
	return g.Ctx.WithContext(app.Name, bindings, func() error {
		for _, let := range decl.Lets {
			v, err := g.Ctx.Eval(let.Value)
			if err != nil {
				return err
			}
			bindings[let.Name] = v
		}
		return g.applyContexts(apps[1:], fn)
	})
}

// evalConstraint evaluates a boolean-producing expr for an assume/where/
// validate clause. An EvaluationError is demoted to a
// ConstraintEvaluationError warning and treated as "failed" (per spec.md
// §7); any other error (e.g. ResolutionError) propagates as fatal.
func (g *Generator) evalConstraint(expr ast.Expr, path []string) (bool, error) {
	v, err := g.Ctx.Eval(expr)
	if err != nil {
		if _, ok := err.(*errors.EvaluationError); ok {
			g.Ctx.Warnings.Warn(errors.ConstraintEvaluationError, expr.Position(), path, "%s", err)
			return false, nil
		}
		return false, err
	}
	return value.Truthy(v), nil
}

func asIntValue(v value.Value) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	default:
		if d, ok := value.AsDecimal(v); ok {
			n, err := d.Int64()
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
