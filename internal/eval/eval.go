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

package eval

import (
	"fmt"

	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/token"
	"github.com/mcclowes/vague-sub003/value"
)

// Eval evaluates node against c, returning its runtime value. Most errors
// surface as *errors.EvaluationError or *errors.ResolutionError; the
// generate package decides whether a given Eval call site treats those as
// fatal or as a constraint failure.
func (c *Context) Eval(node ast.Expr) (value.Value, error) {
	switch n := node.(type) {
	case *ast.IntLit:
		return value.ParseInt(n.Value)
	case *ast.DecLit:
		return value.ParseDecimal(n.Value)
	case *ast.StringLit:
		return n.Value, nil
	case *ast.BoolLit:
		return n.Value, nil
	case *ast.NullLit:
		return nil, nil
	case *ast.Ident:
		return c.resolveIdent(n.Name, n.Pos)
	case *ast.QualifiedIdent:
		return c.resolveQualified(n.Parts, n.Pos)
	case *ast.ParentRef:
		return c.resolveParentRef(n.Path, n.Pos)
	case *ast.Binary:
		return c.evalBinary(n)
	case *ast.Logical:
		return c.evalLogical(n)
	case *ast.Not:
		x, err := c.Eval(n.X)
		if err != nil {
			return nil, err
		}
		return !value.Truthy(x), nil
	case *ast.Unary:
		x, err := c.Eval(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == token.SUB {
			return value.Neg(x)
		}
		return x, nil
	case *ast.Call:
		return c.evalCall(n)
	case *ast.Superposition:
		return c.evalSuperposition(n.Options)
	case *ast.Range:
		return c.evalRange(n)
	case *ast.AnyOf:
		return c.evalAnyOf(n)
	case *ast.Match:
		return c.evalMatch(n)
	case *ast.Ternary:
		cond, err := c.Eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return c.Eval(n.Then)
		}
		return c.Eval(n.Else)
	case *ast.List:
		out := make(value.List, len(n.Elems))
		for i, e := range n.Elems {
			v, err := c.Eval(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *ast.BadExpr:
		return nil, errors.NewEvaluationError(n.Pos, nil, "cannot evaluate a malformed expression")
	default:
		return nil, errors.NewEvaluationError(node.Position(), nil, "unsupported expression node %T", node)
	}
}

func (c *Context) evalBinary(n *ast.Binary) (value.Value, error) {
	x, err := c.Eval(n.X)
	if err != nil {
		return nil, err
	}
	y, err := c.Eval(n.Y)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.ADD:
		return errWrap(n.Pos, value.Add(x, y))
	case token.SUB:
		return errWrap(n.Pos, value.Sub(x, y))
	case token.MUL:
		return errWrap(n.Pos, value.Mul(x, y))
	case token.QUO:
		return errWrap(n.Pos, value.Div(x, y))
	case token.REM:
		return errWrap(n.Pos, value.Rem(x, y))
	case token.EQL:
		return value.Equal(x, y), nil
	case token.NEQ:
		return !value.Equal(x, y), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		cmp, err := value.Compare(x, y)
		if err != nil {
			return nil, errors.NewEvaluationError(n.Pos, nil, "%s", err)
		}
		switch n.Op {
		case token.LSS:
			return cmp < 0, nil
		case token.LEQ:
			return cmp <= 0, nil
		case token.GTR:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	}
	return nil, errors.NewEvaluationError(n.Pos, nil, "unsupported binary operator %s", n.Op)
}

func errWrap(pos token.Position, v value.Value, err error) (value.Value, error) {
	if err != nil {
		return nil, errors.NewEvaluationError(pos, nil, "%s", err)
	}
	return v, nil
}

func (c *Context) evalLogical(n *ast.Logical) (value.Value, error) {
	x, err := c.Eval(n.X)
	if err != nil {
		return nil, err
	}
	if n.Op == token.AND && !value.Truthy(x) {
		return false, nil
	}
	if n.Op == token.OR && value.Truthy(x) {
		return true, nil
	}
	y, err := c.Eval(n.Y)
	if err != nil {
		return nil, err
	}
	return value.Truthy(y), nil
}

func (c *Context) evalRange(n *ast.Range) (value.Value, error) {
	min, err := c.Eval(n.Min)
	if err != nil {
		return nil, err
	}
	max, err := c.Eval(n.Max)
	if err != nil {
		return nil, err
	}
	cmp, err := value.Compare(min, max)
	if err != nil {
		return nil, errors.NewEvaluationError(n.Pos, nil, "%s", err)
	}
	if cmp > 0 {
		return nil, errors.NewEvaluationError(n.Pos, nil, "invalid range: min > max")
	}
	if mi, ok := min.(int64); ok {
		if ma, ok2 := max.(int64); ok2 {
			return c.RNG.UniformInt(mi, ma), nil
		}
	}
	lo, ok1 := value.AsDecimal(min)
	hi, ok2 := value.AsDecimal(max)
	if !ok1 || !ok2 {
		return nil, errors.NewEvaluationError(n.Pos, nil, "range bounds must be numeric")
	}
	loF, _ := lo.Float64()
	hiF, _ := hi.Float64()
	return decimalOf(c.RNG.UniformFloat(loF, hiF)), nil
}

func (c *Context) evalMatch(n *ast.Match) (value.Value, error) {
	subject, err := c.Eval(n.Value)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		if arm.Pattern == nil {
			return c.Eval(arm.Result)
		}
		pat, err := c.Eval(arm.Pattern)
		if err != nil {
			return nil, err
		}
		if value.Equal(subject, pat) {
			return c.Eval(arm.Result)
		}
	}
	c.Warnings.Warn(errors.ConstraintEvaluationError, n.Pos, nil, "match: no arm matched value of type %s", value.TypeName(subject))
	return nil, nil
}

func (c *Context) evalAnyOf(n *ast.AnyOf) (value.Value, error) {
	list, ok := c.Collections[n.Collection]
	if !ok {
		return nil, errors.NewResolutionError(n.Pos, []string{n.Collection}, "unknown collection %q", n.Collection)
	}
	candidates := list
	if n.Where != nil {
		candidates = nil
		for _, elem := range list {
			v, err := c.EvalWithElement(n.Where, elem)
			if err != nil {
				return nil, err
			}
			if value.Truthy(v) {
				candidates = append(candidates, elem)
			}
		}
	}
	if len(candidates) == 0 {
		c.Warnings.Warn(errors.EmptyCollectionReference, n.Pos, []string{n.Collection}, "any of %s: no element satisfies where-clause", n.Collection)
		return nil, nil
	}
	return candidates[c.RNG.Intn(len(candidates))], nil
}

func (c *Context) evalSuperposition(opts []*ast.WeightedOption) (value.Value, error) {
	weights := make([]float64, len(opts))
	for i, o := range opts {
		if o.Weight == nil {
			weights[i] = 1
			continue
		}
		w, err := c.Eval(o.Weight)
		if err != nil {
			return nil, err
		}
		f, ok := asFloatValue(w)
		if !ok {
			return nil, errors.NewEvaluationError(o.Pos, nil, "superposition weight must be numeric")
		}
		weights[i] = f
	}
	idx := c.RNG.WeightedIndex(weights)
	return c.Eval(opts[idx].Value)
}

func asFloatValue(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	default:
		if d, ok := value.AsDecimal(v); ok {
			f, err := d.Float64()
			if err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// lazyArgIndex names the one argument index, per predicate-style built-in,
// that carries a raw AST pattern meant to be re-evaluated once per element
// rather than once eagerly against the calling scope (spec.md §4.3,
// "Raw-AST arguments").
var lazyArgIndex = map[string]int{
	"all":  1,
	"some": 1,
	"none": 1,
}

// evalCall dispatches a call in the order spec.md §4.3 requires: core
// built-ins/aggregates and plugins share one registry.Plugins, so "core
// built-ins then plugin registry then dotted plugin name" collapses to a
// single lookup — the builtin package pre-populates the same *Plugins the
// user's own plugins are registered into.
func (c *Context) evalCall(n *ast.Call) (value.Value, error) {
	fn, ok := c.Plugins.Lookup(n.Name)
	if !ok {
		return nil, errors.NewResolutionError(n.Pos, []string{n.Name}, "unknown function or generator %q", n.Name)
	}
	lazyAt, hasLazy := lazyArgIndex[n.Name]
	args := make([]registry.Arg, len(n.Args))
	for i, a := range n.Args {
		if hasLazy && i == lazyAt {
			args[i] = registry.Arg{Node: a}
			continue
		}
		v, err := c.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = registry.Arg{Node: a, Value: v}
	}
	v, err := fn(args, c)
	if err != nil {
		return nil, errors.NewEvaluationError(n.Pos, []string{n.Name}, "%s", err)
	}
	return v, nil
}

func decimalOf(f float64) value.Value {
	v, err := value.ParseDecimal(fmt.Sprintf("%g", f))
	if err != nil {
		return f
	}
	return v
}
