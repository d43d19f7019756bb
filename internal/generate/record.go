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

package generate

import (
	"fmt"
	"time"

	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/token"
	"github.com/mcclowes/vague-sub003/value"
)

// GenerateRecord produces one record for the named schema, with parent set
// as its enclosing record (nil at the top level). It runs the schema's
// assume-clause retry loop and then-block mutations before returning.
func (g *Generator) GenerateRecord(schemaName string, parent *value.Record) (*value.Record, error) {
	schema, ok := g.schemas[schemaName]
	if !ok {
		return nil, errors.NewResolutionError(token.Position{}, []string{schemaName}, "unknown schema %q", schemaName)
	}
	return g.generateRecordFor(schema, parent)
}

func (g *Generator) generateRecordFor(schema *ast.SchemaDecl, parent *value.Record) (*value.Record, error) {
	var rec *value.Record
	limit := g.Opts.SchemaRetryLimit()
	attempts := 0

	genOnce := func() error {
		rec = value.NewRecord()
		return g.Ctx.WithParent(parent, func() error {
			return g.Ctx.WithCurrent(rec, func() error {
				return g.applyContexts(schema.Contexts, func() error {
					if err := g.applyBase(schema, rec); err != nil {
						return err
					}
					return g.generateFields(schema, rec)
				})
			})
		})
	}

	for {
		if err := genOnce(); err != nil {
			return nil, err
		}
		attempts++
		ok, err := g.evalAssumes(schema, rec)
		if err != nil {
			return nil, err
		}
		if ok || attempts > limit {
			if !ok {
				if g.Opts.Strict {
					mode := "satisfying"
					if g.Ctx.Violating {
						mode = "violating"
					}
					return nil, &errors.ConstraintSatisfactionError{Schema: schema.Name, Mode: mode, Attempts: attempts}
				}
				g.Ctx.Warnings.Warn(errors.ConstraintRetryLimit, schema.Pos, []string{schema.Name}, "assume clauses unsatisfied after %d attempts", attempts)
			}
			break
		}
	}

	if err := g.applyMutations(schema, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// evalAssumes evaluates every gated assume clause. In violating-mode (the
// enclosing dataset declared `violating`), the pass condition inverts: at
// least one assumption must fail rather than all of them holding.
func (g *Generator) evalAssumes(schema *ast.SchemaDecl, rec *value.Record) (bool, error) {
	if len(schema.Assumes) == 0 {
		return true, nil
	}
	anyFailed := false
	allHeld := true
	for _, clause := range schema.Assumes {
		if clause.If != nil {
			gate, err := g.evalConstraint(clause.If, []string{schema.Name})
			if err != nil {
				return false, err
			}
			if !gate {
				continue
			}
		}
		for _, e := range clause.Exprs {
			ok, err := g.evalConstraint(e, []string{schema.Name})
			if err != nil {
				return false, err
			}
			if !ok {
				anyFailed = true
				allHeld = false
			}
		}
	}
	if g.Ctx.Violating {
		return anyFailed, nil
	}
	return allHeld, nil
}

func (g *Generator) applyMutations(schema *ast.SchemaDecl, rec *value.Record) error {
	for _, m := range schema.Then {
		target := rec
		if m.Target.ParentRef {
			target = g.Ctx.ParentRecord()
		}
		if target == nil || len(m.Target.Path) == 0 {
			g.Ctx.Warnings.Warn(errors.MutationTargetNotFound, m.Pos, []string{schema.Name}, "then: mutation target unresolved")
			continue
		}
		leaf := m.Target.Path[len(m.Target.Path)-1]
		for _, p := range m.Target.Path[:len(m.Target.Path)-1] {
			v, ok := target.Get(p)
			if !ok {
				target = nil
				break
			}
			nested, ok := v.(*value.Record)
			if !ok {
				target = nil
				break
			}
			target = nested
		}
		if target == nil {
			g.Ctx.Warnings.Warn(errors.MutationTargetNotFound, m.Pos, []string{schema.Name}, "then: mutation target %q not found", leaf)
			continue
		}
		rhs, err := g.Ctx.Eval(m.Value)
		if err != nil {
			return err
		}
		if m.Op == token.ASSIGN {
			target.Set(leaf, rhs)
			continue
		}
		cur, ok := target.Get(leaf)
		if !ok {
			g.Ctx.Warnings.Warn(errors.MutationTargetNotFound, m.Pos, []string{schema.Name}, "then: mutation target %q not found", leaf)
			continue
		}
		sum, err := value.Add(cur, rhs)
		if err != nil {
			return errors.NewEvaluationError(m.Pos, []string{schema.Name}, "%s", err)
		}
		target.Set(leaf, sum)
	}
	return nil
}

// generateFields generates every field of schema into rec, honoring the
// three-tier field ordering spec.md §4.4 mandates.
func (g *Generator) generateFields(schema *ast.SchemaDecl, rec *value.Record) error {
	tier1, tier2, tier3 := orderFields(schema.Fields)
	for _, tier := range [][]*ast.FieldDecl{tier1, tier2, tier3} {
		for _, f := range tier {
			if err := g.generateField(schema, f, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func orderFields(fields []*ast.FieldDecl) (tier1, tier2, tier3 []*ast.FieldDecl) {
	for _, f := range fields {
		switch f.Type.(type) {
		case *ast.CollectionFieldType:
			tier2 = append(tier2, f)
		case *ast.ExpressionFieldType:
			tier3 = append(tier3, f)
		default:
			tier1 = append(tier1, f)
		}
	}
	return
}

// generateField runs the per-field procedure: when-gating, ??-omission,
// type-directed candidate generation, optional nullability, where-clause
// rejection sampling, and unique()-key deduplication.
func (g *Generator) generateField(schema *ast.SchemaDecl, f *ast.FieldDecl, rec *value.Record) error {
	forced := false
	if f.When != nil {
		ok, err := g.evalConstraint(f.When, []string{schema.Name, f.Name})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		forced = true
	}
	if f.MayBeOmitted && !forced {
		if g.Ctx.RNG.Float64() >= g.Opts.OptionalProbability() {
			return nil
		}
	}

	key := f.UniqueKey
	if key == "" {
		key = schema.Name + "." + f.Name
	}
	limit := g.Opts.FieldRetryLimit()
	if f.Unique && g.Opts.UniqueRetryLimit() > limit {
		limit = g.Opts.UniqueRetryLimit()
	}

	var candidate value.Value
	attempts := 0
	for {
		v, err := g.generateCandidate(schema, f, rec)
		if err != nil {
			return err
		}
		if f.Optional && g.Ctx.RNG.Float64() >= g.Opts.OptionalProbability() {
			v = nil
		}
		candidate = v

		whereOK := true
		if f.Where != nil {
			rec.Set(f.Name, candidate)
			ok, err := g.evalConstraint(f.Where, []string{schema.Name, f.Name})
			if err != nil {
				return err
			}
			whereOK = ok
		}

		// Uniqueness is only claimed once a candidate has already cleared
		// where, so a where-rejected candidate never consumes a unique slot.
		uniqueOK := true
		if whereOK && f.Unique && candidate != nil {
			uniqueOK = g.Ctx.MarkUnique(key, fmt.Sprint(stringizeForKey(candidate)))
		}

		if uniqueOK && whereOK {
			break
		}
		attempts++
		if attempts > limit {
			if f.Unique && !uniqueOK {
				g.Ctx.Warnings.Warn(errors.UniqueValueExhaustion, f.Pos, []string{schema.Name, f.Name}, "unique(%s): exhausted %d attempts", key, attempts)
			}
			break
		}
	}
	rec.Set(f.Name, candidate)
	return nil
}

func stringizeForKey(v value.Value) interface{} {
	if d, ok := value.AsDecimal(v); ok {
		return d.String()
	}
	return v
}

// generateCandidate performs type-directed generation for one field.
func (g *Generator) generateCandidate(schema *ast.SchemaDecl, f *ast.FieldDecl, rec *value.Record) (value.Value, error) {
	switch t := f.Type.(type) {
	case *ast.PrimitiveType:
		return g.defaultForPrimitive(t.Kind)
	case *ast.RangeFieldType:
		return g.evalRangeField(t)
	case *ast.SuperpositionFieldType:
		return g.Ctx.Eval(&ast.Superposition{Options: t.Options, Pos: t.Pos})
	case *ast.ReferenceFieldType:
		return g.generateImportedRecord(t.Qualified, t.Pos)
	case *ast.CollectionFieldType:
		return g.generateCollectionField(t, rec)
	case *ast.GeneratorFieldType:
		return g.Ctx.Eval(&ast.Call{Name: t.Name, Args: t.Args, Pos: t.Pos})
	case *ast.ExpressionFieldType:
		return g.Ctx.Eval(t.Expr)
	default:
		return nil, errors.NewEvaluationError(f.Pos, []string{schema.Name, f.Name}, "unsupported field type %T", f.Type)
	}
}

func (g *Generator) defaultForPrimitive(kind string) (value.Value, error) {
	switch kind {
	case "int":
		return g.Ctx.RNG.UniformInt(0, 1000), nil
	case "decimal":
		return value.ParseDecimal(fmt.Sprintf("%g", g.Ctx.RNG.UniformFloat(0, 1000)))
	case "string":
		fn, ok := g.Ctx.Plugins.Lookup("word")
		if !ok {
			return "", nil
		}
		return fn(nil, g.Ctx)
	case "date":
		return g.defaultDate(), nil
	case "boolean":
		return g.Ctx.RNG.Bool(), nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", kind)
	}
}

func (g *Generator) defaultDate() value.Value {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	span := time.Since(from)
	if span <= 0 {
		return value.Date(from.Format("2006-01-02"))
	}
	offset := time.Duration(g.Ctx.RNG.Float64() * float64(span))
	return value.Date(from.Add(offset).Format("2006-01-02"))
}

func (g *Generator) evalRangeField(t *ast.RangeFieldType) (value.Value, error) {
	min, max := int64(0), int64(1000)
	if t.Min != nil {
		v, err := g.Ctx.Eval(t.Min)
		if err != nil {
			return nil, err
		}
		if n, ok := asIntValue(v); ok {
			min = n
		}
	}
	if t.Max != nil {
		v, err := g.Ctx.Eval(t.Max)
		if err != nil {
			return nil, err
		}
		if n, ok := asIntValue(v); ok {
			max = n
		}
	}
	if min > max {
		return nil, errors.NewEvaluationError(t.Pos, nil, "invalid range: min > max")
	}
	if t.Base == "decimal" {
		return value.ParseDecimal(fmt.Sprintf("%g", g.Ctx.RNG.UniformFloat(float64(min), float64(max))))
	}
	return g.Ctx.RNG.UniformInt(min, max), nil
}

// generateCollectionField produces a nested, ordered list of child records
// for a collection-typed field. With PerParentField set, cardinality is
// drawn once per element of the named sibling field already present on rec
// (a collection field declared earlier, as collection fields share one tier
// and run in source order), and that
// element is bound as the children's parent instead of rec itself.
func (g *Generator) generateCollectionField(t *ast.CollectionFieldType, rec *value.Record) (value.Value, error) {
	childSchema, ok := g.schemas[t.SchemaName]
	if !ok {
		return nil, errors.NewResolutionError(t.Pos, []string{t.SchemaName}, "unknown schema %q", t.SchemaName)
	}

	if !t.PerParent {
		n, err := g.evalCardinality(t.Cardinality, t.Pos)
		if err != nil {
			return nil, err
		}
		return g.generateChildren(childSchema, rec, n)
	}

	siblings, ok := rec.Get(t.PerParentField)
	if !ok {
		return nil, errors.NewResolutionError(t.Pos, []string{t.PerParentField}, "unknown field %q for per-parent collection", t.PerParentField)
	}
	parents, ok := siblings.(value.List)
	if !ok {
		return nil, errors.NewEvaluationError(t.Pos, []string{t.PerParentField}, "field %q is not a collection", t.PerParentField)
	}

	var out value.List
	for _, p := range parents {
		parentRec, ok := p.(*value.Record)
		if !ok {
			return nil, errors.NewEvaluationError(t.Pos, []string{t.PerParentField}, "per parent element is not a record")
		}
		n, err := g.evalCardinality(t.Cardinality, t.Pos)
		if err != nil {
			return nil, err
		}
		children, err := g.generateChildren(childSchema, parentRec, n)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

func (g *Generator) evalCardinality(expr ast.Expr, pos token.Position) (int64, error) {
	v, err := g.Ctx.Eval(expr)
	if err != nil {
		return 0, err
	}
	n, ok := asIntValue(v)
	if !ok {
		return 0, errors.NewEvaluationError(pos, nil, "cardinality must be an integer")
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

func (g *Generator) generateChildren(schema *ast.SchemaDecl, parent *value.Record, n int64) (value.List, error) {
	out := make(value.List, 0, n)
	var prev *value.Record
	for i := int64(0); i < n; i++ {
		var child *value.Record
		err := g.Ctx.WithPrevious(prev, func() error {
			var genErr error
			child, genErr = g.generateRecordFor(schema, parent)
			return genErr
		})
		if err != nil {
			return nil, err
		}
		out = append(out, child)
		prev = child
	}
	return out, nil
}

// applyBase populates rec with default values for every field of the
// imported schema named by schema.Base, the same way generateImportedRecord
// defaults a Reference-typed field's sub-fields. It runs before the
// schema's own fields are generated, so a declared field of the same name
// overrides the inherited default (Record.Set on an existing key keeps the
// key's original position but replaces its value) and so own fields can
// reference an inherited field as an ordinary current-record identifier.
func (g *Generator) applyBase(schema *ast.SchemaDecl, rec *value.Record) error {
	if schema.Base == "" {
		return nil
	}
	fields, ok := g.Ctx.Imported.Lookup(schema.Base)
	if !ok {
		return errors.NewResolutionError(schema.Pos, []string{schema.Name, schema.Base}, "unknown imported schema %q", schema.Base)
	}
	for _, f := range fields {
		v, err := g.defaultForPrimitive(f.Type)
		if err != nil {
			g.Ctx.Warnings.Warn(errors.UnknownFieldInImportedSchema, schema.Pos, []string{schema.Name, f.Name}, "%s", err)
			continue
		}
		rec.Set(f.Name, v)
	}
	return nil
}

func (g *Generator) generateImportedRecord(qualified string, pos token.Position) (value.Value, error) {
	fields, ok := g.Ctx.Imported.Lookup(qualified)
	if !ok {
		return nil, errors.NewResolutionError(pos, []string{qualified}, "unknown imported schema %q", qualified)
	}
	rec := value.NewRecord()
	for _, f := range fields {
		v, err := g.defaultForPrimitive(f.Type)
		if err != nil {
			g.Ctx.Warnings.Warn(errors.UnknownFieldInImportedSchema, pos, []string{qualified, f.Name}, "%s", err)
			continue
		}
		rec.Set(f.Name, v)
	}
	return rec, nil
}
