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
	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/value"
)

// GenerateDataset runs the dataset-level generation procedure spec.md §4.5
// describes: apply the dataset's context bindings, generate each collection
// in declaration order (installing its records into the context so later
// collections can reference earlier ones), then retry the whole dataset
// against its validate block up to the dataset retry budget.
func (g *Generator) GenerateDataset(d *ast.DatasetDecl) (value.Dataset, error) {
	g.Ctx.Violating = d.Violating

	var result value.Dataset
	limit := g.Opts.DatasetRetryLimit()
	attempts := 0

	for {
		attempts++
		out, ok, err := g.generateDatasetOnce(d)
		if err != nil {
			return nil, err
		}
		if ok || attempts > limit {
			result = out
			if !ok {
				mode := "satisfying"
				if d.Violating {
					mode = "violating"
				}
				if g.Opts.Strict {
					return nil, &errors.ConstraintSatisfactionError{Schema: d.Name, Mode: mode, Attempts: attempts}
				}
				g.Ctx.Warnings.Warn(errors.ConstraintRetryLimit, d.Pos, []string{d.Name}, "dataset validate clauses unsatisfied after %d attempts", attempts)
			}
			break
		}
	}
	return result, nil
}

func (g *Generator) generateDatasetOnce(d *ast.DatasetDecl) (value.Dataset, bool, error) {
	out := make(value.Dataset)
	var ok bool
	err := g.applyContexts(d.Contexts, func() error {
		for _, coll := range d.Collections {
			list, err := g.generateCollection(coll)
			if err != nil {
				return err
			}
			out[coll.Name] = list
			g.Ctx.Collections[coll.Name] = list
		}
		valid, err := g.evalValidate(d)
		if err != nil {
			return err
		}
		ok = valid
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, ok, nil
}

func (g *Generator) generateCollection(coll *ast.CollectionDecl) (value.List, error) {
	schema, ok := g.schemas[coll.SchemaName]
	if !ok {
		return nil, errors.NewResolutionError(coll.Pos, []string{coll.SchemaName}, "unknown schema %q", coll.SchemaName)
	}
	schema = withOverrides(schema, coll.Overrides)

	var out value.List
	err := g.applyContexts(coll.Contexts, func() error {
		if !coll.PerParent {
			n, err := g.evalCardinality(coll.Cardinality, coll.Pos)
			if err != nil {
				return err
			}
			children, err := g.generateChildren(schema, nil, n)
			if err != nil {
				return err
			}
			out = children
			return nil
		}

		parents, ok := g.Ctx.Collections[coll.PerParentField]
		if !ok {
			return errors.NewResolutionError(coll.Pos, []string{coll.PerParentField}, "unknown collection %q for per-parent generation", coll.PerParentField)
		}
		for _, p := range parents {
			parentRec, ok := p.(*value.Record)
			if !ok {
				return errors.NewEvaluationError(coll.Pos, []string{coll.PerParentField}, "per parent element is not a record")
			}
			n, err := g.evalCardinality(coll.Cardinality, coll.Pos)
			if err != nil {
				return err
			}
			children, err := g.generateChildren(schema, parentRec, n)
			if err != nil {
				return err
			}
			out = append(out, children...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withOverrides returns schema unchanged when overrides is empty, otherwise
// a shallow copy whose Fields list has each override's field spliced in by
// name (replacing the schema's own definition, or appended when the
// collection introduces a field the schema doesn't declare).
func withOverrides(schema *ast.SchemaDecl, overrides []*ast.FieldDecl) *ast.SchemaDecl {
	if len(overrides) == 0 {
		return schema
	}
	byName := make(map[string]*ast.FieldDecl, len(overrides))
	for _, f := range overrides {
		byName[f.Name] = f
	}
	fields := make([]*ast.FieldDecl, 0, len(schema.Fields)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, f := range schema.Fields {
		if replacement, ok := byName[f.Name]; ok {
			fields = append(fields, replacement)
			seen[f.Name] = true
			continue
		}
		fields = append(fields, f)
	}
	for _, f := range overrides {
		if !seen[f.Name] {
			fields = append(fields, f)
		}
	}
	clone := *schema
	clone.Fields = fields
	return &clone
}

// evalValidate checks a dataset's validate block. In satisfying-mode every
// expression must be truthy; in violating-mode at least one must be falsy.
func (g *Generator) evalValidate(d *ast.DatasetDecl) (bool, error) {
	if len(d.Validate) == 0 {
		return true, nil
	}
	anyFailed := false
	allHeld := true
	for _, expr := range d.Validate {
		ok, err := g.evalConstraint(expr, []string{d.Name})
		if err != nil {
			return false, err
		}
		if !ok {
			anyFailed = true
			allHeld = false
		}
	}
	if d.Violating {
		return anyFailed, nil
	}
	return allHeld, nil
}
