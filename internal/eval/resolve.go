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
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/token"
	"github.com/mcclowes/vague-sub003/value"
)

// resolveIdent looks up a bare name in scope order: current record, parent
// record, collections (a bare collection name evaluates to its List),
// let-bindings, then any active context's bindings.
func (c *Context) resolveIdent(name string, pos token.Position) (value.Value, error) {
	if c.current != nil {
		if v, ok := c.current.Get(name); ok {
			return v, nil
		}
	}
	if c.parent != nil {
		if v, ok := c.parent.Get(name); ok {
			return v, nil
		}
	}
	if list, ok := c.Collections[name]; ok {
		return list, nil
	}
	if v, ok := c.Lets[name]; ok {
		return v, nil
	}
	for _, bindings := range c.Contexts {
		if v, ok := bindings[name]; ok {
			return v, nil
		}
	}
	return nil, errors.NewResolutionError(pos, []string{name}, "unknown identifier %q", name)
}

// resolveQualified resolves a dotted path. The first part resolves like a
// bare identifier; remaining parts walk into a record field-by-field, or,
// when the first part names a collection, project that field across every
// element (e.g. `line_items.amount` inside an aggregate call).
func (c *Context) resolveQualified(parts []string, pos token.Position) (value.Value, error) {
	head, err := c.resolveIdent(parts[0], pos)
	if err != nil {
		return nil, err
	}
	return walkPath(head, parts[1:], pos)
}

// resolveParentRef resolves `^path...`, forcing the first segment to be
// looked up in the parent record regardless of what current shadows.
func (c *Context) resolveParentRef(path []string, pos token.Position) (value.Value, error) {
	if c.parent == nil {
		return nil, errors.NewResolutionError(pos, path, "no parent record in this context")
	}
	v, ok := c.parent.Get(path[0])
	if !ok {
		return nil, errors.NewResolutionError(pos, path, "unknown parent field %q", path[0])
	}
	return walkPath(v, path[1:], pos)
}

func walkPath(head value.Value, rest []string, pos token.Position) (value.Value, error) {
	cur := head
	for _, part := range rest {
		switch x := cur.(type) {
		case *value.Record:
			v, ok := x.Get(part)
			if !ok {
				return nil, errors.NewResolutionError(pos, []string{part}, "unknown field %q", part)
			}
			cur = v
		case value.List:
			projected := make(value.List, len(x))
			for i, elem := range x {
				rec, ok := elem.(*value.Record)
				if !ok {
					return nil, errors.NewResolutionError(pos, []string{part}, "cannot project field %q off a non-record list element", part)
				}
				v, ok := rec.Get(part)
				if !ok {
					return nil, errors.NewResolutionError(pos, []string{part}, "unknown field %q", part)
				}
				projected[i] = v
			}
			cur = projected
		default:
			return nil, errors.NewResolutionError(pos, []string{part}, "cannot access field %q on a non-record value", part)
		}
	}
	return cur, nil
}
