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

package builtin

import (
	"fmt"

	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

func installSequence(p *registry.Plugins, r *Registry) {
	p.Register("sequence", r.sequenceFn(false))
	p.Register("sequenceInt", r.sequenceFn(true))
	p.Register("previous", r.previousFn())
}

// sequenceFn returns increasing int64 values per distinct name, shared
// across every call site in one compilation; sequence and sequenceInt
// (asIntOnly) return the same values. The first call for a name returns
// start (default 0); each later call adds its own step (default 1) to the
// previous value. A start or step that is not an integer is ignored.
func (r *Registry) sequenceFn(asIntOnly bool) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("sequence: expected at least a name argument")
		}
		name, ok := asString(argAt(args, 0))
		if !ok {
			return nil, fmt.Errorf("sequence: first argument must be a string name")
		}
		start := int64(0)
		step := int64(1)
		if len(args) >= 2 {
			if v, ok := asInt(argAt(args, 1)); ok {
				start = v
			}
		}
		if len(args) >= 3 {
			if v, ok := asInt(argAt(args, 2)); ok {
				step = v
			}
		}
		cur, seen := r.sequences[name]
		if !seen {
			cur = start
		} else {
			cur += step
		}
		r.sequences[name] = cur
		if asIntOnly {
			return cur, nil
		}
		return cur, nil
	}
}

// previousFn returns the named field from the previously generated record
// at this scope, or null when generating the first record (the "head").
func (r *Registry) previousFn() registry.Func {
	return func(args []registry.Arg, ctx registry.Context) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("previous: expected exactly one field-name argument")
		}
		name, ok := asString(argAt(args, 0))
		if !ok {
			return nil, fmt.Errorf("previous: argument must be a string field name")
		}
		prev := ctx.PreviousRecord()
		if prev == nil {
			return nil, nil
		}
		v, _ := prev.Get(name)
		return v, nil
	}
}
