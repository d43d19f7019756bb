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

// Package builtin implements the language's built-in call-position
// functions: math, string, date, distribution, predicate, sequence, and
// identity generators. Each function is registered into a *registry.Plugins
// the same way a user plugin would be, so the evaluator dispatches to both
// through one code path.
package builtin

import (
	"fmt"

	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// Registry bundles the stateful pieces built-ins need beyond their
// arguments: the compilation's PRNG and its sequence counters.
type Registry struct {
	RNG       *prng.Source
	sequences map[string]int64
}

// NewRegistry returns a Registry bound to rng, sharing one sequence-counter
// set across every `sequence(...)`/`sequenceInt(...)` call site keyed by
// name for the lifetime of one compilation.
func NewRegistry(rng *prng.Source) *Registry {
	return &Registry{RNG: rng, sequences: make(map[string]int64)}
}

// Install registers every built-in function into p.
func (r *Registry) Install(p *registry.Plugins) {
	installMath(p)
	installString(p)
	installDate(p, r.RNG)
	installDistribution(p, r.RNG)
	installPredicate(p)
	installSequence(p, r)
	installText(p, r.RNG)
	installIdentity(p, r.RNG)
	InstallAggregate(p)
}

func argAt(args []registry.Arg, i int) value.Value {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i].Value
}

func wrongArgs(name string, args []registry.Arg, want int) error {
	return fmt.Errorf("%s: expected %d argument(s), got %d", name, want, len(args))
}

func asString(v value.Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v value.Value) (int64, bool) {
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

func asFloat(v value.Value) (float64, bool) {
	if x, ok := v.(int64); ok {
		return float64(x), true
	}
	if d, ok := value.AsDecimal(v); ok {
		f, err := d.Float64()
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
