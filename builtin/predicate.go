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

func installPredicate(p *registry.Plugins) {
	p.Register("all", predicateAll)
	p.Register("some", predicateSome)
	p.Register("none", predicateNone)
}

// elements extracts the list argument, accepting both a raw List value and
// a projected Record-bearing list.
func elements(args []registry.Arg, name string) (value.List, error) {
	if len(args) != 2 {
		return nil, wrongArgs(name, args, 2)
	}
	list, ok := argAt(args, 0).(value.List)
	if !ok {
		return nil, fmt.Errorf("%s: first argument must be a list", name)
	}
	return list, nil
}

func predicateAll(args []registry.Arg, ctx registry.Context) (value.Value, error) {
	list, err := elements(args, "all")
	if err != nil {
		return nil, err
	}
	pred := args[1].Node
	for _, elem := range list {
		v, err := ctx.EvalWithElement(pred, elem)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func predicateSome(args []registry.Arg, ctx registry.Context) (value.Value, error) {
	list, err := elements(args, "some")
	if err != nil {
		return nil, err
	}
	pred := args[1].Node
	for _, elem := range list {
		v, err := ctx.EvalWithElement(pred, elem)
		if err != nil {
			return nil, err
		}
		if value.Truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func predicateNone(args []registry.Arg, ctx registry.Context) (value.Value, error) {
	v, err := predicateSome(args, ctx)
	if err != nil {
		return nil, err
	}
	return !value.Truthy(v), nil
}
