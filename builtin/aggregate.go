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
	"sort"

	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// InstallAggregate registers the aggregate built-ins (sum, count, min, max,
// avg, median, first, last, product) into p. Exported separately from
// Registry.Install because aggregates have no PRNG or sequence-counter
// dependency.
func InstallAggregate(p *registry.Plugins) {
	p.Register("sum", aggSum)
	p.Register("count", aggCount)
	p.Register("min", aggMin)
	p.Register("max", aggMax)
	p.Register("avg", aggAvg)
	p.Register("median", aggMedian)
	p.Register("first", aggFirst)
	p.Register("last", aggLast)
	p.Register("product", aggProduct)
}

func aggMin(args []registry.Arg, _ registry.Context) (value.Value, error) {
	return extremum(args, "min", -1)
}

func aggMax(args []registry.Arg, _ registry.Context) (value.Value, error) {
	return extremum(args, "max", 1)
}

func extremum(args []registry.Arg, name string, want int) (value.Value, error) {
	list, err := projectedList(args, name)
	if err != nil {
		return nil, err
	}
	var best value.Value
	found := false
	for _, v := range list {
		if value.IsNull(v) {
			continue
		}
		if !found {
			best, found = v, true
			continue
		}
		cmp, err := value.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if (want < 0 && cmp < 0) || (want > 0 && cmp > 0) {
			best = v
		}
	}
	if !found {
		return nil, nil
	}
	return best, nil
}

func projectedList(args []registry.Arg, name string) (value.List, error) {
	if len(args) != 1 {
		return nil, wrongArgs(name, args, 1)
	}
	list, ok := argAt(args, 0).(value.List)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list argument", name)
	}
	return list, nil
}

func aggSum(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "sum")
	if err != nil {
		return nil, err
	}
	var total value.Value = int64(0)
	for _, v := range list {
		if value.IsNull(v) {
			continue
		}
		total, err = value.Add(total, v)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

func aggCount(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "count")
	if err != nil {
		return nil, err
	}
	return int64(len(list)), nil
}

func aggAvg(args []registry.Arg, ctx registry.Context) (value.Value, error) {
	list, err := projectedList(args, "avg")
	if err != nil {
		return nil, err
	}
	n := 0
	var total value.Value = int64(0)
	for _, v := range list {
		if value.IsNull(v) {
			continue
		}
		total, err = value.Add(total, v)
		if err != nil {
			return nil, err
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return value.Div(total, int64(n))
}

func aggMedian(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "median")
	if err != nil {
		return nil, err
	}
	vals := make(value.List, 0, len(list))
	for _, v := range list {
		if !value.IsNull(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, nil
	}
	sort.Slice(vals, func(i, j int) bool {
		c, _ := value.Compare(vals[i], vals[j])
		return c < 0
	})
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], nil
	}
	return value.Div(mustAdd(vals[mid-1], vals[mid]), int64(2))
}

func mustAdd(a, b value.Value) value.Value {
	v, err := value.Add(a, b)
	if err != nil {
		return nil
	}
	return v
}

func aggFirst(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "first")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func aggLast(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "last")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func aggProduct(args []registry.Arg, _ registry.Context) (value.Value, error) {
	list, err := projectedList(args, "product")
	if err != nil {
		return nil, err
	}
	var total value.Value = int64(1)
	for _, v := range list {
		if value.IsNull(v) {
			continue
		}
		var err error
		total, err = value.Mul(total, v)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}
