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
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

func installMath(p *registry.Plugins) {
	p.Register("round", mathRound)
	p.Register("floor", mathFloor)
	p.Register("ceil", mathCeil)
	p.Register("abs", mathAbs)
}

func decimalPlaces(args []registry.Arg, i int) int32 {
	if i >= len(args) {
		return 0
	}
	n, _ := asInt(argAt(args, i))
	return int32(n)
}

func mathRound(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs("round", args, 1)
	}
	return value.Round(argAt(args, 0), decimalPlaces(args, 1))
}

func mathFloor(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs("floor", args, 1)
	}
	return value.Floor(argAt(args, 0), decimalPlaces(args, 1))
}

func mathCeil(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs("ceil", args, 1)
	}
	return value.Ceil(argAt(args, 0), decimalPlaces(args, 1))
}

func mathAbs(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("abs", args, 1)
	}
	v := argAt(args, 0)
	cmp, err := value.Compare(v, int64(0))
	if err != nil {
		return nil, err
	}
	if cmp < 0 {
		return value.Neg(v)
	}
	return v, nil
}
