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

	"github.com/cockroachdb/apd/v3"

	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

func installDistribution(p *registry.Plugins, rng *prng.Source) {
	p.Register("uniform", uniformFn(rng))
	p.Register("gaussian", gaussianFn(rng))
	p.Register("exponential", exponentialFn(rng))
	p.Register("lognormal", lognormalFn(rng))
	p.Register("poisson", poissonFn(rng))
	p.Register("beta", betaFn(rng))
}

func twoFloatArgs(name string, args []registry.Arg) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, wrongArgs(name, args, 2)
	}
	a, ok1 := asFloat(argAt(args, 0))
	b, ok2 := asFloat(argAt(args, 1))
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%s: expected two numeric arguments", name)
	}
	return a, b, nil
}

// maxClampAttempts bounds the re-sampling loop a clamped distribution call
// runs when a draw falls outside its optional min/max bounds, matching the
// 100-attempt retry budget spec.md §5 assigns to every other rejection-
// sampling loop in the pipeline.
const maxClampAttempts = 100

// optionalBound reads the optional min/max clamp argument at idx, returning
// ok=false only when the argument is present but not numeric; a missing
// argument reports bound=nil, ok=true ("no bound on this side").
func optionalBound(args []registry.Arg, idx int) (bound *float64, ok bool) {
	if idx >= len(args) {
		return nil, true
	}
	f, ok := asFloat(argAt(args, idx))
	if !ok {
		return nil, false
	}
	return &f, true
}

// resampleClamped draws from next until the result satisfies [min, max]
// (either bound may be nil, meaning unclamped on that side) or
// maxClampAttempts is spent, in which case it keeps the last draw — clamping
// is re-sampling, not truncation, per spec.md §4.6.
func resampleClamped(min, max *float64, next func() float64) float64 {
	v := next()
	for attempt := 0; attempt < maxClampAttempts; attempt++ {
		if (min == nil || v >= *min) && (max == nil || v <= *max) {
			break
		}
		v = next()
	}
	return v
}

// argCountError reports that name was called with a count outside
// [min, max] arguments, for built-ins whose trailing arguments are optional.
func argCountError(name string, args []registry.Arg, min, max int) error {
	return fmt.Errorf("%s: expected between %d and %d arguments, got %d", name, min, max, len(args))
}

func decimalFromFloat(f float64) value.Value {
	d, _, err := apd.NewFromString(fmt.Sprintf("%g", f))
	if err != nil {
		return f
	}
	return d
}

func uniformFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		min, max, err := twoFloatArgs("uniform", args)
		if err != nil {
			return nil, err
		}
		return decimalFromFloat(rng.UniformFloat(min, max)), nil
	}
}

// gaussianFn implements gaussian(mu, sigma, min?, max?); a draw outside the
// optional [min, max] bounds is re-sampled rather than truncated.
func gaussianFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) < 2 || len(args) > 4 {
			return nil, argCountError("gaussian", args, 2, 4)
		}
		mu, ok1 := asFloat(argAt(args, 0))
		sigma, ok2 := asFloat(argAt(args, 1))
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("gaussian: expected two numeric arguments")
		}
		min, ok := optionalBound(args, 2)
		if !ok {
			return nil, fmt.Errorf("gaussian: expected a numeric min argument")
		}
		max, ok := optionalBound(args, 3)
		if !ok {
			return nil, fmt.Errorf("gaussian: expected a numeric max argument")
		}
		v := resampleClamped(min, max, func() float64 { return rng.Gaussian(mu, sigma) })
		return decimalFromFloat(v), nil
	}
}

// exponentialFn implements exponential(rate, min=0, max?); the default lower
// bound matches the distribution's natural support.
func exponentialFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) < 1 || len(args) > 3 {
			return nil, argCountError("exponential", args, 1, 3)
		}
		rate, ok := asFloat(argAt(args, 0))
		if !ok {
			return nil, fmt.Errorf("exponential: expected a numeric rate argument")
		}
		zero := 0.0
		min := &zero
		if len(args) >= 2 {
			b, ok := optionalBound(args, 1)
			if !ok {
				return nil, fmt.Errorf("exponential: expected a numeric min argument")
			}
			min = b
		}
		max, ok := optionalBound(args, 2)
		if !ok {
			return nil, fmt.Errorf("exponential: expected a numeric max argument")
		}
		v := resampleClamped(min, max, func() float64 { return rng.Exponential(rate) })
		return decimalFromFloat(v), nil
	}
}

// lognormalFn implements lognormal(mu, sigma, min?, max?), clamping the same
// way gaussianFn does.
func lognormalFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) < 2 || len(args) > 4 {
			return nil, argCountError("lognormal", args, 2, 4)
		}
		mu, ok1 := asFloat(argAt(args, 0))
		sigma, ok2 := asFloat(argAt(args, 1))
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("lognormal: expected two numeric arguments")
		}
		min, ok := optionalBound(args, 2)
		if !ok {
			return nil, fmt.Errorf("lognormal: expected a numeric min argument")
		}
		max, ok := optionalBound(args, 3)
		if !ok {
			return nil, fmt.Errorf("lognormal: expected a numeric max argument")
		}
		v := resampleClamped(min, max, func() float64 { return rng.LogNormal(mu, sigma) })
		return decimalFromFloat(v), nil
	}
}

func poissonFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) != 1 {
			return nil, wrongArgs("poisson", args, 1)
		}
		lambda, ok := asFloat(argAt(args, 0))
		if !ok {
			return nil, fmt.Errorf("poisson: expected a numeric lambda argument")
		}
		return rng.Poisson(lambda), nil
	}
}

func betaFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		a, b, err := twoFloatArgs("beta", args)
		if err != nil {
			return nil, err
		}
		return decimalFromFloat(rng.Beta(a, b)), nil
	}
}
