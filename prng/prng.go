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

// Package prng implements the seeded linear congruential generator spec.md
// §5 requires for deterministic output, plus the statistical distributions
// built on top of it. Each compilation constructs its own *Source; the
// generator is never shared across concurrent compilations.
package prng

import (
	"math"
	"math/rand"
	"time"
)

const (
	lcgA = 1103515245
	lcgC = 12345
	lcgM = 1 << 31
)

// Source is a single compilation's random source. When no seed was given it
// delegates to the platform random source (math/rand) instead of the LCG,
// per spec.md §5 ("When no seed is given, the platform random source is
// used").
type Source struct {
	state  uint64
	seeded bool
	rnd    *rand.Rand
}

// New returns a PRNG seeded with seed. A nil seed uses the platform random
// source.
func New(seed *int64) *Source {
	if seed == nil {
		return &Source{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	return &Source{state: uint64(*seed) % lcgM, seeded: true}
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	if !s.seeded {
		return s.rnd.Float64()
	}
	s.state = (lcgA*s.state + lcgC) % lcgM
	return float64(s.state) / float64(lcgM)
}

// Intn returns a uniform integer in [0, n).
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Float64() * float64(n))
}

// UniformInt returns a uniform integer in [min, max] inclusive.
func (s *Source) UniformInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	span := max - min + 1
	return min + int64(s.Float64()*float64(span))
}

// UniformFloat returns a uniform float64 in [min, max].
func (s *Source) UniformFloat(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Float64()*(max-min)
}

// Bool returns a fair coin flip.
func (s *Source) Bool() bool { return s.Float64() < 0.5 }

// Gaussian returns a normally-distributed value with mean mu and standard
// deviation sigma, using the Box-Muller transform driven by Float64 so it
// remains deterministic under a seed.
func (s *Source) Gaussian(mu, sigma float64) float64 {
	u1, u2 := s.Float64(), s.Float64()
	if u1 <= 0 {
		u1 = 1e-12
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + sigma*z
}

// Exponential returns an exponentially-distributed value with the given
// rate (lambda).
func (s *Source) Exponential(rate float64) float64 {
	u := s.Float64()
	for u <= 0 {
		u = s.Float64()
	}
	return -math.Log(u) / rate
}

// LogNormal returns a log-normally-distributed value.
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.Gaussian(mu, sigma))
}

// Poisson returns a Poisson-distributed integer with mean lambda, via
// Knuth's algorithm.
func (s *Source) Poisson(lambda float64) int64 {
	l := math.Exp(-lambda)
	k := int64(0)
	p := 1.0
	for {
		k++
		p *= s.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// Beta returns a Beta(alpha, beta)-distributed value, derived from two
// Gamma-distributed draws.
func (s *Source) Beta(alpha, beta float64) float64 {
	x := s.gamma(alpha)
	y := s.gamma(beta)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

// gamma draws a Gamma(shape, 1)-distributed value using the
// Marsaglia-Tsang method.
func (s *Source) gamma(shape float64) float64 {
	if shape < 1 {
		u := s.Float64()
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = s.Gaussian(0, 1)
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := s.Float64()
		if u < 1-0.0331*(x*x*x*x) {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// WeightedIndex picks an index into weights with probability proportional
// to weights[i]/sum(weights). Weights must be non-negative; a zero-sum
// slice always picks index 0.
func (s *Source) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := s.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
