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

package prng

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestSeededDeterminism(t *testing.T) {
	seed := int64(12345)
	a := New(&seed)
	b := New(&seed)
	for i := 0; i < 100; i++ {
		qt.Assert(t, qt.Equals(a.Float64(), b.Float64()))
	}
}

func TestUniformIntBounds(t *testing.T) {
	seed := int64(1)
	s := New(&seed)
	for i := 0; i < 1000; i++ {
		n := s.UniformInt(5, 5)
		qt.Assert(t, qt.Equals(n, int64(5)))
	}
	s = New(&seed)
	for i := 0; i < 1000; i++ {
		n := s.UniformInt(1, 10)
		if n < 1 || n > 10 {
			t.Fatalf("UniformInt(1, 10) = %d, out of bounds", n)
		}
	}
}

func TestWeightedIndexDegenerate(t *testing.T) {
	seed := int64(7)
	s := New(&seed)
	idx := s.WeightedIndex([]float64{0, 0, 5})
	qt.Assert(t, qt.Equals(idx, 2))
}

func TestUnseededDoesNotPanic(t *testing.T) {
	s := New(nil)
	for i := 0; i < 10; i++ {
		f := s.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v, out of [0,1) range", f)
		}
	}
}
