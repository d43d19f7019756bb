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

package value

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestAddIntStaysInt(t *testing.T) {
	sum, err := Add(int64(2), int64(3))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(sum, int64(5)))
}

func TestAddStringConcatenates(t *testing.T) {
	out, err := Add("foo", "bar")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "foobar"))

	out, err = Add("n=", int64(3))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "n=3"))
}

func TestDivByZeroErrors(t *testing.T) {
	_, err := Div(int64(1), int64(0))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestDecimalSumExact(t *testing.T) {
	a, err := ParseDecimal("1.1")
	qt.Assert(t, qt.IsNil(err))
	b, err := ParseDecimal("2.2")
	qt.Assert(t, qt.IsNil(err))
	sum, err := Add(a, b)
	qt.Assert(t, qt.IsNil(err))
	d, ok := AsDecimal(sum)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(d.Text('f'), "3.3"))
}

func TestCompareNumericPromotion(t *testing.T) {
	d, err := ParseDecimal("5.0")
	qt.Assert(t, qt.IsNil(err))
	cmp, err := Compare(int64(5), d)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cmp, 0))
}

func TestRoundHalfEven(t *testing.T) {
	d, err := ParseDecimal("2.5")
	qt.Assert(t, qt.IsNil(err))
	out, err := Round(d, 0)
	qt.Assert(t, qt.IsNil(err))
	od, ok := AsDecimal(out)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(od.Text('f'), "2"))
}

func TestFloorCeil(t *testing.T) {
	d, err := ParseDecimal("1.23")
	qt.Assert(t, qt.IsNil(err))
	floor, err := Floor(d, 1)
	qt.Assert(t, qt.IsNil(err))
	fd, _ := AsDecimal(floor)
	qt.Assert(t, qt.Equals(fd.Text('f'), "1.2"))

	ceil, err := Ceil(d, 1)
	qt.Assert(t, qt.IsNil(err))
	cd, _ := AsDecimal(ceil)
	qt.Assert(t, qt.Equals(cd.Text('f'), "1.3"))
}

func TestRecordOrderPreserved(t *testing.T) {
	r := NewRecord()
	r.Set("b", int64(1))
	r.Set("a", int64(2))
	r.Set("b", int64(3))
	qt.Assert(t, qt.DeepEquals(r.Keys(), []string{"b", "a"}))
	v, ok := r.Get("b")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(v, int64(3)))
}
