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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

func arg(v value.Value) registry.Arg { return registry.Arg{Value: v} }

// decArg wraps a float64 as an *apd.Decimal arg, since registry.Arg values
// flow through value.AsDecimal (int64 or *apd.Decimal only, never a bare Go
// float64).
func decArg(f float64) registry.Arg {
	d, err := value.ParseDecimal(fmt.Sprintf("%g", f))
	if err != nil {
		panic(err)
	}
	return arg(d)
}

// fakeContext is a minimal registry.Context used to exercise built-ins that
// need access to the previously generated record.
type fakeContext struct {
	prev *value.Record
}

func (f *fakeContext) CurrentRecord() *value.Record  { return nil }
func (f *fakeContext) ParentRecord() *value.Record   { return nil }
func (f *fakeContext) PreviousRecord() *value.Record { return f.prev }
func (f *fakeContext) Collection(name string) (value.List, bool) {
	return nil, false
}
func (f *fakeContext) EvalWithElement(node ast.Expr, elem value.Value) (value.Value, error) {
	return elem, nil
}

func TestMathRoundFloorCeilAbs(t *testing.T) {
	d, err := value.ParseDecimal("2.5")
	qt.Assert(t, qt.IsNil(err))
	out, err := mathRound([]registry.Arg{arg(d)}, nil)
	qt.Assert(t, qt.IsNil(err))
	od, _ := value.AsDecimal(out)
	qt.Assert(t, qt.Equals(od.Text('f'), "2"))

	out, err = mathAbs([]registry.Arg{arg(int64(-5))}, nil)
	qt.Assert(t, qt.IsNil(err))
	n, ok := out.(int64)
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(n, int64(5)))
}

func TestMathWrongArgCount(t *testing.T) {
	_, err := mathRound(nil, nil)
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestStringCaseConversions(t *testing.T) {
	out, err := stringUppercase([]registry.Arg{arg("abc")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "ABC"))

	out, err = stringKebabCase([]registry.Arg{arg("fooBarBaz")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "foo-bar-baz"))

	out, err = stringSnakeCase([]registry.Arg{arg("Foo Bar")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "foo_bar"))

	out, err = stringCamelCase([]registry.Arg{arg("foo-bar baz")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "fooBarBaz"))
}

func TestStringSubstring(t *testing.T) {
	out, err := stringSubstring([]registry.Arg{arg("hello world"), arg(int64(0)), arg(int64(5))}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "hello"))

	out, err = stringSubstring([]registry.Arg{arg("hello"), arg(int64(10)), arg(int64(20))}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, ""))
}

func TestStringReplaceAndLength(t *testing.T) {
	out, err := stringReplace([]registry.Arg{arg("foobar"), arg("bar"), arg("baz")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "foobaz"))

	out, err = stringLength([]registry.Arg{arg("hello")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, int64(5)))
}

func TestSequenceMonotonic(t *testing.T) {
	r := NewRegistry(prng.New(nil))
	fn := r.sequenceFn(false)
	v1, err := fn([]registry.Arg{arg("ids")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v1, int64(0)))

	v2, err := fn([]registry.Arg{arg("ids")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v2, int64(1)))

	v3, err := fn([]registry.Arg{arg("ids"), arg(int64(100)), arg(int64(10))}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v3, int64(11)))
}

func TestSequenceIndependentNames(t *testing.T) {
	r := NewRegistry(prng.New(nil))
	fn := r.sequenceFn(false)
	a, _ := fn([]registry.Arg{arg("a")}, nil)
	b, _ := fn([]registry.Arg{arg("b")}, nil)
	qt.Assert(t, qt.Equals(a, int64(0)))
	qt.Assert(t, qt.Equals(b, int64(0)))
}

func TestPreviousReturnsNullOnFirstRecord(t *testing.T) {
	r := NewRegistry(prng.New(nil))
	fn := r.previousFn()
	out, err := fn([]registry.Arg{arg("name")}, &fakeContext{})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(out))
}

func TestPreviousReturnsFieldFromPriorRecord(t *testing.T) {
	prevRec := value.NewRecord()
	prevRec.Set("name", "Ada")
	r := NewRegistry(prng.New(nil))
	fn := r.previousFn()
	out, err := fn([]registry.Arg{arg("name")}, &fakeContext{prev: prevRec})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "Ada"))
}

func TestGaussianClampsWithoutTruncating(t *testing.T) {
	seed := int64(7)
	fn := gaussianFn(prng.New(&seed))
	min, max := 4.9, 5.1
	for i := 0; i < 50; i++ {
		out, err := fn([]registry.Arg{decArg(5.0), decArg(0.5), decArg(min), decArg(max)}, nil)
		qt.Assert(t, qt.IsNil(err))
		d, ok := value.AsDecimal(out)
		qt.Assert(t, qt.Equals(ok, true))
		f, _ := d.Float64()
		qt.Assert(t, f >= min && f <= max)
	}
}

func TestGaussianWithoutBoundsStillExactlyTwoArgs(t *testing.T) {
	out, err := gaussianFn(prng.New(nil))([]registry.Arg{decArg(0.0), decArg(1.0)}, nil)
	qt.Assert(t, qt.IsNil(err))
	_, ok := value.AsDecimal(out)
	qt.Assert(t, qt.Equals(ok, true))
}

func TestGaussianWrongArgCount(t *testing.T) {
	_, err := gaussianFn(prng.New(nil))([]registry.Arg{decArg(0.0)}, nil)
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestExponentialDefaultsMinToZero(t *testing.T) {
	seed := int64(3)
	fn := exponentialFn(prng.New(&seed))
	for i := 0; i < 50; i++ {
		out, err := fn([]registry.Arg{decArg(2.0)}, nil)
		qt.Assert(t, qt.IsNil(err))
		d, ok := value.AsDecimal(out)
		qt.Assert(t, qt.Equals(ok, true))
		f, _ := d.Float64()
		qt.Assert(t, f >= 0)
	}
}

func TestExponentialClampsToUpperBound(t *testing.T) {
	seed := int64(11)
	fn := exponentialFn(prng.New(&seed))
	for i := 0; i < 50; i++ {
		out, err := fn([]registry.Arg{decArg(0.5), decArg(0.0), decArg(1.0)}, nil)
		qt.Assert(t, qt.IsNil(err))
		d, ok := value.AsDecimal(out)
		qt.Assert(t, qt.Equals(ok, true))
		f, _ := d.Float64()
		qt.Assert(t, f >= 0 && f <= 1.0)
	}
}

func TestLognormalClampsWithoutTruncating(t *testing.T) {
	seed := int64(19)
	fn := lognormalFn(prng.New(&seed))
	min, max := 0.5, 2.0
	for i := 0; i < 50; i++ {
		out, err := fn([]registry.Arg{decArg(0.0), decArg(1.0), decArg(min), decArg(max)}, nil)
		qt.Assert(t, qt.IsNil(err))
		d, ok := value.AsDecimal(out)
		qt.Assert(t, qt.Equals(ok, true))
		f, _ := d.Float64()
		qt.Assert(t, f >= min && f <= max)
	}
}

func TestFormatDateUsesSpecVocabulary(t *testing.T) {
	out, err := dateFormatDate([]registry.Arg{arg(value.Date("2026-07-30")), arg("YYYY-MM-DD")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "2026-07-30"))

	out, err = dateFormatDate([]registry.Arg{arg(value.Date("2026-07-30T15:04:05Z")), arg("YYYY/MM/DD HH:mm:ss")}, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "2026/07/30 15:04:05"))
}

func TestUUIDDeterministicUnderSeed(t *testing.T) {
	seed := int64(42)
	id1, err := uuidFn(prng.New(&seed))(nil, nil)
	qt.Assert(t, qt.IsNil(err))
	id2, err := uuidFn(prng.New(&seed))(nil, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(id1, id2))
}
