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
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ParseInt parses an integer literal lexeme, stripping digit-separator
// underscores.
func ParseInt(lexeme string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(lexeme, "_", ""), 10, 64)
}

// ParseDecimal parses a decimal literal lexeme into an *apd.Decimal,
// stripping digit-separator underscores.
func ParseDecimal(lexeme string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(strings.ReplaceAll(lexeme, "_", ""))
	return d, err
}

// Add returns a+b, concatenating when either operand is a string.
func Add(a, b Value) (Value, error) {
	if as, ok := a.(string); ok {
		return as + fmt.Sprint(stringize(b)), nil
	}
	if bs, ok := b.(string); ok {
		return fmt.Sprint(stringize(a)) + bs, nil
	}
	return numericOp(a, b, func(x, y *apd.Decimal, d *apd.Decimal) (*apd.Decimal, error) {
		_, err := DecimalContext.Add(d, x, y)
		return d, err
	})
}

func stringize(v Value) interface{} {
	if d, ok := v.(*apd.Decimal); ok {
		return d.Text('f')
	}
	return v
}

// Sub returns a-b.
func Sub(a, b Value) (Value, error) {
	return numericOp(a, b, func(x, y, d *apd.Decimal) (*apd.Decimal, error) {
		_, err := DecimalContext.Sub(d, x, y)
		return d, err
	})
}

// Mul returns a*b.
func Mul(a, b Value) (Value, error) {
	return numericOp(a, b, func(x, y, d *apd.Decimal) (*apd.Decimal, error) {
		_, err := DecimalContext.Mul(d, x, y)
		return d, err
	})
}

// Div returns a/b. Division by zero returns an error.
func Div(a, b Value) (Value, error) {
	return numericOp(a, b, func(x, y, d *apd.Decimal) (*apd.Decimal, error) {
		if y.IsZero() {
			return nil, fmt.Errorf("division by zero")
		}
		_, err := DecimalContext.Quo(d, x, y)
		return d, err
	})
}

// Rem returns a%b.
func Rem(a, b Value) (Value, error) {
	return numericOp(a, b, func(x, y, d *apd.Decimal) (*apd.Decimal, error) {
		if y.IsZero() {
			return nil, fmt.Errorf("division by zero")
		}
		_, err := DecimalContext.Rem(d, x, y)
		return d, err
	})
}

// Neg returns -a.
func Neg(a Value) (Value, error) {
	switch x := a.(type) {
	case int64:
		return -x, nil
	case *apd.Decimal:
		d := new(apd.Decimal)
		d.Neg(x)
		return d, nil
	}
	return nil, fmt.Errorf("cannot negate %s", TypeName(a))
}

// numericOp promotes int64 operands to decimal only when at least one
// operand is already a decimal; two int64 operands give an int64 unless the
// result is not a whole number (7/2 gives the decimal 3.5).
func numericOp(a, b Value, op func(x, y, d *apd.Decimal) (*apd.Decimal, error)) (Value, error) {
	ai, aIsInt := a.(int64)
	bi, bIsInt := b.(int64)
	if aIsInt && bIsInt {
		ad, bd := apd.New(ai, 0), apd.New(bi, 0)
		d := new(apd.Decimal)
		if _, err := op(ad, bd, d); err != nil {
			return nil, err
		}
		n, err := d.Int64()
		if err == nil {
			return n, nil
		}
		return d, nil
	}
	ad, ok1 := asDecimal(a)
	bd, ok2 := asDecimal(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unsupported operand types %s and %s", TypeName(a), TypeName(b))
	}
	d := new(apd.Decimal)
	if _, err := op(ad, bd, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Compare returns -1, 0, or 1 comparing a and b. Numbers compare
// numerically; strings and dates compare lexically.
func Compare(a, b Value) (int, error) {
	if ad, ok := asDecimal(a); ok {
		if bd, ok2 := asDecimal(b); ok2 {
			return int(ad.Cmp(bd)), nil
		}
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %s", TypeName(b))
		}
		return strings.Compare(x, y), nil
	case Date:
		y, ok := b.(Date)
		if !ok {
			return 0, fmt.Errorf("cannot compare date with %s", TypeName(b))
		}
		return strings.Compare(string(x), string(y)), nil
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare boolean with %s", TypeName(b))
		}
		if x == y {
			return 0, nil
		}
		if !x {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("cannot compare %s with %s", TypeName(a), TypeName(b))
}

// Round rounds v to d decimal places using round-half-even, returning a
// decimal value.
func Round(v Value, d int32) (Value, error) {
	dec, ok := asDecimal(v)
	if !ok {
		return nil, fmt.Errorf("round: unsupported type %s", TypeName(v))
	}
	out := new(apd.Decimal)
	_, err := DecimalContext.Quantize(out, dec, -d)
	if err != nil {
		return nil, err
	}
	return normalizeIntLike(out, v)
}

// Floor rounds v down to d decimal places.
func Floor(v Value, d int32) (Value, error) {
	return roundWithMode(v, d, apd.RoundFloor)
}

// Ceil rounds v up to d decimal places.
func Ceil(v Value, d int32) (Value, error) {
	return roundWithMode(v, d, apd.RoundCeiling)
}

func roundWithMode(v Value, d int32, mode apd.Rounder) (Value, error) {
	dec, ok := asDecimal(v)
	if !ok {
		return nil, fmt.Errorf("unsupported type %s", TypeName(v))
	}
	ctx := *DecimalContext
	ctx.Rounding = mode
	out := new(apd.Decimal)
	_, err := ctx.Quantize(out, dec, -d)
	if err != nil {
		return nil, err
	}
	return normalizeIntLike(out, v)
}

// normalizeIntLike returns an int64 if orig was an int64 and out has no
// fractional component, else returns the decimal.
func normalizeIntLike(out *apd.Decimal, orig Value) (Value, error) {
	if _, ok := orig.(int64); ok {
		n, err := out.Int64()
		if err == nil {
			return n, nil
		}
	}
	return out, nil
}
