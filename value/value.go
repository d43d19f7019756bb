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

// Package value defines the runtime value domain produced by the generator:
// integer, decimal, string, boolean, null, date, list, and record. Decimal
// values are backed by github.com/cockroachdb/apd/v3 so that aggregate sums
// over "decimal" fields are exact rather than subject to float64 rounding.
package value

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cockroachdb/apd/v3"
)

// Value is any of: nil (null), int64, *apd.Decimal, string, bool, Date,
// List, or *Record.
type Value = interface{}

// DecimalContext is the arithmetic context used for every decimal operation
// in the evaluator, math built-ins, and aggregates: 34 significant digits
// (decimal128), round-half-even.
var DecimalContext = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfEven
	return c
}()

// Date is an ISO-8601 date or date-time string.
type Date string

// List is an ordered, heterogeneous sequence of values.
type List []Value

// Record is an ordered mapping from field name to value. Order reflects
// first-write order so JSON/CSV emitters produce stable column ordering.
type Record struct {
	keys   []string
	fields map[string]Value
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Set assigns key to v, appending key to the order if it is new.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

// Delete removes key from the record, if present.
func (r *Record) Delete(key string) {
	if _, ok := r.fields[key]; !ok {
		return
	}
	delete(r.fields, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value for key and whether it was present.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Has reports whether key is present in the record.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Keys returns the field names in first-write order.
func (r *Record) Keys() []string {
	return r.keys
}

// Clone returns a shallow copy of r.
func (r *Record) Clone() *Record {
	c := NewRecord()
	for _, k := range r.keys {
		c.Set(k, r.fields[k])
	}
	return c
}

// MarshalJSON emits the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range r.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(jsonable(r.fields[k]))
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// jsonable recursively converts Value into something encoding/json can
// marshal natively (apd.Decimal implements json.Marshaler already).
func jsonable(v Value) interface{} {
	switch x := v.(type) {
	case List:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = jsonable(e)
		}
		return out
	case Date:
		return string(x)
	default:
		return x
	}
}

// Dataset maps collection name to its ordered list of records.
type Dataset map[string]List

// MarshalJSON emits the dataset with collection names sorted, for
// deterministic output byte-for-byte across runs.
func (d Dataset) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	buf := []byte{'{'}
	for i, name := range names {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(name)
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(jsonable(d[name]))
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// IsNull reports whether v represents the null value.
func IsNull(v Value) bool { return v == nil }

// Truthy implements the language's truthiness rule: non-null, non-zero,
// non-empty-string, non-false.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case *apd.Decimal:
		return x != nil && !x.IsZero()
	case string:
		return x != ""
	case Date:
		return x != ""
	case List:
		return len(x) != 0
	default:
		return true
	}
}

// TypeName returns a short name for v's kind, used in error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64:
		return "int"
	case *apd.Decimal:
		return "decimal"
	case string:
		return "string"
	case Date:
		return "date"
	case List:
		return "list"
	case *Record:
		return "record"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal reports structural equality of numbers, strings, dates, booleans,
// null and lists, used by match-expression pattern comparison. Records never
// compare equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aIsNum := asDecimal(a)
	bn, bIsNum := asDecimal(b)
	if aIsNum && bIsNum {
		return an.Cmp(bn) == 0
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Date:
		y, ok := b.(Date)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// asDecimal coerces an int64 or *apd.Decimal to *apd.Decimal for numeric
// comparison/promotion purposes.
func asDecimal(v Value) (*apd.Decimal, bool) {
	switch x := v.(type) {
	case int64:
		return apd.New(x, 0), true
	case *apd.Decimal:
		return x, true
	}
	return nil, false
}

// AsDecimal exports asDecimal for use outside the package (evaluator, math
// built-ins, aggregates).
func AsDecimal(v Value) (*apd.Decimal, bool) { return asDecimal(v) }

// IsInt reports whether v is an int64.
func IsInt(v Value) bool { _, ok := v.(int64); return ok }

// IsNumeric reports whether v is an int64 or *apd.Decimal.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case int64, *apd.Decimal:
		return true
	}
	return false
}
