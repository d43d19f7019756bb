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
	"strings"
	"time"

	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

const dateLayout = "2006-01-02"
const dateTimeLayout = time.RFC3339

func installDate(p *registry.Plugins, rng *prng.Source) {
	p.Register("now", dateNow)
	p.Register("today", dateToday)
	p.Register("datetime", dateDatetime)
	p.Register("daysAgo", dateDaysAgo)
	p.Register("daysFromNow", dateDaysFromNow)
	p.Register("dateBetween", dateBetweenFn(rng))
	p.Register("formatDate", dateFormatDate)
}

func dateNow(_ []registry.Arg, _ registry.Context) (value.Value, error) {
	return value.Date(time.Now().UTC().Format(dateTimeLayout)), nil
}

func dateToday(_ []registry.Arg, _ registry.Context) (value.Value, error) {
	return value.Date(time.Now().UTC().Format(dateLayout)), nil
}

func dateDatetime(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("datetime: expected an ISO-8601 string argument")
	}
	if _, err := time.Parse(dateTimeLayout, s); err != nil {
		if _, err2 := time.Parse(dateLayout, s); err2 != nil {
			return nil, fmt.Errorf("datetime: invalid timestamp %q", s)
		}
	}
	return value.Date(s), nil
}

func dateDaysAgo(args []registry.Arg, _ registry.Context) (value.Value, error) {
	n, ok := asInt(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("daysAgo: expected an integer argument")
	}
	return value.Date(time.Now().UTC().AddDate(0, 0, -int(n)).Format(dateLayout)), nil
}

func dateDaysFromNow(args []registry.Arg, _ registry.Context) (value.Value, error) {
	n, ok := asInt(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("daysFromNow: expected an integer argument")
	}
	return value.Date(time.Now().UTC().AddDate(0, 0, int(n)).Format(dateLayout)), nil
}

func dateBetweenFn(rng *prng.Source) registry.Func {
	return func(args []registry.Arg, _ registry.Context) (value.Value, error) {
		if len(args) != 2 {
			return nil, wrongArgs("dateBetween", args, 2)
		}
		from, ok1 := asDate(argAt(args, 0))
		to, ok2 := asDate(argAt(args, 1))
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("dateBetween: expected two date arguments")
		}
		t1, err := parseDate(from)
		if err != nil {
			return nil, err
		}
		t2, err := parseDate(to)
		if err != nil {
			return nil, err
		}
		if !t2.After(t1) {
			return value.Date(from), nil
		}
		span := t2.Sub(t1)
		offset := time.Duration(rng.Float64() * float64(span))
		return value.Date(t1.Add(offset).Format(dateLayout)), nil
	}
}

func dateFormatDate(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("formatDate", args, 2)
	}
	d, ok1 := asDate(argAt(args, 0))
	layout, ok2 := asString(argAt(args, 1))
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("formatDate: expected a date and a layout string")
	}
	t, err := parseDate(d)
	if err != nil {
		return nil, err
	}
	return t.Format(goLayout(layout)), nil
}

func asDate(v value.Value) (string, bool) {
	switch x := v.(type) {
	case value.Date:
		return string(x), true
	case string:
		return x, true
	}
	return "", false
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

// dateFormatReplacer pairs each formatDate token with its Go reference-time
// equivalent, since the language's format strings use the YYYY/MM/DD
// vocabulary rather than Go's own. None of these tokens is a substring of
// another, so a single ordered pass is safe regardless of order.
var dateFormatReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// goLayout translates a formatDate layout string into Go's reference-time
// layout.
func goLayout(format string) string {
	return dateFormatReplacer.Replace(format)
}
