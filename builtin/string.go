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
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
	titleCaser = cases.Title(language.Und)
)

func installString(p *registry.Plugins) {
	p.Register("uppercase", stringUppercase)
	p.Register("lowercase", stringLowercase)
	p.Register("capitalize", stringCapitalize)
	p.Register("kebabCase", stringKebabCase)
	p.Register("snakeCase", stringSnakeCase)
	p.Register("camelCase", stringCamelCase)
	p.Register("trim", stringTrim)
	p.Register("concat", stringConcat)
	p.Register("substring", stringSubstring)
	p.Register("replace", stringReplace)
	p.Register("length", stringLength)
}

func stringUppercase(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("uppercase: expected a string argument")
	}
	return upperCaser.String(s), nil
}

func stringLowercase(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("lowercase: expected a string argument")
	}
	return lowerCaser.String(s), nil
}

func stringCapitalize(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("capitalize: expected a string argument")
	}
	return titleCaser.String(s), nil
}

// splitWords breaks s on whitespace, underscore, hyphen, and
// lower-to-upper transitions, the shared tokenizer behind the three
// case-convention built-ins below.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) && unicode.IsLetter(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

func stringKebabCase(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("kebabCase: expected a string argument")
	}
	words := splitWords(s)
	for i, w := range words {
		words[i] = lowerCaser.String(w)
	}
	return strings.Join(words, "-"), nil
}

func stringSnakeCase(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("snakeCase: expected a string argument")
	}
	words := splitWords(s)
	for i, w := range words {
		words[i] = lowerCaser.String(w)
	}
	return strings.Join(words, "_"), nil
}

func stringCamelCase(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("camelCase: expected a string argument")
	}
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerCaser.String(w))
			continue
		}
		b.WriteString(titleCaser.String(w))
	}
	return b.String(), nil
}

func stringTrim(args []registry.Arg, _ registry.Context) (value.Value, error) {
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("trim: expected a string argument")
	}
	return strings.TrimSpace(s), nil
}

func stringConcat(args []registry.Arg, _ registry.Context) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		s, ok := asString(a.Value)
		if !ok {
			return nil, fmt.Errorf("concat: all arguments must be strings")
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func stringSubstring(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) < 2 {
		return nil, wrongArgs("substring", args, 2)
	}
	s, ok := asString(argAt(args, 0))
	if !ok {
		return nil, fmt.Errorf("substring: first argument must be a string")
	}
	start, ok := asInt(argAt(args, 1))
	if !ok {
		return nil, fmt.Errorf("substring: start must be an integer")
	}
	runes := []rune(s)
	end := int64(len(runes))
	if len(args) >= 3 {
		end, ok = asInt(argAt(args, 2))
		if !ok {
			return nil, fmt.Errorf("substring: end must be an integer")
		}
	}
	if start < 0 {
		start = 0
	}
	if end > int64(len(runes)) {
		end = int64(len(runes))
	}
	if start >= end {
		return "", nil
	}
	return string(runes[start:end]), nil
}

func stringReplace(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) != 3 {
		return nil, wrongArgs("replace", args, 3)
	}
	s, ok1 := asString(argAt(args, 0))
	old, ok2 := asString(argAt(args, 1))
	repl, ok3 := asString(argAt(args, 2))
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("replace: all arguments must be strings")
	}
	return strings.ReplaceAll(s, old, repl), nil
}

func stringLength(args []registry.Arg, _ registry.Context) (value.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("length", args, 1)
	}
	switch v := argAt(args, 0).(type) {
	case string:
		return int64(len([]rune(v))), nil
	case value.List:
		return int64(len(v)), nil
	}
	return nil, fmt.Errorf("length: expected a string or list argument")
}
