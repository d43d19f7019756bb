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

package registry

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/mcclowes/vague-sub003/token"
	"github.com/mcclowes/vague-sub003/value"
)

func TestPluginsRegisterAndLookup(t *testing.T) {
	p := NewPlugins()
	_, ok := p.Lookup("faker.name")
	qt.Assert(t, qt.Equals(ok, false))

	p.Register("faker.name", func(args []Arg, ctx Context) (value.Value, error) {
		return "Ada", nil
	})
	fn, ok := p.Lookup("faker.name")
	qt.Assert(t, qt.Equals(ok, true))
	out, err := fn(nil, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "Ada"))
}

func TestLastRegistrationWins(t *testing.T) {
	p := NewPlugins()
	p.Register("x", func(args []Arg, ctx Context) (value.Value, error) { return int64(1), nil })
	p.Register("x", func(args []Arg, ctx Context) (value.Value, error) { return int64(2), nil })
	fn, _ := p.Lookup("x")
	out, _ := fn(nil, nil)
	qt.Assert(t, qt.Equals(out, int64(2)))
}

func TestRegisterKeywordRejectsBuiltinCollision(t *testing.T) {
	p := NewPlugins()
	p.RegisterKeyword("schema", token.IDENT)
	qt.Assert(t, qt.Equals(len(p.Keywords()), 0))
}

func TestRegisterKeywordSortsAndDedupes(t *testing.T) {
	p := NewPlugins()
	p.RegisterKeyword("zeta", token.IDENT)
	p.RegisterKeyword("alpha", token.IDENT)
	p.RegisterKeyword("alpha", token.IDENT)
	kw := p.Keywords()
	qt.Assert(t, qt.Equals(len(kw), 2))
	_, ok := kw["alpha"]
	qt.Assert(t, qt.Equals(ok, true))
	_, ok = kw["zeta"]
	qt.Assert(t, qt.Equals(ok, true))
}

func TestNilPluginsLookupReturnsFalse(t *testing.T) {
	var p *Plugins
	_, ok := p.Lookup("anything")
	qt.Assert(t, qt.Equals(ok, false))
}

func TestImportedSchemasRegisterAndLookup(t *testing.T) {
	r := NewImportedSchemas()
	_, ok := r.Lookup("pkg.Foo")
	qt.Assert(t, qt.Equals(ok, false))

	fields := []ImportedField{{Name: "id", Type: "int"}, {Name: "name", Type: "string"}}
	r.Register("pkg.Foo", fields)
	got, ok := r.Lookup("pkg.Foo")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.DeepEquals(got, fields))
}

func TestNilImportedSchemasLookupReturnsFalse(t *testing.T) {
	var r *ImportedSchemas
	_, ok := r.Lookup("pkg.Foo")
	qt.Assert(t, qt.Equals(ok, false))
}
