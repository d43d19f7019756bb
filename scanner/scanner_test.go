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

package scanner

import (
	"testing"

	"github.com/go-quicktest/qt"

	verrors "github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/token"
)

func scanAll(src string) []token.Token {
	s := New("test.vague", []byte(src), nil, nil)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll("schema Foo from bar")
	qt.Assert(t, qt.DeepEquals(kinds(toks), []token.Kind{
		token.SCHEMA, token.IDENT, token.FROM, token.IDENT, token.EOF,
	}))
	qt.Assert(t, qt.Equals(toks[1].Lexeme, "Foo"))
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll("12345 123.45 1_000")
	qt.Assert(t, qt.DeepEquals(kinds(toks), []token.Kind{
		token.INT, token.DEC, token.INT, token.EOF,
	}))
	qt.Assert(t, qt.Equals(toks[2].Lexeme, "1_000"))
}

func TestScanStringEscapes(t *testing.T) {
	toks := scanAll(`"a\nb\tc\\d\"e"`)
	qt.Assert(t, qt.Equals(toks[0].Kind, token.STRING))
	qt.Assert(t, qt.Equals(toks[0].Lexeme, "a\nb\tc\\d\"e"))
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll("-> => .. ?? == != <= >= +=")
	qt.Assert(t, qt.DeepEquals(kinds(toks), []token.Kind{
		token.ARROW, token.FATARROW, token.RANGE, token.DBLQUESTION,
		token.EQL, token.NEQ, token.LEQ, token.GEQ, token.ADDASSIGN, token.EOF,
	}))
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll("x // comment\ny")
	qt.Assert(t, qt.DeepEquals(kinds(toks), []token.Kind{
		token.IDENT, token.IDENT, token.EOF,
	}))
	qt.Assert(t, qt.Equals(toks[1].Pos.Line, 2))
}

func TestScanIllegalCharacterReported(t *testing.T) {
	var got []string
	handler := func(pos token.Position, msg string) {
		got = append(got, msg)
	}
	s := New("test.vague", []byte("@"), verrors.Handler(handler), nil)
	tok := s.Scan()
	qt.Assert(t, qt.Equals(tok.Kind, token.ILLEGAL))
	qt.Assert(t, qt.Equals(s.ErrorCount, 1))
	qt.Assert(t, qt.Equals(len(got), 1))
}

func TestScanUnterminatedString(t *testing.T) {
	s := New("test.vague", []byte(`"abc`), nil, nil)
	tok := s.Scan()
	qt.Assert(t, qt.Equals(tok.Kind, token.ILLEGAL))
	qt.Assert(t, qt.Equals(s.ErrorCount, 1))
}

func TestExtraKeywordsOverrideIdent(t *testing.T) {
	extra := map[string]token.Kind{"myplugin": token.SCHEMA}
	s := New("test.vague", []byte("myplugin"), nil, extra)
	tok := s.Scan()
	qt.Assert(t, qt.Equals(tok.Kind, token.SCHEMA))
}
