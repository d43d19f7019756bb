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

// Package scanner implements the Vague lexer: a deterministic left-to-right
// scan of source text into a Token stream, tracking line and column for
// diagnostics.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	verrors "github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/token"
)

// Scanner holds the scanner's state while processing a source text. It is
// created with New and is not safe for concurrent use.
type Scanner struct {
	filename string
	src      []byte
	err      verrors.Handler

	ch        rune
	offset    int
	rdOffset  int
	line      int
	lineStart int // offset of the start of the current line

	// extraKeywords lets a plugin registry extend keyword lookup without
	// mutating the package-global table in package token.
	extraKeywords map[string]token.Kind

	ErrorCount int
}

const eof = -1

// New returns a Scanner ready to tokenize src. extraKeywords may be nil.
func New(filename string, src []byte, err verrors.Handler, extraKeywords map[string]token.Kind) *Scanner {
	s := &Scanner{
		filename:      filename,
		src:           src,
		err:           err,
		line:          1,
		extraKeywords: extraKeywords,
	}
	s.next()
	if s.ch == 0xFEFF {
		s.next() // ignore BOM at file start
	}
	return s
}

func (s *Scanner) next() {
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		if s.ch == '\n' {
			s.line++
			s.lineStart = s.offset
		}
		r, w := rune(s.src[s.rdOffset]), 1
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				s.error(s.offset, "illegal UTF-8 encoding")
			}
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		if s.ch == '\n' {
			s.line++
			s.lineStart = s.offset
		}
		s.ch = eof
	}
}

func (s *Scanner) peek() byte {
	if s.rdOffset < len(s.src) {
		return s.src[s.rdOffset]
	}
	return 0
}

func (s *Scanner) pos(offset int) token.Position {
	return token.Position{
		Filename: s.filename,
		Offset:   offset,
		Line:     s.line,
		Column:   offset - s.lineStart + 1,
	}
}

func (s *Scanner) error(offset int, format string, args ...interface{}) {
	pos := s.pos(offset)
	msg := fmt.Sprintf(format, args...)
	if s.err != nil {
		s.err(pos, msg)
	}
	s.ErrorCount++
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
		s.next()
	}
}

// Scan returns the next token in the source, along with its position. At
// end of input it returns a token.EOF token forever.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespace()

	offset := s.offset
	pos := s.pos(offset)
	ch := s.ch

	switch {
	case isLetter(ch):
		lit := s.scanIdentifier()
		return token.Token{Kind: s.lookupKeyword(lit), Lexeme: lit, Pos: pos}
	case isDigit(ch):
		kind, lit := s.scanNumber()
		return token.Token{Kind: kind, Lexeme: lit, Pos: pos}
	}

	s.next()
	switch ch {
	case eof:
		return token.Token{Kind: token.EOF, Pos: pos}
	case '"':
		lit, ok := s.scanString(offset)
		if !ok {
			return token.Token{Kind: token.ILLEGAL, Lexeme: lit, Pos: pos}
		}
		return token.Token{Kind: token.STRING, Lexeme: lit, Pos: pos}
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return s.Scan()
		}
		return token.Token{Kind: token.QUO, Lexeme: "/", Pos: pos}
	case '(':
		return token.Token{Kind: token.LPAREN, Lexeme: "(", Pos: pos}
	case ')':
		return token.Token{Kind: token.RPAREN, Lexeme: ")", Pos: pos}
	case '{':
		return token.Token{Kind: token.LBRACE, Lexeme: "{", Pos: pos}
	case '}':
		return token.Token{Kind: token.RBRACE, Lexeme: "}", Pos: pos}
	case '[':
		return token.Token{Kind: token.LBRACK, Lexeme: "[", Pos: pos}
	case ']':
		return token.Token{Kind: token.RBRACK, Lexeme: "]", Pos: pos}
	case ',':
		return token.Token{Kind: token.COMMA, Lexeme: ",", Pos: pos}
	case '^':
		return token.Token{Kind: token.CARET, Lexeme: "^", Pos: pos}
	case '|':
		return token.Token{Kind: token.PIPE, Lexeme: "|", Pos: pos}
	case '~':
		return token.Token{Kind: token.TILDE, Lexeme: "~", Pos: pos}
	case ':':
		return token.Token{Kind: token.COLON, Lexeme: ":", Pos: pos}
	case '%':
		return token.Token{Kind: token.REM, Lexeme: "%", Pos: pos}
	case '*':
		return token.Token{Kind: token.MUL, Lexeme: "*", Pos: pos}
	case '?':
		if s.ch == '?' {
			s.next()
			return token.Token{Kind: token.DBLQUESTION, Lexeme: "??", Pos: pos}
		}
		return token.Token{Kind: token.QUESTION, Lexeme: "?", Pos: pos}
	case '.':
		if s.ch == '.' {
			s.next()
			return token.Token{Kind: token.RANGE, Lexeme: "..", Pos: pos}
		}
		return token.Token{Kind: token.DOT, Lexeme: ".", Pos: pos}
	case '=':
		if s.ch == '=' {
			s.next()
			return token.Token{Kind: token.EQL, Lexeme: "==", Pos: pos}
		}
		if s.ch == '>' {
			s.next()
			return token.Token{Kind: token.FATARROW, Lexeme: "=>", Pos: pos}
		}
		return token.Token{Kind: token.ASSIGN, Lexeme: "=", Pos: pos}
	case '!':
		if s.ch == '=' {
			s.next()
			return token.Token{Kind: token.NEQ, Lexeme: "!=", Pos: pos}
		}
		s.error(offset, "illegal character %q", ch)
		return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Pos: pos}
	case '<':
		if s.ch == '=' {
			s.next()
			return token.Token{Kind: token.LEQ, Lexeme: "<=", Pos: pos}
		}
		return token.Token{Kind: token.LSS, Lexeme: "<", Pos: pos}
	case '>':
		if s.ch == '=' {
			s.next()
			return token.Token{Kind: token.GEQ, Lexeme: ">=", Pos: pos}
		}
		return token.Token{Kind: token.GTR, Lexeme: ">", Pos: pos}
	case '+':
		if s.ch == '=' {
			s.next()
			return token.Token{Kind: token.ADDASSIGN, Lexeme: "+=", Pos: pos}
		}
		return token.Token{Kind: token.ADD, Lexeme: "+", Pos: pos}
	case '-':
		if s.ch == '>' {
			s.next()
			return token.Token{Kind: token.ARROW, Lexeme: "->", Pos: pos}
		}
		return token.Token{Kind: token.SUB, Lexeme: "-", Pos: pos}
	default:
		s.error(offset, "illegal character %#U", ch)
		return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Pos: pos}
	}
}

func (s *Scanner) lookupKeyword(lit string) token.Kind {
	if kind, ok := s.extraKeywords[lit]; ok {
		return kind
	}
	return token.Lookup(lit)
}

func (s *Scanner) scanIdentifier() string {
	offset := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return string(s.src[offset:s.offset])
}

// scanNumber scans an integer or decimal literal. Underscores are permitted
// as digit separators and stripped from the returned lexeme's numeric value
// by the caller (the lexeme itself retains them for diagnostics).
func (s *Scanner) scanNumber() (token.Kind, string) {
	offset := s.offset
	kind := token.INT
	s.scanDigits()
	if s.ch == '.' && isDigit(rune(s.peek())) {
		kind = token.DEC
		s.next() // consume '.'
		s.scanDigits()
	}
	lit := string(s.src[offset:s.offset])
	if strings.HasSuffix(lit, "_") || strings.Contains(lit, "__") {
		s.error(offset, "malformed number literal: %s", lit)
	}
	return kind, lit
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) || s.ch == '_' {
		s.next()
	}
}

func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch != eof {
		s.next()
	}
}

// scanString scans a double-quoted string literal, processing \n \t \\ \"
// escapes. The opening quote has already been consumed by the caller's call
// to s.next(); offset is the position of that opening quote.
func (s *Scanner) scanString(offset int) (string, bool) {
	var b strings.Builder
	for {
		if s.ch == eof || s.ch == '\n' {
			s.error(offset, "string literal not terminated")
			return b.String(), false
		}
		if s.ch == '"' {
			s.next()
			return b.String(), true
		}
		if s.ch == '\\' {
			s.next()
			switch s.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				s.error(s.offset, "unknown escape sequence \\%c", s.ch)
				b.WriteRune(s.ch)
			}
			s.next()
			continue
		}
		b.WriteRune(s.ch)
		s.next()
	}
}
