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

// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a Vague token stream into an *ast.Program. In batch (recovery)
// mode it synchronizes at statement boundaries so a source with several
// isolated syntax errors still yields a usable partial AST.
package parser

import (
	"fmt"
	"strings"

	"github.com/mcclowes/vague-sub003/ast"
	verrors "github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/scanner"
	"github.com/mcclowes/vague-sub003/token"
)

// Mode controls parser behavior.
type Mode uint

const (
	// Recover causes the parser to synchronize at the next statement
	// boundary after an unexpected top-level token. Without it only that
	// one token is skipped; in both modes parsing continues to the end of
	// the input and every error is returned.
	Recover Mode = 1 << iota
)

type parser struct {
	sc   *scanner.Scanner
	mode Mode
	src  []byte

	tok  token.Token
	errs verrors.List
}

// ParseFile parses a complete Vague source file. extraKeywords is the set of
// plugin-registered keywords (see registry.Plugins.Keywords), or nil.
func ParseFile(filename string, src []byte, extraKeywords map[string]token.Kind, mode Mode) (*ast.Program, error) {
	p := &parser{mode: mode, src: src}
	p.sc = scanner.New(filename, src, p.handleLexError, extraKeywords)
	p.next()

	prog := &ast.Program{}
	for p.tok.Kind != token.EOF {
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, p.errs.Err()
}

func (p *parser) handleLexError(pos token.Position, msg string) {
	p.errs.Add(&verrors.LexError{Message: msg, Pos: pos})
}

func (p *parser) next() {
	p.tok = p.sc.Scan()
}

// snippet returns the source line containing pos, for error messages.
func (p *parser) snippet(pos token.Position) string {
	lines := strings.Split(string(p.src), "\n")
	if pos.Line-1 >= 0 && pos.Line-1 < len(lines) {
		return lines[pos.Line-1]
	}
	return ""
}

func (p *parser) errorf(tok token.Token, expected, format string, args ...interface{}) {
	p.errs.Add(&verrors.ParseError{
		Message:  sprintf(format, args...),
		Tok:      tok,
		Expected: expected,
		Snippet:  p.snippet(tok.Pos),
	})
}

func (p *parser) errorExpected(expected string) {
	p.errorf(p.tok, expected, "unexpected token %s", p.tok)
}

// expect consumes the current token if it has the given kind, reporting an
// error and leaving the token stream unchanged otherwise.
func (p *parser) expect(kind token.Kind) bool {
	if p.tok.Kind != kind {
		p.errorExpected(kind.String())
		return false
	}
	p.next()
	return true
}

// ident consumes an IDENT token and returns its lexeme, or "" on error.
func (p *parser) ident() string {
	if p.tok.Kind != token.IDENT {
		p.errorExpected("identifier")
		return ""
	}
	name := p.tok.Lexeme
	p.next()
	return name
}

// statementStarters are the tokens synchronize() looks for.
var statementStarters = map[token.Kind]bool{
	token.IMPORT:       true,
	token.LET:          true,
	token.SCHEMA:       true,
	token.CONTEXT:      true,
	token.DISTRIBUTION: true,
	token.DATASET:      true,
}

// synchronize advances past tokens until a statement-starter keyword or EOF,
// or past the next closing brace, whichever comes first.
func (p *parser) synchronize() {
	for p.tok.Kind != token.EOF {
		if statementStarters[p.tok.Kind] {
			return
		}
		if p.tok.Kind == token.RBRACE {
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) parseStatement() ast.Statement {
	switch p.tok.Kind {
	case token.IMPORT:
		return p.parseImportDecl()
	case token.LET:
		return p.parseLetDecl()
	case token.SCHEMA:
		return p.parseSchemaDecl()
	case token.CONTEXT:
		return p.parseContextDecl()
	case token.DISTRIBUTION:
		return p.parseDistributionDecl()
	case token.DATASET:
		return p.parseDatasetDecl()
	default:
		p.errorf(p.tok, "import, let, schema, context, distribution, or dataset",
			"unexpected token %s at top level", p.tok)
		if p.mode&Recover != 0 {
			p.synchronize()
			return nil
		}
		p.next()
		return nil
	}
}

func (p *parser) parseImportDecl() ast.Statement {
	pos := p.tok.Pos
	p.next() // 'import'
	alias := p.ident()
	p.expect(token.FROM)
	path := ""
	if p.tok.Kind == token.STRING {
		path = p.tok.Lexeme
		p.next()
	} else {
		p.errorExpected("string literal")
	}
	return &ast.ImportDecl{Alias: alias, Path: path, Pos: pos}
}

func (p *parser) parseLetDecl() *ast.LetDecl {
	pos := p.tok.Pos
	p.next() // 'let'
	name := p.ident()
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.LetDecl{Name: name, Value: val, Pos: pos}
}

// parseContextApplicationList parses zero or more `with Name(args)` clauses.
func (p *parser) parseContextApplicationList() []*ast.ContextApplication {
	var out []*ast.ContextApplication
	for p.tok.Kind == token.WITH {
		pos := p.tok.Pos
		p.next()
		name := p.ident()
		var args []ast.Expr
		if p.tok.Kind == token.LPAREN {
			p.next()
			args = p.parseExprList(token.RPAREN)
			p.expect(token.RPAREN)
		}
		out = append(out, &ast.ContextApplication{Name: name, Args: args, Pos: pos})
	}
	return out
}

// parseExprList parses a comma-separated list of expressions up to (but not
// consuming) end.
func (p *parser) parseExprList(end token.Kind) []ast.Expr {
	var out []ast.Expr
	for p.tok.Kind != end && p.tok.Kind != token.EOF {
		out = append(out, p.parseExpr())
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return out
}

// parseExprStmtList parses a sequence of expressions, each optionally
// followed by a comma, up to (but not consuming) end. Unlike parseExprList
// it also tolerates bare newline-style separation (no token required
// between expressions beyond what parseExpr itself consumes).
func (p *parser) parseExprStmtList(end token.Kind) []ast.Expr {
	var out []ast.Expr
	for p.tok.Kind != end && p.tok.Kind != token.EOF {
		out = append(out, p.parseExpr())
		for p.tok.Kind == token.COMMA {
			p.next()
		}
	}
	return out
}

func (p *parser) parseSchemaDecl() *ast.SchemaDecl {
	pos := p.tok.Pos
	p.next() // 'schema'
	name := p.ident()
	base := ""
	if p.tok.Kind == token.FROM {
		p.next()
		base = p.parseQualifiedNameString()
	}
	contexts := p.parseContextApplicationList()
	if !p.expect(token.LBRACE) {
		p.synchronize()
		return &ast.SchemaDecl{Name: name, Base: base, Contexts: contexts, Pos: pos}
	}

	d := &ast.SchemaDecl{Name: name, Base: base, Contexts: contexts, Pos: pos}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		switch p.tok.Kind {
		case token.COMMA:
			p.next()
		case token.ASSUME:
			p.next()
			var ifCond ast.Expr
			if p.tok.Kind == token.IF {
				p.next()
				ifCond = p.parseExpr()
			}
			var exprs []ast.Expr
			if p.tok.Kind == token.LBRACE {
				p.next()
				exprs = p.parseExprStmtList(token.RBRACE)
				p.expect(token.RBRACE)
			} else {
				exprs = []ast.Expr{p.parseExpr()}
			}
			d.Assumes = append(d.Assumes, &ast.AssumeClause{If: ifCond, Exprs: exprs, Pos: pos})
		case token.CONSTRAINTS:
			p.next()
			p.expect(token.LBRACE)
			d.Constraints = append(d.Constraints, p.parseExprStmtList(token.RBRACE)...)
			p.expect(token.RBRACE)
		case token.THEN:
			p.next()
			p.expect(token.LBRACE)
			d.Then = append(d.Then, p.parseMutationList()...)
			p.expect(token.RBRACE)
		default:
			f := p.parseFieldDecl()
			if f != nil {
				d.Fields = append(d.Fields, f)
			}
		}
	}
	p.expect(token.RBRACE)
	return d
}

func (p *parser) parseMutationList() []*ast.Mutation {
	var out []*ast.Mutation
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		pos := p.tok.Pos
		lv := p.parseLValue()
		op := p.tok.Kind
		if op != token.ASSIGN && op != token.ADDASSIGN {
			p.errorExpected("= or +=")
			p.synchronize()
			return out
		}
		p.next()
		val := p.parseExpr()
		out = append(out, &ast.Mutation{Target: lv, Op: op, Value: val, Pos: pos})
	}
	return out
}

func (p *parser) parseLValue() *ast.LValue {
	pos := p.tok.Pos
	parentRef := false
	if p.tok.Kind == token.CARET {
		parentRef = true
		p.next()
	}
	path := []string{p.ident()}
	for p.tok.Kind == token.DOT {
		p.next()
		path = append(path, p.ident())
	}
	return &ast.LValue{ParentRef: parentRef, Path: path, Pos: pos}
}

func (p *parser) parseContextDecl() *ast.ContextDecl {
	pos := p.tok.Pos
	p.next() // 'context'
	name := p.ident()
	var params []string
	if p.tok.Kind == token.LPAREN {
		p.next()
		for p.tok.Kind != token.RPAREN && p.tok.Kind != token.EOF {
			params = append(params, p.ident())
			if p.tok.Kind == token.COMMA {
				p.next()
			}
		}
		p.expect(token.RPAREN)
	}
	d := &ast.ContextDecl{Name: name, Params: params, Pos: pos}
	if !p.expect(token.LBRACE) {
		p.synchronize()
		return d
	}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		if p.tok.Kind != token.LET {
			p.errorExpected("let")
			p.synchronize()
			return d
		}
		d.Lets = append(d.Lets, p.parseLetDecl())
	}
	p.expect(token.RBRACE)
	return d
}

func (p *parser) parseDistributionDecl() *ast.DistributionDecl {
	pos := p.tok.Pos
	p.next() // 'distribution'
	name := p.ident()
	d := &ast.DistributionDecl{Name: name, Pos: pos}
	if !p.expect(token.LBRACE) {
		p.synchronize()
		return d
	}
	d.Options = p.parseWeightedOptionList(token.RBRACE)
	p.expect(token.RBRACE)
	return d
}

func (p *parser) parseWeightedOptionList(end token.Kind) []*ast.WeightedOption {
	var out []*ast.WeightedOption
	for p.tok.Kind != end && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.COMMA || p.tok.Kind == token.PIPE {
			p.next()
			continue
		}
		pos := p.tok.Pos
		e := p.parseAdditive()
		var weight, value ast.Expr
		if p.tok.Kind == token.COLON {
			p.next()
			weight = e
			value = p.parseAdditive()
		} else {
			value = e
		}
		out = append(out, &ast.WeightedOption{Weight: weight, Value: value, Pos: pos})
	}
	return out
}

func (p *parser) parseDatasetDecl() *ast.DatasetDecl {
	pos := p.tok.Pos
	p.next() // 'dataset'
	name := p.ident()
	violating := false
	if p.tok.Kind == token.VIOLATING {
		violating = true
		p.next()
	}
	contexts := p.parseContextApplicationList()
	d := &ast.DatasetDecl{Name: name, Violating: violating, Contexts: contexts, Pos: pos}
	if !p.expect(token.LBRACE) {
		p.synchronize()
		return d
	}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		switch p.tok.Kind {
		case token.COMMA:
			p.next()
		case token.VALIDATE:
			p.next()
			p.expect(token.LBRACE)
			d.Validate = append(d.Validate, p.parseExprStmtList(token.RBRACE)...)
			p.expect(token.RBRACE)
		default:
			d.Collections = append(d.Collections, p.parseCollectionDecl())
		}
	}
	p.expect(token.RBRACE)
	return d
}

func (p *parser) parseCollectionDecl() *ast.CollectionDecl {
	pos := p.tok.Pos
	name := p.ident()
	p.expect(token.COLON)
	card, schemaName, perParent, perParentField := p.parseCardinalityAndSchema()
	contexts := p.parseContextApplicationList()
	c := &ast.CollectionDecl{
		Name: name, Cardinality: card, SchemaName: schemaName,
		PerParent: perParent, PerParentField: perParentField,
		Contexts: contexts, Pos: pos,
	}
	if p.tok.Kind == token.LBRACE {
		p.next()
		for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
			if p.tok.Kind == token.COMMA {
				p.next()
				continue
			}
			c.Overrides = append(c.Overrides, p.parseFieldDecl())
		}
		p.expect(token.RBRACE)
	}
	return c
}

// parseCardinalityAndSchema parses `cardinalityExpr of SchemaName (per field)?`.
func (p *parser) parseCardinalityAndSchema() (ast.Expr, string, bool, string) {
	card := p.parseExpr()
	p.expect(token.OF)
	schemaName := p.ident()
	if p.tok.Kind == token.PER {
		p.next()
		return card, schemaName, true, p.ident()
	}
	return card, schemaName, false, ""
}

func (p *parser) parseQualifiedNameString() string {
	parts := []string{p.ident()}
	for p.tok.Kind == token.DOT {
		p.next()
		parts = append(parts, p.ident())
	}
	return strings.Join(parts, ".")
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
