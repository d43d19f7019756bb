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

package parser

import (
	"github.com/mcclowes/vague-sub003/ast"
	"github.com/mcclowes/vague-sub003/token"
)

// parseExpr is the entry point of the precedence-climbing expression
// grammar: ternary -> or -> and -> not -> superposition (|) -> comparison ->
// range (..) -> additive -> multiplicative -> unary (-,not) -> call -> primary.
func (p *parser) parseExpr() ast.Expr {
	return p.parseTernary()
}

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	if p.tok.Kind != token.QUESTION {
		return cond
	}
	pos := p.tok.Pos
	p.next()
	// The then-branch stops at comparison level so its ':' is not taken as
	// a superposition weight separator; wrap wider expressions in parens.
	then := p.parseComparison()
	p.expect(token.COLON)
	els := p.parseExpr()
	return &ast.Ternary{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.tok.Kind == token.OR {
		pos := p.tok.Pos
		p.next()
		right := p.parseAnd()
		left = &ast.Logical{Op: token.OR, X: left, Y: right, Pos: pos}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseNotLevel()
	for p.tok.Kind == token.AND {
		pos := p.tok.Pos
		p.next()
		right := p.parseNotLevel()
		left = &ast.Logical{Op: token.AND, X: left, Y: right, Pos: pos}
	}
	return left
}

func (p *parser) parseNotLevel() ast.Expr {
	if p.tok.Kind == token.NOT {
		pos := p.tok.Pos
		p.next()
		x := p.parseSuperposition()
		return &ast.Not{X: x, Pos: pos}
	}
	return p.parseSuperposition()
}

// parseSuperposition parses a `weight: value | weight: value | ...`
// sequence. A single option with no weight and no following '|' just
// returns its value directly, so ordinary comparison-level expressions flow
// through unaffected.
func (p *parser) parseSuperposition() ast.Expr {
	pos := p.tok.Pos
	weight, value := p.parseSuperpositionOption()
	if p.tok.Kind != token.PIPE {
		if weight == nil {
			return value
		}
		return &ast.Superposition{Options: []*ast.WeightedOption{{Weight: weight, Value: value, Pos: pos}}, Pos: pos}
	}
	opts := []*ast.WeightedOption{{Weight: weight, Value: value, Pos: pos}}
	for p.tok.Kind == token.PIPE {
		p.next()
		optPos := p.tok.Pos
		w, v := p.parseSuperpositionOption()
		opts = append(opts, &ast.WeightedOption{Weight: w, Value: v, Pos: optPos})
	}
	return &ast.Superposition{Options: opts, Pos: pos}
}

func (p *parser) parseSuperpositionOption() (weight, value ast.Expr) {
	e := p.parseComparison()
	if p.tok.Kind == token.COLON {
		p.next()
		return e, p.parseComparison()
	}
	return nil, e
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseRangeLevel()
	for isComparisonOp(p.tok.Kind) {
		op := p.tok.Kind
		pos := p.tok.Pos
		p.next()
		right := p.parseRangeLevel()
		left = &ast.Binary{Op: op, X: left, Y: right, Pos: pos}
	}
	return left
}

func isComparisonOp(k token.Kind) bool {
	switch k {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

func (p *parser) parseRangeLevel() ast.Expr {
	left := p.parseAdditive()
	if p.tok.Kind != token.RANGE {
		return left
	}
	pos := p.tok.Pos
	p.next()
	right := p.parseAdditive()
	return &ast.Range{Min: left, Max: right, Pos: pos}
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.tok.Kind == token.ADD || p.tok.Kind == token.SUB {
		op := p.tok.Kind
		pos := p.tok.Pos
		p.next()
		right := p.parseMultiplicative()
		left = &ast.Binary{Op: op, X: left, Y: right, Pos: pos}
	}
	return left
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.tok.Kind == token.MUL || p.tok.Kind == token.QUO || p.tok.Kind == token.REM {
		op := p.tok.Kind
		pos := p.tok.Pos
		p.next()
		right := p.parseUnary()
		left = &ast.Binary{Op: op, X: left, Y: right, Pos: pos}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case token.SUB:
		pos := p.tok.Pos
		p.next()
		return &ast.Unary{Op: token.SUB, X: p.parseUnary(), Pos: pos}
	case token.NOT:
		pos := p.tok.Pos
		p.next()
		return &ast.Not{X: p.parseUnary(), Pos: pos}
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case token.INT:
		v := p.tok.Lexeme
		p.next()
		return &ast.IntLit{Value: v, Pos: pos}
	case token.DEC:
		v := p.tok.Lexeme
		p.next()
		return &ast.DecLit{Value: v, Pos: pos}
	case token.STRING:
		v := p.tok.Lexeme
		p.next()
		return &ast.StringLit{Value: v, Pos: pos}
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Value: true, Pos: pos}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Value: false, Pos: pos}
	case token.NULL:
		p.next()
		return &ast.NullLit{Pos: pos}
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		return p.parseListLit()
	case token.CARET:
		p.next()
		path := []string{p.ident()}
		for p.tok.Kind == token.DOT {
			p.next()
			path = append(path, p.ident())
		}
		return &ast.ParentRef{Path: path, Pos: pos}
	case token.ANY:
		p.next()
		p.expect(token.OF)
		coll := p.ident()
		var where ast.Expr
		if p.tok.Kind == token.WHERE {
			p.next()
			where = p.parseExpr()
		}
		return &ast.AnyOf{Collection: coll, Where: where, Pos: pos}
	case token.MATCH:
		return p.parseMatch()
	case token.IDENT, token.INT_TYPE, token.DECIMAL_TYPE, token.DATE_TYPE:
		return p.parseIdentOrCall()
	default:
		p.errorExpected("expression")
		p.next()
		return &ast.BadExpr{Pos: pos}
	}
}

func (p *parser) parseListLit() ast.Expr {
	pos := p.tok.Pos
	p.next() // '['
	elems := p.parseExprList(token.RBRACK)
	p.expect(token.RBRACK)
	return &ast.List{Elems: elems, Pos: pos}
}

func (p *parser) parseMatch() ast.Expr {
	pos := p.tok.Pos
	p.next() // 'match'
	value := p.parseExpr()
	p.expect(token.LBRACE)
	var arms []*ast.MatchArm
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.COMMA {
			p.next()
			continue
		}
		armPos := p.tok.Pos
		var pattern ast.Expr
		if p.tok.Kind == token.IDENT && p.tok.Lexeme == "_" {
			p.next()
		} else {
			pattern = p.parseExpr()
		}
		p.expect(token.FATARROW)
		result := p.parseExpr()
		arms = append(arms, &ast.MatchArm{Pattern: pattern, Result: result, Pos: armPos})
	}
	p.expect(token.RBRACE)
	return &ast.Match{Value: value, Arms: arms, Pos: pos}
}

// parseIdentOrCall parses a (possibly dotted) identifier path and, if
// followed by '(', turns it into a Call.
func (p *parser) parseIdentOrCall() ast.Expr {
	pos := p.tok.Pos
	name := p.tok.Lexeme
	p.next()
	parts := []string{name}
	for p.tok.Kind == token.DOT {
		p.next()
		parts = append(parts, p.ident())
	}
	if p.tok.Kind == token.LPAREN {
		p.next()
		args := p.parseExprList(token.RPAREN)
		p.expect(token.RPAREN)
		return &ast.Call{Name: joinDotted(parts), Args: args, Pos: pos}
	}
	if len(parts) == 1 {
		return &ast.Ident{Name: parts[0], Pos: pos}
	}
	return &ast.QualifiedIdent{Parts: parts, Pos: pos}
}

func joinDotted(parts []string) string {
	s := parts[0]
	for _, p := range parts[1:] {
		s += "." + p
	}
	return s
}
