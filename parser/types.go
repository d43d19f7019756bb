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

var primitiveNames = map[string]bool{
	"int": true, "decimal": true, "string": true, "date": true, "boolean": true,
}

func (p *parser) isPrimitiveTypeToken() bool {
	switch p.tok.Kind {
	case token.INT_TYPE, token.DECIMAL_TYPE, token.DATE_TYPE:
		return true
	case token.IDENT:
		return primitiveNames[p.tok.Lexeme]
	}
	return false
}

func (p *parser) consumePrimitiveTypeName() string {
	name := p.tok.Lexeme
	switch p.tok.Kind {
	case token.INT_TYPE:
		name = "int"
	case token.DECIMAL_TYPE:
		name = "decimal"
	case token.DATE_TYPE:
		name = "date"
	}
	p.next()
	return name
}

// parseFieldDecl parses one field definition: name ':' type, followed by
// any of '?', '??', 'when expr', '~ expr', 'where expr' in any order.
func (p *parser) parseFieldDecl() *ast.FieldDecl {
	pos := p.tok.Pos
	private := false
	if p.tok.Kind == token.PRIVATE {
		private = true
		p.next()
	}
	name := p.ident()
	p.expect(token.COLON)

	f := &ast.FieldDecl{Name: name, Private: private, Pos: pos}
	if p.tok.Kind == token.ASSIGN {
		f.Computed = true
		p.next()
		f.Type = &ast.ExpressionFieldType{Expr: p.parseExpr(), Pos: pos}
	} else {
		ft, uniqueKey := p.parseFieldType()
		f.Type = ft
		if uniqueKey != nil {
			f.Unique = true
			if lit, ok := uniqueKey.(*ast.StringLit); ok {
				f.UniqueKey = lit.Value
			}
		}
	}

loop:
	for {
		switch p.tok.Kind {
		case token.DBLQUESTION:
			f.MayBeOmitted = true
			p.next()
		case token.QUESTION:
			f.Optional = true
			p.next()
		case token.WHEN:
			p.next()
			f.When = p.parseExpr()
		case token.TILDE:
			p.next()
			f.Distribution = p.parseExpr()
		case token.WHERE:
			p.next()
			f.Where = p.parseExpr()
		default:
			break loop
		}
	}
	return f
}

// parseFieldType parses a field's type position. It returns the parsed
// FieldType, and, if the type was wrapped in `unique(key, innerType)`, the
// key expression (nil otherwise).
func (p *parser) parseFieldType() (ast.FieldType, ast.Expr) {
	pos := p.tok.Pos

	if p.tok.Kind == token.UNIQUE {
		p.next()
		p.expect(token.LPAREN)
		key := p.parseExpr()
		p.expect(token.COMMA)
		inner, _ := p.parseFieldType()
		p.expect(token.RPAREN)
		return inner, key
	}

	if p.isPrimitiveTypeToken() {
		base := p.consumePrimitiveTypeName()
		if p.tok.Kind == token.IN {
			p.next()
			rng := p.parseRangeLevel()
			r, ok := rng.(*ast.Range)
			if !ok {
				p.errorExpected("range (min..max)")
				return &ast.RangeFieldType{Base: base, Pos: pos}, nil
			}
			return &ast.RangeFieldType{Base: base, Min: r.Min, Max: r.Max, Pos: pos}, nil
		}
		return &ast.PrimitiveType{Kind: base, Pos: pos}, nil
	}

	expr := p.parseExpr()

	if p.tok.Kind == token.OF {
		p.next()
		schemaName := p.ident()
		perParent := false
		perParentField := ""
		if p.tok.Kind == token.PER {
			p.next()
			perParentField = p.ident()
			perParent = true
		}
		return &ast.CollectionFieldType{
			Cardinality: expr, SchemaName: schemaName,
			PerParent: perParent, PerParentField: perParentField, Pos: pos,
		}, nil
	}

	switch e := expr.(type) {
	case *ast.Superposition:
		return &ast.SuperpositionFieldType{Options: e.Options, Pos: pos}, nil
	case *ast.Ident:
		return &ast.ReferenceFieldType{Qualified: e.Name, Pos: pos}, nil
	case *ast.QualifiedIdent:
		return &ast.ReferenceFieldType{Qualified: joinDotted(e.Parts), Pos: pos}, nil
	case *ast.Call:
		return &ast.GeneratorFieldType{Name: e.Name, Args: e.Args, Pos: pos}, nil
	default:
		return &ast.ExpressionFieldType{Expr: expr, Pos: pos}, nil
	}
}
