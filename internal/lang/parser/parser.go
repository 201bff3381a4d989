// Package parser turns a token stream into the uniform AST described by
// package ast. Three intertwined sub-parsers (expression, statement, SQL)
// share one cursor and a per-parse expression-id counter.
package parser

import (
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/ast"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/scanner"
	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

// Parser holds the shared cursor state for the expression, statement and
// SQL sub-parsers.
type Parser struct {
	toks []token.Token
	pos  int

	nextID ast.ExprID

	// inSelectDepth resolves the `=` ambiguity: a bare `=` is an
	// assignment operator in script scope, but a comparison operator
	// inside SQL clauses. Incremented entering a SELECT core and around
	// UPDATE's SET/WHERE and DELETE's WHERE, decremented leaving them
	// (spec §4.2, §9).
	inSelectDepth int
}

// Parse scans and parses a full program.
func Parse(src string) (*ast.Program, error) {
	toks, err := scanner.ScanAll(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

// NewFromTokens builds a Parser directly over an already-scanned token
// slice, useful for tests that want to isolate the parser from the
// scanner.
func NewFromTokens(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// getExprID returns-and-increments the monotonic id counter (spec §4.2).
func (p *Parser) getExprID() ast.ExprID {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Parser) peek() token.Token {
	if len(p.toks) == 0 {
		return token.Token{Kind: token.KindEof}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return token.Token{Kind: token.KindEof}
	}
	return p.toks[idx]
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.KindEof }

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) checkSymbol(sym token.Symbol) bool {
	t := p.peek()
	return t.Kind == token.KindSymbol && t.Symbol == sym
}

func (p *Parser) checkKeyword(kw token.Keyword) bool {
	t := p.peek()
	return t.Kind == token.KindKeyword && t.Keyword == kw
}

func (p *Parser) checkSql(kw token.SqlKeyword) bool {
	t := p.peek()
	return t.Kind == token.KindSqlKeyword && t.Sql == kw
}

func (p *Parser) matchSymbol(syms ...token.Symbol) bool {
	for _, s := range syms {
		if p.checkSymbol(s) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchKeyword(kws ...token.Keyword) bool {
	for _, k := range kws {
		if p.checkKeyword(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchSql(kws ...token.SqlKeyword) bool {
	for _, k := range kws {
		if p.checkSql(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expectSymbol(sym token.Symbol) (token.Token, error) {
	if p.checkSymbol(sym) {
		return p.advance(), nil
	}
	return token.Token{}, &Error{Kind: ErrMissingToken, Span: p.peek().Span, Token: p.peek(), Expected: sym.String()}
}

func (p *Parser) expectSql(kw token.SqlKeyword) (token.Token, error) {
	if p.checkSql(kw) {
		return p.advance(), nil
	}
	return token.Token{}, &Error{Kind: ErrMissingToken, Span: p.peek().Span, Token: p.peek(), Expected: "SQL keyword"}
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	t := p.peek()
	if t.Kind != token.KindIdentifier {
		return token.Token{}, &Error{Kind: ErrMissingIdentifier, Span: t.Span, Token: t}
	}
	return p.advance(), nil
}
