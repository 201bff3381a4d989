// Package scanner turns LykiaDB source text into a token stream, folding
// identifiers against the generic (case-sensitive) and SQL (case-insensitive)
// keyword tables.
package scanner

import (
	"iter"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/lykia-rs/lykiadb-sub001/internal/lang/token"
)

var foldCaser = cases.Fold()

// FoldKeyword produces the canonical case-insensitive form used to probe
// the SQL keyword table.
func FoldKeyword(lexeme string) string {
	return foldCaser.String(lexeme)
}

// Scanner consumes source text and yields tokens, the way
// tokenizer.SqlTokenizer does in the teacher, via a Go 1.24 iterator.
type Scanner struct {
	src []rune

	pos     int
	line    int
	lineEnd int
}

// New constructs a Scanner over source text.
func New(src string) *Scanner {
	return &Scanner{src: []rune(src), pos: 0, line: 1, lineEnd: 1}
}

// Tokens returns an iterator over (Token, error) pairs, ending with a
// KindEof token. Once an error is yielded, the caller decides (by
// returning false from the iterator body) whether to stop; the scanner
// itself keeps trying to make forward progress, so a caller may keep
// reading past an error. ScanAll does not: it stops at the first error.
func (s *Scanner) Tokens() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := s.next()
			if err != nil {
				if !yield(token.Token{}, err) {
					return
				}
				continue
			}
			if !yield(tok, nil) {
				return
			}
			if tok.Kind == token.KindEof {
				return
			}
		}
	}
}

// ScanAll materializes every token (including trailing EOF) and returns
// the first error encountered, if any. This is the shape the parser's
// cursor wants: random-access lookahead over a slice.
func ScanAll(src string) ([]token.Token, error) {
	s := New(src)
	toks := make([]token.Token, 0, len(src)/4+1)
	for tok, err := range s.Tokens() {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.KindEof {
			break
		}
	}
	return toks, nil
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(offset int) rune {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

func (s *Scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.lineEnd++
	}
	return r
}

func (s *Scanner) span(start int) token.Span {
	return token.Span{Start: start, End: s.pos, Line: s.line, LineEnd: s.lineEnd}
}

func (s *Scanner) skipTrivia() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekAt(1) == '/' {
				for !s.atEnd() && s.peek() != '\n' {
					s.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (s *Scanner) next() (token.Token, error) {
	s.skipTrivia()
	s.line = s.lineEnd
	start := s.pos

	if s.atEnd() {
		return token.Token{Kind: token.KindEof, Span: s.span(start)}, nil
	}

	c := s.peek()

	switch {
	case c == '"' || c == '`':
		return s.scanString(c)
	case c == '$':
		return s.scanIdentifier(true)
	case unicode.IsDigit(c):
		return s.scanNumber()
	case isIdentStart(c):
		return s.scanIdentifier(false)
	default:
		return s.scanSymbol()
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *Scanner) scanString(delim rune) (token.Token, error) {
	start := s.pos
	s.advance() // opening delimiter

	var sb strings.Builder
	for {
		if s.atEnd() {
			return token.Token{}, newError(ErrUnterminatedString, s.span(start), "")
		}
		c := s.advance()
		if c == delim {
			return token.Token{
				Kind:   token.KindStr,
				Span:   s.span(start),
				Lexeme: string(s.src[start:s.pos]),
				Str:    sb.String(),
			}, nil
		}
		sb.WriteRune(c)
	}
}

func (s *Scanner) scanNumber() (token.Token, error) {
	start := s.pos
	for !s.atEnd() && unicode.IsDigit(s.peek()) {
		s.advance()
	}
	if !s.atEnd() && s.peek() == '.' && unicode.IsDigit(s.peekAt(1)) {
		s.advance()
		for !s.atEnd() && unicode.IsDigit(s.peek()) {
			s.advance()
		}
	}
	if !s.atEnd() && (s.peek() == 'e' || s.peek() == 'E') {
		save := s.pos
		s.advance()
		if !s.atEnd() && (s.peek() == '+' || s.peek() == '-') {
			s.advance()
		}
		if s.atEnd() || !unicode.IsDigit(s.peek()) {
			return token.Token{}, newError(ErrMalformedNumberLiteral, s.span(save), "malformed exponent")
		}
		for !s.atEnd() && unicode.IsDigit(s.peek()) {
			s.advance()
		}
	}

	lexeme := string(s.src[start:s.pos])
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{}, newError(ErrMalformedNumberLiteral, s.span(start), err.Error())
	}
	return token.Token{Kind: token.KindNum, Span: s.span(start), Lexeme: lexeme, Num: n}, nil
}

func (s *Scanner) scanIdentifier(dollar bool) (token.Token, error) {
	start := s.pos
	if dollar {
		s.advance() // '$'
	}
	identStart := s.pos
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
	name := string(s.src[identStart:s.pos])
	lexeme := string(s.src[start:s.pos])
	sp := s.span(start)

	if dollar {
		return token.Token{Kind: token.KindIdentifier, Span: sp, Lexeme: lexeme, Str: name, Dollar: true}, nil
	}

	switch name {
	case "undefined":
		return token.Token{Kind: token.KindUndefined, Span: sp, Lexeme: lexeme}, nil
	case "true":
		return token.Token{Kind: token.KindTrue, Span: sp, Lexeme: lexeme}, nil
	case "false":
		return token.Token{Kind: token.KindFalse, Span: sp, Lexeme: lexeme}, nil
	}

	// Case-sensitive generic-keyword table wins when both tables contain
	// a key; only probe the SQL table otherwise.
	if kw, ok := token.LookupGenericKeyword(name); ok {
		return token.Token{Kind: token.KindKeyword, Span: sp, Lexeme: lexeme, Keyword: kw}, nil
	}
	if kw, ok := token.LookupSqlKeyword(FoldKeyword(name)); ok {
		return token.Token{Kind: token.KindSqlKeyword, Span: sp, Lexeme: lexeme, Sql: kw}, nil
	}
	return token.Token{Kind: token.KindIdentifier, Span: sp, Lexeme: lexeme, Str: name}, nil
}

func (s *Scanner) scanSymbol() (token.Token, error) {
	start := s.pos
	c := s.advance()

	two := func(next rune, sym token.Symbol, single token.Symbol) token.Token {
		if !s.atEnd() && s.peek() == next {
			s.advance()
			return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: sym, Lexeme: string(s.src[start:s.pos])}
		}
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: single, Lexeme: string(s.src[start:s.pos])}
	}

	switch c {
	case '(':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.LeftParen, Lexeme: "("}, nil
	case ')':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.RightParen, Lexeme: ")"}, nil
	case '{':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.LeftBrace, Lexeme: "{"}, nil
	case '}':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.RightBrace, Lexeme: "}"}, nil
	case '[':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.LeftBracket, Lexeme: "["}, nil
	case ']':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.RightBracket, Lexeme: "]"}, nil
	case ',':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Comma, Lexeme: ","}, nil
	case '.':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Dot, Lexeme: "."}, nil
	case ';':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Semicolon, Lexeme: ";"}, nil
	case ':':
		return two(':', token.DoubleColon, token.Colon), nil
	case '+':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Plus, Lexeme: "+"}, nil
	case '-':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Minus, Lexeme: "-"}, nil
	case '*':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Star, Lexeme: "*"}, nil
	case '/':
		return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.Slash, Lexeme: "/"}, nil
	case '=':
		return two('=', token.EqualEqual, token.Equal), nil
	case '!':
		return two('=', token.BangEqual, token.Bang), nil
	case '<':
		return two('=', token.LessEqual, token.Less), nil
	case '>':
		return two('=', token.GreaterEqual, token.Greater), nil
	case '&':
		if !s.atEnd() && s.peek() == '&' {
			s.advance()
			return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.AmpAmp, Lexeme: "&&"}, nil
		}
	case '|':
		if !s.atEnd() && s.peek() == '|' {
			s.advance()
			return token.Token{Kind: token.KindSymbol, Span: s.span(start), Symbol: token.PipePipe, Lexeme: "||"}, nil
		}
	}

	return token.Token{}, newError(ErrUnexpectedCharacter, s.span(start), string(c))
}
