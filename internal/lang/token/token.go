package token

// Kind is the top-level discriminant of a Token.
type Kind int

const (
	KindStr Kind = iota
	KindNum
	KindUndefined
	KindFalse
	KindTrue
	KindIdentifier
	KindSymbol
	KindKeyword
	KindSqlKeyword
	KindEof
)

// Symbol enumerates the generic-language operator/punctuation tokens.
// Two-character symbols are resolved by maximal munch in the scanner.
type Symbol int

const (
	LeftParen Symbol = iota
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Semicolon
	Colon
	DoubleColon
	Plus
	Minus
	Star
	Slash
	Equal
	EqualEqual
	BangEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Bang
	AmpAmp
	PipePipe
)

var symbolLexemes = map[Symbol]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	LeftBracket: "[", RightBracket: "]", Comma: ",", Dot: ".",
	Semicolon: ";", Colon: ":", DoubleColon: "::",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Equal: "=", EqualEqual: "==", BangEqual: "!=",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Bang: "!", AmpAmp: "&&", PipePipe: "||",
}

func (s Symbol) String() string {
	if lex, ok := symbolLexemes[s]; ok {
		return lex
	}
	return "?"
}

// Keyword enumerates the case-sensitive, generic-language reserved words.
type Keyword int

const (
	KwIf Keyword = iota
	KwElse
	KwFunction
	KwVar
	KwWhile
	KwFor
	KwLoop
	KwReturn
	KwBreak
	KwContinue
)

var genericKeywords = map[string]Keyword{
	"if": KwIf, "else": KwElse, "function": KwFunction, "var": KwVar,
	"while": KwWhile, "for": KwFor, "loop": KwLoop, "return": KwReturn,
	"break": KwBreak, "continue": KwContinue,
}

// LookupGenericKeyword performs the case-sensitive generic-keyword probe.
func LookupGenericKeyword(lexeme string) (Keyword, bool) {
	kw, ok := genericKeywords[lexeme]
	return kw, ok
}

// SqlKeyword enumerates the case-insensitive SQL reserved words.
type SqlKeyword int

const (
	KwSelect SqlKeyword = iota
	KwFrom
	KwWhere
	KwGroup
	KwBy
	KwHaving
	KwUnion
	KwIntersect
	KwExcept
	KwAll
	KwDistinct
	KwJoin
	KwInner
	KwLeft
	KwRight
	KwCross
	KwOn
	KwInsert
	KwInto
	KwValues
	KwUpdate
	KwSet
	KwDelete
	KwOrder
	KwAsc
	KwDesc
	KwLimit
	KwOffset
	KwAs
	KwIs
	KwNot
	KwLike
	KwIn
	KwBetween
	KwAnd
	KwOr
	KwExplain
)

// sqlKeywords is keyed by the *folded* (case-insensitive canonical) lexeme;
// see scanner.FoldKeyword.
var sqlKeywords = map[string]SqlKeyword{
	"select": KwSelect, "from": KwFrom, "where": KwWhere, "group": KwGroup,
	"by": KwBy, "having": KwHaving, "union": KwUnion, "intersect": KwIntersect,
	"except": KwExcept, "all": KwAll, "distinct": KwDistinct, "join": KwJoin,
	"inner": KwInner, "left": KwLeft, "right": KwRight, "cross": KwCross,
	"on": KwOn, "insert": KwInsert, "into": KwInto, "values": KwValues,
	"update": KwUpdate, "set": KwSet, "delete": KwDelete, "order": KwOrder,
	"asc": KwAsc, "desc": KwDesc, "limit": KwLimit, "offset": KwOffset,
	"as": KwAs, "is": KwIs, "not": KwNot, "like": KwLike, "in": KwIn,
	"between": KwBetween, "and": KwAnd, "or": KwOr, "explain": KwExplain,
}

// LookupSqlKeyword performs the case-insensitive SQL-keyword probe. folded
// must already be produced by scanner.FoldKeyword.
func LookupSqlKeyword(folded string) (SqlKeyword, bool) {
	kw, ok := sqlKeywords[folded]
	return kw, ok
}

// Token is one lexeme with its span and decoded payload.
type Token struct {
	Kind    Kind
	Span    Span
	Lexeme  string // raw source text, used for Literal{raw}
	Symbol  Symbol
	Keyword Keyword
	Sql     SqlKeyword
	Dollar  bool    // true when Kind == KindIdentifier and name had a leading '$'
	Str     string  // decoded string literal payload
	Num     float64 // decoded numeric literal payload
}
