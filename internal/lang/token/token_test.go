package token

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSpanMerge(t *testing.T) {
	a := Span{Start: 0, End: 5, Line: 1, LineEnd: 1}
	b := Span{Start: 3, End: 10, Line: 1, LineEnd: 2}

	got := Merge(a, b)

	assert.Equal(t, Span{Start: 0, End: 10, Line: 1, LineEnd: 2}, got)
}

func TestLookupGenericKeywordCaseSensitive(t *testing.T) {
	_, ok := LookupGenericKeyword("IF")
	assert.False(t, ok, "generic keywords are case-sensitive")

	kw, ok := LookupGenericKeyword("if")
	assert.True(t, ok)
	assert.Equal(t, KwIf, kw)
}

func TestLookupSqlKeywordFolded(t *testing.T) {
	kw, ok := LookupSqlKeyword("select")
	assert.True(t, ok)
	assert.Equal(t, KwSelect, kw)

	_, ok = LookupSqlKeyword("SELECT")
	assert.False(t, ok, "caller must fold before lookup")
}

func TestSymbolLexemes(t *testing.T) {
	assert.Equal(t, "==", EqualEqual.String())
	assert.Equal(t, "::", DoubleColon.String())
}
