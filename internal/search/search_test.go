package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/nedit/internal/document"
)

func TestCompileOptions(t *testing.T) {
	_, err := Compile("", Options{})
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = Compile("(", Options{Regex: true})
	assert.Error(t, err)

	p, err := Compile("a.b", Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Line("axb"))
	assert.Len(t, p.Line("a.b"), 1)

	p, err = Compile("Foo", Options{CaseSensitive: true})
	require.NoError(t, err)
	assert.Len(t, p.Line("foo Foo FOO"), 1)

	p, err = Compile("foo", Options{WholeWord: true})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {12, 15}}, p.Line("foo foobar (FOO)"))
}

func TestLineUsesRuneColumns(t *testing.T) {
	p, err := Compile("b", Options{})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2, 3}}, p.Line("éeb"))
}

func TestEmptyMatchesAreSkipped(t *testing.T) {
	p, err := Compile("x*", Options{Regex: true})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}}, p.Line("axx"))
}

func TestFindAllRespectsLimit(t *testing.T) {
	doc := document.New(strings.Repeat("w w\n", 10))
	p, err := Compile("w", Options{WholeWord: true})
	require.NoError(t, err)
	assert.Len(t, p.FindAll(doc, 0), 20)
	assert.Len(t, p.FindAll(doc, 7), 7)
}

func TestNext(t *testing.T) {
	doc := document.New("ab ab\nab")
	p, err := Compile("ab", Options{})
	require.NoError(t, err)

	m, ok := p.Next(doc, document.Position{Line: 0, Col: 1}, false)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 0, Col: 3, Len: 2}, m)

	m, ok = p.Next(doc, document.Position{Line: 0, Col: 5}, false)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 1, Col: 0, Len: 2}, m)

	_, ok = p.Next(doc, document.Position{Line: 1, Col: 1}, false)
	assert.False(t, ok)

	m, ok = p.Next(doc, document.Position{Line: 0, Col: 4}, true)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 0, Col: 0, Len: 2}, m)

	_, ok = p.Next(doc, document.Position{Line: 0, Col: 1}, true)
	assert.False(t, ok)
}

func TestNextFindsOverlappingMatches(t *testing.T) {
	doc := document.New("xaaa\nfoo.foo")
	p, err := Compile("aa", Options{})
	require.NoError(t, err)

	m, ok := p.Next(doc, document.Position{Line: 0, Col: 2}, false)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 0, Col: 2, Len: 2}, m)

	m, ok = p.Next(doc, document.Position{Line: 0, Col: 4}, true)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 0, Col: 2, Len: 2}, m)

	word, err := Compile("foo", Options{WholeWord: true})
	require.NoError(t, err)
	m, ok = word.Next(doc, document.Position{Line: 1, Col: 1}, false)
	require.True(t, ok)
	assert.Equal(t, Match{Line: 1, Col: 4, Len: 3}, m)
	_, ok = word.Next(doc, document.Position{Line: 1, Col: 5}, false)
	assert.False(t, ok, "oo is not a whole word")

	anchored, err := Compile("^a", Options{Regex: true})
	require.NoError(t, err)
	_, ok = anchored.Next(doc, document.Position{Line: 0, Col: 1}, false)
	assert.False(t, ok, "^ must not match mid line")
}

func TestExpand(t *testing.T) {
	p, err := Compile(`(\w+)=(\w+)`, Options{Regex: true, CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, "b=a", p.Expand("a=b", "$2=$1"))
}

func TestWordAt(t *testing.T) {
	cases := []struct {
		text       string
		col        int
		start, end int
		ok         bool
	}{
		{"foo bar", 1, 0, 3, true},
		{"foo bar", 3, 0, 3, true},
		{"foo bar", 4, 4, 7, true},
		{"a + b", 2, 2, 2, false},
		{"x 12abc", 4, 4, 7, true},
		{"", 0, 0, 0, false},
	}
	for _, c := range cases {
		start, end, ok := WordAt(c.text, c.col)
		assert.Equal(t, c.ok, ok, "%q@%d", c.text, c.col)
		if c.ok {
			assert.Equal(t, [2]int{c.start, c.end}, [2]int{start, end}, "%q@%d", c.text, c.col)
		}
	}
}
