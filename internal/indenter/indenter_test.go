package indenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/nedit/internal/document"
)

func pos(line, col int) document.Position {
	return document.Position{Line: line, Col: col}
}

func TestLoadPicksPolicyByLanguage(t *testing.T) {
	assert.IsType(t, &Python{}, Load("python", Options{Width: 4}))
	assert.IsType(t, &Brace{}, Load("Go", Options{Width: 4, UseTabs: true}))
	assert.IsType(t, &Basic{}, Load("klingon", Options{Width: 2}))
	assert.IsType(t, &Basic{}, Load("", Options{}))
}

func TestTextFollowsSettings(t *testing.T) {
	ind := Load("text", Options{Width: 4})
	assert.Equal(t, "    ", ind.Text())
	ind.SetWidth(2)
	assert.Equal(t, "  ", ind.Text())
	ind.SetUseTabs(true)
	assert.Equal(t, "\t", ind.Text())
	ind.SetWidth(0)
	assert.Equal(t, 4, ind.Width())
}

func TestBasicIndentBlockKeepsIndent(t *testing.T) {
	nl, ok := Load("text", Options{Width: 4}).IndentBlock("  foo", "bar")
	require.True(t, ok)
	assert.Equal(t, "\n  ", nl.Text)
	assert.Equal(t, 3, nl.Cursor)
}

func TestPythonIndentBlock(t *testing.T) {
	py := Load("python", Options{Width: 4})
	cases := []struct {
		before, after, want string
	}{
		{"def f():", "", "\n    "},
		{"    if x:  # note", "", "\n        "},
		{"        return x", "", "\n    "},
		{"    pass", "", "\n"},
		{"call(a,", "", "\n    "},
		{"x = 1", "", "\n"},
	}
	for _, c := range cases {
		nl, ok := py.IndentBlock(c.before, c.after)
		require.True(t, ok)
		assert.Equal(t, c.want, nl.Text, "before %q", c.before)
	}
}

func TestBraceIndentBlockSplitsPair(t *testing.T) {
	ind := Load("go", Options{Width: 4, UseTabs: true})
	nl, ok := ind.IndentBlock("\tfunc main() {", "}")
	require.True(t, ok)
	assert.Equal(t, "\n\t\t\n\t", nl.Text)
	assert.Equal(t, 3, nl.Cursor)

	nl, _ = ind.IndentBlock("\tx := 1", "")
	assert.Equal(t, "\n\t", nl.Text)
}

func TestIndentAlignsToTabStop(t *testing.T) {
	doc := document.New("ab")
	ind := Load("text", Options{Width: 4})
	sel := ind.Indent(doc, document.Caret(pos(0, 2)))
	assert.Equal(t, "ab  ", doc.Line(0))
	assert.Equal(t, document.Caret(pos(0, 4)), sel)
}

func TestIndentSelectionIsOneUndoStep(t *testing.T) {
	doc := document.New("a\nb\nc")
	ind := Load("text", Options{Width: 2})
	sel := ind.IndentSelection(doc, document.Selection{Anchor: pos(0, 0), Cursor: pos(2, 0)})

	assert.Equal(t, "  a\n  b\nc", doc.Text())
	assert.Equal(t, pos(0, 2), sel.Anchor)
	assert.Equal(t, pos(2, 0), sel.Cursor)

	_, err := doc.Undo()
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", doc.Text())
}

func TestUnindent(t *testing.T) {
	doc := document.New("\tx\n      y\nz")
	ind := Load("text", Options{Width: 4})
	sel := ind.Unindent(doc, document.Selection{Anchor: pos(0, 1), Cursor: pos(2, 1)})
	assert.Equal(t, "x\n  y\nz", doc.Text())
	assert.Equal(t, pos(0, 0), sel.Anchor)
	assert.Equal(t, pos(2, 1), sel.Cursor)
}

func TestVisualColumn(t *testing.T) {
	assert.Equal(t, 4, VisualColumn("\t", 4))
	assert.Equal(t, 8, VisualColumn("ab\tc\t", 4))
	assert.Equal(t, "  \t", LeadingWhitespace("  \tx y"))
}
