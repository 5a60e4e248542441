package overlay

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/nedit/internal/document"
)

func sel(doc *document.Document, line, from, to, order int) ExtraSelection {
	return NewSelection(doc, document.Position{Line: line, Col: from}, document.Position{Line: line, Col: to}, Style{}, order)
}

func TestSetGroupReplaces(t *testing.T) {
	doc := document.New("alpha beta\ngamma")
	m := NewManager()

	m.SetGroup(GroupFind, []ExtraSelection{sel(doc, 0, 0, 5, OrderFind)})
	m.SetGroup(GroupChecker, []ExtraSelection{sel(doc, 1, 0, 1, OrderChecker)})
	m.SetGroup(GroupFind, []ExtraSelection{sel(doc, 0, 6, 10, OrderFind), sel(doc, 1, 0, 5, OrderFind)})

	find := m.Group(GroupFind)
	require.Len(t, find, 2)
	start, end := find[0].Range()
	assert.Equal(t, document.Position{Line: 0, Col: 6}, start)
	assert.Equal(t, document.Position{Line: 0, Col: 10}, end)
	assert.Len(t, m.Group(GroupChecker), 1)
	assert.Equal(t, []string{GroupFind, GroupChecker}, m.Keys())
}

func TestRenderListSortsByOrderStable(t *testing.T) {
	doc := document.New("abcdef")
	m := NewManager()
	m.SetGroup("c", []ExtraSelection{sel(doc, 0, 0, 1, 3)})
	m.SetGroup("a", []ExtraSelection{sel(doc, 0, 1, 2, 1), sel(doc, 0, 2, 3, 2)})
	m.SetGroup("b", []ExtraSelection{sel(doc, 0, 3, 4, 1)})

	list := m.RenderList()
	require.Len(t, list, 4)
	var orders []int
	var starts []int
	for _, s := range list {
		orders = append(orders, s.Order)
		start, _ := s.Range()
		starts = append(starts, start.Col)
	}
	assert.Equal(t, []int{1, 1, 2, 3}, orders)
	// group "a" was inserted before "b", so its order-1 entry comes first
	assert.Equal(t, []int{1, 3, 2, 0}, starts)
}

func TestSelectionsFollowEdits(t *testing.T) {
	doc := document.New("foo bar")
	m := NewManager()
	m.SetGroup(GroupOccurrences, []ExtraSelection{sel(doc, 0, 4, 7, OrderFind)})

	doc.Insert(document.Position{}, "x\n")

	start, end := m.Group(GroupOccurrences)[0].Range()
	assert.Equal(t, document.Position{Line: 1, Col: 4}, start)
	assert.Equal(t, document.Position{Line: 1, Col: 7}, end)
}

func TestClearGroupLeavesOthers(t *testing.T) {
	doc := document.New("abc")
	m := NewManager()
	m.SetGroup(GroupFind, []ExtraSelection{sel(doc, 0, 0, 1, OrderFind)})
	m.SetGroup(GroupRunCursor, []ExtraSelection{LineSelection(doc, 0, Style{}, OrderRunCursor)})

	m.ClearGroup(GroupFind)
	m.ClearGroup("missing")

	assert.Empty(t, m.Group(GroupFind))
	assert.Len(t, m.Group(GroupRunCursor), 1)
	assert.Len(t, m.AllGroups(), 1)
}

func TestCovers(t *testing.T) {
	doc := document.New("abcdef\nxyz")
	s := sel(doc, 0, 2, 4, 0)
	assert.False(t, s.Covers(0, 1))
	assert.True(t, s.Covers(0, 2))
	assert.True(t, s.Covers(0, 3))
	assert.False(t, s.Covers(0, 4))

	line := LineSelection(doc, 1, Style{}, 0)
	assert.True(t, line.Covers(1, 40))
	assert.False(t, line.Covers(0, 0))
}

func TestStyleApply(t *testing.T) {
	base := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	st := Style{Background: tcell.ColorBlue, Foreground: tcell.ColorDefault, Underline: tcell.ColorDefault}.Apply(base)
	fg, bg, _ := st.Decompose()
	assert.Equal(t, tcell.ColorWhite, fg)
	assert.Equal(t, tcell.ColorBlue, bg)
}
