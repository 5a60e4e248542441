package sidearea

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/viewport"
)

type fakeHost struct {
	doc  *document.Document
	line int
}

func (h *fakeHost) Document() *document.Document { return h.doc }
func (h *fakeHost) CursorLine() int               { return h.line }
func (h *fakeHost) TabWidth() int                 { return 4 }
func (h *fakeHost) Color(string) tcell.Color      { return tcell.ColorDefault }

func newHost(text string) *fakeHost {
	return &fakeHost{doc: document.New(text)}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func row(s tcell.SimulationScreen, y, from, to int) string {
	s.Show()
	cells, w, _ := s.GetContents()
	out := make([]rune, 0, to-from)
	for x := from; x < to; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Runes[0])
	}
	return string(out)
}

func TestManagerWidthSumsVisibleWidgets(t *testing.T) {
	h := newHost("a\nb\nc")
	m := NewManager()
	numbers := m.Add(NewLineNumbers(h))
	m.Add(NewMarkers(h))
	m.Add(NewCodeFolding(h))

	assert.Equal(t, 4+1+1, m.Width())

	numbers.SetVisible(false)
	assert.Equal(t, 2, m.Width())

	m.Resize(0, 0, 10)
	area, ok := m.Area(NameMarkers)
	require.True(t, ok)
	assert.Equal(t, viewport.Area{X: 0, Y: 0, W: 1, H: 10}, area)
}

func TestLineNumbersGrowWithDocument(t *testing.T) {
	h := newHost("x")
	ln := NewLineNumbers(h)
	assert.Equal(t, 4, ln.Width())
	for i := 0; i < 120; i++ {
		h.doc.Insert(h.doc.End(), "\nx")
	}
	assert.Equal(t, 5, ln.Width())
}

func TestLineNumbersPaint(t *testing.T) {
	h := newHost("a\nb\nc")
	s := newScreen(t, 10, 3)
	m := NewManager()
	m.Add(NewLineNumbers(h))
	m.Resize(0, 0, 3)

	blocks := viewport.Compute(h.doc, 1, 3, nil)
	m.Paint(s, blocks)

	assert.Equal(t, "  2 ", row(s, 0, 0, 4))
	assert.Equal(t, "  3 ", row(s, 1, 0, 4))
}

func TestTextChangesMarksEditedLinesUntilSave(t *testing.T) {
	h := newHost("a\nb\nc")
	tc := NewTextChanges(h)
	defer tc.Close()

	h.doc.Insert(document.Position{Line: 1, Col: 1}, "!")
	assert.False(t, tc.Changed(0))
	assert.True(t, tc.Changed(1))

	h.doc.SetModified(false)
	assert.False(t, tc.Changed(1))
}

func TestMarkersToggleAndNavigate(t *testing.T) {
	h := newHost("a\nb\nc\nd")
	mk := NewMarkers(h)
	assert.Equal(t, -1, mk.NextBookmark(0))

	mk.Click(1)
	mk.Toggle(3, KeyBookmark)
	mk.Toggle(2, KeyBreakpoint)

	assert.True(t, mk.Bookmarked(1))
	assert.True(t, mk.HasBreakpoint(2))
	assert.Equal(t, 3, mk.NextBookmark(1))
	assert.Equal(t, 1, mk.NextBookmark(3))
	assert.Equal(t, 3, mk.PreviousBookmark(1))

	mk.Toggle(1, KeyBookmark)
	assert.False(t, mk.Bookmarked(1))
}

func TestCodeFoldingHidesRegion(t *testing.T) {
	h := newHost("func a() {\n    x\n\n    y\n}\nz")
	f := NewCodeFolding(h)

	assert.True(t, f.Foldable(0))
	assert.False(t, f.Foldable(1))
	assert.Equal(t, 3, f.Region(0))

	f.Toggle(0)
	require.True(t, f.Folded(0))
	for _, line := range []int{1, 2, 3} {
		assert.True(t, f.Hidden(line), "line %d", line)
	}
	assert.False(t, f.Hidden(4))
	assert.Equal(t, 1, f.VisualLine(4))

	blocks := viewport.Compute(h.doc, 0, 10, f.Hidden)
	require.Len(t, blocks, 3)
	assert.Equal(t, 4, blocks[1].Line)

	f.Click(0)
	assert.False(t, f.Hidden(1))
}

func TestManagerClickRoutesToWidget(t *testing.T) {
	h := newHost("a\nb")
	m := NewManager()
	m.Add(NewLineNumbers(h))
	mk := NewMarkers(h)
	m.Add(mk)
	m.Resize(0, 0, 2)

	assert.False(t, m.Click(0, 1))
	assert.True(t, m.Click(4, 1))
	assert.True(t, mk.Bookmarked(1))
}
