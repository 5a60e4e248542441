// Package overlay keeps the named groups of extra selections drawn on top of
// the text: search results, checker underlines, the current line and so on.
package overlay

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/document"
)

// Group keys used by the editor and its extensions.
const (
	GroupCurrentLine = "current_line"
	GroupChecker     = "checker"
	GroupFind        = "find"
	GroupOccurrences = "occurrences"
	GroupBraces      = "braces"
	GroupRunCursor   = "run_cursor"
)

// Paint order. Higher orders are drawn later and win on overlap.
const (
	OrderCurrentLine = iota
	OrderChecker
	OrderFind
	OrderBraces
	OrderRunCursor
)

// Style is the visual part of an extra selection. tcell.ColorDefault leaves
// the attribute untouched.
type Style struct {
	Foreground tcell.Color
	Background tcell.Color
	Underline  tcell.Color
	// FullWidth extends the background to the right edge of the text area.
	FullWidth bool
}

// Apply layers s over base.
func (s Style) Apply(base tcell.Style) tcell.Style {
	if s.Foreground != tcell.ColorDefault {
		base = base.Foreground(s.Foreground)
	}
	if s.Background != tcell.ColorDefault {
		base = base.Background(s.Background)
	}
	if s.Underline != tcell.ColorDefault {
		base = base.Underline(tcell.UnderlineStyleCurly, s.Underline)
	}
	return base
}

type ExtraSelection struct {
	Start *document.Anchor
	End   *document.Anchor
	Style Style
	Order int
}

// NewSelection anchors [start, end) in doc. The range grows when text is typed
// at its end.
func NewSelection(doc *document.Document, start, end document.Position, style Style, order int) ExtraSelection {
	if end.Less(start) {
		start, end = end, start
	}
	return ExtraSelection{
		Start: doc.NewAnchor(start, document.BiasLeft),
		End:   doc.NewAnchor(end, document.BiasRight),
		Style: style,
		Order: order,
	}
}

// LineSelection covers a whole line with a full width style.
func LineSelection(doc *document.Document, line int, style Style, order int) ExtraSelection {
	style.FullWidth = true
	return NewSelection(doc, document.Position{Line: line}, document.Position{Line: line, Col: doc.LineLen(line)}, style, order)
}

func (s ExtraSelection) Range() (document.Position, document.Position) {
	return s.Start.Position(), s.End.Position()
}

// Covers reports whether the cell at (line, col) falls inside the selection.
// Full width selections cover every column of their lines.
func (s ExtraSelection) Covers(line, col int) bool {
	start, end := s.Range()
	if line < start.Line || line > end.Line {
		return false
	}
	if s.Style.FullWidth {
		return true
	}
	p := document.Position{Line: line, Col: col}
	return !p.Less(start) && p.Less(end)
}

func (s ExtraSelection) release() {
	s.Start.Release()
	s.End.Release()
}

type Manager struct {
	groups map[string][]ExtraSelection
	keys   []string
}

func NewManager() *Manager {
	return &Manager{groups: map[string][]ExtraSelection{}}
}

// SetGroup replaces the selections stored under key.
func (m *Manager) SetGroup(key string, sels []ExtraSelection) {
	old, ok := m.groups[key]
	for _, s := range old {
		s.release()
	}
	if !ok {
		m.keys = append(m.keys, key)
	}
	m.groups[key] = append([]ExtraSelection(nil), sels...)
}

func (m *Manager) ClearGroup(key string) {
	old, ok := m.groups[key]
	if !ok {
		return
	}
	for _, s := range old {
		s.release()
	}
	delete(m.groups, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *Manager) Group(key string) []ExtraSelection {
	return m.groups[key]
}

// Keys lists the groups in the order they were first set.
func (m *Manager) Keys() []string {
	return append([]string(nil), m.keys...)
}

// AllGroups returns a copy of the group map.
func (m *Manager) AllGroups() map[string][]ExtraSelection {
	out := make(map[string][]ExtraSelection, len(m.groups))
	for k, v := range m.groups {
		out[k] = v
	}
	return out
}

// RenderList flattens every group sorted by Order. Ties keep insertion order.
func (m *Manager) RenderList() []ExtraSelection {
	var out []ExtraSelection
	for _, k := range m.keys {
		out = append(out, m.groups[k]...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Clear drops every group.
func (m *Manager) Clear() {
	for _, k := range m.Keys() {
		m.ClearGroup(k)
	}
}
