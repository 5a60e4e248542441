package sidearea

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/viewport"
)

const (
	NameMarkers   = "markers"
	KeyBookmark   = "bookmark"
	KeyBreakpoint = "breakpoint"
)

// Markers shows bookmarks and breakpoints stored in block user data.
type Markers struct {
	base
	host Host
}

func NewMarkers(h Host) *Markers {
	return &Markers{base: base{name: NameMarkers, visible: true}, host: h}
}

func (m *Markers) Width() int { return 1 }

func (m *Markers) has(line int, key string) bool {
	b := m.host.Document().Block(line)
	return b != nil && b.HasUserData() && b.UserData().Bool(key)
}

func (m *Markers) Bookmarked(line int) bool { return m.has(line, KeyBookmark) }

func (m *Markers) HasBreakpoint(line int) bool { return m.has(line, KeyBreakpoint) }

// Toggle flips key ("bookmark" or "breakpoint") on line.
func (m *Markers) Toggle(line int, key string) {
	b := m.host.Document().Block(line)
	if b == nil {
		return
	}
	if b.UserData().Bool(key) {
		b.UserData().Delete(key)
		return
	}
	b.UserData().Set(key, true)
}

// Click toggles a bookmark.
func (m *Markers) Click(line int) {
	m.Toggle(line, KeyBookmark)
}

// NextBookmark returns the first bookmarked line after from, wrapping
// around the document, or -1 when there are no bookmarks.
func (m *Markers) NextBookmark(from int) int {
	n := m.host.Document().LineCount()
	for i := 1; i <= n; i++ {
		line := (from + i) % n
		if m.Bookmarked(line) {
			return line
		}
	}
	return -1
}

// PreviousBookmark is NextBookmark in the other direction.
func (m *Markers) PreviousBookmark(from int) int {
	n := m.host.Document().LineCount()
	for i := 1; i <= n; i++ {
		line := ((from-i)%n + n) % n
		if m.Bookmarked(line) {
			return line
		}
	}
	return -1
}

func (m *Markers) Paint(s tcell.Screen, area viewport.Area, blocks []viewport.Block) {
	bg := background(m.host)
	for _, b := range blocks {
		fill(s, area, b.Top, bg)
		switch {
		case m.HasBreakpoint(b.Line):
			s.SetContent(area.X, area.Y+b.Top, '●', nil, bg.Foreground(m.host.Color(config.RoleBreakpoint)))
		case m.Bookmarked(b.Line):
			s.SetContent(area.X, area.Y+b.Top, '◆', nil, bg.Foreground(m.host.Color(config.RoleBookmark)))
		}
	}
}
