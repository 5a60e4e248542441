// Package sidearea lays out the widgets drawn left of the text: line
// numbers, change markers, bookmarks/breakpoints and fold indicators. Every
// widget paints from the same visible block records as the text area.
package sidearea

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/viewport"
)

// Widget is the capability set every side widget implements.
type Widget interface {
	// Name identifies the widget inside the manager
	Name() string

	// Width is the number of columns the widget wants while visible
	Width() int

	// Visible/SetVisible toggle the widget without removing it
	Visible() bool
	SetVisible(v bool)

	// Paint draws one cell column strip per visible block inside area
	Paint(s tcell.Screen, area viewport.Area, blocks []viewport.Block)
}

// ViewportUpdater is implemented by widgets that react to zoom changes.
type ViewportUpdater interface {
	UpdateViewport(percent int)
}

// Clicker is implemented by widgets that handle a click on a line.
type Clicker interface {
	Click(line int)
}

// Host is what widgets need from the editor they decorate.
type Host interface {
	Document() *document.Document
	CursorLine() int
	TabWidth() int
	Color(role string) tcell.Color
}

type placed struct {
	widget Widget
	area   viewport.Area
}

type Manager struct {
	widgets []placed
	x, y, h int
}

func NewManager() *Manager {
	return &Manager{}
}

// Add appends w to the right of the existing widgets and returns it.
func (m *Manager) Add(w Widget) Widget {
	m.widgets = append(m.widgets, placed{widget: w})
	m.layout()
	return w
}

func (m *Manager) Get(name string) Widget {
	for _, p := range m.widgets {
		if p.widget.Name() == name {
			return p.widget
		}
	}
	return nil
}

func (m *Manager) Widgets() []Widget {
	out := make([]Widget, 0, len(m.widgets))
	for _, p := range m.widgets {
		out = append(out, p.widget)
	}
	return out
}

// Width is the sum of the widths of the visible widgets.
func (m *Manager) Width() int {
	total := 0
	for _, p := range m.widgets {
		if p.widget.Visible() {
			total += p.widget.Width()
		}
	}
	return total
}

// Resize places the side area at column x, row y, height rows tall.
func (m *Manager) Resize(x, y, height int) {
	m.x, m.y, m.h = x, y, height
	m.layout()
}

func (m *Manager) layout() {
	x := m.x
	for i := range m.widgets {
		w := m.widgets[i].widget
		width := 0
		if w.Visible() {
			width = w.Width()
		}
		m.widgets[i].area = viewport.Area{X: x, Y: m.y, W: width, H: m.h}
		x += width
	}
}

// Area returns where the named widget was last placed.
func (m *Manager) Area(name string) (viewport.Area, bool) {
	for _, p := range m.widgets {
		if p.widget.Name() == name {
			return p.area, true
		}
	}
	return viewport.Area{}, false
}

// Paint relayouts and paints every visible widget. Widths can change between
// frames (line numbers grow with the document), so layout runs every time.
func (m *Manager) Paint(s tcell.Screen, blocks []viewport.Block) {
	m.layout()
	for _, p := range m.widgets {
		if p.widget.Visible() && p.area.W > 0 {
			p.widget.Paint(s, p.area, blocks)
		}
	}
}

func (m *Manager) UpdateViewport(percent int) {
	for _, p := range m.widgets {
		if u, ok := p.widget.(ViewportUpdater); ok {
			u.UpdateViewport(percent)
		}
	}
	m.layout()
}

// Click forwards a click at screen column x on line to the widget under it.
func (m *Manager) Click(x, line int) bool {
	for _, p := range m.widgets {
		if !p.widget.Visible() || x < p.area.X || x >= p.area.X+p.area.W {
			continue
		}
		if c, ok := p.widget.(Clicker); ok {
			c.Click(line)
			return true
		}
		return false
	}
	return false
}

type base struct {
	name    string
	visible bool
}

func (b *base) Name() string      { return b.name }
func (b *base) Visible() bool     { return b.visible }
func (b *base) SetVisible(v bool) { b.visible = v }

func fill(s tcell.Screen, area viewport.Area, top int, style tcell.Style) {
	for x := area.X; x < area.X+area.W; x++ {
		s.SetContent(x, area.Y+top, ' ', nil, style)
	}
}

func background(h Host) tcell.Style {
	return tcell.StyleDefault.Background(h.Color(config.RoleEditorBackground))
}
