package sidearea

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/viewport"
)

const (
	NameCodeFolding = "code_folding"
	KeyFolded       = "folded"
)

// CodeFolding folds indentation based regions. A line is foldable when the
// next non-blank line is indented deeper; the region runs until the first
// non-blank line indented at or above the opening line.
type CodeFolding struct {
	base
	host Host

	version uint64
	hidden  map[int]bool
	dirty   bool
}

func NewCodeFolding(h Host) *CodeFolding {
	return &CodeFolding{base: base{name: NameCodeFolding, visible: true}, host: h, dirty: true}
}

func (f *CodeFolding) Width() int { return 1 }

func (f *CodeFolding) indent(line int) (int, bool) {
	text := f.host.Document().Line(line)
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	width := f.host.TabWidth()
	if width < 1 {
		width = 1
	}
	col := 0
	for _, r := range text {
		switch r {
		case ' ':
			col++
		case '\t':
			col += width - col%width
		default:
			return col, true
		}
	}
	return col, true
}

// Region returns the last line folded under start, or start itself when the
// line opens no region.
func (f *CodeFolding) Region(start int) int {
	doc := f.host.Document()
	base, ok := f.indent(start)
	if !ok {
		return start
	}
	end := start
	for line := start + 1; line < doc.LineCount(); line++ {
		ind, ok := f.indent(line)
		if !ok {
			continue
		}
		if ind <= base {
			break
		}
		end = line
	}
	return end
}

func (f *CodeFolding) Foldable(line int) bool {
	return f.Region(line) > line
}

func (f *CodeFolding) Folded(line int) bool {
	b := f.host.Document().Block(line)
	return b != nil && b.HasUserData() && b.UserData().Bool(KeyFolded)
}

// Toggle folds or unfolds the region opened by line.
func (f *CodeFolding) Toggle(line int) {
	b := f.host.Document().Block(line)
	if b == nil {
		return
	}
	switch {
	case f.Folded(line):
		b.UserData().Delete(KeyFolded)
	case f.Foldable(line):
		b.UserData().Set(KeyFolded, true)
	default:
		return
	}
	f.dirty = true
}

func (f *CodeFolding) Click(line int) {
	f.Toggle(line)
}

// Hidden reports whether line lies inside a folded region.
func (f *CodeFolding) Hidden(line int) bool {
	doc := f.host.Document()
	if f.dirty || f.version != doc.Version() {
		f.rebuild()
	}
	return f.hidden[line]
}

// HasFolds reports whether any line is currently hidden.
func (f *CodeFolding) HasFolds() bool {
	doc := f.host.Document()
	if f.dirty || f.version != doc.Version() {
		f.rebuild()
	}
	return len(f.hidden) > 0
}

func (f *CodeFolding) rebuild() {
	doc := f.host.Document()
	f.hidden = map[int]bool{}
	for line := 0; line < doc.LineCount(); line++ {
		if f.hidden[line] || !f.Folded(line) {
			continue
		}
		for l := line + 1; l <= f.Region(line); l++ {
			f.hidden[l] = true
		}
	}
	f.version = doc.Version()
	f.dirty = false
}

// VisualLine maps a document line to its row index once folded lines are
// removed.
func (f *CodeFolding) VisualLine(line int) int {
	row := line
	for l := 0; l < line; l++ {
		if f.Hidden(l) {
			row--
		}
	}
	return row
}

func (f *CodeFolding) Paint(s tcell.Screen, area viewport.Area, blocks []viewport.Block) {
	bg := background(f.host)
	style := bg.Foreground(f.host.Color(config.RoleFoldArea))
	for _, b := range blocks {
		fill(s, area, b.Top, bg)
		switch {
		case f.Folded(b.Line):
			s.SetContent(area.X, area.Y+b.Top, '▸', nil, style)
		case f.Foldable(b.Line):
			s.SetContent(area.X, area.Y+b.Top, '▾', nil, style)
		}
	}
}
