package extension

import (
	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/overlay"
)

const (
	NameCurrentLine = "line_highlighter"

	// ModeFull paints the whole row, ModeSimple only the text of the line.
	ModeFull   = "full"
	ModeSimple = "simple"
)

// CurrentLine highlights the line holding the caret. Nothing is drawn while
// a selection is active.
type CurrentLine struct {
	base
	mode string
}

func NewCurrentLine(mode string) *CurrentLine {
	c := &CurrentLine{base: base{name: NameCurrentLine}}
	c.SetMode(mode)
	return c
}

func (c *CurrentLine) Initialize(h Host) {
	c.bind(h)
	c.track(event.On(h.Bus(), func(event.CursorPositionChanged) {
		c.update()
	}))
}

func (c *CurrentLine) Mode() string {
	return c.mode
}

func (c *CurrentLine) SetMode(mode string) {
	if mode != ModeSimple {
		mode = ModeFull
	}
	c.mode = mode
	if c.host != nil {
		c.update()
	}
}

func (c *CurrentLine) SetActive(active bool) {
	c.active = active
	if c.host == nil {
		return
	}
	if !active {
		c.host.Overlays().ClearGroup(overlay.GroupCurrentLine)
		return
	}
	c.update()
}

func (c *CurrentLine) update() {
	if !c.active {
		return
	}
	h := c.host
	sel := h.Selection()
	if !sel.IsEmpty() {
		h.Overlays().ClearGroup(overlay.GroupCurrentLine)
		return
	}
	style := overlay.Style{Background: h.Color(config.RoleCurrentLine)}
	line := sel.Cursor.Line
	doc := h.Document()
	var s overlay.ExtraSelection
	if c.mode == ModeFull {
		s = overlay.LineSelection(doc, line, style, overlay.OrderCurrentLine)
	} else {
		s = overlay.NewSelection(doc, sel.Cursor.WithCol(0), sel.Cursor.WithCol(doc.LineLen(line)), style, overlay.OrderCurrentLine)
	}
	h.Overlays().SetGroup(overlay.GroupCurrentLine, []overlay.ExtraSelection{s})
}
