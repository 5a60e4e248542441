package editor

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/overlay"
	"github.com/kobzarvs/nedit/internal/syntax"
	"github.com/kobzarvs/nedit/internal/viewport"
)

// Resize places the view at (x, y), w columns wide and h rows tall. The side
// area takes the left columns and the scrollbar the last one.
func (e *Editor) Resize(x, y, w, h int) {
	e.area = viewport.Area{X: x, Y: y, W: w, H: h}
	e.layout()
}

func (e *Editor) layout() {
	sideW := e.side.Width()
	e.side.Resize(e.area.X, e.area.Y, e.area.H)
	textW := e.area.W - sideW - 1
	if textW < 0 {
		textW = 0
	}
	e.textArea = viewport.Area{X: e.area.X + sideW, Y: e.area.Y, W: textW, H: e.area.H}
}

// TextArea is where the text was last laid out.
func (e *Editor) TextArea() viewport.Area {
	return e.textArea
}

// VisibleBlocks returns the block records of the last paint.
func (e *Editor) VisibleBlocks() []viewport.Block {
	return e.blocks
}

// Render paints the view. The visible blocks are computed once and shared by
// the text, the side widgets and the Painted listeners.
func (e *Editor) Render(s tcell.Screen) {
	if e.area.W <= 0 || e.area.H <= 0 {
		return
	}
	e.layout()
	if !e.freeScroll {
		e.ensureCursorVisible()
	}
	e.blocks = viewport.Compute(e.doc, e.scroll, e.textArea.H, e.folding.Hidden)
	if e.highlight != nil && len(e.blocks) > 0 {
		e.highlight.Prefetch(e.blocks[0].Line, e.blocks[len(e.blocks)-1].Line)
	}
	e.updateScrollbar()

	for row := 0; row < e.textArea.H; row++ {
		for x := e.textArea.X; x < e.textArea.X+e.textArea.W; x++ {
			s.SetContent(x, e.textArea.Y+row, ' ', nil, e.styles.text)
		}
	}
	sels := e.overlays.RenderList()
	for _, b := range e.blocks {
		e.drawLine(s, b, sels)
	}
	e.side.Paint(s, e.blocks)
	e.scrollbar.Paint(s, e.area.X+e.area.W-1, e.area.Y, e.area.H)
	e.bus.Publish(event.Painted{Screen: s, Area: e.textArea, Blocks: e.blocks})

	caret := e.sel.Cursor
	row := viewport.RowOf(e.blocks, caret.Line)
	if row < 0 {
		s.HideCursor()
		return
	}
	x := e.textArea.X + visualCol(e.doc.Block(caret.Line).Runes(), caret.Col, e.TabWidth())
	if x >= e.textArea.X+e.textArea.W {
		s.HideCursor()
		return
	}
	s.ShowCursor(x, e.textArea.Y+row)
}

func (e *Editor) drawLine(s tcell.Screen, b viewport.Block, sels []overlay.ExtraSelection) {
	line := b.Line
	y := e.textArea.Y + b.Top
	right := e.textArea.X + e.textArea.W

	var lineSels []overlay.ExtraSelection
	for _, sel := range sels {
		start, end := sel.Range()
		if line >= start.Line && line <= end.Line {
			lineSels = append(lineSels, sel)
		}
	}
	var spans []syntax.Span
	if e.highlight != nil {
		spans = e.highlight.Spans(line)
	}
	_, selBg, _ := e.styles.selection.Decompose()
	selStart, selEnd := e.sel.Start(), e.sel.End()
	styleAt := func(col int, st tcell.Style) tcell.Style {
		for _, o := range lineSels {
			if o.Covers(line, col) {
				st = o.Style.Apply(st)
			}
		}
		p := document.Position{Line: line, Col: col}
		if !e.sel.IsEmpty() && !p.Less(selStart) && p.Less(selEnd) {
			st = st.Background(selBg)
		}
		return st
	}
	ws := e.Color(config.RoleWhitespace)
	tab := e.TabWidth()
	if tab < 1 {
		tab = 1
	}

	runes := b.Block.Runes()
	x, vcol := e.textArea.X, 0
	for col, r := range runes {
		if x >= right {
			return
		}
		base := e.styles.text
		if kind, ok := syntax.KindAt(spans, col); ok {
			if st, ok := e.styles.kinds[kind]; ok {
				base = st
			}
		}
		st := styleAt(col, base)
		switch {
		case r == '\t':
			n := tab - vcol%tab
			for i := 0; i < n && x < right; i++ {
				if i == 0 && e.showWhitespaces {
					s.SetContent(x, y, '→', nil, st.Foreground(ws))
				} else {
					s.SetContent(x, y, ' ', nil, st)
				}
				x++
				vcol++
			}
		case r == ' ' && e.showWhitespaces:
			s.SetContent(x, y, '·', nil, st.Foreground(ws))
			x++
			vcol++
		default:
			w := runeCells(r)
			s.SetContent(x, y, r, nil, st)
			x += w
			vcol += w
		}
	}
	for col := len(runes); x < right; col++ {
		s.SetContent(x, y, ' ', nil, styleAt(col, e.styles.text))
		x++
	}
}

func (e *Editor) updateScrollbar() {
	h := e.textArea.H
	last := e.doc.LineCount() - 1
	if e.folding.HasFolds() {
		e.scrollbar.SetLineMap(e.folding.VisualLine)
	} else {
		e.scrollbar.SetLineMap(nil)
	}
	total := e.folding.VisualLine(last) + 1
	maximum := total - h
	if maximum < 0 {
		maximum = 0
	}
	e.scrollbar.SetRange(maximum)
	e.scrollbar.SetVisibleRange(float64(h))
	e.scrollbar.SetValue(e.folding.VisualLine(e.scroll))
	e.updateCurrentLineMarker()
}

// revealLine unfolds the regions hiding line.
func (e *Editor) revealLine(line int) {
	for l := line - 1; l >= 0 && e.folding.Hidden(line); l-- {
		if e.folding.Folded(l) && e.folding.Region(l) >= line {
			e.folding.Toggle(l)
		}
	}
}

// lineAbove walks n visible lines up from line.
func (e *Editor) lineAbove(line, n int) int {
	for n > 0 && line > 0 {
		line--
		if !e.folding.Hidden(line) {
			n--
		}
	}
	return line
}

func (e *Editor) ensureCursorVisible() {
	h := e.textArea.H
	if h <= 0 {
		return
	}
	line := e.sel.Cursor.Line
	e.revealLine(line)
	if line < e.scroll {
		e.scroll = line
		return
	}
	if e.folding.VisualLine(line)-e.folding.VisualLine(e.scroll) >= h {
		e.scroll = e.lineAbove(line, h-1)
	}
}

func (e *Editor) centerCursor() {
	h := e.textArea.H
	if h <= 0 {
		return
	}
	line := e.sel.Cursor.Line
	e.revealLine(line)
	e.scroll = e.lineAbove(line, h/2)
}

// ScrollStepUp scrolls n visible lines up without moving the caret.
func (e *Editor) ScrollStepUp(n int) {
	e.scroll = e.lineAbove(e.scroll, n)
	e.freeScroll = true
	e.scrollbar.SetValue(e.folding.VisualLine(e.scroll))
}

// ScrollStepDown scrolls n visible lines down, stopping once the last line
// is on screen.
func (e *Editor) ScrollStepDown(n int) {
	last := e.doc.LineCount() - 1
	h := e.textArea.H
	if h < 1 {
		h = 1
	}
	for ; n > 0; n-- {
		if e.folding.VisualLine(last)-e.folding.VisualLine(e.scroll) < h {
			break
		}
		next := e.scroll + 1
		for next < last && e.folding.Hidden(next) {
			next++
		}
		e.scroll = next
	}
	e.freeScroll = true
	e.scrollbar.SetValue(e.folding.VisualLine(e.scroll))
}

// LineFromPosition maps a screen row to the document line drawn there, -1
// when the row is empty.
func (e *Editor) LineFromPosition(y int) int {
	return viewport.LineAt(e.blocks, y-e.textArea.Y)
}

func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	if e.closed {
		return
	}
	x, y := ev.Position()
	zoom := ev.Modifiers()&tcell.ModCtrl != 0 && e.cfg.Editor.WheelZoom
	switch btn := ev.Buttons(); {
	case btn&tcell.WheelUp != 0:
		if zoom {
			e.Zoom(1)
			return
		}
		e.ScrollStepUp(3)
	case btn&tcell.WheelDown != 0:
		if zoom {
			e.Zoom(-1)
			return
		}
		e.ScrollStepDown(3)
	case btn&tcell.Button1 != 0:
		if !e.area.Contains(x, y) {
			return
		}
		line := e.LineFromPosition(y)
		if x < e.textArea.X {
			if line >= 0 {
				e.side.Click(x, line)
			}
			return
		}
		if !e.textArea.Contains(x, y) {
			return
		}
		if line < 0 {
			line = e.doc.LineCount() - 1
		}
		col := logicalCol(e.doc.Block(line).Runes(), x-e.textArea.X, e.TabWidth())
		e.freeScroll = false
		e.moveTo(document.Position{Line: line, Col: col}, ev.Modifiers()&tcell.ModShift != 0)
	}
}

func runeCells(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

func visualCol(line []rune, col, tab int) int {
	if tab < 1 {
		tab = 1
	}
	if col > len(line) {
		col = len(line)
	}
	v := 0
	for _, r := range line[:col] {
		if r == '\t' {
			v += tab - v%tab
			continue
		}
		v += runeCells(r)
	}
	return v
}

func logicalCol(line []rune, x, tab int) int {
	if tab < 1 {
		tab = 1
	}
	if x <= 0 {
		return 0
	}
	v := 0
	for i, r := range line {
		advance := runeCells(r)
		if r == '\t' {
			advance = tab - v%tab
		}
		if v+advance > x {
			return i
		}
		v += advance
		if v >= x {
			return i + 1
		}
	}
	return len(line)
}
