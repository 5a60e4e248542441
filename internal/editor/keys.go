package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/indenter"
	"github.com/kobzarvs/nedit/internal/search"
	"github.com/kobzarvs/nedit/internal/sidearea"
)

// HandleKey runs one key through the view. Observers see KeyPressed first,
// then the built-in handlers and the keymap run, then PostKeyPressed is
// published so extensions can react to what the key did.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.closed {
		return false
	}
	e.freeScroll = false
	e.bus.Publish(event.KeyPressed{Key: ev})
	handled := e.dispatchKey(ev)
	e.bus.Publish(event.PostKeyPressed{Key: ev})
	e.ensureCursorVisible()
	return handled
}

func (e *Editor) dispatchKey(ev *tcell.EventKey) bool {
	key := keyString(ev)
	switch key {
	case "enter":
		e.insertParagraph()
		return true
	case "home", "shift+home":
		e.smartHome(key == "shift+home")
		return true
	case "tab":
		e.SetSelection(e.indenter.Indent(e.doc, e.sel))
		return true
	case "backspace":
		if e.smartBackspace() {
			return true
		}
	}
	if action, ok := e.keymap[key]; ok {
		return e.execAction(action)
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		e.insertText(string(ev.Rune()))
		return true
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	switch action {
	case "move_left":
		e.moveLeft(false)
	case "move_right":
		e.moveRight(false)
	case "move_up":
		e.moveVertical(-1, false)
	case "move_down":
		e.moveVertical(1, false)
	case "select_left":
		e.moveLeft(true)
	case "select_right":
		e.moveRight(true)
	case "select_up":
		e.moveVertical(-1, true)
	case "select_down":
		e.moveVertical(1, true)
	case "move_word_left":
		e.moveTo(e.wordLeft(e.sel.Cursor), false)
	case "move_word_right":
		e.moveTo(e.wordRight(e.sel.Cursor), false)
	case "move_line_end":
		e.moveTo(e.sel.Cursor.WithCol(e.doc.LineLen(e.sel.Cursor.Line)), false)
	case "select_line_end":
		e.moveTo(e.sel.Cursor.WithCol(e.doc.LineLen(e.sel.Cursor.Line)), true)
	case "move_file_start":
		e.moveTo(document.Position{}, false)
	case "move_file_end":
		e.moveTo(e.doc.End(), false)
	case "page_up":
		e.moveVertical(-e.pageSize(), false)
	case "page_down":
		e.moveVertical(e.pageSize(), false)
	case "delete_char":
		e.deleteChar()
	case "backspace":
		e.backspace()
	case "insert_newline":
		e.insertParagraph()
	case "unindent":
		e.SetSelection(e.indenter.Unindent(e.doc, e.sel))
	case "select_all":
		e.SelectAll()
	case "undo":
		e.Undo()
	case "redo":
		e.Redo()
	case "copy":
		e.Copy()
	case "cut":
		e.Cut()
	case "paste":
		e.Paste()
	case "duplicate_line":
		e.DuplicateLine()
	case "move_line_up":
		e.MoveUpDown(true)
	case "move_line_down":
		e.MoveUpDown(false)
	case "find_next":
		e.findAgain(false)
	case "find_previous":
		e.findAgain(true)
	case "toggle_bookmark":
		e.markers.Toggle(e.sel.Cursor.Line, sidearea.KeyBookmark)
	case "toggle_breakpoint":
		e.markers.Toggle(e.sel.Cursor.Line, sidearea.KeyBreakpoint)
	case "next_bookmark":
		e.NavigateBookmarks(true)
	case "previous_bookmark":
		e.NavigateBookmarks(false)
	case "run_cursor":
		e.ShowRunCursor()
	case "zoom_in":
		e.Zoom(1)
	case "zoom_out":
		e.Zoom(-1)
	case "reset_zoom":
		e.ResetZoom()
	case "save":
		if err := e.editable.Save(); err != nil {
			log.Error("save failed", "path", e.editable.FilePath(), "error", err)
		}
	default:
		log.Debug("unknown action", "action", action)
		return false
	}
	return true
}

// insertParagraph replaces the selection with the line break the indenter
// computes for the text around the caret.
func (e *Editor) insertParagraph() {
	start, end := e.sel.Start(), e.sel.End()
	before := string([]rune(e.doc.Line(start.Line))[:start.Col])
	after := string([]rune(e.doc.Line(end.Line))[end.Col:])
	nl, ok := e.indenter.IndentBlock(before, after)
	if !ok {
		nl = indenter.NewLine{Text: "\n", Cursor: 1}
	}
	var caret document.Position
	e.doc.Edit(func() {
		e.doc.Replace(start, end, nl.Text)
		caret = e.doc.PositionAt(e.doc.Offset(start) + nl.Cursor)
	})
	e.SetSelection(document.Caret(caret))
}

// smartHome toggles the caret between the first non-blank column and column
// zero.
func (e *Editor) smartHome(extend bool) {
	caret := e.sel.Cursor
	target := caret.WithCol(e.LineIndent(caret.Line))
	if target == caret {
		target = caret.WithCol(0)
	}
	e.moveTo(target, extend)
}

// LineIndent is the number of leading whitespace runes on line.
func (e *Editor) LineIndent(line int) int {
	return len([]rune(indenter.LeadingWhitespace(e.doc.Line(line))))
}

// smartBackspace removes a whole indentation step when the caret sits at the
// end of the leading whitespace. A partial step left of the caret is removed
// up to the previous stop.
func (e *Editor) smartBackspace() bool {
	if !e.sel.IsEmpty() {
		return false
	}
	caret := e.sel.Cursor
	before := e.TextBeforeCursor()
	unit := e.indenter.Text()
	if unit == "" || !strings.HasSuffix(before, unit) || e.LineIndent(caret.Line) != caret.Col {
		return false
	}
	n := len([]rune(unit))
	if !e.indenter.UseTabs() {
		width := e.indenter.Width()
		if n = indenter.VisualColumn(before, width) % width; n == 0 {
			n = width
		}
	}
	start := caret.WithCol(caret.Col - n)
	e.doc.Delete(start, caret)
	e.SetSelection(document.Caret(start))
	return true
}

func (e *Editor) insertText(text string) {
	caret := e.doc.Replace(e.sel.Start(), e.sel.End(), text)
	e.SetSelection(document.Caret(caret))
}

func (e *Editor) deleteSelection() bool {
	if e.sel.IsEmpty() {
		return false
	}
	start := e.sel.Start()
	e.doc.Delete(start, e.sel.End())
	e.SetSelection(document.Caret(start))
	return true
}

func (e *Editor) deleteChar() {
	if e.deleteSelection() {
		return
	}
	caret := e.sel.Cursor
	e.doc.Delete(caret, e.next(caret))
}

func (e *Editor) backspace() {
	if e.deleteSelection() {
		return
	}
	caret := e.sel.Cursor
	prev := e.prev(caret)
	e.doc.Delete(prev, caret)
	e.SetSelection(document.Caret(prev))
}

func (e *Editor) moveTo(p document.Position, extend bool) {
	if extend {
		e.SetSelection(document.Selection{Anchor: e.sel.Anchor, Cursor: p})
		return
	}
	e.SetSelection(document.Caret(p))
}

func (e *Editor) prev(p document.Position) document.Position {
	if p.Col > 0 {
		return p.WithCol(p.Col - 1)
	}
	if p.Line == 0 {
		return p
	}
	return document.Position{Line: p.Line - 1, Col: e.doc.LineLen(p.Line - 1)}
}

func (e *Editor) next(p document.Position) document.Position {
	if p.Col < e.doc.LineLen(p.Line) {
		return p.WithCol(p.Col + 1)
	}
	if p.Line >= e.doc.LineCount()-1 {
		return p
	}
	return document.Position{Line: p.Line + 1}
}

func (e *Editor) moveLeft(extend bool) {
	if !extend && !e.sel.IsEmpty() {
		e.moveTo(e.sel.Start(), false)
		return
	}
	e.moveTo(e.prev(e.sel.Cursor), extend)
}

func (e *Editor) moveRight(extend bool) {
	if !extend && !e.sel.IsEmpty() {
		e.moveTo(e.sel.End(), false)
		return
	}
	e.moveTo(e.next(e.sel.Cursor), extend)
}

// moveVertical moves the caret by delta visible lines, stepping over folded
// regions.
func (e *Editor) moveVertical(delta int, extend bool) {
	line := e.sel.Cursor.Line
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		next := line + step
		for next >= 0 && next < e.doc.LineCount() && e.folding.Hidden(next) {
			next += step
		}
		if next < 0 || next >= e.doc.LineCount() {
			break
		}
		line = next
	}
	e.moveTo(e.doc.Clamp(document.Position{Line: line, Col: e.sel.Cursor.Col}), extend)
}

func (e *Editor) pageSize() int {
	if e.textArea.H > 1 {
		return e.textArea.H - 1
	}
	return 1
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (e *Editor) wordLeft(p document.Position) document.Position {
	if p.Col == 0 {
		return e.prev(p)
	}
	runes := []rune(e.doc.Line(p.Line))
	col := p.Col
	for col > 0 && !isWordRune(runes[col-1]) {
		col--
	}
	for col > 0 && isWordRune(runes[col-1]) {
		col--
	}
	return p.WithCol(col)
}

func (e *Editor) wordRight(p document.Position) document.Position {
	runes := []rune(e.doc.Line(p.Line))
	if p.Col >= len(runes) {
		return e.next(p)
	}
	col := p.Col
	for col < len(runes) && !isWordRune(runes[col]) {
		col++
	}
	for col < len(runes) && isWordRune(runes[col]) {
		col++
	}
	return p.WithCol(col)
}

// findAgain repeats the last search, or searches for the word under the
// caret when nothing was searched yet.
func (e *Editor) findAgain(backward bool) {
	if e.lastFind == nil {
		word := e.wordUnderCursor()
		if word == "" {
			return
		}
		e.lastFind = &findQuery{expr: word, opts: search.Options{
			CaseSensitive: e.cfg.Editor.CaseSensitiveOccurrences,
			WholeWord:     true,
		}}
	}
	e.FindMatch(e.lastFind.expr, e.lastFind.opts, backward, !backward, true)
}

// keyString names a key the way keymaps spell it, e.g. "ctrl+home",
// "shift+f3" or "alt+=".
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		name := string(r)
		if r == ' ' {
			name = "space"
		}
		if mods&tcell.ModAlt != 0 {
			return "alt+" + name
		}
		if mods&tcell.ModCtrl != 0 {
			return "ctrl+" + strings.ToLower(name)
		}
		return name
	}
	// Tab, Enter and Backspace share codes with ctrl+i, ctrl+m and ctrl+h,
	// so named keys are matched before ctrlKeyName.
	var name string
	switch k := ev.Key(); {
	case k == tcell.KeyBacktab:
		return "shift+tab"
	case k == tcell.KeyTab:
		name = "tab"
	case k == tcell.KeyEnter:
		name = "enter"
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		name = "backspace"
	case k == tcell.KeyEscape:
		name = "esc"
	case k == tcell.KeyDelete:
		name = "del"
	case k == tcell.KeyUp:
		name = "up"
	case k == tcell.KeyDown:
		name = "down"
	case k == tcell.KeyLeft:
		name = "left"
	case k == tcell.KeyRight:
		name = "right"
	case k == tcell.KeyHome:
		name = "home"
	case k == tcell.KeyEnd:
		name = "end"
	case k == tcell.KeyPgUp:
		name = "pgup"
	case k == tcell.KeyPgDn:
		name = "pgdn"
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		name = fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)
	default:
		return ctrlKeyName(k)
	}
	return modifierPrefix(mods) + name
}

func modifierPrefix(mods tcell.ModMask) string {
	var b strings.Builder
	if mods&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mods&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mods&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	return b.String()
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
