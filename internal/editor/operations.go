package editor

import (
	"strings"
	"time"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/indenter"
	"github.com/kobzarvs/nedit/internal/overlay"
	"github.com/kobzarvs/nedit/internal/scrollbar"
	"github.com/kobzarvs/nedit/internal/search"
	"github.com/kobzarvs/nedit/internal/sidearea"
)

const (
	// maxOccurrences bounds how many word matches are drawn; a configured
	// limit may only lower it.
	maxOccurrences = 500

	defaultOccurrenceDelay = 800 * time.Millisecond
	defaultRunCursorDelay  = 300 * time.Millisecond
)

type findQuery struct {
	expr string
	opts search.Options
}

func (e *Editor) Text() string { return e.doc.Text() }

// SetText replaces the whole document and moves the caret to the start.
func (e *Editor) SetText(text string) {
	e.doc.SetText(text)
	e.SetSelection(document.Caret(document.Position{}))
}

func (e *Editor) LineCount() int { return e.doc.LineCount() }

func (e *Editor) LineText(line int) string { return e.doc.Line(line) }

func (e *Editor) HasSelection() bool { return !e.sel.IsEmpty() }

func (e *Editor) SelectedText() string {
	return e.doc.Slice(e.sel.Start(), e.sel.End())
}

// SelectionRange returns the first and last line the selection covers. A
// multi-line selection ending at column 0 does not cover its last line.
func (e *Editor) SelectionRange() (int, int) {
	return indenter.LineSpan(e.sel)
}

// TextBeforeCursor is the part of the caret line left of the caret.
func (e *Editor) TextBeforeCursor() string {
	caret := e.sel.Cursor
	return string([]rune(e.doc.Line(caret.Line))[:caret.Col])
}

// RightWord returns the word starting at the caret, if any.
func (e *Editor) RightWord() string {
	caret := e.sel.Cursor
	end := e.wordRight(caret)
	if end.Line != caret.Line {
		return ""
	}
	return strings.TrimSpace(e.doc.Slice(caret, end))
}

// RightCharacter returns the rune right of the caret, empty at line end.
func (e *Editor) RightCharacter() string {
	caret := e.sel.Cursor
	runes := []rune(e.doc.Line(caret.Line))
	if caret.Col >= len(runes) {
		return ""
	}
	return string(runes[caret.Col])
}

func (e *Editor) SelectAll() {
	e.SetSelection(document.Selection{Anchor: document.Position{}, Cursor: e.doc.End()})
}

func (e *Editor) Undo() {
	pos, err := e.doc.Undo()
	if err != nil {
		log.Debug("undo", "error", err)
		return
	}
	e.SetSelection(document.Caret(pos))
}

func (e *Editor) Redo() {
	pos, err := e.doc.Redo()
	if err != nil {
		log.Debug("redo", "error", err)
		return
	}
	e.SetSelection(document.Caret(pos))
}

func (e *Editor) Copy() {
	if e.sel.IsEmpty() {
		return
	}
	if err := e.clipboard.WriteAll(e.SelectedText()); err != nil {
		log.Warn("clipboard write failed", "error", err)
	}
}

func (e *Editor) Cut() {
	if e.sel.IsEmpty() {
		return
	}
	e.Copy()
	e.deleteSelection()
}

func (e *Editor) Paste() {
	text, err := e.clipboard.ReadAll()
	if err != nil {
		log.Warn("clipboard read failed", "error", err)
		return
	}
	if text == "" {
		return
	}
	e.insertText(text)
}

// DuplicateLine copies the selection right after itself, or the caret line
// below itself when nothing is selected. The caret and the selection keep
// their place.
func (e *Editor) DuplicateLine() {
	sel := e.sel
	if sel.IsEmpty() {
		line := sel.Cursor.Line
		e.doc.Insert(document.Position{Line: line}, e.doc.Line(line)+"\n")
		e.SetSelection(sel)
		return
	}
	end := sel.End()
	e.doc.Insert(end, "\n"+e.SelectedText())
	e.SetSelection(sel)
}

// MoveUpDown swaps the lines covered by the selection with the line above
// (up) or below. Moving past the first or last line does nothing.
func (e *Editor) MoveUpDown(up bool) {
	sel := e.sel
	first, last := indenter.LineSpan(sel)
	if up && first == 0 || !up && last >= e.doc.LineCount()-1 {
		return
	}
	block := e.doc.Slice(document.Position{Line: first}, document.Position{Line: last, Col: e.doc.LineLen(last)})
	delta := 1
	e.doc.Edit(func() {
		if up {
			delta = -1
			e.doc.Delete(
				document.Position{Line: first - 1, Col: e.doc.LineLen(first - 1)},
				document.Position{Line: last, Col: e.doc.LineLen(last)},
			)
			e.doc.Insert(document.Position{Line: first - 1}, block+"\n")
			return
		}
		e.doc.Delete(document.Position{Line: first}, document.Position{Line: last + 1})
		e.doc.Insert(document.Position{Line: first, Col: e.doc.LineLen(first)}, "\n"+block)
	})
	shift := func(p document.Position) document.Position {
		p.Line += delta
		return p
	}
	e.SetSelection(document.Selection{Anchor: shift(sel.Anchor), Cursor: shift(sel.Cursor)})
}

// FindMatch selects the next match of expr. forward searches from the end
// of the selection, backward from its start; with neither flag set the
// search restarts at the beginning of the word under the caret. When nothing
// is found and wrap is set the search runs once more from the opposite
// document boundary.
func (e *Editor) FindMatch(expr string, opts search.Options, backward, forward, wrap bool) bool {
	p, err := search.Compile(expr, opts)
	if err != nil {
		log.Debug("find: bad pattern", "pattern", expr, "error", err)
		return false
	}
	e.lastFind = &findQuery{expr: expr, opts: opts}
	var from document.Position
	switch {
	case backward:
		from = e.sel.Start()
	case forward:
		from = e.sel.End()
	default:
		from = e.sel.Start()
		if start, _, ok := search.WordAt(e.doc.Line(from.Line), from.Col); ok {
			from = from.WithCol(start)
		}
	}
	m, ok := p.Next(e.doc, from, backward)
	if !ok && wrap {
		boundary := document.Position{}
		if backward {
			boundary = e.doc.End()
		}
		m, ok = p.Next(e.doc, boundary, backward)
	}
	if !ok {
		return false
	}
	e.SetSelection(document.Selection{Anchor: m.Start(), Cursor: m.End()})
	return true
}

// ReplaceMatch replaces the selection when it is a match of expr, then moves
// on to the next match.
func (e *Editor) ReplaceMatch(expr, replacement string, opts search.Options, wrap bool) bool {
	p, err := search.Compile(expr, opts)
	if err != nil {
		log.Debug("replace: bad pattern", "pattern", expr, "error", err)
		return false
	}
	if !e.sel.IsEmpty() {
		selected := e.SelectedText()
		if hits := p.Line(selected); len(hits) > 0 && hits[0] == [2]int{0, len([]rune(selected))} {
			text := replacement
			if opts.Regex {
				text = p.Expand(selected, replacement)
			}
			end := e.doc.Replace(e.sel.Start(), e.sel.End(), text)
			e.SetSelection(document.Caret(end))
		}
	}
	return e.FindMatch(expr, opts, false, true, wrap)
}

// ReplaceAll replaces every match of expr in one undo step and returns how
// many were replaced. The scan runs forward from the document start without
// wrapping, so replacements are never matched again. The caret is restored.
func (e *Editor) ReplaceAll(expr, replacement string, opts search.Options) int {
	p, err := search.Compile(expr, opts)
	if err != nil {
		log.Debug("replace all: bad pattern", "pattern", expr, "error", err)
		return 0
	}
	saved := e.sel
	count := 0
	e.doc.Edit(func() {
		pos := document.Position{}
		for {
			m, ok := p.Next(e.doc, pos, false)
			if !ok {
				return
			}
			text := replacement
			if opts.Regex {
				text = p.Expand(e.doc.Slice(m.Start(), m.End()), replacement)
			}
			pos = e.doc.Replace(m.Start(), m.End(), text)
			count++
		}
	})
	e.SetSelection(saved)
	return count
}

// FindIndexResults returns every match of expr, read as a regular
// expression, together with how many of them end before the caret.
func (e *Editor) FindIndexResults(expr string, caseSensitive, wholeWord bool) (int, []search.Match) {
	p, err := search.Compile(expr, search.Options{CaseSensitive: caseSensitive, WholeWord: wholeWord, Regex: true})
	if err != nil {
		return 0, nil
	}
	matches := p.FindAll(e.doc, 0)
	caret := e.sel.Cursor
	index := 0
	for _, m := range matches {
		if caret.Less(m.End()) {
			break
		}
		index++
	}
	return index, matches
}

// wordUnderCursor is the selected text when the selection stays on one line,
// otherwise the identifier around the caret.
func (e *Editor) wordUnderCursor() string {
	if !e.sel.IsEmpty() {
		if e.sel.Start().Line != e.sel.End().Line {
			return ""
		}
		return e.SelectedText()
	}
	caret := e.sel.Cursor
	text := e.doc.Line(caret.Line)
	start, end, ok := search.WordAt(text, caret.Col)
	if !ok {
		return ""
	}
	return string([]rune(text)[start:end])
}

// HighlightSelectedWord marks the whole-word occurrences of word, or of the
// word under the caret when word is empty. At most OccurrenceLimit matches
// are drawn.
func (e *Editor) HighlightSelectedWord(word string) {
	e.clearOccurrences()
	if word == "" {
		word = e.wordUnderCursor()
	}
	if strings.TrimSpace(word) == "" {
		return
	}
	p, err := search.Compile(word, search.Options{
		CaseSensitive: e.cfg.Editor.CaseSensitiveOccurrences,
		WholeWord:     true,
	})
	if err != nil {
		log.Debug("occurrences: bad pattern", "word", word, "error", err)
		return
	}
	limit := e.cfg.Editor.OccurrenceLimit
	if limit < 1 || limit > maxOccurrences {
		limit = maxOccurrences
	}
	color := e.Color(config.RoleSearchResult)
	style := overlay.Style{Background: color}
	matches := p.FindAll(e.doc, limit)
	sels := make([]overlay.ExtraSelection, 0, len(matches))
	for _, m := range matches {
		sels = append(sels, overlay.NewSelection(e.doc, m.Start(), m.End(), style, overlay.OrderFind))
		e.scrollbar.AddMarker(markerOccurrence, scrollbar.Marker{Line: m.Line, Color: color})
	}
	e.overlays.SetGroup(overlay.GroupOccurrences, sels)
}

func (e *Editor) clearOccurrences() {
	e.overlays.ClearGroup(overlay.GroupOccurrences)
	e.scrollbar.RemoveMarker(markerOccurrence)
}

// ShowRunCursor flashes the caret line, or the selected lines, and drops the
// selection. The highlight clears itself after RunCursorMs.
func (e *Editor) ShowRunCursor() {
	style := overlay.Style{Background: e.Color(config.RoleRunCursor), FullWidth: true}
	var flash overlay.ExtraSelection
	if e.sel.IsEmpty() {
		flash = overlay.LineSelection(e.doc, e.sel.Cursor.Line, style, overlay.OrderRunCursor)
	} else {
		flash = overlay.NewSelection(e.doc, e.sel.Start(), e.sel.End(), style, overlay.OrderRunCursor)
	}
	e.overlays.SetGroup(overlay.GroupRunCursor, []overlay.ExtraSelection{flash})
	e.SetSelection(document.Caret(e.sel.Cursor))

	e.timers.stop(e.runCursorTimer)
	e.runCursorTimer = e.timers.after(delayOr(e.cfg.Editor.RunCursorMs, defaultRunCursorDelay), func() {
		e.runCursorTimer = 0
		e.overlays.ClearGroup(overlay.GroupRunCursor)
	})
}

// GoToLine moves the caret to (line, col), clamped, and publishes the jump
// origin for the navigation history.
func (e *Editor) GoToLine(line, col int, center bool) {
	origin := e.sel.Cursor
	e.SetSelection(document.Caret(document.Position{Line: line, Col: col}))
	e.freeScroll = false
	if center {
		e.centerCursor()
	} else {
		e.ensureCursorVisible()
	}
	e.bus.Publish(event.BackNavigation{Path: e.editable.FilePath(), Line: origin.Line, Col: origin.Col})
}

// NavigateBookmarks jumps to the next (or previous) bookmarked line.
func (e *Editor) NavigateBookmarks(forward bool) bool {
	line := e.markers.PreviousBookmark(e.sel.Cursor.Line)
	if forward {
		line = e.markers.NextBookmark(e.sel.Cursor.Line)
	}
	if line < 0 {
		return false
	}
	e.GoToLine(line, 0, true)
	return true
}

// Zoom changes the logical font size by delta steps. A terminal cannot
// resize its font, so zoom is published for listeners and side widgets.
func (e *Editor) Zoom(delta int) {
	e.setFontSize(e.fontSize + delta)
}

func (e *Editor) ResetZoom() {
	e.setFontSize(e.cfg.Editor.FontSize)
}

// ZoomPercent is the current font size relative to the configured one.
func (e *Editor) ZoomPercent() int {
	base := e.cfg.Editor.FontSize
	if base < 1 {
		return 100
	}
	return e.fontSize * 100 / base
}

func (e *Editor) setFontSize(size int) {
	if size < 1 {
		size = 1
	}
	if size != e.fontSize {
		e.fontSize = size
		e.bus.Publish(event.FontChanged{Size: size})
		e.bus.Publish(event.ZoomChanged{Percent: e.ZoomPercent()})
	}
	e.side.UpdateViewport(e.ZoomPercent())
}

// SaveState returns the view state worth restoring for this file.
func (e *Editor) SaveState() map[string]int {
	return map[string]int{"vscrollbar": e.scroll}
}

func (e *Editor) RestoreState(state map[string]int) {
	v, ok := state["vscrollbar"]
	if !ok {
		return
	}
	if v < 0 {
		v = 0
	}
	if last := e.doc.LineCount() - 1; v > last {
		v = last
	}
	e.scroll = v
	e.scrollbar.SetValue(v)
	e.freeScroll = true
}

func (e *Editor) ShowLineNumbers(show bool) {
	e.lineNumbers.SetVisible(show)
}

func (e *Editor) ShowTextChanges(show bool) {
	e.textChanges.SetVisible(show)
}

func (e *Editor) ShowWhitespaces(show bool) {
	e.showWhitespaces = show
}

func (e *Editor) ToggleBookmark(line int) {
	e.markers.Toggle(line, sidearea.KeyBookmark)
}

func (e *Editor) ToggleBreakpoint(line int) {
	e.markers.Toggle(line, sidearea.KeyBreakpoint)
}

func (e *Editor) ToggleFold(line int) {
	e.folding.Toggle(line)
}

// delayOr converts a configured millisecond delay, using def when unset.
func delayOr(ms int, def time.Duration) time.Duration {
	if ms < 1 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
