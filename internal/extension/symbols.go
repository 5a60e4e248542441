package extension

import (
	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/overlay"
)

const NameSymbolHighlighter = "symbol_highlighter"

// scanLimit bounds how many runes a brace search visits.
const scanLimit = 200000

var (
	openers = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	closers = map[rune]rune{')': '(', ']': '[', '}': '{'}
)

// SymbolHighlighter marks the bracket next to the caret and its partner.
// A bracket without a partner is drawn with the unmatched style.
type SymbolHighlighter struct {
	base
}

func NewSymbolHighlighter() *SymbolHighlighter {
	return &SymbolHighlighter{base: base{name: NameSymbolHighlighter}}
}

func (s *SymbolHighlighter) Initialize(h Host) {
	s.bind(h)
	s.track(event.On(h.Bus(), func(event.CursorPositionChanged) {
		s.update()
	}))
}

func (s *SymbolHighlighter) SetActive(active bool) {
	s.active = active
	if s.host == nil {
		return
	}
	if !active {
		s.host.Overlays().ClearGroup(overlay.GroupBraces)
		return
	}
	s.update()
}

func (s *SymbolHighlighter) update() {
	if !s.active {
		return
	}
	h := s.host
	doc := h.Document()
	caret := h.Selection().Cursor
	h.Overlays().ClearGroup(overlay.GroupBraces)

	at, ok := s.bracketAt(doc, caret)
	if !ok {
		return
	}
	match, found := MatchBrace(doc, at, h.IsCode)
	if !found {
		style := overlay.Style{Foreground: h.Color(config.RoleBraceUnmatched)}
		h.Overlays().SetGroup(overlay.GroupBraces, []overlay.ExtraSelection{
			overlay.NewSelection(doc, at, at.WithCol(at.Col+1), style, overlay.OrderBraces),
		})
		return
	}
	style := overlay.Style{Foreground: h.Color(config.RoleBraceMatch)}
	h.Overlays().SetGroup(overlay.GroupBraces, []overlay.ExtraSelection{
		overlay.NewSelection(doc, at, at.WithCol(at.Col+1), style, overlay.OrderBraces),
		overlay.NewSelection(doc, match, match.WithCol(match.Col+1), style, overlay.OrderBraces),
	})
}

// bracketAt prefers the rune under the caret, then the one before it.
func (s *SymbolHighlighter) bracketAt(doc *document.Document, caret document.Position) (document.Position, bool) {
	runes := doc.Block(caret.Line).Runes()
	for _, col := range []int{caret.Col, caret.Col - 1} {
		if col < 0 || col >= len(runes) {
			continue
		}
		r := runes[col]
		if _, ok := openers[r]; !ok {
			if _, ok := closers[r]; !ok {
				continue
			}
		}
		if s.host.IsCode(caret.Line, col) {
			return caret.WithCol(col), true
		}
	}
	return document.Position{}, false
}

// MatchBrace finds the partner of the bracket at pos. Brackets for which
// isCode returns false are skipped; a nil isCode treats every rune as code.
func MatchBrace(doc *document.Document, pos document.Position, isCode func(line, col int) bool) (document.Position, bool) {
	b := doc.Block(pos.Line)
	if b == nil || pos.Col < 0 || pos.Col >= b.Len() {
		return document.Position{}, false
	}
	ch := b.Runes()[pos.Col]
	if isCode == nil {
		isCode = func(int, int) bool { return true }
	}
	if match, ok := openers[ch]; ok {
		return scanForward(doc, pos, ch, match, isCode)
	}
	if match, ok := closers[ch]; ok {
		return scanBackward(doc, pos, ch, match, isCode)
	}
	return document.Position{}, false
}

func scanForward(doc *document.Document, pos document.Position, ch, match rune, isCode func(int, int) bool) (document.Position, bool) {
	depth := 1
	budget := scanLimit
	line, col := pos.Line, pos.Col+1
	for line < doc.LineCount() {
		runes := doc.Block(line).Runes()
		for ; col < len(runes); col++ {
			if budget--; budget < 0 {
				return document.Position{}, false
			}
			r := runes[col]
			if r != ch && r != match {
				continue
			}
			if !isCode(line, col) {
				continue
			}
			if r == ch {
				depth++
				continue
			}
			depth--
			if depth == 0 {
				return document.Position{Line: line, Col: col}, true
			}
		}
		line++
		col = 0
	}
	return document.Position{}, false
}

func scanBackward(doc *document.Document, pos document.Position, ch, match rune, isCode func(int, int) bool) (document.Position, bool) {
	depth := 1
	budget := scanLimit
	line, col := pos.Line, pos.Col-1
	for line >= 0 {
		runes := doc.Block(line).Runes()
		for ; col >= 0; col-- {
			if budget--; budget < 0 {
				return document.Position{}, false
			}
			r := runes[col]
			if r != ch && r != match {
				continue
			}
			if !isCode(line, col) {
				continue
			}
			if r == ch {
				depth++
				continue
			}
			depth--
			if depth == 0 {
				return document.Position{Line: line, Col: col}, true
			}
		}
		line--
		if line >= 0 {
			col = doc.LineLen(line) - 1
		}
	}
	return document.Position{}, false
}
