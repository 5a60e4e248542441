package extension

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
)

const (
	NameAutocompleteBraces = "autocomplete_braces"
	NameAutocompleteQuotes = "autocomplete_quotes"
)

// pending tracks the closers inserted on the user's behalf. Typing the
// first of them right where the caret was left swallows the keystroke
// instead of doubling the closer.
type pending struct {
	closers []rune
	at      document.Position
}

func (p *pending) reset() {
	p.closers = nil
}

func (p *pending) push(closer rune, caret document.Position) {
	p.closers = append([]rune{closer}, p.closers...)
	p.at = caret
}

// typedRune returns the rune the default editing behavior just inserted
// before the caret, or false when the key did not insert one.
func typedRune(h Host, key *tcell.EventKey) (rune, document.Position, bool) {
	if key == nil || key.Key() != tcell.KeyRune || key.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
		return 0, document.Position{}, false
	}
	sel := h.Selection()
	if !sel.IsEmpty() || sel.Cursor.Col == 0 {
		return 0, document.Position{}, false
	}
	caret := sel.Cursor
	runes := h.Document().Block(caret.Line).Runes()
	if caret.Col > len(runes) || runes[caret.Col-1] != key.Rune() {
		return 0, document.Position{}, false
	}
	return key.Rune(), caret, true
}

func runeAt(doc *document.Document, p document.Position) (rune, bool) {
	b := doc.Block(p.Line)
	if b == nil || p.Col < 0 || p.Col >= b.Len() {
		return 0, false
	}
	return b.Runes()[p.Col], true
}

// swallow removes the closer right of the caret when r is the closer that
// was inserted automatically at this spot.
func (p *pending) swallow(h Host, r rune, caret document.Position) bool {
	typed := caret.WithCol(caret.Col - 1)
	if len(p.closers) == 0 || p.closers[0] != r || typed != p.at {
		return false
	}
	if next, ok := runeAt(h.Document(), caret); !ok || next != r {
		p.reset()
		return false
	}
	p.closers = p.closers[1:]
	p.at = caret
	h.Bus().Defer(func() {
		h.Document().Delete(caret, caret.WithCol(caret.Col+1))
	})
	return true
}

// follow keeps the pending closers alive while the user types inside the
// pair and drops them once the caret went anywhere else.
func (p *pending) follow(caret document.Position) {
	if len(p.closers) == 0 {
		return
	}
	if caret.WithCol(caret.Col-1) != p.at {
		p.reset()
		return
	}
	p.at = caret
}

// closesBefore reports whether next is a rune an auto-inserted closer may
// sit in front of.
func closesBefore(next rune, ok bool) bool {
	if !ok {
		return true
	}
	switch next {
	case ' ', '\t', ')', ']', '}', ';', ',', ':':
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// AutocompleteBraces inserts the closing bracket after an opening one typed
// in code.
type AutocompleteBraces struct {
	base
	pending pending
}

func NewAutocompleteBraces() *AutocompleteBraces {
	return &AutocompleteBraces{base: base{name: NameAutocompleteBraces}}
}

func (a *AutocompleteBraces) Initialize(h Host) {
	a.bind(h)
	a.track(event.On(h.Bus(), a.onPostKey))
}

func (a *AutocompleteBraces) onPostKey(ev event.PostKeyPressed) {
	if !a.active {
		return
	}
	h := a.host
	r, caret, ok := typedRune(h, ev.Key)
	if !ok {
		a.pending.reset()
		return
	}
	if _, isCloser := closers[r]; isCloser && a.pending.swallow(h, r, caret) {
		return
	}
	a.pending.follow(caret)
	closer, isOpener := openers[r]
	if !isOpener || !h.IsCode(caret.Line, caret.Col-1) {
		return
	}
	if !closesBefore(runeAt(h.Document(), caret)) {
		return
	}
	a.pending.push(closer, caret)
	h.Bus().Defer(func() {
		h.Document().Insert(caret, string(closer))
	})
}

// AutocompleteQuotes pairs quotes typed outside strings and words.
type AutocompleteQuotes struct {
	base
	pending pending
}

var quotes = map[rune]bool{'"': true, '\'': true, '`': true}

func NewAutocompleteQuotes() *AutocompleteQuotes {
	return &AutocompleteQuotes{base: base{name: NameAutocompleteQuotes}}
}

func (a *AutocompleteQuotes) Initialize(h Host) {
	a.bind(h)
	a.track(event.On(h.Bus(), a.onPostKey))
}

func (a *AutocompleteQuotes) onPostKey(ev event.PostKeyPressed) {
	if !a.active {
		return
	}
	h := a.host
	r, caret, ok := typedRune(h, ev.Key)
	if !ok {
		a.pending.reset()
		return
	}
	if quotes[r] && a.pending.swallow(h, r, caret) {
		return
	}
	a.pending.follow(caret)
	if !quotes[r] {
		return
	}
	doc := h.Document()
	typed := caret.WithCol(caret.Col - 1)
	if typed.Col > 0 {
		before := typed.WithCol(typed.Col - 1)
		if prev, _ := runeAt(doc, before); isWordRune(prev) || !h.IsCode(before.Line, before.Col) {
			return
		}
	}
	next, hasNext := runeAt(doc, caret)
	if hasNext && isWordRune(next) {
		return
	}
	if !closesBefore(next, hasNext) {
		return
	}
	a.pending.push(r, caret)
	h.Bus().Defer(func() {
		h.Document().Insert(caret, string(r))
	})
}
