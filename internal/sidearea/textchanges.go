package sidearea

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/viewport"
)

const (
	NameTextChanges = "text_changes"
	keyTextChanged  = "text_changed"
)

// TextChanges flags lines edited since the document was last saved.
type TextChanges struct {
	base
	host        Host
	unsubscribe func()
}

func NewTextChanges(h Host) *TextChanges {
	t := &TextChanges{base: base{name: NameTextChanges, visible: true}, host: h}
	t.unsubscribe = h.Document().Subscribe(t.onChange)
	return t
}

func (t *TextChanges) onChange(ch document.Change) {
	doc := t.host.Document()
	switch ch.Kind {
	case document.ChangeEdit:
		for line := ch.FromLine; line <= ch.ToLine; line++ {
			if b := doc.Block(line); b != nil {
				b.UserData().Set(keyTextChanged, true)
			}
		}
	case document.ChangeSaved, document.ChangeReset:
		for line := 0; line < doc.LineCount(); line++ {
			if b := doc.Block(line); b.HasUserData() {
				b.UserData().Delete(keyTextChanged)
			}
		}
	}
}

// Changed reports whether line was edited since the last save.
func (t *TextChanges) Changed(line int) bool {
	b := t.host.Document().Block(line)
	return b != nil && b.HasUserData() && b.UserData().Bool(keyTextChanged)
}

func (t *TextChanges) Width() int { return 1 }

func (t *TextChanges) Paint(s tcell.Screen, area viewport.Area, blocks []viewport.Block) {
	bg := background(t.host)
	mark := bg.Foreground(t.host.Color(config.RoleTextChanged))
	for _, b := range blocks {
		fill(s, area, b.Top, bg)
		if b.Block.HasUserData() && b.Block.UserData().Bool(keyTextChanged) {
			s.SetContent(area.X, area.Y+b.Top, '▎', nil, mark)
		}
	}
}

// Close stops tracking document changes.
func (t *TextChanges) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}
