// Package document holds the line-addressed text buffer edited by the editor
// views. A Document can be shared between several views; it owns the undo
// history, per-line user data and the anchors that overlays pin to the text.
package document

import (
	"errors"
	"strings"
)

var (
	ErrNoUndo = errors.New("nothing to undo")
	ErrNoRedo = errors.New("nothing to redo")
	// ErrInEdit is returned by Undo and Redo while an edit group is open.
	ErrInEdit = errors.New("edit group in progress")
)

// Position addresses a rune column on a line. Both fields are zero based.
type Position struct {
	Line int
	Col  int
}

func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

func (p Position) WithCol(col int) Position {
	p.Col = col
	return p
}

// Selection is an anchor plus a cursor. An empty selection is a plain caret.
type Selection struct {
	Anchor Position
	Cursor Position
}

func Caret(p Position) Selection {
	return Selection{Anchor: p, Cursor: p}
}

func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Cursor
}

func (s Selection) Start() Position {
	if s.Cursor.Less(s.Anchor) {
		return s.Cursor
	}
	return s.Anchor
}

func (s Selection) End() Position {
	if s.Cursor.Less(s.Anchor) {
		return s.Anchor
	}
	return s.Cursor
}

// Reversed reports whether the cursor sits at the start of the selection.
func (s Selection) Reversed() bool {
	return s.Cursor.Less(s.Anchor)
}

// UserData is the per-line attribute bag. Keys in use:
//
//	"bookmark", "breakpoint"  bool   markers side widget
//	"folded"                  bool   code folding side widget
//	"text_changed"            bool   text changes side widget
type UserData struct {
	attrs map[string]any
}

func (u *UserData) Get(key string) (any, bool) {
	v, ok := u.attrs[key]
	return v, ok
}

func (u *UserData) Bool(key string) bool {
	v, _ := u.attrs[key].(bool)
	return v
}

func (u *UserData) Set(key string, value any) {
	if u.attrs == nil {
		u.attrs = map[string]any{}
	}
	u.attrs[key] = value
}

func (u *UserData) Delete(key string) {
	delete(u.attrs, key)
}

func (u *UserData) Len() int {
	return len(u.attrs)
}

// Block is one line of the document.
type Block struct {
	text []rune
	data *UserData
}

func (b *Block) Text() string {
	return string(b.text)
}

// Runes returns the line contents. Callers must not modify the slice.
func (b *Block) Runes() []rune {
	return b.text
}

func (b *Block) Len() int {
	return len(b.text)
}

// UserData returns the block's attribute bag, creating it on first use.
func (b *Block) UserData() *UserData {
	if b.data == nil {
		b.data = &UserData{}
	}
	return b.data
}

func (b *Block) HasUserData() bool {
	return b.data != nil && b.data.Len() > 0
}

type subscriber struct {
	id int
	fn func(Change)
}

type Document struct {
	blocks []*Block

	undo      []action
	redo      []action
	undoGroup uint64
	savePoint int
	recording bool

	depth   int
	pending pendingChange

	subscribers []subscriber
	nextSubID   int
	emitting    bool
	queued      []Change

	anchors []*Anchor
	version uint64
}

func New(text string) *Document {
	d := &Document{recording: true}
	d.blocks = splitBlocks(text)
	return d
}

func splitBlocks(text string) []*Block {
	text = normalizeNewlines(text)
	parts := strings.Split(text, "\n")
	blocks := make([]*Block, len(parts))
	for i, p := range parts {
		blocks[i] = &Block{text: []rune(p)}
	}
	return blocks
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func (d *Document) LineCount() int {
	return len(d.blocks)
}

// Block returns the block at line, or nil when out of range.
func (d *Document) Block(line int) *Block {
	if line < 0 || line >= len(d.blocks) {
		return nil
	}
	return d.blocks[line]
}

func (d *Document) Line(line int) string {
	b := d.Block(line)
	if b == nil {
		return ""
	}
	return b.Text()
}

func (d *Document) LineLen(line int) int {
	b := d.Block(line)
	if b == nil {
		return 0
	}
	return len(b.text)
}

func (d *Document) Text() string {
	var sb strings.Builder
	for i, b := range d.blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(b.text))
	}
	return sb.String()
}

// SetText replaces the whole document, dropping undo history, user data and
// the modified flag.
func (d *Document) SetText(text string) {
	d.blocks = splitBlocks(text)
	d.undo = d.undo[:0]
	d.redo = d.redo[:0]
	d.savePoint = 0
	d.version++
	length := d.Length()
	for _, a := range d.anchors {
		if a.offset > length {
			a.offset = length
		}
	}
	d.emit(Change{Kind: ChangeReset, FromLine: 0, ToLine: len(d.blocks) - 1})
}

// Version increases on every mutation.
func (d *Document) Version() uint64 {
	return d.version
}

func (d *Document) Modified() bool {
	return len(d.undo) != d.savePoint
}

// SetModified(false) marks the current state as saved.
func (d *Document) SetModified(modified bool) {
	if modified {
		d.savePoint = -1
		return
	}
	d.savePoint = len(d.undo)
	d.emit(Change{Kind: ChangeSaved, FromLine: 0, ToLine: len(d.blocks) - 1})
}

// Clamp pulls a position into the document: the line into
// [0, LineCount-1] and the column into [0, len(line)].
func (d *Document) Clamp(p Position) Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(d.blocks) {
		p.Line = len(d.blocks) - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := len(d.blocks[p.Line].text); p.Col > n {
		p.Col = n
	}
	return p
}

// End returns the position after the last rune of the document.
func (d *Document) End() Position {
	last := len(d.blocks) - 1
	return Position{Line: last, Col: len(d.blocks[last].text)}
}

// Length is the document size in runes, counting one per line break.
func (d *Document) Length() int {
	n := len(d.blocks) - 1
	for _, b := range d.blocks {
		n += len(b.text)
	}
	return n
}

// Offset converts a position to a rune offset.
func (d *Document) Offset(p Position) int {
	p = d.Clamp(p)
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(d.blocks[i].text) + 1
	}
	return off + p.Col
}

// PositionAt converts a rune offset to a position, clamping out-of-range
// offsets to the document bounds.
func (d *Document) PositionAt(offset int) Position {
	if offset <= 0 {
		return Position{}
	}
	for i, b := range d.blocks {
		if offset <= len(b.text) {
			return Position{Line: i, Col: offset}
		}
		offset -= len(b.text) + 1
	}
	return d.End()
}

// Slice returns the text between two positions.
func (d *Document) Slice(start, end Position) string {
	start, end = d.Clamp(start), d.Clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start.Line == end.Line {
		return string(d.blocks[start.Line].text[start.Col:end.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(d.blocks[start.Line].text[start.Col:]))
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(string(d.blocks[i].text))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(d.blocks[end.Line].text[:end.Col]))
	return sb.String()
}
