package document

import (
	"strings"
	"unicode/utf8"
)

type actionKind int

const (
	actionInsertText actionKind = iota
	actionDeleteText
)

type action struct {
	kind  actionKind
	pos   Position
	end   Position // end of the deleted range for actionDeleteText
	text  string
	group uint64
}

type ChangeKind int

const (
	ChangeEdit ChangeKind = iota
	ChangeReset
	ChangeSaved
)

// ByteEdit describes a single primitive edit in bytes and byte-column points,
// the shape an incremental parser needs.
type ByteEdit struct {
	StartByte      int
	OldEndByte     int
	NewEndByte     int
	StartRow       int
	StartColBytes  int
	OldEndRow      int
	OldEndColBytes int
	NewEndRow      int
	NewEndColBytes int
}

// Change is delivered to subscribers once per edit group. FromLine and ToLine
// are the touched lines in post-edit coordinates. Edit is only set when the
// group consisted of exactly one primitive edit.
type Change struct {
	Kind       ChangeKind
	FromLine   int
	ToLine     int
	LinesDelta int
	Edit       *ByteEdit
}

type pendingChange struct {
	ops      int
	fromLine int
	toLine   int
	delta    int
	edit     ByteEdit
}

func (p *pendingChange) touch(from, to, delta int) {
	if p.ops == 0 {
		p.fromLine, p.toLine = from, to
	} else {
		if p.toLine >= from {
			p.toLine += delta
			if p.toLine < from {
				p.toLine = from
			}
		}
		if from < p.fromLine {
			p.fromLine = from
		}
		if to > p.toLine {
			p.toLine = to
		}
	}
	p.delta += delta
	p.ops++
}

// BeginEdit opens an edit group. Groups nest; only the outermost EndEdit
// closes the undo step and notifies subscribers.
func (d *Document) BeginEdit() {
	if d.depth == 0 {
		d.undoGroup++
		d.pending = pendingChange{}
	}
	d.depth++
}

func (d *Document) EndEdit() {
	if d.depth == 0 {
		return
	}
	d.depth--
	if d.depth > 0 || d.pending.ops == 0 {
		return
	}
	if d.recording {
		d.redo = d.redo[:0]
	}
	d.flushPending()
}

// Edit runs fn inside one edit group. The group is closed even if fn panics.
func (d *Document) Edit(fn func()) {
	d.BeginEdit()
	defer d.EndEdit()
	fn()
}

func (d *Document) InEdit() bool {
	return d.depth > 0
}

func (d *Document) flushPending() {
	p := d.pending
	d.pending = pendingChange{}
	ch := Change{Kind: ChangeEdit, FromLine: p.fromLine, ToLine: p.toLine, LinesDelta: p.delta}
	if p.ops == 1 {
		edit := p.edit
		ch.Edit = &edit
	}
	if ch.ToLine >= len(d.blocks) {
		ch.ToLine = len(d.blocks) - 1
	}
	if ch.FromLine > ch.ToLine {
		ch.FromLine = ch.ToLine
	}
	d.emit(ch)
}

// Insert puts text at pos and returns the position after the inserted text.
func (d *Document) Insert(pos Position, text string) Position {
	pos = d.Clamp(pos)
	text = normalizeNewlines(text)
	if text == "" {
		return pos
	}
	d.BeginEdit()
	defer d.EndEdit()
	end := d.insertText(pos, text)
	d.record(action{kind: actionInsertText, pos: pos, text: text})
	return end
}

// Delete removes the text between start and end and returns it.
func (d *Document) Delete(start, end Position) string {
	start, end = d.Clamp(start), d.Clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start == end {
		return ""
	}
	d.BeginEdit()
	defer d.EndEdit()
	deleted := d.deleteText(start, end)
	d.record(action{kind: actionDeleteText, pos: start, end: end, text: deleted})
	return deleted
}

// Replace swaps the text between start and end for text in one edit group.
func (d *Document) Replace(start, end Position, text string) Position {
	d.BeginEdit()
	defer d.EndEdit()
	if end.Less(start) {
		start, end = end, start
	}
	d.Delete(start, end)
	return d.Insert(d.Clamp(start), text)
}

func (d *Document) record(act action) {
	if !d.recording {
		return
	}
	act.group = d.undoGroup
	d.undo = append(d.undo, act)
}

func (d *Document) insertText(pos Position, text string) Position {
	startByte, startColBytes := d.byteOffset(pos)
	offset := d.Offset(pos)

	parts := strings.Split(text, "\n")
	b := d.blocks[pos.Line]
	suffix := append([]rune(nil), b.text[pos.Col:]...)
	var end Position
	if len(parts) == 1 {
		ins := []rune(parts[0])
		line := make([]rune, 0, len(b.text)+len(ins))
		line = append(line, b.text[:pos.Col]...)
		line = append(line, ins...)
		line = append(line, suffix...)
		b.text = line
		end = Position{Line: pos.Line, Col: pos.Col + len(ins)}
	} else {
		b.text = append(b.text[:pos.Col:pos.Col], []rune(parts[0])...)
		added := make([]*Block, 0, len(parts)-1)
		for i := 1; i < len(parts)-1; i++ {
			added = append(added, &Block{text: []rune(parts[i])})
		}
		last := []rune(parts[len(parts)-1])
		end = Position{Line: pos.Line + len(parts) - 1, Col: len(last)}
		added = append(added, &Block{text: append(last, suffix...)})
		blocks := make([]*Block, 0, len(d.blocks)+len(added))
		blocks = append(blocks, d.blocks[:pos.Line+1]...)
		blocks = append(blocks, added...)
		blocks = append(blocks, d.blocks[pos.Line+1:]...)
		d.blocks = blocks
	}

	n := utf8.RuneCountInString(text)
	for _, a := range d.anchors {
		a.shiftInsert(offset, n)
	}

	lastLineBytes := len(parts[len(parts)-1])
	newEndColBytes := lastLineBytes
	if len(parts) == 1 {
		newEndColBytes = startColBytes + lastLineBytes
	}
	d.pending.edit = ByteEdit{
		StartByte:      startByte,
		OldEndByte:     startByte,
		NewEndByte:     startByte + len(text),
		StartRow:       pos.Line,
		StartColBytes:  startColBytes,
		OldEndRow:      pos.Line,
		OldEndColBytes: startColBytes,
		NewEndRow:      end.Line,
		NewEndColBytes: newEndColBytes,
	}
	d.pending.touch(pos.Line, end.Line, end.Line-pos.Line)
	d.version++
	return end
}

func (d *Document) deleteText(start, end Position) string {
	startByte, startColBytes := d.byteOffset(start)
	oldEndByte, oldEndColBytes := d.byteOffset(end)
	offset := d.Offset(start)
	deleted := d.Slice(start, end)

	first := d.blocks[start.Line]
	last := d.blocks[end.Line]
	line := make([]rune, 0, start.Col+len(last.text)-end.Col)
	line = append(line, first.text[:start.Col]...)
	line = append(line, last.text[end.Col:]...)
	first.text = line
	if end.Line > start.Line {
		d.blocks = append(d.blocks[:start.Line+1], d.blocks[end.Line+1:]...)
	}

	n := utf8.RuneCountInString(deleted)
	for _, a := range d.anchors {
		a.shiftDelete(offset, n)
	}

	d.pending.edit = ByteEdit{
		StartByte:      startByte,
		OldEndByte:     oldEndByte,
		NewEndByte:     startByte,
		StartRow:       start.Line,
		StartColBytes:  startColBytes,
		OldEndRow:      end.Line,
		OldEndColBytes: oldEndColBytes,
		NewEndRow:      start.Line,
		NewEndColBytes: startColBytes,
	}
	d.pending.touch(start.Line, start.Line, start.Line-end.Line)
	d.version++
	return deleted
}

func (d *Document) byteOffset(pos Position) (int, int) {
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += len(string(d.blocks[i].text)) + 1
	}
	colBytes := len(string(d.blocks[pos.Line].text[:pos.Col]))
	return offset + colBytes, colBytes
}

func (d *Document) CanUndo() bool {
	return len(d.undo) > 0
}

func (d *Document) CanRedo() bool {
	return len(d.redo) > 0
}

// Undo reverts the last edit group and returns where the cursor belongs.
func (d *Document) Undo() (Position, error) {
	if d.depth > 0 {
		return Position{}, ErrInEdit
	}
	if len(d.undo) == 0 {
		return Position{}, ErrNoUndo
	}
	return d.replay(&d.undo, &d.redo), nil
}

// Redo reapplies the last undone edit group.
func (d *Document) Redo() (Position, error) {
	if d.depth > 0 {
		return Position{}, ErrInEdit
	}
	if len(d.redo) == 0 {
		return Position{}, ErrNoRedo
	}
	return d.replay(&d.redo, &d.undo), nil
}

func (d *Document) replay(from, to *[]action) Position {
	group := (*from)[len(*from)-1].group
	d.recording = false
	d.BeginEdit()
	var cursor Position
	for len(*from) > 0 && (*from)[len(*from)-1].group == group {
		idx := len(*from) - 1
		act := (*from)[idx]
		*from = (*from)[:idx]
		inv := d.applyAction(act)
		inv.group = act.group
		*to = append(*to, inv)
		if act.kind == actionInsertText {
			cursor = inv.end
		} else {
			cursor = act.pos
		}
	}
	// grouped ops invalidate the byte edit; force a full reparse
	d.pending.ops++
	d.EndEdit()
	d.recording = true
	return cursor
}

func (d *Document) applyAction(act action) action {
	switch act.kind {
	case actionInsertText:
		end := d.insertText(act.pos, act.text)
		return action{kind: actionDeleteText, pos: act.pos, end: end, text: act.text}
	default:
		deleted := d.deleteText(act.pos, act.end)
		return action{kind: actionInsertText, pos: act.pos, text: deleted}
	}
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (d *Document) Subscribe(fn func(Change)) func() {
	d.nextSubID++
	id := d.nextSubID
	d.subscribers = append(d.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range d.subscribers {
			if s.id == id {
				d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

// emit delivers ch to every subscriber. Changes raised from inside a handler
// are queued and delivered after the current round.
func (d *Document) emit(ch Change) {
	if d.emitting {
		d.queued = append(d.queued, ch)
		return
	}
	d.emitting = true
	defer func() { d.emitting = false }()
	for {
		subs := append([]subscriber(nil), d.subscribers...)
		for _, s := range subs {
			s.fn(ch)
		}
		if len(d.queued) == 0 {
			return
		}
		ch = d.queued[0]
		d.queued = d.queued[1:]
	}
}
