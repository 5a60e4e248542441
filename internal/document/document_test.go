package document

import (
	"errors"
	"testing"
)

func TestClampKeepsPositionInsideDocument(t *testing.T) {
	d := New("ab\ncdef\n")
	cases := []struct {
		in, want Position
	}{
		{Position{-3, -1}, Position{0, 0}},
		{Position{0, 9}, Position{0, 2}},
		{Position{1, 3}, Position{1, 3}},
		{Position{7, 7}, Position{2, 0}},
	}
	for _, c := range cases {
		got := d.Clamp(c.in)
		if got != c.want {
			t.Fatalf("Clamp(%v) = %v, want %v", c.in, got, c.want)
		}
		if got.Line < 0 || got.Line >= d.LineCount() || got.Col < 0 || got.Col > d.LineLen(got.Line) {
			t.Fatalf("Clamp(%v) = %v outside document", c.in, got)
		}
	}
}

func TestInsertAndDeleteMultiline(t *testing.T) {
	d := New("hello world")
	end := d.Insert(Position{0, 5}, ",\nbig")
	if got := d.Text(); got != "hello,\nbig world" {
		t.Fatalf("Text = %q, want %q", got, "hello,\nbig world")
	}
	if end != (Position{1, 3}) {
		t.Fatalf("Insert end = %v, want {1 3}", end)
	}
	deleted := d.Delete(Position{0, 5}, Position{1, 3})
	if deleted != ",\nbig" {
		t.Fatalf("deleted = %q, want %q", deleted, ",\nbig")
	}
	if got := d.Text(); got != "hello world" {
		t.Fatalf("Text = %q, want %q", got, "hello world")
	}
}

func TestEditGroupIsOneUndoStepAndOneNotification(t *testing.T) {
	d := New("one\ntwo")
	var changes []Change
	d.Subscribe(func(ch Change) { changes = append(changes, ch) })

	d.Edit(func() {
		d.Insert(Position{0, 3}, "!")
		d.BeginEdit()
		d.Insert(Position{1, 0}, "> ")
		d.EndEdit()
		d.Delete(Position{0, 0}, Position{0, 1})
	})

	if got := d.Text(); got != "ne!\n> two" {
		t.Fatalf("Text = %q, want %q", got, "ne!\n> two")
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	if changes[0].Edit != nil {
		t.Fatalf("grouped change carries a byte edit, want nil")
	}
	if changes[0].FromLine != 0 || changes[0].ToLine != 1 {
		t.Fatalf("change lines = %d..%d, want 0..1", changes[0].FromLine, changes[0].ToLine)
	}

	if _, err := d.Undo(); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if got := d.Text(); got != "one\ntwo" {
		t.Fatalf("Text after undo = %q, want %q", got, "one\ntwo")
	}
	if _, err := d.Undo(); !errors.Is(err, ErrNoUndo) {
		t.Fatalf("second Undo err = %v, want ErrNoUndo", err)
	}
	if _, err := d.Redo(); err != nil {
		t.Fatalf("Redo error: %v", err)
	}
	if got := d.Text(); got != "ne!\n> two" {
		t.Fatalf("Text after redo = %q, want %q", got, "ne!\n> two")
	}
}

func TestSingleEditCarriesByteEdit(t *testing.T) {
	d := New("héllo\nworld")
	var got *ByteEdit
	d.Subscribe(func(ch Change) { got = ch.Edit })
	d.Insert(Position{1, 0}, "X")
	if got == nil {
		t.Fatalf("byte edit missing")
	}
	// "héllo" is 6 bytes plus the newline.
	if got.StartByte != 7 || got.NewEndByte != 8 || got.StartRow != 1 {
		t.Fatalf("byte edit = %+v", *got)
	}
}

func TestUndoInsideEditGroupFails(t *testing.T) {
	d := New("x")
	d.Insert(Position{0, 1}, "y")
	d.BeginEdit()
	if _, err := d.Undo(); !errors.Is(err, ErrInEdit) {
		t.Fatalf("Undo err = %v, want ErrInEdit", err)
	}
	d.EndEdit()
}

func TestModifiedTracksSavePoint(t *testing.T) {
	d := New("a")
	if d.Modified() {
		t.Fatalf("new document is modified")
	}
	d.Insert(Position{0, 1}, "b")
	if !d.Modified() {
		t.Fatalf("edited document not modified")
	}
	d.SetModified(false)
	if d.Modified() {
		t.Fatalf("saved document is modified")
	}
	if _, err := d.Undo(); err != nil {
		t.Fatalf("Undo error: %v", err)
	}
	if !d.Modified() {
		t.Fatalf("undo past save point not modified")
	}
	if _, err := d.Redo(); err != nil {
		t.Fatalf("Redo error: %v", err)
	}
	if d.Modified() {
		t.Fatalf("redo back to save point still modified")
	}
}

func TestSetTextClearsHistory(t *testing.T) {
	d := New("a")
	d.Insert(Position{0, 0}, "b")
	d.SetText("fresh\ntext")
	if d.Modified() || d.CanUndo() || d.CanRedo() {
		t.Fatalf("SetText kept history: modified=%v undo=%v redo=%v", d.Modified(), d.CanUndo(), d.CanRedo())
	}
	if d.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", d.LineCount())
	}
}

func TestAnchorsFollowEdits(t *testing.T) {
	d := New("foo bar baz")
	left := d.NewAnchor(Position{0, 4}, BiasLeft)
	right := d.NewAnchor(Position{0, 4}, BiasRight)
	tail := d.NewAnchor(Position{0, 8}, BiasLeft)

	d.Insert(Position{0, 4}, "big\n")
	if got := left.Position(); got != (Position{0, 4}) {
		t.Fatalf("left = %v, want {0 4}", got)
	}
	if got := right.Position(); got != (Position{1, 0}) {
		t.Fatalf("right = %v, want {1 0}", got)
	}
	if got := tail.Position(); got != (Position{1, 4}) {
		t.Fatalf("tail = %v, want {1 4}", got)
	}

	d.Delete(Position{0, 0}, Position{1, 2})
	if got := tail.Position(); got != (Position{0, 2}) {
		t.Fatalf("tail after delete = %v, want {0 2}", got)
	}
	if got := left.Position(); got != (Position{0, 0}) {
		t.Fatalf("left after delete = %v, want {0 0}", got)
	}

	tail.Release()
	d.Insert(Position{0, 0}, "zz")
	if got := tail.Position(); got != (Position{0, 2}) {
		t.Fatalf("released anchor moved to %v", got)
	}
}

func TestUserDataFollowsLine(t *testing.T) {
	d := New("a\nb\nc")
	d.Block(2).UserData().Set("bookmark", true)
	d.Insert(Position{0, 0}, "new\n")
	if !d.Block(3).UserData().Bool("bookmark") {
		t.Fatalf("bookmark did not move with its line")
	}
	if d.Block(0).HasUserData() {
		t.Fatalf("unexpected user data on line 0")
	}
}

func TestHandlerEditsAreQueued(t *testing.T) {
	d := New("a")
	var order []int
	d.Subscribe(func(ch Change) {
		order = append(order, ch.FromLine)
		if len(order) == 1 {
			d.Insert(Position{0, 0}, "x\n")
		}
	})
	d.Insert(Position{0, 1}, "b")
	if len(order) != 2 {
		t.Fatalf("notifications = %d, want 2", len(order))
	}
	if got := d.Text(); got != "x\nab" {
		t.Fatalf("Text = %q, want %q", got, "x\nab")
	}
}

func TestSelectionOrientation(t *testing.T) {
	s := Selection{Anchor: Position{1, 4}, Cursor: Position{0, 2}}
	if !s.Reversed() {
		t.Fatalf("Reversed = false, want true")
	}
	if s.Start() != (Position{0, 2}) || s.End() != (Position{1, 4}) {
		t.Fatalf("Start/End = %v/%v", s.Start(), s.End())
	}
	if Caret(Position{3, 3}).IsEmpty() != true {
		t.Fatalf("caret is not empty")
	}
}
