package document

// Bias decides which side of an insertion made exactly at the anchor's
// offset the anchor ends up on.
type Bias int

const (
	// BiasLeft keeps the anchor before text inserted at its offset.
	BiasLeft Bias = iota
	// BiasRight moves the anchor past text inserted at its offset.
	BiasRight
)

// Anchor is a document offset that follows edits. Overlays use anchors so a
// highlighted range keeps covering the same text while lines are edited.
type Anchor struct {
	doc      *Document
	offset   int
	bias     Bias
	released bool
}

func (d *Document) NewAnchor(pos Position, bias Bias) *Anchor {
	a := &Anchor{doc: d, offset: d.Offset(pos), bias: bias}
	d.anchors = append(d.anchors, a)
	return a
}

func (a *Anchor) Offset() int {
	return a.offset
}

func (a *Anchor) Position() Position {
	return a.doc.PositionAt(a.offset)
}

// Release detaches the anchor from its document. A released anchor keeps
// reporting its last position.
func (a *Anchor) Release() {
	if a.released {
		return
	}
	a.released = true
	anchors := a.doc.anchors
	for i, other := range anchors {
		if other == a {
			last := len(anchors) - 1
			anchors[i] = anchors[last]
			anchors[last] = nil
			a.doc.anchors = anchors[:last]
			return
		}
	}
}

func (a *Anchor) shiftInsert(offset, n int) {
	if a.offset > offset || (a.offset == offset && a.bias == BiasRight) {
		a.offset += n
	}
}

func (a *Anchor) shiftDelete(offset, n int) {
	switch {
	case a.offset >= offset+n:
		a.offset -= n
	case a.offset > offset:
		a.offset = offset
	}
}
