// Package viewport computes the visible block records shared by the text
// area, side widgets and hit-testing for one paint cycle.
package viewport

import "github.com/kobzarvs/nedit/internal/document"

// Area is a rectangle in screen cells.
type Area struct {
	X, Y, W, H int
}

func (a Area) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.W && y >= a.Y && y < a.Y+a.H
}

// Block records where a document line is drawn. Top is relative to the
// text area.
type Block struct {
	Top   int
	Line  int
	Block *document.Block
}

// Compute walks the document from firstLine and returns one record per line
// that fits in height rows. Lines for which hidden returns true are skipped
// without consuming a row.
func Compute(doc *document.Document, firstLine, height int, hidden func(line int) bool) []Block {
	if height <= 0 || doc == nil {
		return nil
	}
	if firstLine < 0 {
		firstLine = 0
	}
	blocks := make([]Block, 0, height)
	top := 0
	for line := firstLine; line < doc.LineCount() && top < height; line++ {
		if hidden != nil && hidden(line) {
			continue
		}
		blocks = append(blocks, Block{Top: top, Line: line, Block: doc.Block(line)})
		top++
	}
	return blocks
}

// LineAt maps a row inside the text area back to a document line. It returns
// -1 when the row has no line.
func LineAt(blocks []Block, y int) int {
	for _, b := range blocks {
		if b.Top == y {
			return b.Line
		}
	}
	return -1
}

// RowOf returns the row a line is drawn on, or -1 when it is not visible.
func RowOf(blocks []Block, line int) int {
	for _, b := range blocks {
		if b.Line == line {
			return b.Top
		}
	}
	return -1
}
