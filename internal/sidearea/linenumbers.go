package sidearea

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/viewport"
)

const NameLineNumbers = "line_numbers"

type LineNumbers struct {
	base
	host Host
}

func NewLineNumbers(h Host) *LineNumbers {
	return &LineNumbers{base: base{name: NameLineNumbers, visible: true}, host: h}
}

func (l *LineNumbers) digits() int {
	digits := len(strconv.Itoa(l.host.Document().LineCount()))
	if digits < 2 {
		digits = 2
	}
	return digits
}

// Width is one padding column on each side of the widest line number.
func (l *LineNumbers) Width() int {
	return 1 + l.digits() + 1
}

func (l *LineNumbers) Paint(s tcell.Screen, area viewport.Area, blocks []viewport.Block) {
	bg := background(l.host)
	normal := bg.Foreground(l.host.Color(config.RoleLineNumber))
	active := bg.Foreground(l.host.Color(config.RoleLineNumberActive)).Bold(true)
	digits := l.digits()
	current := l.host.CursorLine()
	for _, b := range blocks {
		fill(s, area, b.Top, bg)
		style := normal
		if b.Line == current {
			style = active
		}
		num := fmt.Sprintf("%*d", digits, b.Line+1)
		for i, r := range num {
			x := area.X + 1 + i
			if x >= area.X+area.W-1 {
				break
			}
			s.SetContent(x, area.Y+b.Top, r, nil, style)
		}
	}
}
