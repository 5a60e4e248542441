package extension

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/event"
)

const NameRightMargin = "margin_line"

// RightMargin tints the text column at Column. With Background set every
// cell right of the margin is tinted as well.
type RightMargin struct {
	base
	column     int
	background bool
}

func NewRightMargin(column int) *RightMargin {
	m := &RightMargin{base: base{name: NameRightMargin}}
	m.SetColumn(column)
	return m
}

func (m *RightMargin) Initialize(h Host) {
	m.bind(h)
	m.track(event.On(h.Bus(), m.paint))
}

func (m *RightMargin) Column() int { return m.column }

func (m *RightMargin) SetColumn(column int) {
	if column < 1 {
		column = 1
	}
	m.column = column
}

func (m *RightMargin) Background() bool { return m.background }

func (m *RightMargin) SetBackground(v bool) { m.background = v }

func (m *RightMargin) paint(ev event.Painted) {
	if !m.active || ev.Screen == nil {
		return
	}
	x := ev.Area.X + m.column
	if x >= ev.Area.X+ev.Area.W {
		return
	}
	end := x + 1
	if m.background {
		end = ev.Area.X + ev.Area.W
	}
	color := m.host.Color(config.RoleMarginLine)
	for y := ev.Area.Y; y < ev.Area.Y+ev.Area.H; y++ {
		for cx := x; cx < end; cx++ {
			tint(ev.Screen, cx, y, color)
		}
	}
}

func tint(s tcell.Screen, x, y int, color tcell.Color) {
	mainc, combc, style, _ := s.GetContent(x, y)
	s.SetContent(x, y, mainc, combc, style.Background(color))
}
