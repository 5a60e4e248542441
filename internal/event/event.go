// Package event carries the notifications an editor view publishes. Handlers
// run synchronously on the UI goroutine; anything published or deferred from
// inside a handler is queued until the current dispatch finishes.
package event

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/viewport"
)

type Kind int

const (
	KindFontChanged Kind = iota
	KindZoomChanged
	KindFocusObtained
	KindKeyPressed
	KindPostKeyPressed
	KindPainted
	KindCurrentLineChanged
	KindCursorPositionChanged
	KindCheckersUpdated
	KindBackNavigation
)

type Event interface {
	Kind() Kind
}

type FontChanged struct{ Size int }

type ZoomChanged struct{ Percent int }

type FocusObtained struct{}

// KeyPressed is published before the key chain runs. Observers cannot consume
// the key.
type KeyPressed struct{ Key *tcell.EventKey }

// PostKeyPressed is published after the key chain, including the default
// editing behavior, has run.
type PostKeyPressed struct{ Key *tcell.EventKey }

type Painted struct {
	Screen tcell.Screen
	Area   viewport.Area
	Blocks []viewport.Block
}

type CurrentLineChanged struct{ Line int }

type CursorPositionChanged struct{ Line, Col int }

type CheckersUpdated struct{}

// BackNavigation asks the navigation history to remember a jump origin.
type BackNavigation struct {
	Path string
	Line int
	Col  int
}

func (FontChanged) Kind() Kind           { return KindFontChanged }
func (ZoomChanged) Kind() Kind           { return KindZoomChanged }
func (FocusObtained) Kind() Kind         { return KindFocusObtained }
func (KeyPressed) Kind() Kind            { return KindKeyPressed }
func (PostKeyPressed) Kind() Kind        { return KindPostKeyPressed }
func (Painted) Kind() Kind               { return KindPainted }
func (CurrentLineChanged) Kind() Kind    { return KindCurrentLineChanged }
func (CursorPositionChanged) Kind() Kind { return KindCursorPositionChanged }
func (CheckersUpdated) Kind() Kind       { return KindCheckersUpdated }
func (BackNavigation) Kind() Kind        { return KindBackNavigation }
