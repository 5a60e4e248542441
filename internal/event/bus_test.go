package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnDeliversTypedEvents(t *testing.T) {
	b := NewBus()
	var got []CursorPositionChanged
	On(b, func(ev CursorPositionChanged) { got = append(got, ev) })
	On(b, func(ev ZoomChanged) { t.Fatalf("unexpected zoom event %v", ev) })

	b.Publish(CursorPositionChanged{Line: 2, Col: 5})

	require.Len(t, got, 1)
	assert.Equal(t, CursorPositionChanged{Line: 2, Col: 5}, got[0])
}

func TestCancelStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	cancel := On(b, func(FocusObtained) { calls++ })
	b.Publish(FocusObtained{})
	cancel()
	b.Publish(FocusObtained{})
	assert.Equal(t, 1, calls)
}

func TestPublishFromHandlerIsQueued(t *testing.T) {
	b := NewBus()
	var trace []string
	On(b, func(CurrentLineChanged) {
		trace = append(trace, "line:start")
		b.Publish(CursorPositionChanged{})
		trace = append(trace, "line:end")
	})
	On(b, func(CursorPositionChanged) {
		trace = append(trace, "cursor")
	})

	b.Publish(CurrentLineChanged{Line: 1})

	assert.Equal(t, []string{"line:start", "line:end", "cursor"}, trace)
	assert.False(t, b.Dispatching())
}

func TestDeferOutsideDispatchRunsImmediately(t *testing.T) {
	b := NewBus()
	ran := false
	b.Defer(func() { ran = true })
	assert.True(t, ran)
}
