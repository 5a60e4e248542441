package editor

import (
	"sort"
	"time"
)

type timerID int

type timer struct {
	id       timerID
	deadline time.Time
	fn       func()
}

// timers is a single-threaded deadline queue. The UI loop calls fire with the
// current time; nothing runs on another goroutine. wake, when set, is told how
// long until the next deadline so the loop can post itself an interrupt.
type timers struct {
	now    func() time.Time
	wake   func(time.Duration)
	queue  []timer
	nextID timerID
}

func newTimers(now func() time.Time, wake func(time.Duration)) *timers {
	if now == nil {
		now = time.Now
	}
	return &timers{now: now, wake: wake}
}

func (t *timers) after(d time.Duration, fn func()) timerID {
	t.nextID++
	t.queue = append(t.queue, timer{id: t.nextID, deadline: t.now().Add(d), fn: fn})
	if t.wake != nil {
		t.wake(d)
	}
	return t.nextID
}

func (t *timers) stop(id timerID) {
	for i, tm := range t.queue {
		if tm.id == id {
			t.queue = append(t.queue[:i:i], t.queue[i+1:]...)
			return
		}
	}
}

func (t *timers) stopAll() {
	t.queue = nil
}

// fire runs every timer due at now in deadline order and returns how many ran.
func (t *timers) fire(now time.Time) int {
	var due []timer
	rest := t.queue[:0:0]
	for _, tm := range t.queue {
		if !tm.deadline.After(now) {
			due = append(due, tm)
		} else {
			rest = append(rest, tm)
		}
	}
	t.queue = rest
	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, tm := range due {
		tm.fn()
	}
	return len(due)
}

// next returns the earliest pending deadline.
func (t *timers) next() (time.Time, bool) {
	if len(t.queue) == 0 {
		return time.Time{}, false
	}
	at := t.queue[0].deadline
	for _, tm := range t.queue[1:] {
		if tm.deadline.Before(at) {
			at = tm.deadline
		}
	}
	return at, true
}

func (t *timers) pending() int {
	return len(t.queue)
}
