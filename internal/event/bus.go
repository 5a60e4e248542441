package event

type handler struct {
	id int
	fn func(Event)
}

type Bus struct {
	handlers    map[Kind][]handler
	nextID      int
	dispatching bool
	queue       []func()
}

func NewBus() *Bus {
	return &Bus{handlers: map[Kind][]handler{}}
}

// Subscribe registers fn for events of kind k and returns a cancel func.
func (b *Bus) Subscribe(k Kind, fn func(Event)) func() {
	b.nextID++
	id := b.nextID
	b.handlers[k] = append(b.handlers[k], handler{id: id, fn: fn})
	return func() {
		hs := b.handlers[k]
		for i, h := range hs {
			if h.id == id {
				b.handlers[k] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// On subscribes a handler typed to one concrete event.
func On[T Event](b *Bus, fn func(T)) func() {
	var zero T
	return b.Subscribe(zero.Kind(), func(ev Event) {
		if t, ok := ev.(T); ok {
			fn(t)
		}
	})
}

// Publish delivers ev to its subscribers in subscription order.
func (b *Bus) Publish(ev Event) {
	b.Defer(func() {
		hs := append([]handler(nil), b.handlers[ev.Kind()]...)
		for _, h := range hs {
			h.fn(ev)
		}
	})
}

// Defer runs fn once no dispatch is in progress: immediately when called
// from outside a handler, otherwise after the running dispatch completes.
func (b *Bus) Defer(fn func()) {
	b.queue = append(b.queue, fn)
	if b.dispatching {
		return
	}
	b.dispatching = true
	defer func() { b.dispatching = false }()
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		next()
	}
}

// Dispatching reports whether a handler is currently running.
func (b *Bus) Dispatching() bool {
	return b.dispatching
}
