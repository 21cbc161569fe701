package event

import (
	"reflect"
	"sync"
)

// Bus is a synchronous typed pub/sub bus. Publish delivers to every handler
// subscribed at the time of the call, on the publishing goroutine. Handlers
// may subscribe or unsubscribe from inside a handler.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[reflect.Type]map[uint64]any
	order    map[reflect.Type][]uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type]map[uint64]any),
		order:    make(map[reflect.Type][]uint64),
	}
}

// Subscribe registers a typed handler for events of type T and returns a
// function that removes it. Calling the returned function twice is harmless.
func Subscribe[T any](b *Bus, fn func(T)) (unsubscribe func()) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[uint64]any)
	}
	b.handlers[t][id] = fn
	b.order[t] = append(b.order[t], id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(t, id) })
	}
}

func (b *Bus) remove(t reflect.Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers[t], id)
	ids := b.order[t]
	for i, v := range ids {
		if v == id {
			b.order[t] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// Publish delivers event to all handlers for T in subscription order.
func Publish[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.RLock()
	ids := b.order[t]
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.handlers[t][id].(func(T)))
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Count returns the number of handlers subscribed to T.
func Count[T any](b *Bus) int {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order[t])
}
