// Package live provides observable state slots for UI-bound state holders.
package live

import "sync"

// Observable is the read-only view of a Data slot handed to consumers.
type Observable[T any] interface {
	Value() (T, bool)
	Observe(fn func(T)) (cancel func())
}

// Data holds a single value and notifies observers on every Set.
// A new observer is called immediately with the latest value, if any.
type Data[T any] struct {
	mu        sync.Mutex
	value     T
	set       bool
	nextID    int
	observers []observer[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

// NewData returns an empty slot.
func NewData[T any]() *Data[T] {
	return &Data[T]{}
}

func (d *Data[T]) Value() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value, d.set
}

// Set stores v and calls every observer with it, on the caller's goroutine.
func (d *Data[T]) Set(v T) {
	d.mu.Lock()
	d.value = v
	d.set = true
	fns := d.snapshot()
	d.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (d *Data[T]) Observe(fn func(T)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.observers = append(d.observers, observer[T]{id: id, fn: fn})
	v, ok := d.value, d.set
	d.mu.Unlock()

	if ok {
		fn(v)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, o := range d.observers {
				if o.id == id {
					d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// snapshot returns observers in registration order. Caller holds mu.
func (d *Data[T]) snapshot() []func(T) {
	fns := make([]func(T), len(d.observers))
	for i, o := range d.observers {
		fns[i] = o.fn
	}
	return fns
}
