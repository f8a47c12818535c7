package live

import "sync/atomic"

// Event wraps content that must be acted on exactly once, such as a navigation
// request. Observers that see the same Event again (for example after
// re-subscribing) get false from Take.
type Event[T any] struct {
	content T
	handled atomic.Bool
}

func NewEvent[T any](content T) *Event[T] {
	return &Event[T]{content: content}
}

// Take returns the content and marks the event handled. Only the first call
// reports true.
func (e *Event[T]) Take() (T, bool) {
	if e == nil || !e.handled.CompareAndSwap(false, true) {
		var zero T
		return zero, false
	}
	return e.content, true
}
