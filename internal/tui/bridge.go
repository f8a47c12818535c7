package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge hands controller mutations to the bubbletea event loop so they run
// inside Update, on the UI goroutine. Dispatch never blocks, which lets an
// observer running inside Update dispatch again.
type Bridge struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Dispatch queues fn. Calls after Close are dropped.
func (b *Bridge) Dispatch(fn func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = append(b.pending, fn)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Listen waits for queued work and delivers it as a single message.
// It returns nil once the bridge is closed.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		for {
			b.mu.Lock()
			if len(b.pending) > 0 {
				fns := b.pending
				b.pending = nil
				b.mu.Unlock()
				return dispatchMsg(fns)
			}
			b.mu.Unlock()

			select {
			case <-b.wake:
			case <-b.done:
				return nil
			}
		}
	}
}

func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.pending = nil
	close(b.done)
}

// dispatchMsg carries queued mutations in dispatch order.
type dispatchMsg []func()
