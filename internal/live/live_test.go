package live

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataReplaysLatestValue(t *testing.T) {
	t.Parallel()

	d := NewData[int]()
	_, ok := d.Value()
	require.False(t, ok)

	var early []int
	cancel := d.Observe(func(v int) { early = append(early, v) })
	require.Empty(t, early, "no replay before first Set")

	d.Set(1)
	d.Set(2)
	require.Equal(t, []int{1, 2}, early)

	var late []int
	d.Observe(func(v int) { late = append(late, v) })
	require.Equal(t, []int{2}, late)

	cancel()
	cancel()
	d.Set(3)
	require.Equal(t, []int{1, 2}, early)
	require.Equal(t, []int{2, 3}, late)

	v, ok := d.Value()
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestDataObserversRunInOrder(t *testing.T) {
	t.Parallel()

	d := NewData[string]()
	var got []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		d.Observe(func(v string) { got = append(got, name+v) })
	}
	d.Set("!")
	require.Equal(t, []string{"a!", "b!", "c!"}, got)
}

func TestDataObserverMaySetFromCallback(t *testing.T) {
	t.Parallel()

	d := NewData[int]()
	d.Observe(func(v int) {
		if v == 1 {
			d.Set(2)
		}
	})
	d.Set(1)
	v, _ := d.Value()
	require.Equal(t, 2, v)
}

func TestEventTakeOnce(t *testing.T) {
	t.Parallel()

	e := NewEvent("424906")
	v, ok := e.Take()
	require.True(t, ok)
	require.Equal(t, "424906", v)

	v, ok = e.Take()
	require.False(t, ok)
	require.Empty(t, v)

	var nilEvent *Event[string]
	_, ok = nilEvent.Take()
	require.False(t, ok)
}

func TestEventNotRedeliveredOnResubscribe(t *testing.T) {
	t.Parallel()

	d := NewData[*Event[int]]()
	d.Set(NewEvent(7))

	var fired int
	consume := func(e *Event[int]) {
		if _, ok := e.Take(); ok {
			fired++
		}
	}
	cancel := d.Observe(consume)
	cancel()
	d.Observe(consume)
	require.Equal(t, 1, fired)
}

func TestEventTakeConcurrent(t *testing.T) {
	t.Parallel()

	e := NewEvent(1)
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := e.Take(); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestDataCancelKeepsOrderAndDropsObserver(t *testing.T) {
	t.Parallel()

	d := NewData[int]()
	var got []string
	record := func(name string) func(int) {
		return func(int) { got = append(got, name) }
	}
	d.Observe(record("a"))
	cancelB := d.Observe(record("b"))
	d.Observe(record("c"))
	for i := 0; i < 100; i++ {
		d.Observe(func(int) {})()
	}

	cancelB()
	cancelB()
	d.Set(1)
	require.Equal(t, []string{"a", "c"}, got)
	require.Len(t, d.observers, 2)
}
