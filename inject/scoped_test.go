package inject

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type service struct {
	id int32
}

func TestScoped(t *testing.T) {
	t.Run("it should build the value only once under concurrent first access", func(t *testing.T) {
		// GIVEN
		var cell Scoped[*service]
		var built atomic.Int32
		build := func() *service {
			return &service{id: built.Add(1)}
		}

		// WHEN
		results := make([]*service, 32)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if v, ok := cell.Load(); ok {
					results[i] = v
					return
				}
				results[i] = cell.Store(build)
			}()
		}
		wg.Wait()

		// THEN
		assert.Equal(t, int32(1), built.Load())
		for _, res := range results {
			assert.Same(t, results[0], res)
		}
	})

	t.Run("it should not publish a value when the constructor panics", func(t *testing.T) {
		// GIVEN
		var cell Scoped[*service]

		// WHEN
		assert.Panics(t, func() {
			cell.Store(func() *service { panic("boom") })
		})
		_, loaded := cell.Load()
		v := cell.Store(func() *service { return &service{id: 2} })

		// THEN
		assert.False(t, loaded)
		require.NotNil(t, v)
		assert.Equal(t, int32(2), v.id)
	})

	t.Run("it should report an empty cell", func(t *testing.T) {
		// GIVEN
		var cell Scoped[string]

		// WHEN
		v, ok := cell.Load()

		// THEN
		assert.False(t, ok)
		assert.Empty(t, v)
	})
}

func TestLazy(t *testing.T) {
	t.Run("it should call the provider on first access only", func(t *testing.T) {
		// GIVEN
		calls := 0
		l := NewLazy[int](ProviderFunc[int](func() int {
			calls++
			return 42
		}))

		// WHEN
		first := l.Get()
		second := l.Get()

		// THEN
		assert.Equal(t, 42, first)
		assert.Equal(t, 42, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("it should build without holding a lock and keep the first value published", func(t *testing.T) {
		// GIVEN
		var (
			l     Lazy[int]
			calls atomic.Int32
		)
		l = NewLazy[int](ProviderFunc[int](func() int {
			call := calls.Add(1)
			if call == 1 {
				done := make(chan int)
				go func() { done <- l.Get() }()
				assert.Equal(t, 2, <-done)
			}
			return int(call)
		}))

		// WHEN
		value := l.Get()

		// THEN
		assert.Equal(t, 2, value)
		assert.Equal(t, 2, l.Get())
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("it should give new values through a provider", func(t *testing.T) {
		// GIVEN
		next := 0
		p := ProviderFunc[int](func() int {
			next++
			return next
		})

		// WHEN / THEN
		assert.Equal(t, 1, p.Get())
		assert.Equal(t, 2, p.Get())
		assert.Equal(t, "fixed", Static("fixed").Get())
	})
}
