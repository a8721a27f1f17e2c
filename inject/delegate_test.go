package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	greeter interface {
		Greet() string
	}

	farewell interface {
		Bye() string
	}

	english struct{}

	appGraph struct{}
)

func (english) Greet() string { return "hello" }

func (appGraph) Greet() string { return "hi" }

func TestDelegate(t *testing.T) {
	t.Run("it should fail fast when called before being set", func(t *testing.T) {
		// GIVEN
		d := NewDelegate[*service]("example.com/app.Service")

		// WHEN
		var recovered any
		func() {
			defer func() { recovered = recover() }()
			d.Get()
		}()

		// THEN
		err, ok := recovered.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrCycleNotBroken))
		assert.Contains(t, err.Error(), "example.com/app.Service")
	})

	t.Run("it should give the first value set", func(t *testing.T) {
		// GIVEN
		d := NewDelegate[*service]("service")
		first := &service{id: 1}

		// WHEN
		d.Set(first)
		d.Set(&service{id: 2})

		// THEN
		assert.Same(t, first, d.Get())
	})
}

func TestAfter(t *testing.T) {
	t.Run("it should fail fast while the gate is not set", func(t *testing.T) {
		// GIVEN
		gate := NewDelegate[*service]("example.com/app.Service")
		calls := 0
		provider := After[int](gate, ProviderFunc[int](func() int {
			calls++
			return 42
		}))

		// WHEN
		var recovered any
		func() {
			defer func() { recovered = recover() }()
			provider.Get()
		}()

		// THEN
		err, ok := recovered.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrCycleNotBroken))
		assert.Contains(t, err.Error(), "example.com/app.Service")
		assert.Zero(t, calls)
	})

	t.Run("it should call the provider once the gate is set", func(t *testing.T) {
		// GIVEN
		gate := NewDelegate[*service]("service")
		provider := After[int](gate, Static(42))

		// WHEN
		gate.Set(&service{id: 1})

		// THEN
		assert.True(t, gate.Ready())
		assert.Equal(t, 42, provider.Get())
	})
}

func TestAsContribution(t *testing.T) {
	t.Run("it should view a graph through a contributed interface", func(t *testing.T) {
		// GIVEN
		var g any = appGraph{}

		// WHEN
		c := AsContribution[greeter](g)

		// THEN
		assert.Equal(t, "hi", c.Greet())
	})

	t.Run("it should panic when the graph does not implement the interface", func(t *testing.T) {
		assert.PanicsWithValue(t, "graph inject.english does not implement contributed interface *inject.farewell", func() {
			AsContribution[farewell](english{})
		})
	})
}
