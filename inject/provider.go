// Package inject holds the small runtime the generated graphs rely on.
package inject

type (
	// Provider gives a value of T each time Get is called.
	// Unscoped bindings are built again on every call, scoped ones come from their graph cache.
	Provider[T any] interface {
		Get() T
	}

	// ProviderFunc adapts a function to a Provider.
	ProviderFunc[T any] func() T

	// Lazy builds its value on the first Get and returns the same value afterwards.
	// The provider runs outside any lock: concurrent first calls may each call it,
	// all of them get the first value published.
	Lazy[T any] interface {
		Get() T
	}

	lazy[T any] struct {
		provider Provider[T]
		value    Scoped[T]
	}
)

func (f ProviderFunc[T]) Get() T {
	return f()
}

// Static returns a provider always giving the same value.
func Static[T any](value T) Provider[T] {
	return ProviderFunc[T](func() T {
		return value
	})
}

// NewLazy wraps a provider so its value is kept once built.
func NewLazy[T any](provider Provider[T]) Lazy[T] {
	return &lazy[T]{provider: provider}
}

func (l *lazy[T]) Get() T {
	if v, ok := l.value.Load(); ok {
		return v
	}
	v := l.provider.Get()
	return l.value.Store(func() T {
		return v
	})
}
