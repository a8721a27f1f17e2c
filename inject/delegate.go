package inject

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrCycleNotBroken is the panic value of a Delegate called before the value it stands for is built.
var ErrCycleNotBroken = errors.New("dependency cycle not broken: provider called while its value is being built")

// Delegate stands for a value that is still being built, it closes a dependency cycle.
//
// The generated code hands the delegate to the dependencies of the value, builds the value,
// then sets it. Calling Get on the delegate before that point means the cycle was not broken.
type Delegate[T any] struct {
	name  string
	value atomic.Pointer[T]
}

func NewDelegate[T any](name string) *Delegate[T] {
	return &Delegate[T]{name: name}
}

// Set records the value, only the first call has an effect.
func (d *Delegate[T]) Set(value T) {
	d.value.CompareAndSwap(nil, &value)
}

func (d *Delegate[T]) Get() T {
	v := d.value.Load()
	if v == nil {
		panic(d.notBroken())
	}
	return *v
}

// Ready reports whether the value was set.
func (d *Delegate[T]) Ready() bool {
	return d.value.Load() != nil
}

func (d *Delegate[T]) notBroken() error {
	return fmt.Errorf("%w: %s", ErrCycleNotBroken, d.name)
}

// After gates a provider reaching back into the cycle of a cached value: until the delegate
// of that value is set, Get fails fast instead of building the value again under its own lock.
func After[T, V any](gate *Delegate[V], provider Provider[T]) Provider[T] {
	return ProviderFunc[T](func() T {
		if !gate.Ready() {
			panic(gate.notBroken())
		}
		return provider.Get()
	})
}
