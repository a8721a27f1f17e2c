package concurrent

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	t.Run("it should create empty slice", func(t *testing.T) {
		// GIVEN
		slice := NewSlice[string]()

		// THEN
		assert.Equal(t, 0, slice.Length())
		assert.Empty(t, slice.Get())
	})

	t.Run("it should append elements", func(t *testing.T) {
		// GIVEN
		slice := NewSlice[string]()

		// WHEN
		slice.Append("AppGraph")
		slice.Append("RequestGraph", "AdminGraph")

		// THEN
		assert.Equal(t, []string{"AppGraph", "RequestGraph", "AdminGraph"}, slice.Get())
	})

	t.Run("it should return a copy", func(t *testing.T) {
		// GIVEN
		slice := NewSlice[int]()
		slice.Append(1)

		// WHEN
		snapshot := slice.Get()
		snapshot[0] = 42

		// THEN
		assert.Equal(t, []int{1}, slice.Get())
	})

	t.Run("it should support concurrent appends", func(t *testing.T) {
		// GIVEN
		slice := NewSlice[int]()
		var wg sync.WaitGroup

		// WHEN
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				slice.Append(v)
			}(i)
		}
		wg.Wait()

		// THEN
		values := slice.Get()
		sort.Ints(values)
		assert.Len(t, values, 100)
		assert.Equal(t, 0, values[0])
		assert.Equal(t, 99, values[99])
	})
}
