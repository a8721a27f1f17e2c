package slices

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	t.Run("it should filter module names by prefix", func(t *testing.T) {
		// GIVEN
		input := []string{"core", "core.net", "storage", "core.db"}
		predicate := func(s string) bool {
			return strings.HasPrefix(s, "core.")
		}

		// WHEN
		result := Filter(input, predicate)

		// THEN
		assert.Equal(t, []string{"core.net", "core.db"}, result)
	})

	t.Run("it should handle empty slice", func(t *testing.T) {
		// GIVEN
		var input []string

		// WHEN
		result := Filter(input, func(string) bool { return true })

		// THEN
		assert.Empty(t, result)
	})
}

func TestMap(t *testing.T) {
	t.Run("it should map every element keeping the order", func(t *testing.T) {
		// GIVEN
		input := []string{"a", "bb", "ccc"}

		// WHEN
		result := Map(input, func(s string) int { return len(s) })

		// THEN
		assert.Equal(t, []int{1, 2, 3}, result)
	})
}

func TestUnsafeMap(t *testing.T) {
	t.Run("it should stop on first error", func(t *testing.T) {
		// GIVEN
		input := []string{"ok", "ko", "ok"}
		calls := 0

		// WHEN
		_, err := UnsafeMap(input, func(s string) (string, error) {
			calls++
			if s == "ko" {
				return "", errors.New("boom")
			}
			return strings.ToUpper(s), nil
		})

		// THEN
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestAnyMatch(t *testing.T) {
	t.Run("it should find a matching element", func(t *testing.T) {
		assert.True(t, AnyMatch([]int{1, 2, 3}, func(i int) bool { return i == 2 }))
		assert.False(t, AnyMatch([]int{1, 3}, func(i int) bool { return i == 2 }))
	})
}
