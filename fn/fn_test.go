package fn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	unit string
	line int
}

func TestComparators(t *testing.T) {
	t.Run("it should compare using natural order", func(t *testing.T) {
		// GIVEN
		comparator := NaturalOrder[int]()

		// WHEN / THEN
		assert.Equal(t, Less, comparator(1, 2))
		assert.Equal(t, Greater, comparator(3, 2))
		assert.Equal(t, Equal, comparator(2, 2))
	})

	t.Run("it should reverse a comparator", func(t *testing.T) {
		// GIVEN
		comparator := ReverseComparator(NaturalOrder[string]())

		// WHEN / THEN
		assert.Equal(t, Greater, comparator("a", "b"))
	})

	t.Run("it should only use next comparator on equality", func(t *testing.T) {
		// GIVEN
		comparator := ThenComparing(
			Comparing(func(p pair) string { return p.unit }),
			Comparing(func(p pair) int { return p.line }),
		)

		// WHEN / THEN
		assert.Equal(t, Less, comparator(pair{"a", 10}, pair{"b", 1}))
		assert.Equal(t, Less, comparator(pair{"a", 1}, pair{"a", 10}))
		assert.Equal(t, Equal, comparator(pair{"a", 1}, pair{"a", 1}))
	})
}

func TestAllTriConsumer(t *testing.T) {
	t.Run("it should call every consumer in order", func(t *testing.T) {
		// GIVEN
		var calls []string
		first := func(a string, b int, c bool) { calls = append(calls, "first:"+a) }
		second := func(a string, b int, c bool) { calls = append(calls, "second:"+a) }

		// WHEN
		AllTriConsumer[string, int, bool](first, second)("x", 1, true)

		// THEN
		assert.Equal(t, []string{"first:x", "second:x"}, calls)
	})
}
