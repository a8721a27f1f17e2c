package fn

import "cmp"

// ComparisonResult represents the result of comparing two values.
type ComparisonResult int

const (
	Equal   ComparisonResult = 0
	Less    ComparisonResult = -1
	Greater ComparisonResult = 1
)

// Comparator represents a function that compares two values of type T.
type Comparator[T any] func(i1 T, i2 T) ComparisonResult

// NaturalOrder returns a comparator using the natural ordering of T.
func NaturalOrder[T cmp.Ordered]() Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		return ComparisonResult(cmp.Compare(i1, i2))
	}
}

// ReverseComparator returns a comparator that reverses the order of the given comparator.
func ReverseComparator[T any](comparator Comparator[T]) Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		return comparator(i2, i1)
	}
}

// ThenComparing chains comparators, the next one is only consulted on equality.
func ThenComparing[T any](first Comparator[T], others ...Comparator[T]) Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		if res := first(i1, i2); res != Equal {
			return res
		}
		for _, other := range others {
			if res := other(i1, i2); res != Equal {
				return res
			}
		}
		return Equal
	}
}

// Comparing builds a comparator extracting an ordered sort key.
func Comparing[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		return ComparisonResult(cmp.Compare(key(i1), key(i2)))
	}
}

// BiConsumer represents a function that accepts two input arguments and returns no result.
type BiConsumer[T1 any, T2 any] func(t1 T1, t2 T2)

// AllBiConsumer creates a bi-consumer that will execute all the given bi-consumers.
func AllBiConsumer[A any, B any](consumers ...BiConsumer[A, B]) BiConsumer[A, B] {
	return func(a A, b B) {
		for _, consumer := range consumers {
			consumer(a, b)
		}
	}
}

// TriConsumer represents a function that accepts three input arguments and returns no result.
type TriConsumer[T1 any, T2 any, T3 any] func(t1 T1, t2 T2, t3 T3)

// AllTriConsumer creates a tri-consumer that will execute all the given tri-consumers.
func AllTriConsumer[A any, B any, C any](consumers ...TriConsumer[A, B, C]) TriConsumer[A, B, C] {
	return func(a A, b B, c C) {
		for _, consumer := range consumers {
			consumer(a, b, c)
		}
	}
}
