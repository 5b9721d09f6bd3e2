package types

import (
	"iter"
	"maps"
	"slices"
)

// Set is a generic hash set for comparable types.
//
// It is backed by a map[T]struct{} and is mutable: Add and Delete modify
// the set in place. The zero value is a nil set, which supports reads but
// panics on Add.
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set holding the provided elements.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	for _, d := range data {
		set[d] = struct{}{}
	}

	return set
}

// Add inserts one or more elements into the set.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Delete removes one or more elements from the set.
func (s Set[T]) Delete(values ...T) {
	for _, val := range values {
		delete(s, val)
	}
}

// Has reports whether val is a member of the set.
func (s Set[T]) Has(val T) bool {
	_, ok := s[val]
	return ok
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

// Clone returns a shallow copy of the set. Cloning a nil set yields an
// empty, writable set.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	maps.Copy(out, s)
	return out
}

// ToIter returns an iterator over all elements in the set, in no
// particular order.
func (s Set[T]) ToIter() iter.Seq[T] {
	return maps.Keys(s)
}

// ToSlice returns the elements of the set in no particular order.
func (s Set[T]) ToSlice() []T {
	return slices.Collect(s.ToIter())
}

// Sorted returns the elements of the set ordered by cmp.
//
// Callers that need deterministic output (event ordering, persistence)
// should use Sorted instead of ToSlice.
func (s Set[T]) Sorted(cmp func(a, b T) int) []T {
	out := s.ToSlice()
	slices.SortFunc(out, cmp)
	return out
}
