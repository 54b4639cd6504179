package collections

import (
	"cmp"
	"fmt"
	"slices"
)

// Set is a generic set data structure using a map with zero-size values
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set with the given initial values
func NewSet[T comparable](vs ...T) Set[T] {
	s := Set[T]{}
	s.Add(vs...)
	return s
}

// Add adds one or more values to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has checks if the set contains the given value
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// HasAll reports whether every given value is in the set.
// An empty argument list is trivially contained.
func (s Set[T]) HasAll(vs ...T) bool {
	for _, v := range vs {
		if !s.Has(v) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the values is in the set
func (s Set[T]) HasAny(vs ...T) bool {
	for _, v := range vs {
		if s.Has(v) {
			return true
		}
	}
	return false
}

// Members returns all values in the set as a slice
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	return r
}

// Clone returns a shallow copy of the set
func (s Set[T]) Clone() Set[T] {
	r := make(Set[T], len(s))
	for v := range s {
		r[v] = struct{}{}
	}
	return r
}

// Union returns a new set holding the members of s and o
func (s Set[T]) Union(o Set[T]) Set[T] {
	r := s.Clone()
	for v := range o {
		r[v] = struct{}{}
	}
	return r
}

// Difference returns a new set holding the members of s that are not in o
func (s Set[T]) Difference(o Set[T]) Set[T] {
	r := Set[T]{}
	for v := range s {
		if !o.Has(v) {
			r[v] = struct{}{}
		}
	}
	return r
}

// Intersect returns a new set holding the members present in both s and o
func (s Set[T]) Intersect(o Set[T]) Set[T] {
	r := Set[T]{}
	for v := range s {
		if o.Has(v) {
			r[v] = struct{}{}
		}
	}
	return r
}

// String returns a string representation of the set
func (s Set[T]) String() string {
	return fmt.Sprintf("%v", s.Members())
}

// Sorted returns the members of an ordered set in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	r := s.Members()
	slices.Sort(r)
	return r
}
