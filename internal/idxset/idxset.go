// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

// Package idxset provides a growable, bitset-backed set of small
// non-negative integers, used by the fold engine to track which ancestor
// vertices it has already climbed into.
package idxset

import "github.com/bits-and-blooms/bitset"

// Set is a set of non-negative ints backed by a bits-and-blooms/bitset.BitSet.
// The zero value is an empty, ready-to-use set.
type Set struct {
	bits bitset.BitSet
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Insert adds i to the set, returning true if i was not already present.
func (s *Set) Insert(i int) bool {
	if s.bits.Test(uint(i)) {
		return false
	}
	s.bits.Set(uint(i))
	return true
}

// Contains reports whether i is in the set.
func (s *Set) Contains(i int) bool {
	return s.bits.Test(uint(i))
}

// Remove deletes i from the set.
func (s *Set) Remove(i int) {
	s.bits.Clear(uint(i))
}

// Len reports the number of elements currently in the set.
func (s *Set) Len() int {
	return int(s.bits.Count())
}

// Each calls fn for every element in ascending order, stopping early if fn
// returns false.
func (s *Set) Each(fn func(i int) bool) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if !fn(int(i)) {
			return
		}
	}
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	c := &Set{}
	c.bits = *s.bits.Clone()
	return c
}
