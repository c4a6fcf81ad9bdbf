// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"fmt"

	"github.com/google/uuid"
)

// VertexIndex is a stable integer identity for a vertex within one Graph
// instance. Indexes are never reused once assigned, except the index of a
// vertex rolled back by a failed InsertPatterns call, which the next new
// vertex receives.
type VertexIndex int

// PatternId identifies one pattern among a vertex's alternative
// decompositions. A fresh id is generated whenever a pattern is created.
type PatternId = uuid.UUID

// Child is a compact, pass-by-value handle to a vertex. Width is denormalized
// so callers can reason about arithmetic and ordering without dereferencing
// the vertex it names.
type Child struct {
	Index VertexIndex
	Width int
}

func (c Child) String() string {
	return fmt.Sprintf("#%d(w=%d)", c.Index, c.Width)
}

// Pattern is an ordered list of children decomposing a vertex. A well-formed
// pattern has at least two children and its children's widths sum to its
// owning vertex's width (spec invariants P1/P2).
type Pattern []Child

// Width sums the widths of every child in the pattern.
func (p Pattern) Width() int {
	w := 0
	for _, c := range p {
		w += c.Width
	}
	return w
}

// ChildPatterns maps a PatternId to one alternative decomposition. The
// insertion order of keys carries no meaning on its own; a Vertex separately
// tracks PatternOrder for anything that must iterate deterministically (the
// first-inserted pattern, used e.g. by leavesOf, LeafCount and computeCut
// as the vertex's representative decomposition).
type ChildPatterns map[PatternId]Pattern

// SubIndex is a position within one pattern.
type SubIndex = int

// SubLocation identifies a position within one pattern.
type SubLocation struct {
	Pattern PatternId
	Sub     SubIndex
}

// PatternLocation identifies one pattern of one parent vertex.
type PatternLocation struct {
	Parent  Child
	Pattern PatternId
}

// ChildLocation identifies a single child slot: a pattern plus a position
// within it.
type ChildLocation struct {
	PatternLocation
	Sub SubIndex
}

// Parent is a back-reference stored on a child vertex, recording every
// location at which that child appears within one parent vertex's patterns.
type Parent struct {
	Index     VertexIndex
	Locations []SubLocation
}

func (p *Parent) addLocation(loc SubLocation) {
	for _, l := range p.Locations {
		if l == loc {
			return
		}
	}
	p.Locations = append(p.Locations, loc)
}

func (p *Parent) removeLocation(loc SubLocation) bool {
	for i, l := range p.Locations {
		if l == loc {
			p.Locations = append(p.Locations[:i], p.Locations[i+1:]...)
			return true
		}
	}
	return false
}

// vertexKey distinguishes interned leaf tokens from vertices synthesized by
// the split/join engine, which carry no token of their own.
type vertexKey[T comparable] struct {
	token   T
	isToken bool
}

// Vertex is one node of the hypergraph: a span of tokens of a given Width,
// represented either as an interned leaf token (Children empty) or as a set
// of alternative decompositions into smaller children.
type Vertex[T comparable] struct {
	Index VertexIndex
	Width int

	key      vertexKey[T]
	Children ChildPatterns
	// PatternOrder records pattern ids in insertion order; ChildPatterns
	// itself is a map and Go map iteration order is randomized, but several
	// operations (picking the first-created pattern as the representative
	// one, enumerating decompositions for callers) need a stable order.
	PatternOrder []PatternId

	Parents map[VertexIndex]*Parent

	leafCount int // -1 until computed; invalidated on pattern mutation.
}

func newLeafVertex[T comparable](idx VertexIndex, tok T) *Vertex[T] {
	return &Vertex[T]{
		Index:     idx,
		Width:     1,
		key:       vertexKey[T]{token: tok, isToken: true},
		Parents:   map[VertexIndex]*Parent{},
		leafCount: 1,
	}
}

func newInnerVertex[T comparable](idx VertexIndex, width int) *Vertex[T] {
	return &Vertex[T]{
		Index:     idx,
		Width:     width,
		Children:  ChildPatterns{},
		Parents:   map[VertexIndex]*Parent{},
		leafCount: -1,
	}
}

// IsLeaf reports whether v is an interned token with no decomposition.
func (v *Vertex[T]) IsLeaf() bool { return len(v.Children) == 0 }

// Token returns the interned token for a leaf vertex.
func (v *Vertex[T]) Token() (t T, ok bool) {
	if !v.key.isToken {
		return t, false
	}
	return v.key.token, true
}

// Child returns the (index, width) handle for this vertex.
func (v *Vertex[T]) Child() Child { return Child{Index: v.Index, Width: v.Width} }

func (v *Vertex[T]) addPatternLocked(pid PatternId, p Pattern) {
	v.Children[pid] = p
	v.PatternOrder = append(v.PatternOrder, pid)
	v.leafCount = -1
}

func (v *Vertex[T]) removePatternLocked(pid PatternId) {
	delete(v.Children, pid)
	for i, id := range v.PatternOrder {
		if id == pid {
			v.PatternOrder = append(v.PatternOrder[:i], v.PatternOrder[i+1:]...)
			break
		}
	}
	v.leafCount = -1
}
