// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Graph is a hierarchical hypergraph over tokens of type T: every distinct
// token is interned as a leaf Vertex, and every repeated sub-sequence of
// tokens is represented by an inner Vertex holding one or more alternative
// Patterns that decompose it into smaller children.
//
// A *Graph is safe for concurrent use. Reads (Find) take the read lock;
// mutations (InsertSequence and friends) take the write lock for their
// entire duration, so every exported method observes and leaves the graph
// in a state satisfying invariants P1-P5.
type Graph[T comparable] struct {
	mu sync.RWMutex

	vertices []*Vertex[T]
	tokens   map[T]VertexIndex

	opts Options
	pool *pathPool[T]
}

// New constructs an empty Graph.
func New[T comparable](opts ...GraphOption) *Graph[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Graph[T]{
		tokens: map[T]VertexIndex{},
		opts:   o,
		pool:   newPathPool[T](),
	}
}

// Len reports the number of vertices (tokens plus inner vertices) in g.
func (g *Graph[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// vertexLocked returns the vertex at idx. Panics with an invariant violation
// if idx is out of range; callers must only pass indexes obtained from this
// Graph.
func (g *Graph[T]) vertexLocked(idx VertexIndex) *Vertex[T] {
	if int(idx) < 0 || int(idx) >= len(g.vertices) {
		panicInvariant("vertexLocked", fmt.Errorf("%w: index %d", ErrInvalidLocation, idx))
	}
	return g.vertices[idx]
}

// ExpectVertex returns the vertex at idx, or ErrInvalidLocation.
func (g *Graph[T]) ExpectVertex(idx VertexIndex) (*Vertex[T], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(idx) < 0 || int(idx) >= len(g.vertices) {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidLocation, idx)
	}
	return g.vertices[idx], nil
}

func (g *Graph[T]) newVertexIndexLocked() VertexIndex {
	idx := VertexIndex(len(g.vertices))
	if g.opts.MaxVertices > 0 && int(idx) >= g.opts.MaxVertices {
		panicInvariant("newVertexIndexLocked", fmt.Errorf("hgraph: max vertices (%d) exceeded", g.opts.MaxVertices))
	}
	return idx
}

// InsertToken interns tok as a leaf vertex, returning its existing Child if
// already present.
func (g *Graph[T]) InsertToken(tok T) Child {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.insertTokenLocked(tok)
}

func (g *Graph[T]) insertTokenLocked(tok T) Child {
	if idx, ok := g.tokens[tok]; ok {
		return g.vertices[idx].Child()
	}
	idx := g.newVertexIndexLocked()
	v := newLeafVertex(idx, tok)
	g.vertices = append(g.vertices, v)
	g.tokens[tok] = idx
	g.opts.Logger.Debug("interned token", "index", idx)
	return v.Child()
}

// InsertPattern creates a brand-new vertex decomposed by exactly pat, with no
// splice into any existing vertex's patterns. Returns ErrInvalidPattern if
// pat has fewer than two children. The new vertex's width is the sum of
// pat's child widths, so a single pattern can never mismatch it.
func (g *Graph[T]) InsertPattern(pat Pattern) (Child, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.insertPatternLocked(pat)
}

func (g *Graph[T]) insertPatternLocked(pat Pattern) (Child, error) {
	if len(pat) < 2 {
		return Child{}, ErrInvalidPattern
	}
	width := pat.Width()
	idx := g.newVertexIndexLocked()
	v := newInnerVertex[T](idx, width)
	pid := uuid.New()
	v.addPatternLocked(pid, append(Pattern(nil), pat...))
	g.vertices = append(g.vertices, v)
	g.linkParentLocked(idx, pid, pat)
	g.opts.Logger.Debug("created vertex", "index", idx, "width", width, "arity", len(pat))
	return v.Child(), nil
}

// InsertPatterns creates a brand-new vertex with every pattern in pats as an
// alternative decomposition. All patterns must sum to the same width.
func (g *Graph[T]) InsertPatterns(pats []Pattern) (Child, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(pats) == 0 {
		return Child{}, ErrInvalidPattern
	}
	first, err := g.insertPatternLocked(pats[0])
	if err != nil {
		return Child{}, err
	}
	for _, pat := range pats[1:] {
		if pat.Width() != first.Width {
			g.removeLastVertexLocked()
			return Child{}, ErrWidthMismatch
		}
		if _, err := g.addPatternToVertexLocked(first.Index, pat); err != nil {
			g.removeLastVertexLocked()
			return Child{}, err
		}
	}
	return first, nil
}

// removeLastVertexLocked undoes the most recent append; used only to roll
// back a multi-pattern insert that failed on its second or later pattern,
// before any other mutation could observe the half-built vertex.
func (g *Graph[T]) removeLastVertexLocked() {
	n := len(g.vertices) - 1
	v := g.vertices[n]
	for _, pid := range v.PatternOrder {
		g.unlinkParentLocked(v.Index, pid, v.Children[pid])
	}
	g.vertices = g.vertices[:n]
	if v.key.isToken {
		delete(g.tokens, v.key.token)
	}
}

// AddPatternToVertex adds pat as a new alternative decomposition of the
// vertex at idx. Used by the insert driver to splice a refinement into an
// existing vertex (spec §8 scenario "xyz"+"xy") rather than creating a new,
// disconnected vertex for the shared prefix.
func (g *Graph[T]) AddPatternToVertex(idx VertexIndex, pat Pattern) (PatternId, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addPatternToVertexLocked(idx, pat)
}

func (g *Graph[T]) addPatternToVertexLocked(idx VertexIndex, pat Pattern) (PatternId, error) {
	if len(pat) < 2 {
		return PatternId{}, ErrInvalidPattern
	}
	v := g.vertexLocked(idx)
	if pat.Width() != v.Width {
		return PatternId{}, ErrWidthMismatch
	}
	pid := uuid.New()
	v.addPatternLocked(pid, append(Pattern(nil), pat...))
	g.linkParentLocked(idx, pid, pat)
	g.opts.Logger.Debug("spliced pattern", "index", idx, "pattern", pid)
	return pid, nil
}

func (g *Graph[T]) linkParentLocked(parent VertexIndex, pid PatternId, pat Pattern) {
	for sub, child := range pat {
		cv := g.vertexLocked(child.Index)
		pe, ok := cv.Parents[parent]
		if !ok {
			pe = &Parent{Index: parent}
			cv.Parents[parent] = pe
		}
		pe.addLocation(SubLocation{Pattern: pid, Sub: sub})
	}
}

func (g *Graph[T]) unlinkParentLocked(parent VertexIndex, pid PatternId, pat Pattern) {
	for sub, child := range pat {
		cv := g.vertexLocked(child.Index)
		if pe, ok := cv.Parents[parent]; ok {
			pe.removeLocation(SubLocation{Pattern: pid, Sub: sub})
			if len(pe.Locations) == 0 {
				delete(cv.Parents, parent)
			}
		}
	}
}

// ReplaceInPattern replaces the half-open sub-index range [from, to) of the
// named pattern with replacement, re-linking parent back-references for the
// removed and the newly inserted children and for every later child whose
// sub-index shifts. Returns ErrInvalidPatternRange
// if the range is empty, out of bounds, or would leave the pattern with
// arity below two, and ErrWidthMismatch if the replacement does not preserve
// the pattern's total width.
func (g *Graph[T]) ReplaceInPattern(loc PatternLocation, from, to int, replacement Pattern) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replaceInPatternLocked(loc, from, to, replacement)
}

func (g *Graph[T]) replaceInPatternLocked(loc PatternLocation, from, to int, replacement Pattern) error {
	v := g.vertexLocked(loc.Parent.Index)
	pat, ok := v.Children[loc.Pattern]
	if !ok {
		return ErrInvalidLocation
	}
	if from < 0 || to > len(pat) || from >= to {
		return ErrInvalidPatternRange
	}
	if len(pat)-(to-from)+len(replacement) < 2 {
		return ErrInvalidPatternRange
	}
	removedWidth := Pattern(pat[from:to]).Width()
	if removedWidth != replacement.Width() {
		return ErrWidthMismatch
	}

	// link/unlinkParentLocked number sub-indexes from the start of the
	// pattern they are given, so the whole old pattern is unlinked and the
	// whole new one linked.
	g.unlinkParentLocked(loc.Parent.Index, loc.Pattern, pat)

	next := make(Pattern, 0, len(pat)-(to-from)+len(replacement))
	next = append(next, pat[:from]...)
	next = append(next, replacement...)
	next = append(next, pat[to:]...)
	v.Children[loc.Pattern] = next

	g.linkParentLocked(loc.Parent.Index, loc.Pattern, next)
	g.opts.Logger.Debug("replaced pattern range", "index", loc.Parent.Index, "pattern", loc.Pattern, "from", from, "to", to)
	return nil
}

// ExpectChildAt resolves a ChildLocation to the Child it names.
func (g *Graph[T]) ExpectChildAt(loc ChildLocation) (Child, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.lookupChild(loc)
	if !ok {
		return Child{}, ErrInvalidLocation
	}
	return c, nil
}

// ExpectPatternAt resolves a PatternLocation to the Pattern it names.
func (g *Graph[T]) ExpectPatternAt(loc PatternLocation) (Pattern, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.lookupPattern(loc)
	if !ok {
		return nil, ErrInvalidLocation
	}
	return p, nil
}

// lookupPattern implements patternLookup for Path.Move.
func (g *Graph[T]) lookupPattern(loc PatternLocation) (Pattern, bool) {
	if int(loc.Parent.Index) < 0 || int(loc.Parent.Index) >= len(g.vertices) {
		return nil, false
	}
	p, ok := g.vertices[loc.Parent.Index].Children[loc.Pattern]
	return p, ok
}

func (g *Graph[T]) lookupChild(loc ChildLocation) (Child, bool) {
	pat, ok := g.lookupPattern(loc.PatternLocation)
	if !ok || loc.Sub < 0 || loc.Sub >= len(pat) {
		return Child{}, false
	}
	return pat[loc.Sub], true
}

// lookupToken returns the interned vertex index for tok, if any.
func (g *Graph[T]) lookupToken(tok T) (VertexIndex, bool) {
	idx, ok := g.tokens[tok]
	return idx, ok
}
