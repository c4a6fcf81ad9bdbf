// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"context"
	"sort"
)

// Find resolves query against existing structure without mutating the
// graph. The result's End.Kind reports what happened: EndComplete means
// query matched some vertex's full width exactly, from that vertex's own
// pattern start to its own pattern end (use the result's Child method to
// get it); EndPrefix, EndPostfix and EndRange report a successful but
// partial overlap — a query that only partially traverses existing
// structure is a normal outcome of Find, not a failure, so it is returned
// alongside a nil error rather than as ErrNoMatch.
//
// Find still returns ErrNoMatch if query's first token has never been
// interned, or no ancestor of it overlaps the query at all. A single-token
// query returns *SingleIndexError carrying the already-interned vertex:
// there is nothing to traverse (spec.md §8's boundary behavior). Any
// invariant panic reachable from the fold (e.g. a corrupted index) is
// recovered here as an *InvariantError, matching InsertSequence.
func (g *Graph[T]) Find(ctx context.Context, query []T) (result *FoldResult[T], err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	defer recoverInvariant(&err)

	return g.foldLocked(ctx, query, PolicyAncestor)
}

// Parents returns every vertex that directly contains c as a child of one of
// its patterns, in no particular order.
func (g *Graph[T]) Parents(c Child) []Child {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parentsLocked(c)
}

func (g *Graph[T]) parentsLocked(c Child) []Child {
	v := g.vertexLocked(c.Index)
	out := make([]Child, 0, len(v.Parents))
	for idx := range v.Parents {
		out = append(out, g.vertices[idx].Child())
	}
	return out
}

// ParentsByWidthDesc returns c's direct parents ordered by width, widest
// first. The fold engine does not use this ordering: it walks a vertex's
// parents in map iteration order.
func (g *Graph[T]) ParentsByWidthDesc(c Child) []Child {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := g.parentsLocked(c)
	sort.Slice(out, func(i, j int) bool { return out[i].Width > out[j].Width })
	return out
}

// Decompositions returns every alternative pattern of the vertex named by c,
// in the order they were created.
func (g *Graph[T]) Decompositions(c Child) []Pattern {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v := g.vertexLocked(c.Index)
	out := make([]Pattern, 0, len(v.PatternOrder))
	for _, pid := range v.PatternOrder {
		out = append(out, append(Pattern(nil), v.Children[pid]...))
	}
	return out
}

// Leaves descends c's first pattern (or returns its own token, if c is a
// leaf) all the way down to interned tokens and returns them in order. It
// implements the R2 round-trip property from spec.md §8 as a first-class
// read API.
func (g *Graph[T]) Leaves(c Child) ([]T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if int(c.Index) < 0 || int(c.Index) >= len(g.vertices) {
		return nil, ErrInvalidLocation
	}
	cache := newTraceCache[T]()
	return append([]T(nil), g.leavesOf(c.Index, cache)...), nil
}

// LeafCount reports the total number of leaf tokens spanned by c's first
// pattern (1 for a leaf vertex itself). The count is cached on the vertex
// and invalidated whenever a pattern is added to or removed from it. Because
// filling that cache writes to the vertex, LeafCount takes the write lock.
func (g *Graph[T]) LeafCount(c Child) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.leafCountLocked(c.Index)
}

func (g *Graph[T]) leafCountLocked(idx VertexIndex) int {
	v := g.vertexLocked(idx)
	if v.leafCount >= 0 {
		return v.leafCount
	}
	pid := v.PatternOrder[0]
	total := 0
	for _, c := range v.Children[pid] {
		total += g.leafCountLocked(c.Index)
	}
	v.leafCount = total
	return total
}
