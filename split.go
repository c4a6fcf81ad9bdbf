// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import "fmt"

// splitCache memoizes computeCut results for the lifetime of a single
// insert, keyed by (vertex, offset) so a repeated interior cut along the
// same chain is computed once.
type splitCache struct {
	cuts map[splitCacheKey]cutResult
}

type splitCacheKey struct {
	idx    VertexIndex
	offset int
}

func newSplitCache() *splitCache {
	return &splitCache{cuts: map[splitCacheKey]cutResult{}}
}

// cutResult is a vertex's representative pattern divided at one interior
// offset: Left covers [0, offset), Right covers [offset, width).
//
// Clean reports whether the cut landed on an existing pattern boundary
// (spec.md §4.5's "perfect" border) rather than falling mid-child and
// requiring recursion: a clean cut's Left/Right children are exactly the
// children of some decomposition, split at a slot boundary, with nothing
// newly divided.
type cutResult struct {
	Left  []Child
	Right []Child
	Clean bool
}

// computeCut recursively divides the vertex at idx into the children
// spanning [0, offset) and [offset, width), descending into whichever
// child straddles the offset so that every returned Child is either an
// original, unmodified child of some pattern or a pre-existing vertex —
// computeCut itself never creates a vertex; that is join's job.
//
// offset must satisfy 0 <= offset <= the vertex's width. offset == 0 or
// offset == width are the trivial, already-aligned cases.
func (g *Graph[T]) computeCut(idx VertexIndex, offset int, cache *splitCache) (cutResult, error) {
	v := g.vertexLocked(idx)
	if offset < 0 || offset > v.Width {
		return cutResult{}, fmt.Errorf("%w: offset %d outside width %d", ErrInvalidPatternRange, offset, v.Width)
	}
	if offset == 0 {
		return cutResult{Right: []Child{v.Child()}, Clean: true}, nil
	}
	if offset == v.Width {
		return cutResult{Left: []Child{v.Child()}, Clean: true}, nil
	}
	key := splitCacheKey{idx: idx, offset: offset}
	if cached, ok := cache.cuts[key]; ok {
		return cached, nil
	}
	if v.IsLeaf() {
		panicInvariant("computeCut", fmt.Errorf("hgraph: interior offset %d inside leaf vertex %d", offset, idx))
	}

	// Augmentation (spec.md §4.4 step 3): a cut that falls mid-child in v's
	// first-created pattern may still land on a clean boundary in one of
	// v's *other* decompositions, acquired later via AddPatternToVertex.
	// Preferring any such boundary avoids descending into (and therefore
	// ever needing to synthesize a vertex for) a child that a sibling
	// decomposition already carves along exactly this line.
	for _, pid := range v.PatternOrder {
		if left, right, ok := splitAtBoundary(v.Children[pid], offset); ok {
			res := cutResult{Left: left, Right: right, Clean: true}
			cache.cuts[key] = res
			return res, nil
		}
	}

	pid := v.PatternOrder[0]
	pat := v.Children[pid]

	res, err := g.cutPattern(pat, offset, cache)
	if err != nil {
		return cutResult{}, err
	}
	cache.cuts[key] = res
	return res, nil
}

// splitAtBoundary reports whether pat has a child boundary exactly at
// offset (0 < offset < pat.Width()), returning copies of the children
// before and after it when it does.
func splitAtBoundary(pat Pattern, offset int) (left, right []Child, ok bool) {
	pos := 0
	for i, c := range pat {
		if pos == offset {
			return append([]Child(nil), pat[:i]...), append([]Child(nil), pat[i:]...), true
		}
		pos += c.Width
	}
	return nil, nil, false
}

// cutPattern divides an arbitrary, not-necessarily-materialized pattern
// into the children spanning [0, offset) and [offset, width), descending
// into whichever child straddles offset via computeCut. Unlike computeCut,
// it is not itself memoized, since Partition's callers only ever invoke it
// once per offset against a freshly sliced remainder.
//
// The result's Clean is true only when offset already lands on a boundary
// of pat itself; a cut that had to descend into a child is never clean at
// this level, regardless of whether the descent itself resolved cleanly.
// The one exception is a single-element pat (Partition's initial call,
// wrapping a whole vertex with no pattern boundaries of its own to speak
// of): there the cut's cleanliness is exactly the wrapped vertex's own, so
// it is delegated to computeCut directly rather than synthesized here.
func (g *Graph[T]) cutPattern(pat []Child, offset int, cache *splitCache) (cutResult, error) {
	if len(pat) == 1 {
		return g.computeCut(pat[0].Index, offset, cache)
	}
	var left, right []Child
	pos := 0
	for i, c := range pat {
		if pos == offset {
			return cutResult{Left: left, Right: append([]Child(nil), pat[i:]...), Clean: true}, nil
		}
		if pos+c.Width <= offset {
			left = append(left, c)
			pos += c.Width
			continue
		}
		sub, err := g.computeCut(c.Index, offset-pos, cache)
		if err != nil {
			return cutResult{}, err
		}
		left = append(left, sub.Left...)
		right = append(right, sub.Right...)
		right = append(right, pat[i+1:]...)
		return cutResult{Left: left, Right: right}, nil
	}
	return cutResult{Left: left, Right: right, Clean: true}, nil
}
