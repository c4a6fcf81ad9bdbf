// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"context"

	"github.com/patterngraph/hgraph/internal/idxset"
)

// Policy selects how far the fold engine climbs past a query's first
// matched vertex while looking for the longest existing structure that
// covers the query.
type Policy int

const (
	// PolicyAncestor climbs through every transitive parent of the first
	// matched token, extending the match as far as the query allows. This
	// is the policy InsertSequence uses.
	PolicyAncestor Policy = iota
	// PolicyParent only considers the first matched token's immediate
	// parents, without climbing further. Useful for callers that only
	// want to know the smallest containing vertex.
	PolicyParent
)

// EndKind classifies why a fold stopped.
type EndKind int

const (
	// EndComplete means the query matched a vertex's full width exactly,
	// from that vertex's own pattern start to its own pattern end.
	EndComplete EndKind = iota
	// EndPrefix means the query was fully consumed, ending exactly on a
	// child boundary, but short of the root pattern's end. This calls for
	// splicing a new pattern into the root vertex (AddPatternToVertex)
	// rather than reusing an existing one.
	EndPrefix
	// EndPostfix means the match started part-way through a pattern
	// (sub-index greater than zero) and ran cleanly to that pattern's own
	// end while the query was exhausted at exactly that boundary.
	EndPostfix
	// EndRange means the fold did not end on a child boundary at the end of
	// the query: either a token mismatch was found inside some child, or
	// the query ran out partway through a child wider than what remained
	// of it, or no further structure existed to climb into. The caller
	// must split the leaf child and insert any remainder.
	EndRange
)

func (k EndKind) String() string {
	switch k {
	case EndComplete:
		return "complete"
	case EndPrefix:
		return "prefix"
	case EndPostfix:
		return "postfix"
	case EndRange:
		return "range"
	default:
		return "unknown"
	}
}

// EndState describes where a fold stopped.
type EndState[T comparable] struct {
	Kind EndKind

	// Path runs from the matched root's RootChildLocation down to the
	// last child location the fold entered.
	Path *Path[T]

	// Pos is the number of query tokens matched in total.
	Pos int

	// Offset is, for EndRange only, how many tokens of Path's leaf child
	// were matched before the fold gave up. When LeafFull is true this
	// equals the leaf child's full width (it was entirely consumed, the
	// fold simply had nowhere further to go); when LeafFull is false it
	// is at least 0 and less than the leaf child's width (0 when the
	// child's first token already disagreed) and names the position
	// split.go must cut that child at.
	Offset int

	// LeafFull reports whether Path's leaf child location was itself
	// fully matched. False only for an EndRange produced by a mismatch or
	// overflow partway through the leaf child.
	LeafFull bool

	// Mismatch is true when EndRange was caused by a token disagreement
	// rather than simply running out of query or of graph structure.
	Mismatch bool

	// SubStart is the sub-index within the root pattern (Path's root
	// segment's own PatternLocation) that this match began at. Path's root
	// segment itself cannot carry this: when no ascend occurs, Move steps
	// the path's sole segment in place via ReplaceLeaf, so
	// RootChildLocation() and LeafChildLocation() are the same mutating
	// slot and the original starting sub-index would otherwise be lost.
	SubStart int
}

// FoldResult is everything InsertSequence needs to decide what to build.
type FoldResult[T comparable] struct {
	Query []T
	End   *EndState[T]
}

// Child returns the vertex Find matched, valid only when End.Kind is
// EndComplete. ok is false for any partial outcome (EndPrefix, EndPostfix,
// EndRange); the caller should inspect End.Kind and End.Path instead.
func (r *FoldResult[T]) Child() (Child, bool) {
	if r.End.Kind != EndComplete {
		return Child{}, false
	}
	return r.End.Path.RootChildLocation().Parent, true
}

// Cursor reconstructs the RangePath a caller would have driven manually
// (spec.md §4.2) to arrive at the same end state: a Start path pinned at the
// matched root's pattern slot where the match began (End.SubStart), an End
// path equal to End.Path, and Pos equal to the number of query tokens
// consumed.
func (r *FoldResult[T]) Cursor() *Cursor[T] {
	root := r.End.Path.RootChildLocation()
	start := NewPath[T](RoleStart, ChildLocation{PatternLocation: root.PatternLocation, Sub: r.End.SubStart})
	return &Cursor[T]{
		Range: RangePath[T]{Start: start, End: r.End.Path},
		Pos:   r.End.Pos,
	}
}

type traceCache[T comparable] struct {
	leaves map[VertexIndex][]T
}

func newTraceCache[T comparable]() *traceCache[T] {
	return &traceCache[T]{leaves: map[VertexIndex][]T{}}
}

// leavesOf returns the flattened token sequence for the vertex at idx,
// memoized for the lifetime of one fold or Leaves call. This is a reference
// engine's deliberate simplification of spec §4.3's incremental child-by-
// child matcher: correctness over asymptotic optimality.
//
// Reading only PatternOrder[0] here, unlike computeCut's augmented scan
// over every decomposition, is not a second instance of the same
// limitation: every decomposition of a vertex is required to flatten to
// the same leaf sequence (two decompositions disagreeing on content would
// mean the graph no longer has a well-defined leaf sequence for that
// vertex at all), so any one pattern suffices and picking PatternOrder[0]
// costs nothing.
func (g *Graph[T]) leavesOf(idx VertexIndex, cache *traceCache[T]) []T {
	if cached, ok := cache.leaves[idx]; ok {
		return cached
	}
	v := g.vertexLocked(idx)
	if tok, ok := v.Token(); ok {
		out := []T{tok}
		cache.leaves[idx] = out
		return out
	}
	pid := v.PatternOrder[0]
	pat := v.Children[pid]
	out := make([]T, 0, v.Width)
	for _, c := range pat {
		out = append(out, g.leavesOf(c.Index, cache)...)
	}
	cache.leaves[idx] = out
	return out
}

// matchChild compares query[pos:] against the flattened contents of child,
// reporting how many tokens agreed and whether the whole child was
// consumed (full==true) as opposed to stopping on a mismatch or running
// out of query.
func (g *Graph[T]) matchChild(child Child, query []T, pos int, cache *traceCache[T]) (matched int, full bool) {
	avail := len(query) - pos
	n := child.Width
	if avail < n {
		n = avail
	}
	leaves := g.leavesOf(child.Index, cache)
	for i := 0; i < n; i++ {
		if leaves[i] != query[pos+i] {
			return i, false
		}
	}
	return n, n == child.Width
}

// newPathFromPool returns a pooled, single-segment Path rooted at root.
func (g *Graph[T]) newPathFromPool(role Role, root ChildLocation) *Path[T] {
	p := g.pool.Get()
	p.role = role
	p.segments = append(p.segments[:0], root)
	return p
}

// clonePathFromPool returns a pooled, independent copy of src.
func (g *Graph[T]) clonePathFromPool(src *Path[T]) *Path[T] {
	p := g.pool.Get()
	p.role = src.role
	p.segments = append(p.segments[:0], src.segments...)
	return p
}

// foldCandidate is one in-flight climb state explored by Fold.
type foldCandidate[T comparable] struct {
	path        *Path[T]
	pos         int
	subStart    int // sub-index the climb chain's current root began matching at
	ascendCount int
	lastPatLen  int // length of the pattern containing the current leaf segment
}

// Fold walks the graph upward from query's first token, extending the match
// rightward through existing patterns for as long as query and graph
// structure agree, and reports where and why it stopped.
func (g *Graph[T]) Fold(ctx context.Context, query []T, policy Policy) (*FoldResult[T], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.foldLocked(ctx, query, policy)
}

func (g *Graph[T]) foldLocked(ctx context.Context, query []T, policy Policy) (*FoldResult[T], error) {
	if len(query) == 0 {
		return nil, ErrEmptyPattern
	}
	idx0, ok := g.lookupToken(query[0])
	if !ok {
		return nil, ErrNoMatch
	}
	if len(query) == 1 {
		return nil, &SingleIndexError{Child: g.vertices[idx0].Child()}
	}

	cache := newTraceCache[T]()
	leaf0 := g.vertices[idx0]

	// visited guards against climbing into the same ancestor more than
	// once: a vertex can reach the same grandparent through several
	// patterns, and without pruning the frontier would re-explore it
	// once per path, growing exponentially with graph depth.
	visited := idxset.New()

	var frontier []*foldCandidate[T]
	for parentIdx, pe := range leaf0.Parents {
		visited.Insert(int(parentIdx))
		for _, loc := range pe.Locations {
			root := ChildLocation{
				PatternLocation: PatternLocation{Parent: Child{Index: parentIdx, Width: g.vertices[parentIdx].Width}, Pattern: loc.Pattern},
				Sub:             loc.Sub,
			}
			frontier = append(frontier, &foldCandidate[T]{
				path:       g.newPathFromPool(RoleEnd, root),
				pos:        0,
				subStart:   loc.Sub,
				lastPatLen: len(g.vertices[parentIdx].Children[loc.Pattern]),
			})
		}
	}

	var best *foldCandidate[T]
	var bestEnd *EndState[T]

	// consider retires a terminal candidate, recycling the loser's (or, on
	// replacement, the previous champion's) Path back into the graph's
	// pool — a fold over a deep or bushy graph can retire many candidates
	// before settling on the longest match.
	//
	// On equal pos an EndComplete end replaces a partial one, so a query
	// that some vertex reproduces exactly resolves to that vertex no matter
	// which candidate reached the same pos first.
	consider := func(c *foldCandidate[T], end *EndState[T]) {
		if best == nil || c.pos > best.pos ||
			(c.pos == best.pos && end.Kind == EndComplete && bestEnd.Kind != EndComplete) {
			if best != nil {
				g.pool.Put(best.path)
			}
			best, bestEnd = c, end
			return
		}
		g.pool.Put(c.path)
	}

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var c *foldCandidate[T]
		if g.opts.Order == OrderDFT {
			c = frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
		} else {
			c = frontier[0]
			frontier = frontier[1:]
		}

		if policy == PolicyParent && c.ascendCount > 0 {
			consider(c, &EndState[T]{Kind: EndRange, Path: c.path, Pos: c.pos, LeafFull: true, SubStart: c.subStart})
			continue
		}

		leaf := c.path.LeafChildLocation()
		child, ok := g.lookupChild(leaf)
		if !ok {
			consider(c, &EndState[T]{Kind: EndRange, Path: c.path, Pos: c.pos, LeafFull: true, SubStart: c.subStart})
			continue
		}

		matched, full := g.matchChild(child, query, c.pos, cache)
		if !full {
			end := &EndState[T]{
				Kind:     EndRange,
				Path:     c.path,
				Pos:      c.pos + matched,
				Offset:   matched,
				LeafFull: false,
				Mismatch: matched < child.Width && c.pos+matched < len(query),
				SubStart: c.subStart,
			}
			consider(c, end)
			continue
		}

		c.pos += matched
		if c.pos == len(query) {
			isLast := leaf.Sub == c.lastPatLen-1
			switch {
			case c.subStart == 0 && isLast:
				consider(c, &EndState[T]{Kind: EndComplete, Path: c.path, Pos: c.pos, LeafFull: true, SubStart: c.subStart})
			case c.subStart > 0 && isLast:
				consider(c, &EndState[T]{Kind: EndPostfix, Path: c.path, Pos: c.pos, LeafFull: true, SubStart: c.subStart})
			default:
				consider(c, &EndState[T]{Kind: EndPrefix, Path: c.path, Pos: c.pos, LeafFull: true, SubStart: c.subStart})
			}
			continue
		}

		next := g.clonePathFromPool(c.path)
		if next.Move(g, DirRight) == MoveContinue {
			newLeaf := next.LeafChildLocation()
			newPatLen := len(g.vertices[newLeaf.Parent.Index].Children[newLeaf.Pattern])
			nc := &foldCandidate[T]{path: next, pos: c.pos, subStart: c.subStart, ascendCount: c.ascendCount, lastPatLen: newPatLen}
			frontier = append(frontier, nc)
			g.pool.Put(c.path)
			continue
		}
		g.pool.Put(next)

		if policy == PolicyParent {
			consider(c, &EndState[T]{Kind: EndRange, Path: c.path, Pos: c.pos, Offset: child.Width, LeafFull: true, SubStart: c.subStart})
			continue
		}

		rootLoc := c.path.RootChildLocation()
		rootVertex := g.vertexLocked(rootLoc.Parent.Index)
		climbed := false
		// Only a root matched from its own first slot is climbed out of:
		// its whole width then lines up with the query's start, so its
		// slot in a grandparent is where the grandparent's match begins.
		for grandIdx, pe := range rootVertex.Parents {
			if c.subStart != 0 {
				break
			}
			if !visited.Insert(int(grandIdx)) {
				continue
			}
			for _, loc := range pe.Locations {
				newRoot := ChildLocation{
					PatternLocation: PatternLocation{Parent: Child{Index: grandIdx, Width: g.vertices[grandIdx].Width}, Pattern: loc.Pattern},
					Sub:             loc.Sub,
				}
				// A fresh single-segment path, not an Ascend-extended
				// clone of c.path, whose leaf is the climbed-from
				// vertex's own slot in the grandparent. pos is rewound
				// to where that vertex began, exactly as though this
				// were a freshly seeded frontier entry one level higher:
				// the next iteration re-matches the climbed-from vertex
				// and then moves on to its right-hand sibling.
				np := g.newPathFromPool(RoleEnd, newRoot)
				frontier = append(frontier, &foldCandidate[T]{
					path:        np,
					pos:         c.pos - rootVertex.Width,
					subStart:    loc.Sub,
					ascendCount: c.ascendCount + 1,
					lastPatLen:  len(g.vertices[grandIdx].Children[loc.Pattern]),
				})
				climbed = true
			}
		}
		if !climbed {
			consider(c, &EndState[T]{Kind: EndRange, Path: c.path, Pos: c.pos, Offset: child.Width, LeafFull: true, SubStart: c.subStart})
		} else {
			g.pool.Put(c.path)
		}
	}

	if bestEnd == nil {
		return nil, ErrNoMatch
	}
	g.opts.Logger.Debug("fold completed", "kind", bestEnd.Kind.String(), "pos", bestEnd.Pos)
	return &FoldResult[T]{Query: query, End: bestEnd}, nil
}
