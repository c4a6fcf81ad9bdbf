// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import "context"

// InsertSequence interns tokens as needed and ensures the graph contains a
// vertex whose leaf sequence is exactly tokens, reusing and extending
// existing structure wherever fold finds an overlap rather than building a
// disjoint copy. It is the single entry point that wires fold, split
// (computeCut) and join together (spec §4.6); it does not call Partition.
//
// Returns ErrEmptyPattern for an empty sequence. A caller that wants the
// fold's partial-match context even on failure should type-assert the
// returned error to *ErrorState[T].
func (g *Graph[T]) InsertSequence(ctx context.Context, tokens []T) (child Child, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer recoverInvariant(&err)

	return g.insertSequenceLocked(ctx, tokens, newSplitCache())
}

func (g *Graph[T]) insertSequenceLocked(ctx context.Context, tokens []T, cache *splitCache) (Child, error) {
	select {
	case <-ctx.Done():
		return Child{}, ctx.Err()
	default:
	}

	if len(tokens) == 0 {
		return Child{}, ErrEmptyPattern
	}

	// Ensure every token is interned before folding, so fold's first
	// lookup always succeeds and any ErrNoMatch it still returns means
	// "no existing structure overlaps this sequence at all", not "token
	// never seen".
	for _, tok := range tokens {
		g.insertTokenLocked(tok)
	}

	if len(tokens) == 1 {
		return g.insertTokenLocked(tokens[0]), nil
	}

	result, err := g.foldLocked(ctx, tokens, PolicyAncestor)
	if err != nil {
		if err == ErrNoMatch {
			return g.buildFreshLocked(tokens)
		}
		return Child{}, &ErrorState[T]{Reason: err}
	}

	end := result.End
	rootLoc := end.Path.RootChildLocation()
	leafLoc := end.Path.LeafChildLocation()
	rootVertex := g.vertexLocked(rootLoc.Parent.Index)
	pat := rootVertex.Children[rootLoc.Pattern]

	matchedBefore := append(Pattern(nil), pat[end.SubStart:leafLoc.Sub]...)

	var matchedSpan Pattern
	var afterTail []Child
	if end.LeafFull {
		matchedSpan = append(append(Pattern(nil), matchedBefore...), pat[leafLoc.Sub])
	} else {
		leafChild := pat[leafLoc.Sub]
		cut, cerr := g.computeCut(leafChild.Index, end.Offset, cache)
		if cerr != nil {
			return Child{}, &ErrorState[T]{Reason: cerr, Partial: result}
		}
		matchedSpan = append(append(Pattern(nil), matchedBefore...), cut.Left...)
		afterTail = cut.Right
	}

	// The matched span exactly reproduces the root vertex's own complete
	// pattern (start to end, nothing cut off either side): reuse it
	// instead of joining a duplicate vertex for content that already has
	// a canonical representation (spec invariant P5, idempotent insert).
	// This check is independent of whether the whole query was consumed
	// — a query that exactly reproduces an existing vertex and then keeps
	// going must still dedup the reproduced span before appending the
	// remainder.
	var matchedVertex Child
	reproducesRoot := end.SubStart == 0 && len(afterTail) == 0 && len(pat) == leafLoc.Sub+1
	if reproducesRoot {
		matchedVertex = rootVertex.Child()
	} else {
		var jerr error
		matchedVertex, jerr = g.joinSliceLocked(matchedSpan)
		if jerr != nil {
			return Child{}, &ErrorState[T]{Reason: jerr, Partial: result}
		}
	}

	if end.Pos == len(tokens) {
		if reproducesRoot {
			// Nothing to build or splice at all: the existing vertex
			// already is the answer.
			return matchedVertex, nil
		}
		// The whole query was matched, but as a strict sub-span of the
		// root vertex's pattern: splice a new decomposition into it.
		before := append(Pattern(nil), pat[:end.SubStart]...)
		after := append(Pattern(nil), afterTail...)
		after = append(after, pat[leafLoc.Sub+1:]...)
		newPattern := append(before, matchedVertex)
		newPattern = append(newPattern, after...)
		if _, err := g.addPatternToVertexLocked(rootVertex.Index, newPattern); err != nil {
			return Child{}, &ErrorState[T]{Reason: err, Partial: result}
		}
		return matchedVertex, nil
	}

	// The query runs past everything that currently exists: matchedVertex
	// covers tokens[:end.Pos], so build (or fold, recursively) the rest
	// and join the two halves into a brand-new top-level vertex, without
	// splicing the new vertex back into any existing pattern.
	remainderChild, err := g.insertSequenceLocked(ctx, tokens[end.Pos:], cache)
	if err != nil {
		return Child{}, err
	}
	top, err := g.joinSliceLocked(Pattern{matchedVertex, remainderChild})
	if err != nil {
		return Child{}, &ErrorState[T]{Reason: err, Partial: result}
	}
	return top, nil
}

// buildFreshLocked handles a query whose first token has never been part of
// any existing pattern: there is nothing to fold against, so the whole
// sequence becomes one brand-new vertex.
func (g *Graph[T]) buildFreshLocked(tokens []T) (Child, error) {
	pat := make(Pattern, 0, len(tokens))
	for _, tok := range tokens {
		pat = append(pat, g.insertTokenLocked(tok))
	}
	return g.joinSliceLocked(pat)
}

// InsertOrGetComplete behaves like InsertSequence, but for a query that
// already resolves to an existing vertex's exact span (EndComplete, or the
// single-token SingleIndexError case) it returns that vertex without
// allocating, making it safe to call repeatedly for idempotent re-insertion
// (spec invariant P5).
func (g *Graph[T]) InsertOrGetComplete(ctx context.Context, tokens []T) (child Child, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer recoverInvariant(&err)

	if len(tokens) == 0 {
		return Child{}, ErrEmptyPattern
	}
	if len(tokens) == 1 {
		return g.insertTokenLocked(tokens[0]), nil
	}

	result, ferr := g.foldLocked(ctx, tokens, PolicyAncestor)
	if ferr == nil && result.End.Kind == EndComplete {
		root := result.End.Path.RootChildLocation()
		return root.Parent, nil
	}
	if se, ok := ferr.(*SingleIndexError); ok {
		return se.Child, nil
	}

	return g.insertSequenceLocked(ctx, tokens, newSplitCache())
}
