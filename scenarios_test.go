// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph_test

import (
	"context"
	"testing"

	"github.com/patterngraph/hgraph"
	"github.com/stretchr/testify/require"
)

// TestScenario1SimpleOverlap covers spec.md §8 scenario 1: insert "abc" then
// "bcd". Both become three-width vertices; the shared "bc" span is
// materialized once and reused as "bcd"'s first child. Per SPEC_FULL.md
// §11's Open Question resolution, "bc" is NOT retroactively spliced into
// "abc"'s own pattern set — it remains reachable only through "bcd".
func TestScenario1SimpleOverlap(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	abc, err := g.InsertSequence(ctx, tokens("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, abc.Width)

	bcd, err := g.InsertSequence(ctx, tokens("bcd"))
	require.NoError(t, err)
	require.Equal(t, 3, bcd.Width)

	bcResult, err := g.Find(ctx, tokens("bc"))
	require.NoError(t, err)
	bc, ok := bcResult.Child()
	require.True(t, ok, "bc must resolve to a Complete match")
	require.Equal(t, 2, bc.Width)

	bcdPatterns := g.Decompositions(bcd)
	require.Len(t, bcdPatterns, 1)
	require.Contains(t, bcdPatterns[0], bc, "bc must be a child of bcd")

	for _, pat := range g.Decompositions(abc) {
		require.NotContainsf(t, pat, bc, "bc must not be spliced back into abc per the Open Question resolution")
	}

	checkInvariants(t, g)
}

// TestScenario2NestedRepetition covers spec.md §8 scenario 2. Fold only ever
// matches a query against structure a *prior* insert already built — a
// single-shot InsertSequence on a never-before-seen "ababab" has nothing to
// fold against on its first token and so has no way to discover the interior
// "ab" repetition on its own (see DESIGN.md's "Scenario 2" addendum). The
// corpus is therefore fed incrementally, exactly as spec.md §1 frames the
// engine's job: "incrementally compresses a stream of tokens".
func TestScenario2NestedRepetition(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	ab, err := g.InsertSequence(ctx, tokens("ab"))
	require.NoError(t, err)
	require.Equal(t, 2, ab.Width)

	abab, err := g.InsertSequence(ctx, tokens("abab"))
	require.NoError(t, err)
	require.Equal(t, 4, abab.Width)

	root, err := g.InsertSequence(ctx, tokens("ababab"))
	require.NoError(t, err)
	require.Equal(t, 6, root.Width)

	require.GreaterOrEqual(t, len(g.Parents(ab)), 1, "ab must be reused as a child somewhere")

	found := false
	for _, pat := range g.Decompositions(root) {
		if len(pat) > 0 && pat[len(pat)-1] == ab {
			found = true
		}
	}
	require.True(t, found, "root's decomposition should end with ab")

	leaves, err := g.Leaves(root)
	require.NoError(t, err)
	require.Equal(t, tokens("ababab"), leaves, "leaf sequence must survive the nested reuse of ab and abab")

	checkInvariants(t, g)
}

// TestScenario3PrefixExtension covers spec.md §8 scenario 3: inserting
// "helloworld" after "hello" must reuse the existing "hello" vertex as the
// new root's first child rather than recreating it.
func TestScenario3PrefixExtension(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	hello, err := g.InsertSequence(ctx, tokens("hello"))
	require.NoError(t, err)

	before := g.Len()
	helloworld, err := g.InsertSequence(ctx, tokens("helloworld"))
	require.NoError(t, err)
	require.Equal(t, 10, helloworld.Width)

	pats := g.Decompositions(helloworld)
	require.Len(t, pats, 1)
	require.Equal(t, hello, pats[0][0], "hello must be reused, not recreated")

	worldResult, err := g.Find(ctx, tokens("world"))
	require.NoError(t, err)
	world, ok := worldResult.Child()
	require.True(t, ok, "world must resolve to a Complete match")
	require.Equal(t, pats[0][1], world)

	// New vertices: leaf tokens w, r, d (o and l are reused from "hello"),
	// plus the "world" pattern vertex, plus the "helloworld" top vertex.
	require.Equal(t, before+5, g.Len())

	checkInvariants(t, g)
}

// TestScenario4Splice covers spec.md §8 scenario 4: inserting "xy" after
// "xyz" splices a new [xy, z] decomposition into the existing "xyz" vertex
// without changing its identity or width.
func TestScenario4Splice(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	xyz, err := g.InsertSequence(ctx, tokens("xyz"))
	require.NoError(t, err)

	xy, err := g.InsertSequence(ctx, tokens("xy"))
	require.NoError(t, err)
	require.Equal(t, 2, xy.Width)

	afterResult, err := g.Find(ctx, tokens("xyz"))
	require.NoError(t, err)
	after, ok := afterResult.Child()
	require.True(t, ok, "xyz must still resolve to a Complete match")
	require.Equal(t, xyz, after, "xyz's identity and width must survive the splice")

	pats := g.Decompositions(xyz)
	require.Len(t, pats, 2)

	spliced := false
	for _, pat := range pats {
		if len(pat) == 2 && pat[0] == xy {
			spliced = true
		}
	}
	require.True(t, spliced, "xyz must acquire a [xy, z] decomposition")

	checkInvariants(t, g)
}

// TestScenario5DeepTraversal covers spec.md §8 scenario 5, the Ottos-mops
// corpus: "otto" and "mops " must resolve to Complete matches of their own
// width, and "trotzt mops" to a Range end.
func TestScenario5DeepTraversal(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	corpus := []string{
		"ottos mops trotzt",
		"otto: fort mops fort",
		"ottos mops hopst fort",
		"otto: soso",
	}
	for _, line := range corpus {
		_, err := g.InsertSequence(ctx, tokens(line))
		require.NoError(t, err)
	}

	ottoResult, err := g.Find(ctx, tokens("otto"))
	require.NoError(t, err)
	otto, ok := ottoResult.Child()
	require.True(t, ok, "otto must resolve to a Complete match")
	require.Equal(t, 4, otto.Width)

	mopsResult, err := g.Find(ctx, tokens("mops "))
	require.NoError(t, err)
	mops, ok := mopsResult.Child()
	require.True(t, ok, "mops must resolve to a Complete match")
	require.Equal(t, 5, mops.Width)

	// "trotzt mops" only partially overlaps existing structure: a
	// non-complete Range result is a successful Find, not ErrNoMatch.
	deepResult, err := g.Find(ctx, tokens("trotzt mops"))
	require.NoError(t, err)
	require.Equal(t, hgraph.EndRange, deepResult.End.Kind)
	_, ok = deepResult.Child()
	require.False(t, ok, "a Range result must not resolve to a Complete child")

	checkInvariants(t, g)
}

// TestScenario6ErrorSurface covers spec.md §8 scenario 6.
func TestScenario6ErrorSurface(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()
	g.InsertToken('a')

	_, err := g.Find(ctx, nil)
	require.ErrorIs(t, err, hgraph.ErrEmptyPattern)

	_, err = g.Find(ctx, tokens("a"))
	var single *hgraph.SingleIndexError
	require.ErrorAs(t, err, &single)
	require.Equal(t, 1, single.Child.Width)

	_, err = g.Find(ctx, tokens("z"))
	require.ErrorIs(t, err, hgraph.ErrNoMatch)
}
