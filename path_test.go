// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph_test

import (
	"context"
	"testing"

	"github.com/patterngraph/hgraph"
	"github.com/stretchr/testify/require"
)

// pathFixture builds "wx", "yz" and their wrapper "wxyz" = [wx, yz], giving
// path_test a real two-slot pattern to walk and a PatternId to address it
// with.
func pathFixture(t *testing.T) (g *hgraph.Graph[rune], wx, yz, top hgraph.Child, pid hgraph.PatternId) {
	t.Helper()
	ctx := context.Background()
	g = hgraph.New[rune]()

	var err error
	wx, err = g.InsertSequence(ctx, tokens("wx"))
	require.NoError(t, err)
	yz, err = g.InsertSequence(ctx, tokens("yz"))
	require.NoError(t, err)
	top, err = g.InsertSequence(ctx, tokens("wxyz"))
	require.NoError(t, err)

	v, err := g.ExpectVertex(top.Index)
	require.NoError(t, err)
	require.Len(t, v.PatternOrder, 1)
	pid = v.PatternOrder[0]
	require.Equal(t, hgraph.Pattern{wx, yz}, v.Children[pid])

	return g, wx, yz, top, pid
}

func TestPathMoveAndBreak(t *testing.T) {
	g, _, _, top, pid := pathFixture(t)

	root := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             0,
	}
	p := hgraph.NewPath[rune](hgraph.RoleEnd, root)
	require.Equal(t, root, p.RootChildLocation())
	require.Equal(t, root, p.LeafChildLocation())

	// Step right within top's own pattern: wx's slot -> yz's slot.
	require.Equal(t, hgraph.MoveContinue, p.Move(g, hgraph.DirRight))
	require.Equal(t, 1, p.LeafChildLocation().Sub)

	// A two-slot pattern has nowhere further to go, and the path has no
	// segment above its root to pop back out to: Move must report MoveBreak.
	require.Equal(t, hgraph.MoveBreak, p.Move(g, hgraph.DirRight))

	// A single-segment path has nothing above its root to ascend back out
	// to.
	_, ok := p.Pop()
	require.False(t, ok)
}

func TestPathMoveLeft(t *testing.T) {
	g, _, _, top, pid := pathFixture(t)

	leaf := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             1,
	}
	p := hgraph.NewPath[rune](hgraph.RoleEnd, leaf)
	require.Equal(t, hgraph.MoveContinue, p.Move(g, hgraph.DirLeft))
	require.Equal(t, 0, p.LeafChildLocation().Sub)
	require.Equal(t, hgraph.MoveBreak, p.Move(g, hgraph.DirLeft))
}

// TestPathAscendAndPop exercises Ascend/Pop directly: fold.go no longer
// chains a climbed candidate onto its previous path this way (it reseeds a
// fresh single-segment path at each climbed level instead, see DESIGN.md's
// "ancestor-climb path reset" addendum), but Ascend/Pop remain part of
// Path's general navigation surface from spec.md §4.2 and are exercised here
// as such.
func TestPathAscendAndPop(t *testing.T) {
	_, _, _, top, pid := pathFixture(t)

	lower := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             0,
	}
	higher := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             1,
	}

	p := hgraph.NewPath[rune](hgraph.RoleEnd, lower)
	p.Ascend(higher)

	require.Len(t, p.Segments(), 2)
	require.Equal(t, higher, p.RootChildLocation(), "Ascend prepends, so the new root is the leaf's predecessor")
	require.Equal(t, lower, p.LeafChildLocation(), "the pre-Ascend segment stays the leaf")

	popped, ok := p.Pop()
	require.True(t, ok)
	require.Equal(t, lower, popped)
	require.Equal(t, higher, p.LeafChildLocation())
	require.Equal(t, higher, p.RootChildLocation())
}

func TestPathClone(t *testing.T) {
	g, _, _, top, pid := pathFixture(t)

	root := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             0,
	}
	p := hgraph.NewPath[rune](hgraph.RoleEnd, root)
	clone := p.Clone()
	require.Equal(t, p.Segments(), clone.Segments())

	clone.Move(g, hgraph.DirRight)
	require.NotEqual(t, p.LeafChildLocation(), clone.LeafChildLocation(),
		"mutating the clone must not affect the original path's segments")
}

func TestCursorAdvance(t *testing.T) {
	g, wx, yz, top, pid := pathFixture(t)

	root := hgraph.ChildLocation{
		PatternLocation: hgraph.PatternLocation{Parent: top, Pattern: pid},
		Sub:             0,
	}
	start := hgraph.NewPath[rune](hgraph.RoleStart, root)
	end := hgraph.NewPath[rune](hgraph.RoleEnd, root)
	cur := &hgraph.Cursor[rune]{Range: hgraph.RangePath[rune]{Start: start, End: end}, Pos: wx.Width}

	require.Equal(t, hgraph.MoveContinue, cur.Advance(g))
	require.Equal(t, wx.Width+yz.Width, cur.Pos)
	require.Equal(t, 1, cur.Range.End.LeafChildLocation().Sub)

	require.Equal(t, hgraph.MoveBreak, cur.Advance(g))
}
