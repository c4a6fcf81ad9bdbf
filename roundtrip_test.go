// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph_test

import (
	"context"
	"testing"

	"github.com/patterngraph/hgraph"
	"github.com/stretchr/testify/require"
)

func tokens(s string) []rune { return []rune(s) }

// TestRoundTripFindAndLeaves is R1/R2 from spec.md §8: every inserted
// sequence must Find back to Complete at the right width, and its Leaves
// must reproduce the original sequence.
func TestRoundTripFindAndLeaves(t *testing.T) {
	ctx := context.Background()
	for _, s := range []string{"abc", "bcd", "hello", "helloworld", "ababab"} {
		t.Run(s, func(t *testing.T) {
			g := hgraph.New[rune]()
			want := tokens(s)

			c, err := g.InsertSequence(ctx, want)
			require.NoError(t, err)
			require.Equal(t, len(want), c.Width)

			result, err := g.Find(ctx, want)
			require.NoError(t, err)
			found, ok := result.Child()
			require.True(t, ok, "a round-tripped sequence must resolve to a Complete match")
			require.Equal(t, c, found)

			leaves, err := g.Leaves(c)
			require.NoError(t, err)
			require.Equal(t, want, leaves)

			checkInvariants(t, g)
		})
	}
}

// TestInsertIdempotence is P5: inserting the same sequence twice returns the
// same Child and performs no further mutation.
func TestInsertIdempotence(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	first, err := g.InsertSequence(ctx, tokens("ottosmops"))
	require.NoError(t, err)

	before := g.Len()
	second, err := g.InsertSequence(ctx, tokens("ottosmops"))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, before, g.Len(), "re-inserting an identical sequence must not create vertices")

	checkInvariants(t, g)
}

func TestInsertOrGetCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	g := hgraph.New[rune]()

	first, err := g.InsertSequence(ctx, tokens("abcdef"))
	require.NoError(t, err)

	before := g.Len()
	second, err := g.InsertOrGetComplete(ctx, tokens("abcdef"))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, before, g.Len())
}
