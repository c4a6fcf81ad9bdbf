// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import "sort"

// RangeRole classifies a slice produced by Partition relative to the
// offsets it was cut at.
type RangeRole int

const (
	RolePre RangeRole = iota
	RoleIn
	RolePost
)

func (r RangeRole) String() string {
	switch r {
	case RolePre:
		return "pre"
	case RoleIn:
		return "in"
	case RolePost:
		return "post"
	default:
		return "unknown"
	}
}

// BorderInfo describes one slice returned by Partition: its role relative
// to the requested offsets, and the [start, end) token range it covers.
//
// Perfect reports whether both of the slice's bounding offsets landed on
// existing pattern boundaries rather than mid-child (spec.md §4.5's
// "perfect" border). A Perfect slice of more than one child is a sequence
// that already exists, unmodified, inside some decomposition somewhere in
// the graph. joinSliceLocked does not read this flag: it looks for an
// existing vertex to reuse for every multi-child slice it is given.
type BorderInfo struct {
	Role    RangeRole
	Start   int
	End     int
	Perfect bool
}

// Partition divides the vertex at root into len(offsets)+1 consecutive
// child slices at the given interior offsets (each in (0, width)), without
// mutating the graph. The first and last slices carry RolePre/RolePost;
// interior slices carry RoleIn. Offsets need not be sorted or unique;
// duplicates collapse to an empty RoleIn slice at that point.
//
// Partition is read-only: it takes the graph's read lock itself, so callers
// driving their own insert (which already hold the write lock and have their
// own splitCache to amortize repeated cuts across one call) should use
// partitionLocked directly instead.
func (g *Graph[T]) Partition(root VertexIndex, offsets []int) ([][]Child, []BorderInfo, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.partitionLocked(root, offsets, newSplitCache())
}

func (g *Graph[T]) partitionLocked(root VertexIndex, offsets []int, cache *splitCache) ([][]Child, []BorderInfo, error) {
	v := g.vertexLocked(root)
	sorted := append([]int(nil), offsets...)
	sort.Ints(sorted)

	var slices [][]Child
	var borders []BorderInfo
	// boundaryClean[i] records whether the i-th cut position (0 is the
	// vertex's own start, the last is its own end, both trivially clean)
	// landed on an existing pattern boundary. A slice's BorderInfo.Perfect
	// is the AND of the cleanliness of the two positions bounding it.
	boundaryClean := []bool{true}
	prev := 0
	remaining := []Child{v.Child()}

	flush := func(upto int) error {
		if prev == upto {
			// A duplicate offset repeats the cut just made, so it is
			// exactly as clean as that cut.
			slices = append(slices, nil)
			borders = append(borders, BorderInfo{Start: prev, End: upto})
			boundaryClean = append(boundaryClean, boundaryClean[len(boundaryClean)-1])
			return nil
		}
		// remaining currently spans [prev, width). Cut it at (upto-prev)
		// relative to its own combined width to split off [prev,upto).
		cut, err := g.cutPattern(remaining, upto-prev, cache)
		if err != nil {
			return err
		}
		slices = append(slices, cut.Left)
		borders = append(borders, BorderInfo{Start: prev, End: upto})
		boundaryClean = append(boundaryClean, cut.Clean)
		remaining = cut.Right
		prev = upto
		return nil
	}

	for _, off := range sorted {
		if off <= 0 || off >= v.Width {
			continue
		}
		if err := flush(off); err != nil {
			return nil, nil, err
		}
	}
	slices = append(slices, remaining)
	borders = append(borders, BorderInfo{Start: prev, End: v.Width})
	boundaryClean = append(boundaryClean, true)

	for i := range borders {
		switch {
		case i == 0:
			borders[i].Role = RolePre
		case i == len(borders)-1:
			borders[i].Role = RolePost
		default:
			borders[i].Role = RoleIn
		}
		borders[i].Perfect = boundaryClean[i] && boundaryClean[i+1]
	}
	return slices, borders, nil
}
