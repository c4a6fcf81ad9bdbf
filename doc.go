// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

// Package hgraph implements a hierarchical hypergraph storage engine.
//
// The engine incrementally compresses a stream of tokens into a directed
// acyclic graph of nested patterns. Each vertex represents a sub-sequence of
// tokens (a "child" of whoever references it); a vertex stores a set of
// alternative decompositions ("patterns") — each pattern an ordered list of
// child vertices whose concatenated token widths sum to the parent's width.
//
// For any token span that has been inserted, exactly one vertex represents
// it, and every parent/child relationship through which that vertex is
// reachable is kept bidirectionally indexed.
//
// # Components
//
//   - The graph store (vertex.go, graph.go) owns vertices and the mutation
//     primitives that keep the width/arity/parent-duality invariants intact.
//   - Paths and cursors (path.go) are typed, role-tagged positions within a
//     vertex's pattern, used to describe where a traversal currently stands.
//   - The fold engine (fold.go) walks the graph bottom-up from a leaf token
//     toward its largest matching ancestor, producing an end state that
//     describes how far a query pattern was absorbed.
//   - The split engine (split.go) turns an end state's interior offsets into
//     a cache of per-pattern cut positions, recursing into children whenever
//     a cut does not land on an existing pattern boundary.
//   - Partition (partition.go) cuts a vertex into slices at given offsets
//     without mutating the graph, flagging slices whose cuts both land on
//     existing boundaries as "perfect". Join (join.go) turns a slice into a
//     single child, reusing a vertex that already has exactly that
//     decomposition or creating a standalone new one. Neither splices;
//     the insert driver adds a new decomposition to an existing vertex
//     when a query matched a strict sub-span of it.
//   - The insert driver (insert.go) wires fold, split, and join into the
//     single public InsertSequence operation.
//   - The read API (query.go) exposes Find, Parents, ParentsByWidthDesc,
//     Decompositions, Leaves and LeafCount without ever mutating the graph.
//
// # Thread safety
//
// A Graph is safe for concurrent reads (Find, Parents, Decompositions,
// Leaves, LeafCount) once constructed, but is single-writer: InsertSequence
// and InsertToken take an exclusive lock for the duration of the call. There
// is no support for concurrent mutation from multiple writers. Find and
// InsertSequence accept a context.Context, checked cooperatively once per
// worklist item popped during the traversal.
package hgraph
