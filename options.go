// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"io"
	"log/slog"
)

// ContainerOrder selects how the fold engine orders its frontier of
// in-flight candidate states (spec §4.3's "policy" parameter on the
// container, not to be confused with the Ancestor/Parent traversal Policy).
type ContainerOrder int

const (
	// OrderBFT explores candidates first-in first-out: each candidate's
	// successor is queued behind every candidate already waiting. The
	// entries of one parent batch are queued in map iteration order; they
	// are not sorted by width or sub-index.
	OrderBFT ContainerOrder = iota
	// OrderDFT explores the most recently discovered candidate first.
	OrderDFT
)

func (o ContainerOrder) String() string {
	if o == OrderDFT {
		return "dft"
	}
	return "bft"
}

// Options configures a Graph's limits and diagnostics.
type Options struct {
	// MaxVertices caps the number of vertices a Graph will create. Zero
	// means unbounded.
	MaxVertices int

	// Order selects the fold engine's candidate exploration order.
	Order ContainerOrder

	// Logger receives debug-level structured events (vertex creation,
	// pattern splice, fold completion). Defaults to a discard logger.
	Logger *slog.Logger
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Options)

// WithMaxVertices bounds the number of vertices a Graph may hold.
func WithMaxVertices(n int) GraphOption {
	return func(o *Options) { o.MaxVertices = n }
}

// WithContainerOrder selects the fold engine's exploration order.
func WithContainerOrder(order ContainerOrder) GraphOption {
	return func(o *Options) { o.Order = order }
}

// WithLogger injects a structured logger for diagnostic events.
func WithLogger(l *slog.Logger) GraphOption {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{
		Order:  OrderBFT,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
