// Copyright (c) 2026 The patterngraph Authors
// SPDX-License-Identifier: MIT

package hgraph

import (
	"sync"
	"sync/atomic"
)

// pathPool is a type-safe wrapper around sync.Pool, specialized for
// recycling *Path[T] allocations across the many candidate attempts a single
// fold walks through. It tracks allocation statistics for debugging and
// performance tuning, mirroring the live/total counters of a conventional
// pool wrapper.
type pathPool[T comparable] struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newPathPool[T comparable]() *pathPool[T] {
	p := &pathPool[T]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return new(Path[T])
	}
	return p
}

// Get retrieves a *Path[T] from the pool, or allocates a new one.
func (p *pathPool[T]) Get() *Path[T] {
	if p == nil {
		return new(Path[T])
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*Path[T])
}

// Put returns a *Path[T] to the pool after resetting its contents.
func (p *pathPool[T]) Put(path *Path[T]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	path.reset()
	p.Pool.Put(path)
}

// Stats reports the number of currently live and the total number of ever
// allocated *Path[T] values.
func (p *pathPool[T]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
