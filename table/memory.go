package table

import "sync"

// Allocator is the memory source collaborator: it provides zeroed
// bucket arrays on demand and reclaims them. The core never calls a
// system allocator directly; every bucket array in a Container is born
// from, and returned to, the Allocator it was created with.
type Allocator interface {
	// Alloc returns a zeroed slice of n entries. Alloc may return a nil
	// slice (and the core treats that as ErrOutOfMemory) if it cannot
	// satisfy the request.
	Alloc(n int) []entry
	// Free reclaims a slice previously returned by Alloc. The slice may
	// still hold entries: Container.Close frees its tables without
	// emptying them first.
	Free(buckets []entry)
}

// defaultAllocator is the simplest correct Allocator: a plain make/drop.
// It never fails.
type defaultAllocator struct{}

func (defaultAllocator) Alloc(n int) []entry {
	return make([]entry, n)
}

func (defaultAllocator) Free([]entry) {}

// PooledAllocator recycles bucket arrays of a given size across
// container lifetimes using a sync.Pool per size class, so a workload
// that repeatedly grows and shrinks tables of similar sizes (the zone
// cache under a DNS server's update churn) does not re-churn the Go heap
// for every migration. Sizes are bucketed by bit count, matching the
// power-of-two sizing the rehash controller already uses.
type PooledAllocator struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// NewPooledAllocator creates a ready to use PooledAllocator.
func NewPooledAllocator() *PooledAllocator {
	return &PooledAllocator{pools: make(map[int]*sync.Pool)}
}

func (p *PooledAllocator) poolFor(n int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[n]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				return make([]entry, n)
			},
		}
		p.pools[n] = pool
	}
	return pool
}

func (p *PooledAllocator) Alloc(n int) []entry {
	buckets := p.poolFor(n).Get().([]entry)
	for i := range buckets {
		buckets[i].clear()
	}
	return buckets
}

func (p *PooledAllocator) Free(buckets []entry) {
	if len(buckets) == 0 {
		return
	}
	p.poolFor(len(buckets)).Put(buckets)
}
