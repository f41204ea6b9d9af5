// Package bufpool provides size-classed byte slice pools for file transfers.
//
// Transfers read files in fixed-size chunks, so nearly every request asks
// for the same few sizes: the configured chunk size, and a shorter tail
// for the last chunk of a window. The pool keeps one sync.Pool per size
// class and rounds requests up to the smallest class that fits.
//
// Requests larger than the biggest class are allocated directly and never
// pooled, so an unusual chunk size cannot pin large buffers in memory.
//
// Usage:
//
//	buf := bufpool.Get(n)
//	defer bufpool.Put(buf)
package bufpool

import (
	"slices"
	"sync"
)

// DefaultClasses are the size classes of the global pool: 4KB for short
// tails and small files, then 16KB, 64KB (the default transfer chunk),
// 256KB and 1MB.
var DefaultClasses = []int{4 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20}

// Pool is a set of sync.Pools keyed by buffer size class.
type Pool struct {
	classes []int
	pools   []sync.Pool
}

// NewPool creates a pool with the given size classes. Non-positive and
// duplicate sizes are dropped; an empty list selects DefaultClasses.
func NewPool(classes ...int) *Pool {
	sizes := make([]int, 0, len(classes))
	for _, c := range classes {
		if c > 0 {
			sizes = append(sizes, c)
		}
	}
	if len(sizes) == 0 {
		sizes = slices.Clone(DefaultClasses)
	}
	slices.Sort(sizes)
	sizes = slices.Compact(sizes)

	p := &Pool{
		classes: sizes,
		pools:   make([]sync.Pool, len(sizes)),
	}
	for i, size := range sizes {
		p.pools[i].New = func() any {
			buf := make([]byte, size)
			return &buf
		}
	}
	return p
}

// Classes returns the size classes of the pool in ascending order.
func (p *Pool) Classes() []int {
	return slices.Clone(p.classes)
}

// class returns the index of the smallest class holding size, or -1.
func (p *Pool) class(size int) int {
	i, _ := slices.BinarySearch(p.classes, size)
	if i == len(p.classes) {
		return -1
	}
	return i
}

// Get returns a slice of length size. Its capacity is the size class it
// came from. Callers must Put it back when done.
func (p *Pool) Get(size int) []byte {
	if size < 0 {
		size = 0
	}
	i := p.class(size)
	if i < 0 {
		return make([]byte, size)
	}
	buf := *p.pools[i].Get().(*[]byte)
	return buf[:size]
}

// Put returns buf to the pool. Buffers whose capacity is not exactly a
// size class are left to the garbage collector.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	c := cap(buf)
	i, found := slices.BinarySearch(p.classes, c)
	if !found {
		return
	}
	full := buf[:c]
	p.pools[i].Put(&full)
}

// =============================================================================
// Global Pool
// =============================================================================

var (
	globalMu   sync.RWMutex
	globalPool = NewPool()
)

// Configure replaces the global pool with one using the given classes.
// Buffers obtained from the previous pool may still be Put safely.
func Configure(classes ...int) {
	p := NewPool(classes...)
	globalMu.Lock()
	globalPool = p
	globalMu.Unlock()
}

func global() *Pool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalPool
}

// Get returns a buffer of length size from the global pool.
func Get(size int) []byte {
	return global().Get(size)
}

// Put returns a buffer to the global pool.
func Put(buf []byte) {
	global().Put(buf)
}
