package tables

import "sync"

// Allocator hands out dense integer ids starting at 0, in the order
// keys are first seen. One allocator is the single authority for its id
// space; the variant and callset spaces use separate instances and so
// never share ids. It is safe for concurrent use, which keeps the
// contract unchanged if record processing is ever sharded.
type Allocator[K comparable] struct {
	mu  sync.Mutex
	ids map[K]int64
}

func NewAllocator[K comparable]() *Allocator[K] {
	return &Allocator[K]{ids: make(map[K]int64)}
}

// Get returns the id for key, assigning the next dense id the first
// time the key is seen. created reports whether this call assigned it.
func (a *Allocator[K]) Get(key K) (id int64, created bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.ids[key]; ok {
		return id, false
	}
	id = int64(len(a.ids))
	a.ids[key] = id
	return id, true
}

// Len returns the number of ids assigned so far.
func (a *Allocator[K]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ids)
}
