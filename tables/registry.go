package tables

import (
	"fmt"
	"sync"
)

type callsetKey struct {
	Sample  string
	Dataset string
}

// CallsetRegistry assigns dense callset ids to (sampleid, dataset)
// pairs. Registering the same pair again returns the existing id; a
// sample showing up under a second dataset is an error, since gts rows
// already written under the first pairing cannot be retracted.
type CallsetRegistry struct {
	mu       sync.Mutex
	alloc    *Allocator[callsetKey]
	datasets map[string]string
}

func NewCallsetRegistry() *CallsetRegistry {
	return &CallsetRegistry{
		alloc:    NewAllocator[callsetKey](),
		datasets: make(map[string]string),
	}
}

// Register returns the callset id for the pair; created reports whether
// this call assigned it.
func (r *CallsetRegistry) Register(sampleid, dataset string) (id int32, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ds, ok := r.datasets[sampleid]; ok && ds != dataset {
		return 0, false, fmt.Errorf("sample %s already belongs to dataset %s, cannot register it with %s",
			sampleid, ds, dataset)
	}
	r.datasets[sampleid] = dataset
	id64, created := r.alloc.Get(callsetKey{Sample: sampleid, Dataset: dataset})
	return int32(id64), created, nil
}

// Len returns the number of registered callsets.
func (r *CallsetRegistry) Len() int {
	return r.alloc.Len()
}
