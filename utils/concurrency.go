package utils

import (
	"sync"
)

// WorkerPool runs jobs on at most maxWorkers goroutines at a time.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with the given concurrency.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Submit blocks until a worker slot is free, then runs job on it.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}
	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// DistinctSet is a thread-safe set of nullable strings that remembers the
// order in which values were first added. A nil value is a member like any other.
type DistinctSet struct {
	mu      sync.RWMutex
	seen    map[string]struct{}
	hasNull bool
	order   []*string
}

// NewDistinctSet creates an empty DistinctSet.
func NewDistinctSet() *DistinctSet {
	return &DistinctSet{seen: make(map[string]struct{})}
}

// Add returns true if v was newly added, false if already present.
func (s *DistinctSet) Add(v *string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v == nil {
		if s.hasNull {
			return false
		}
		s.hasNull = true
		s.order = append(s.order, nil)
		return true
	}

	if _, exists := s.seen[*v]; exists {
		return false
	}
	s.seen[*v] = struct{}{}
	val := *v
	s.order = append(s.order, &val)
	return true
}

// Contains returns true if v has already been added.
func (s *DistinctSet) Contains(v *string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v == nil {
		return s.hasNull
	}
	_, exists := s.seen[*v]
	return exists
}

// Values returns the members in first-seen order.
func (s *DistinctSet) Values() []*string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*string, len(s.order))
	copy(out, s.order)
	return out
}

// Size returns the number of distinct members tracked.
func (s *DistinctSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
