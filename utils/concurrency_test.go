package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestDistinctSetNoDuplicates(t *testing.T) {
	s := NewDistinctSet()

	if !s.Add(strPtr("Boston")) {
		t.Error("first Add should return true")
	}
	if s.Add(strPtr("Boston")) {
		t.Error("second Add of same value should return false")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestDistinctSetNullIsAMember(t *testing.T) {
	s := NewDistinctSet()
	s.Add(strPtr("Boston"))
	s.Add(nil)
	s.Add(nil)
	s.Add(strPtr("Cambridge"))

	if !s.Contains(nil) {
		t.Error("nil should be a member after Add(nil)")
	}
	if s.Contains(strPtr("Somerville")) {
		t.Error("Somerville was never added")
	}

	vals := s.Values()
	if len(vals) != 3 {
		t.Fatalf("values: got %d, want 3", len(vals))
	}
	if vals[0] == nil || *vals[0] != "Boston" {
		t.Errorf("values[0]: got %v, want Boston", vals[0])
	}
	if vals[1] != nil {
		t.Errorf("values[1]: got %q, want nil", *vals[1])
	}
	if vals[2] == nil || *vals[2] != "Cambridge" {
		t.Errorf("values[2]: got %v, want Cambridge", vals[2])
	}
}

func TestDistinctSetConcurrency(t *testing.T) {
	s := NewDistinctSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add(strPtr("same")) {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var running, peak int64

	for i := 0; i < 8; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", peak)
	}
}
