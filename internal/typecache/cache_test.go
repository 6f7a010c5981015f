package typecache

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

var stringType = reflect.TypeOf("")

func TestCache_PositiveOutcome(t *testing.T) {
	cache := New[string]()

	var calls atomic.Int32
	produce := func() reflect.Type {
		calls.Add(1)
		return stringType
	}

	target, ok := cache.LoadOrCompute("key", produce)
	if !ok || target != stringType {
		t.Fatalf("LoadOrCompute() = %v, %v; want string, true", target, ok)
	}

	target, ok = cache.LoadOrCompute("key", produce)
	if !ok || target != stringType {
		t.Fatalf("cached LoadOrCompute() = %v, %v; want string, true", target, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("produce ran %d times, want 1", calls.Load())
	}
}

func TestCache_NegativeOutcomeIsCached(t *testing.T) {
	cache := New[string]()

	var calls atomic.Int32
	produce := func() reflect.Type {
		calls.Add(1)
		return nil
	}

	for i := 0; i < 3; i++ {
		if target, ok := cache.LoadOrCompute("miss", produce); ok {
			t.Fatalf("LoadOrCompute() = %v, true; want explicit not-found", target)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("negative outcome recomputed %d times, want 1", calls.Load())
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCache_ConcurrentSameKey(t *testing.T) {
	cache := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				target, ok := cache.LoadOrCompute(j%5, func() reflect.Type {
					return stringType
				})
				if !ok || target != stringType {
					t.Errorf("concurrent LoadOrCompute() = %v, %v", target, ok)
					return
				}
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 5 {
		t.Errorf("Len() = %d, want 5", cache.Len())
	}
}

func TestResult_ZeroValueMeansNotFound(t *testing.T) {
	var r Result
	if target, ok := r.Target(); ok || target != nil {
		t.Errorf("zero Result.Target() = %v, %v; want nil, false", target, ok)
	}
}
