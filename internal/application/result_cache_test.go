package application

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestResultCacheStoresAndExpires(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	current := fixed
	cache := newResultCache(time.Second, 4, func() time.Time { return current })

	cache.Store("key", []string{"Grand Hall"})
	cached, ok := cache.Get("key")
	if !ok {
		t.Fatalf("expected cache hit before expiry")
	}
	if got := cached.([]string); len(got) != 1 || got[0] != "Grand Hall" {
		t.Fatalf("unexpected cached value %v", got)
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("key"); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestResultCacheEvictsOldestWhenFull(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newResultCache(time.Minute, 2, func() time.Time { return current })

	cache.Store("a", 1)
	current = current.Add(time.Second)
	cache.Store("b", 2)
	current = current.Add(time.Second)
	cache.Store("c", 3)

	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("expected newest entry to be kept")
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := newResultCache(time.Minute, 4, time.Now)
	cache.Store("key", 1)
	cache.Invalidate()
	if _, ok := cache.Get("key"); ok {
		t.Fatalf("expected cache to be empty after invalidation")
	}
}

func TestMemoize(t *testing.T) {
	t.Parallel()

	t.Run("computes once and then hits", func(t *testing.T) {
		t.Parallel()
		cache := newResultCache(time.Minute, 4, time.Now)
		var calls int32
		compute := func() (int, error) {
			atomic.AddInt32(&calls, 1)
			return 42, nil
		}

		v, hit, err := memoize(cache, "answer", compute)
		if err != nil || hit || v != 42 {
			t.Fatalf("first call: got (%d, %v, %v)", v, hit, err)
		}
		v, hit, err = memoize(cache, "answer", compute)
		if err != nil || !hit || v != 42 {
			t.Fatalf("second call: got (%d, %v, %v)", v, hit, err)
		}
		if calls != 1 {
			t.Fatalf("expected one computation, got %d", calls)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		cache := newResultCache(time.Minute, 4, time.Now)
		boom := errors.New("boom")
		if _, _, err := memoize(cache, "k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("expected error to propagate, got %v", err)
		}
		if cache.Len() != 0 {
			t.Fatalf("expected failed computation to leave cache empty")
		}
	})

	t.Run("concurrent misses share one computation", func(t *testing.T) {
		t.Parallel()
		cache := newResultCache(time.Minute, 4, time.Now)
		var calls int32
		release := make(chan struct{})
		compute := func() (string, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return "done", nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if v, _, err := memoize(cache, "slow", compute); err != nil || v != "done" {
					t.Errorf("unexpected result (%q, %v)", v, err)
				}
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		if got := atomic.LoadInt32(&calls); got < 1 || got > 2 {
			t.Fatalf("unexpected computation count %d", got)
		}
	})

	t.Run("nil cache computes directly", func(t *testing.T) {
		t.Parallel()
		v, hit, err := memoize[int](nil, "k", func() (int, error) { return 7, nil })
		if err != nil || hit || v != 7 {
			t.Fatalf("got (%d, %v, %v)", v, hit, err)
		}
	})
}
