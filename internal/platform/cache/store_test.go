package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_StatsAndDeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	store.Set(ctx, "syncrun:list:20", "a")
	store.Set(ctx, "syncrun:list:50", "b")
	store.Set(ctx, "syncrun:id:run-1", "c")

	if _, ok := store.Get(ctx, "syncrun:id:run-1"); !ok {
		t.Fatalf("expected hit for run key")
	}
	if _, ok := store.Get(ctx, "syncrun:id:run-2"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	store.DeletePrefix(ctx, "syncrun:list:")

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("stats hits=%d misses=%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Entries != 1 {
		t.Fatalf("entries=%d, want 1", stats.Entries)
	}
}

func TestStore_ExpiredEntryCountsAsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Millisecond)
	store.Set(ctx, "k", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if got := store.Stats(); got.Misses != 1 || got.Entries != 0 {
		t.Fatalf("unexpected stats after expiry: %+v", got)
	}
}
