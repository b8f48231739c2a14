package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingObserver struct {
	hits, misses, coalesced, fetchErrors atomic.Int32
}

func (o *countingObserver) CacheHit(string)        { o.hits.Add(1) }
func (o *countingObserver) CacheMiss(string)       { o.misses.Add(1) }
func (o *countingObserver) CacheCoalesced(string)  { o.coalesced.Add(1) }
func (o *countingObserver) CacheFetchError(string) { o.fetchErrors.Add(1) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewKey(t *testing.T) {
	tests := []struct {
		key  Key
		want Key
	}{
		{NewKey("restaurants.list"), Key{Group: "restaurants.list"}},
		{NewKey("restaurants.recent", 5), Key{Group: "restaurants.recent", Params: "5"}},
		{NewKey("wishlist.priority", "high", 2), Key{Group: "wishlist.priority", Params: "high/2"}},
	}
	for _, tt := range tests {
		if tt.key != tt.want {
			t.Errorf("got %+v, want %+v", tt.key, tt.want)
		}
	}
}

func TestKey_InGroup(t *testing.T) {
	tests := []struct {
		group string
		key   Key
		want  bool
	}{
		{"restaurants", NewKey("restaurants.list"), true},
		{"restaurants", NewKey("restaurants.recent", 10), true},
		{"restaurants", NewKey("restaurants"), true},
		{"restaurants.stats", NewKey("restaurants.stats"), true},
		{"restaurants.stats", NewKey("restaurants.list"), false},
		{"restaurants", NewKey("restaurantsx.list"), false},
		{"wishlist", NewKey("restaurants.list"), false},
	}
	for _, tt := range tests {
		if got := tt.key.InGroup(tt.group); got != tt.want {
			t.Errorf("%v.InGroup(%q) = %v, want %v", tt.key, tt.group, got, tt.want)
		}
	}
}

func TestRead_ReturnsFreshValueWithoutFetch(t *testing.T) {
	c := New(0)
	key := NewKey("restaurants.list")
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"Le Chat"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Read(context.Background(), c, key, fetch)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if len(got) != 1 || got[0] != "Le Chat" {
			t.Fatalf("got %v", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
}

func TestRead_CoalescesConcurrentReads(t *testing.T) {
	obs := &countingObserver{}
	c := New(0, WithObserver(obs))
	key := NewKey("restaurants.stats")

	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]int, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Read(context.Background(), c, key, fetch)
		}(i)
	}

	waitFor(t, func() bool { return obs.misses.Load()+obs.coalesced.Load() == readers })
	if !c.Status(key).Fetching {
		t.Error("expected key to be fetching")
	}
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
	for i := range results {
		if errs[i] != nil || results[i] != 42 {
			t.Errorf("reader %d: %d, %v", i, results[i], errs[i])
		}
	}
}

func TestInvalidate_CascadesToChildGroups(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	value := func(context.Context) (string, error) { return "v", nil }

	keys := []Key{
		NewKey("restaurants.list"),
		NewKey("restaurants.recent", 5),
		NewKey("restaurants.recent", 10),
		NewKey("restaurants.stats"),
		NewKey("wishlist.items"),
	}
	for _, k := range keys {
		if _, err := Read(ctx, c, k, value); err != nil {
			t.Fatalf("Read %v: %v", k, err)
		}
	}

	c.Invalidate("restaurants")

	for _, k := range keys[:4] {
		if !c.Status(k).Stale {
			t.Errorf("%v should be stale", k)
		}
	}
	if c.Status(keys[4]).Stale {
		t.Error("wishlist.items should stay fresh")
	}
}

func TestInvalidate_StaleValueStillAvailable(t *testing.T) {
	c := New(0)
	key := NewKey("wishlist.items")
	n := 0
	fetch := func(context.Context) (int, error) {
		n++
		return n, nil
	}

	if _, err := Read(context.Background(), c, key, fetch); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("wishlist")

	st := c.Status(key)
	if !st.HasValue || st.Value != 1 || !st.Stale {
		t.Fatalf("status = %+v, want stale value 1", st)
	}

	got, err := Read(context.Background(), c, key, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("got %d, want refetched 2", got)
	}
	if c.Status(key).Stale {
		t.Error("refetched value should be fresh")
	}
}

func TestRead_FailureKeepsPreviousValue(t *testing.T) {
	obs := &countingObserver{}
	c := New(0, WithObserver(obs))
	key := NewKey("restaurants.list")
	ctx := context.Background()

	if _, err := Read(ctx, c, key, func(context.Context) (string, error) { return "good", nil }); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("restaurants")

	boom := errors.New("network down")
	_, err := Read(ctx, c, key, func(context.Context) (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	st := c.Status(key)
	if !st.HasValue || st.Value != "good" {
		t.Errorf("value = %v, want previous value kept", st.Value)
	}
	if !errors.Is(st.Err, boom) {
		t.Errorf("status err = %v", st.Err)
	}
	if obs.fetchErrors.Load() != 1 {
		t.Errorf("fetch errors = %d, want 1", obs.fetchErrors.Load())
	}
}

func TestRead_FailureIsNotCached(t *testing.T) {
	c := New(0)
	key := NewKey("restaurants.detail", 7)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}

	if _, err := Read(ctx, c, key, fetch); err == nil {
		t.Fatal("expected first read to fail")
	}
	got, err := Read(ctx, c, key, fetch)
	if err != nil || got != "ok" {
		t.Fatalf("second read = %q, %v", got, err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestInvalidate_DuringFlightStartsNewFetch(t *testing.T) {
	c := New(0)
	key := NewKey("restaurants.list")
	ctx := context.Background()

	releaseOld := make(chan struct{})
	oldDone := make(chan struct{})
	var oldCalls atomic.Int32
	go func() {
		defer close(oldDone)
		Read(ctx, c, key, func(context.Context) (string, error) {
			oldCalls.Add(1)
			<-releaseOld
			return "old", nil
		})
	}()
	waitFor(t, func() bool { return oldCalls.Load() == 1 })

	c.Invalidate("restaurants")
	if c.Status(key).Fetching {
		t.Error("detached flight should not count as fetching")
	}

	got, err := Read(ctx, c, key, func(context.Context) (string, error) { return "new", nil })
	if err != nil || got != "new" {
		t.Fatalf("Read after invalidate = %q, %v", got, err)
	}

	close(releaseOld)
	<-oldDone

	st := c.Status(key)
	if st.Value != "new" || st.Stale {
		t.Errorf("status = %+v, detached result must not replace newer value", st)
	}
}

func TestInvalidate_DetachedResultStoredStale(t *testing.T) {
	c := New(0)
	key := NewKey("wishlist.count")
	ctx := context.Background()

	release := make(chan struct{})
	done := make(chan struct{})
	var started atomic.Bool
	go func() {
		defer close(done)
		Read(ctx, c, key, func(context.Context) (int, error) {
			started.Store(true)
			<-release
			return 3, nil
		})
	}()
	waitFor(t, started.Load)

	c.Invalidate("wishlist")
	close(release)
	<-done

	st := c.Status(key)
	if !st.HasValue || st.Value != 3 || !st.Stale {
		t.Errorf("status = %+v, want stale 3", st)
	}
}

func TestRead_CallerCancellationDoesNotAbortFetch(t *testing.T) {
	c := New(0)
	key := NewKey("restaurants.stats")

	release := make(chan struct{})
	fetchDone := make(chan struct{})
	var fetchCtxErr error
	fetch := func(fctx context.Context) (int, error) {
		defer close(fetchDone)
		<-release
		fetchCtxErr = fctx.Err()
		return 9, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := Read(ctx, c, key, fetch)
		errc <- err
	}()
	waitFor(t, func() bool { return c.Status(key).Fetching })

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(release)
	<-fetchDone
	waitFor(t, func() bool { return c.Status(key).HasValue })

	if fetchCtxErr != nil {
		t.Errorf("fetch ctx err = %v, want detached context", fetchCtxErr)
	}
	if v := c.Status(key).Value; v != 9 {
		t.Errorf("value = %v, want 9", v)
	}
}

func TestClear(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	key := NewKey("restaurants.list")

	if _, err := Read(ctx, c, key, func(context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatal(err)
	}

	release := make(chan struct{})
	done := make(chan struct{})
	var started atomic.Bool
	pending := NewKey("wishlist.items")
	go func() {
		defer close(done)
		Read(ctx, c, pending, func(context.Context) (int, error) {
			started.Store(true)
			<-release
			return 2, nil
		})
	}()
	waitFor(t, started.Load)

	c.Clear()
	close(release)
	<-done

	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
	if c.Status(key).HasValue || c.Status(pending).HasValue {
		t.Error("Clear must drop values and discard in-flight results")
	}
}

func TestNew_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	ctx := context.Background()
	v := func(context.Context) (int, error) { return 1, nil }

	a, b, d := NewKey("a"), NewKey("b"), NewKey("d")
	Read(ctx, c, a, v)
	Read(ctx, c, b, v)
	Read(ctx, c, a, v)
	Read(ctx, c, d, v)

	if c.Status(b).HasValue {
		t.Error("b should have been evicted")
	}
	if !c.Status(a).HasValue || !c.Status(d).HasValue {
		t.Error("a and d should remain")
	}
}
