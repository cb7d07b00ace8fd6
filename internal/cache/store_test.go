package cache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/gitprov/internal/provider"
)

func counting(calls *atomic.Int32, value []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestLoad_CachesSuccessfulFetch(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	var calls atomic.Int32
	fetch := counting(&calls, []string{"main"})

	for range 3 {
		got, err := Load(context.Background(), s, KeyBranches, fetch)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(got, []string{"main"}) {
			t.Errorf("Load() = %v, want [main]", got)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
	hits, misses := s.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (2, 1)", hits, misses)
	}
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"origin"}, nil
	}

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Load(context.Background(), s, KeyRemotes, fetch)
			if err != nil {
				t.Errorf("Load() error = %v", err)
			}
			results[i] = v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
	for i, r := range results {
		if !slices.Equal(r, []string{"origin"}) {
			t.Errorf("caller %d got %v, want [origin]", i, r)
		}
	}
}

func TestLoad_MissRacingCompletedFetchReusesValue(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	var first atomic.Bool
	reached := make(chan struct{})
	gate := make(chan struct{})
	s.afterMiss = func() {
		if first.CompareAndSwap(false, true) {
			close(reached)
			<-gate
		}
	}

	var calls atomic.Int32
	fetch := counting(&calls, []string{"v1"})

	done := make(chan []string)
	go func() {
		v, err := Load(context.Background(), s, KeyTags, fetch)
		if err != nil {
			t.Errorf("Load() error = %v", err)
		}
		done <- v
	}()

	<-reached
	// the second caller populates the key while the first sits after its miss
	if _, err := Load(context.Background(), s, KeyTags, fetch); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	close(gate)

	if got := <-done; !slices.Equal(got, []string{"v1"}) {
		t.Errorf("Load() = %v, want [v1]", got)
	}
	if calls.Load() != 1 {
		t.Errorf("fetch calls = %d, want 1", calls.Load())
	}
}

func TestLoad_FailuresAreNotCached(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	boom := errors.New("git failed")
	var calls atomic.Int32

	fetch := func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return []string{"v1.0.0"}, nil
	}

	if _, err := Load(context.Background(), s, KeyTags, fetch); !errors.Is(err, boom) {
		t.Fatalf("first Load() error = %v, want %v", err, boom)
	}
	if s.Cached(KeyTags) {
		t.Error("failed fetch should not be cached")
	}
	got, err := Load(context.Background(), s, KeyTags, fetch)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if !slices.Equal(got, []string{"v1.0.0"}) {
		t.Errorf("second Load() = %v, want [v1.0.0]", got)
	}
}

func TestLoad_FreshFetchAfterInvalidate(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	var calls atomic.Int32
	fetch := func(context.Context) (int32, error) {
		return calls.Add(1), nil
	}

	first, _ := Load(context.Background(), s, KeyBranches, fetch)
	s.Invalidate(KeyBranches)
	second, _ := Load(context.Background(), s, KeyBranches, fetch)

	if first == second {
		t.Errorf("Load() after Invalidate returned cached value %d", second)
	}
	if calls.Load() != 2 {
		t.Errorf("fetch calls = %d, want 2", calls.Load())
	}
}

func TestLoad_InvalidateDuringFetchDiscardsResult(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	started := make(chan struct{})
	release := make(chan struct{})

	slow := func(context.Context) (string, error) {
		close(started)
		<-release
		return "stale", nil
	}

	done := make(chan string)
	go func() {
		v, _ := Load(context.Background(), s, KeyStatus, slow)
		done <- v
	}()

	<-started
	s.Invalidate(KeyStatus)
	close(release)

	if got := <-done; got != "stale" {
		t.Errorf("in-flight caller got %q, want %q", got, "stale")
	}
	if s.Cached(KeyStatus) {
		t.Fatal("result of a fetch started before Invalidate must not be cached")
	}

	got, err := Load(context.Background(), s, KeyStatus, func(context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil || got != "fresh" {
		t.Errorf("Load() = (%q, %v), want (fresh, nil)", got, err)
	}
}

func TestLoad_CancelledCallerReturnsEarly(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	release := make(chan struct{})
	fetched := make(chan struct{})

	fetch := func(ctx context.Context) (string, error) {
		<-release
		defer close(fetched)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "value", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error)
	go func() {
		_, err := Load(ctx, s, KeyWorktrees, fetch)
		errc <- err
	}()

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}

	close(release)
	<-fetched

	// The detached fetch still completes and populates the cache.
	deadline := time.Now().Add(time.Second)
	for !s.Cached(KeyWorktrees) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !s.Cached(KeyWorktrees) {
		t.Error("detached fetch result should be cached")
	}
}

func TestStore_Close(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	_, _ = Load(context.Background(), s, KeyBranches, func(context.Context) (int, error) { return 1, nil })
	s.Close()

	if s.Cached(KeyBranches) {
		t.Error("Close() should drop cached values")
	}
	_, _ = Load(context.Background(), s, KeyBranches, func(context.Context) (int, error) { return 2, nil })
	if s.Cached(KeyBranches) {
		t.Error("closed store should not keep new values")
	}
}

func TestStore_InvalidateScope(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultRegistry)
	for _, k := range []Key{KeyBranches, KeyRemotes, KeyTags} {
		_, _ = Load(context.Background(), s, k, func(context.Context) (int, error) { return 1, nil })
	}

	s.InvalidateScope(ScopeRepository)

	if s.Cached(KeyBranches) || s.Cached(KeyRemotes) {
		t.Error("repository-scoped keys should be dropped")
	}
	if !s.Cached(KeyTags) {
		t.Error("provider-scoped key should survive")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry

	if got, want := r.RepositoryScoped(), []Key{KeyBranches, KeyRemotes}; !slices.Equal(got, want) {
		t.Errorf("RepositoryScoped() = %v, want %v", got, want)
	}
	if len(r.Keys()) != 8 {
		t.Errorf("Keys() has %d entries, want 8", len(r.Keys()))
	}
	if sc, ok := r.Scope(KeyProviders); !ok || sc != ScopeGlobal {
		t.Errorf("Scope(providers) = (%v, %v), want (global, true)", sc, ok)
	}
	if r.Valid("pull-requests") {
		t.Error("Valid() accepted an unknown key")
	}

	got := r.KeysForChanges([]provider.Change{provider.ChangeStash, provider.ChangeIndex})
	want := []Key{KeyBranches, KeyRemotes, KeyStashes, KeyStatus}
	if !slices.Equal(got, want) {
		t.Errorf("KeysForChanges() = %v, want %v", got, want)
	}
	if got := r.KeysForChanges(nil); !slices.Equal(got, []Key{KeyBranches, KeyRemotes}) {
		t.Errorf("KeysForChanges(nil) = %v, want only repository-scoped keys", got)
	}
}
