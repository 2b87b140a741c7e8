package breed

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

// mockFetcher tracks calls and returns configured results per lower-cased breed.
type mockFetcher struct {
	mu      sync.Mutex
	calls   int
	names   []Name
	results map[string][]string
	err     error
}

func newMockFetcher(results map[string][]string) *mockFetcher {
	return &mockFetcher{results: results}
}

func (m *mockFetcher) SubBreeds(_ context.Context, name Name) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.names = append(m.names, name)

	if m.err != nil {
		return nil, m.err
	}
	key, ok := cacheKey(name)
	if !ok {
		return nil, NotFound(name)
	}
	subs, ok := m.results[key]
	if !ok {
		return nil, NotFound(name)
	}
	return subs, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func houndFetcher() *mockFetcher {
	return newMockFetcher(map[string][]string{
		"hound": {"afghan", "basset"},
	})
}

func TestCachingFetcher_Scenario(t *testing.T) {
	ctx := context.Background()
	delegate := houndFetcher()
	c := NewCachingFetcher(delegate)

	want := []string{"afghan", "basset"}

	got, err := c.SubBreeds(ctx, NameOf("hound"))
	if err != nil {
		t.Fatalf("hound: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("hound = %v, want %v", got, want)
	}
	if c.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", c.Calls())
	}

	got, err = c.SubBreeds(ctx, NameOf("HOUND"))
	if err != nil {
		t.Fatalf("HOUND: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HOUND = %v, want %v", got, want)
	}
	if c.Calls() != 1 {
		t.Errorf("Calls() after hit = %d, want 1", c.Calls())
	}

	_, err = c.SubBreeds(ctx, NameOf("labrador"))
	name, ok := NotFoundName(err)
	if !ok {
		t.Fatalf("labrador: expected NotFoundError, got %v", err)
	}
	if v, _ := name.Value(); v != "labrador" {
		t.Errorf("NotFoundError breed = %q, want labrador", v)
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() after failure = %d, want 2", c.Calls())
	}

	_, err = c.SubBreeds(ctx, NameOf("labrador"))
	if !IsNotFound(err) {
		t.Fatalf("labrador again: expected NotFound, got %v", err)
	}
	if c.Calls() != 3 {
		t.Errorf("Calls() after repeated failure = %d, want 3", c.Calls())
	}
}

func TestCachingFetcher_CaseInsensitiveHit(t *testing.T) {
	ctx := context.Background()

	for _, first := range []string{"Hound", "hound", "HOUND", "hOuNd"} {
		t.Run(first, func(t *testing.T) {
			delegate := houndFetcher()
			c := NewCachingFetcher(delegate)

			if _, err := c.SubBreeds(ctx, NameOf(first)); err != nil {
				t.Fatalf("first lookup failed: %v", err)
			}
			for _, again := range []string{"hound", "HOUND", "Hound"} {
				if _, err := c.SubBreeds(ctx, NameOf(again)); err != nil {
					t.Fatalf("lookup %q failed: %v", again, err)
				}
			}

			if delegate.callCount() != 1 {
				t.Errorf("delegate calls = %d, want 1", delegate.callCount())
			}
			if c.Calls() != 1 {
				t.Errorf("Calls() = %d, want 1", c.Calls())
			}
			if c.Len() != 1 {
				t.Errorf("Len() = %d, want 1", c.Len())
			}
		})
	}
}

func TestCachingFetcher_DelegateReceivesOriginalName(t *testing.T) {
	delegate := houndFetcher()
	c := NewCachingFetcher(delegate)

	if _, err := c.SubBreeds(context.Background(), NameOf("HoUnD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(delegate.names) != 1 {
		t.Fatalf("delegate saw %d names, want 1", len(delegate.names))
	}
	if v, _ := delegate.names[0].Value(); v != "HoUnD" {
		t.Errorf("delegate got %q, want HoUnD", v)
	}
}

func TestCachingFetcher_NoNegativeCaching(t *testing.T) {
	ctx := context.Background()
	delegate := newMockFetcher(map[string][]string{})
	c := NewCachingFetcher(delegate)

	_, err := c.SubBreeds(ctx, NameOf("bogus"))
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after failure = %d, want 0", c.Len())
	}

	// The delegate learns about the breed; the next lookup must see it.
	delegate.mu.Lock()
	delegate.results["bogus"] = []string{"real"}
	delegate.mu.Unlock()

	got, err := c.SubBreeds(ctx, NameOf("bogus"))
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"real"}) {
		t.Errorf("got %v, want [real]", got)
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", c.Calls())
	}
}

func TestCachingFetcher_ErrorIdentity(t *testing.T) {
	sentinel := NotFound(NameOf("Labrador"))
	delegate := &mockFetcher{err: sentinel}
	c := NewCachingFetcher(delegate)

	_, err := c.SubBreeds(context.Background(), NameOf("Labrador"))
	if err != sentinel {
		t.Fatalf("error = %v (%T), want the delegate's error value", err, err)
	}
	name, _ := NotFoundName(err)
	if v, _ := name.Value(); v != "Labrador" {
		t.Errorf("breed in error = %q, want Labrador", v)
	}
}

func TestCachingFetcher_ForeignErrorNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	delegate := &mockFetcher{err: boom}
	c := NewCachingFetcher(delegate)

	for i := 0; i < 2; i++ {
		if _, err := c.SubBreeds(ctx, NameOf("hound")); err != boom {
			t.Fatalf("call %d: error = %v, want boom", i, err)
		}
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", c.Calls())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCachingFetcher_CounterAccuracy(t *testing.T) {
	ctx := context.Background()
	delegate := newMockFetcher(map[string][]string{
		"hound":   {"afghan"},
		"terrier": {"irish", "welsh"},
	})
	c := NewCachingFetcher(delegate)

	lookups := []string{"hound", "Hound", "terrier", "pug", "TERRIER", "pug", "hound"}
	// hits: Hound, TERRIER, hound
	const hits = 3

	for _, l := range lookups {
		_, _ = c.SubBreeds(ctx, NameOf(l))
	}

	want := int64(len(lookups) - hits)
	if c.Calls() != want {
		t.Errorf("Calls() = %d, want %d", c.Calls(), want)
	}
	if int64(delegate.callCount()) != want {
		t.Errorf("delegate calls = %d, want %d", delegate.callCount(), want)
	}
}

func TestCachingFetcher_ReturnIsolation(t *testing.T) {
	ctx := context.Background()
	source := []string{"afghan", "basset"}
	delegate := newMockFetcher(map[string][]string{"hound": source})
	c := NewCachingFetcher(delegate)

	first, err := c.SubBreeds(ctx, NameOf("hound"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first[0] = "mutated"

	// Mutating the delegate's slice after the fact must not leak either.
	source[1] = "mutated"

	second, err := c.SubBreeds(ctx, NameOf("hound"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(second, []string{"afghan", "basset"}) {
		t.Errorf("cached value changed: %v", second)
	}

	_ = append(second[:0], "x")
	third, _ := c.SubBreeds(ctx, NameOf("hound"))
	if len(third) != 2 || third[0] != "afghan" {
		t.Errorf("cached value changed after append: %v", third)
	}
}

func TestCachingFetcher_NilResultNormalized(t *testing.T) {
	ctx := context.Background()
	delegate := FetcherFunc(func(context.Context, Name) ([]string, error) {
		return nil, nil
	})
	c := NewCachingFetcher(delegate)

	for i, name := range []Name{NameOf("husky"), NameOf("HUSKY"), NoName} {
		got, err := c.SubBreeds(ctx, name)
		if err != nil {
			t.Fatalf("lookup %d: unexpected error: %v", i, err)
		}
		if got == nil {
			t.Errorf("lookup %d: got nil, want empty slice", i)
		}
		if len(got) != 0 {
			t.Errorf("lookup %d: got %v, want empty", i, got)
		}
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2 (husky miss + absent name)", c.Calls())
	}
}

func TestCachingFetcher_AbsentNameNeverCached(t *testing.T) {
	ctx := context.Background()
	var seen []Name
	delegate := FetcherFunc(func(_ context.Context, name Name) ([]string, error) {
		seen = append(seen, name)
		return []string{"x"}, nil
	})
	c := NewCachingFetcher(delegate)

	for i := 0; i < 3; i++ {
		got, err := c.SubBreeds(ctx, NoName)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if !reflect.DeepEqual(got, []string{"x"}) {
			t.Errorf("call %d: got %v", i, got)
		}
	}

	if c.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", c.Calls())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	for i, n := range seen {
		if n.Valid() {
			t.Errorf("delegate call %d got present name %q, want absent", i, n)
		}
	}
}

func TestCachingFetcher_AbsentNameNotFound(t *testing.T) {
	c := NewCachingFetcher(houndFetcher())

	_, err := c.SubBreeds(context.Background(), NoName)
	name, ok := NotFoundName(err)
	if !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if name.Valid() {
		t.Errorf("expected absent name in error, got %q", name)
	}
}

func TestCachingFetcher_EmptyStringIsCacheable(t *testing.T) {
	delegate := newMockFetcher(map[string][]string{"": {}})
	c := NewCachingFetcher(delegate)

	for i := 0; i < 2; i++ {
		if _, err := c.SubBreeds(context.Background(), NameOf("")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", c.Calls())
	}
}

func TestNewCachingFetcher_NilDelegatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil delegate")
		}
	}()
	NewCachingFetcher(nil)
}

func TestCachingFetcher_ZeroCallsInitially(t *testing.T) {
	c := NewCachingFetcher(houndFetcher())
	if c.Calls() != 0 {
		t.Errorf("Calls() = %d, want 0", c.Calls())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCachingFetcher_ConcurrentDistinctKeys(t *testing.T) {
	results := make(map[string][]string)
	for i := 0; i < 50; i++ {
		results[fmt.Sprintf("breed%d", i)] = []string{fmt.Sprintf("sub%d", i)}
	}
	delegate := newMockFetcher(results)
	c := NewCachingFetcher(delegate)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := NameOf(fmt.Sprintf("BREED%d", i))
			got, err := c.SubBreeds(context.Background(), name)
			if err != nil {
				t.Errorf("%s: %v", name, err)
				return
			}
			if len(got) != 1 || got[0] != fmt.Sprintf("sub%d", i) {
				t.Errorf("%s: got %v", name, got)
			}
		}(i)
	}
	wg.Wait()

	if c.Calls() != 50 {
		t.Errorf("Calls() = %d, want 50", c.Calls())
	}
	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}

func TestCachingFetcher_ConcurrentSameKeyCountsEveryCall(t *testing.T) {
	delegate := houndFetcher()
	c := NewCachingFetcher(delegate)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.SubBreeds(context.Background(), NameOf("hound"))
		}()
	}
	wg.Wait()

	if c.Calls() != int64(delegate.callCount()) {
		t.Errorf("Calls() = %d, delegate saw %d", c.Calls(), delegate.callCount())
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCachingFetcher_SingleFlightCollapsesMisses(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	delegate := FetcherFunc(func(context.Context, Name) ([]string, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
		}
		<-release
		return []string{"afghan", "basset"}, nil
	})
	c := NewCachingFetcher(delegate, WithSingleFlight())

	const callers = 10
	results := make(chan []string, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		subs, _ := c.SubBreeds(context.Background(), NameOf("hound"))
		results <- subs
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subs, _ := c.SubBreeds(context.Background(), NameOf("HOUND"))
			results <- subs
		}()
	}
	close(release)
	wg.Wait()
	close(results)

	var seen [][]string
	for subs := range results {
		if !reflect.DeepEqual(subs, []string{"afghan", "basset"}) {
			t.Errorf("unexpected result: %v", subs)
		}
		seen = append(seen, subs)
	}
	if len(seen) != callers {
		t.Fatalf("got %d results, want %d", len(seen), callers)
	}

	// Shared results must still be private copies.
	seen[0][0] = "mutated"
	for _, s := range seen[1:] {
		if s[0] == "mutated" {
			t.Fatal("callers share a backing array")
		}
	}

	if c.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", c.Calls())
	}
	if calls != 1 {
		t.Errorf("delegate calls = %d, want 1", calls)
	}
}

func TestCachingFetcher_SingleFlightSharesError(t *testing.T) {
	delegate := newMockFetcher(map[string][]string{})
	c := NewCachingFetcher(delegate, WithSingleFlight())

	_, err := c.SubBreeds(context.Background(), NameOf("bogus"))
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	_, err = c.SubBreeds(context.Background(), NameOf("bogus"))
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", c.Calls())
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCachingFetcher_SingleFlightIgnoresCanceledCaller(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var sawCancel bool
	var once sync.Once
	delegate := FetcherFunc(func(ctx context.Context, name Name) ([]string, error) {
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return []string{"afghan", "basset"}, nil
		case <-ctx.Done():
			sawCancel = true
			return nil, NotFound(name)
		}
	})
	c := NewCachingFetcher(delegate, WithSingleFlight())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.SubBreeds(leaderCtx, NameOf("hound"))
		leaderErr <- err
	}()
	<-entered

	type result struct {
		subs []string
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		subs, err := c.SubBreeds(context.Background(), NameOf("Hound"))
		follower <- result{subs, err}
	}()

	cancel()
	select {
	case err := <-leaderErr:
		if !IsNotFound(err) {
			t.Fatalf("canceled caller: expected NotFound, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting for the shared call")
	}

	close(release)
	select {
	case r := <-follower:
		if r.err != nil {
			t.Fatalf("caller with live ctx: %v", r.err)
		}
		if !reflect.DeepEqual(r.subs, []string{"afghan", "basset"}) {
			t.Errorf("caller with live ctx got %v", r.subs)
		}
	case <-time.After(time.Second):
		t.Fatal("caller with live ctx did not finish")
	}

	if sawCancel {
		t.Error("shared call observed the canceled caller's context")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCachingFetcher_SingleFlightAbsentNameBypasses(t *testing.T) {
	c := NewCachingFetcher(houndFetcher(), WithSingleFlight())

	for i := 0; i < 2; i++ {
		if _, err := c.SubBreeds(context.Background(), NoName); !IsNotFound(err) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	}
	if c.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", c.Calls())
	}
}
