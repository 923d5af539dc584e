package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeCallsOncePerKey(t *testing.T) {
	c := New()
	calls := 0
	fn := func() (any, error) {
		calls++
		return []string{"North", "South"}, nil
	}

	key := Key("branches")
	v1, err := c.GetOrCompute(key, fn)
	require.NoError(t, err)
	v2, err := c.GetOrCompute(key, fn)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, v1, v2)
	assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
}

func TestDistinctArgumentsAreDistinctEntries(t *testing.T) {
	c := New()
	calls := 0
	fn := func() (int, error) {
		calls++
		return calls, nil
	}

	a, _ := Fetch(c, Key("sales", "North", "2024-W09"), fn)
	b, _ := Fetch(c, Key("sales", "North", "2024-W08"), fn)
	a2, _ := Fetch(c, Key("sales", "North", "2024-W09"), fn)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, a2)
}

func TestClearForcesRecompute(t *testing.T) {
	c := New()
	fixed := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	calls := 0
	fn := func() (any, error) {
		calls++
		return "weeks", nil
	}

	_, _ = c.GetOrCompute("weeks", fn)
	refreshed := c.Clear()
	_, _ = c.GetOrCompute("weeks", fn)

	assert.Equal(t, 2, calls)
	assert.Equal(t, fixed, refreshed)
	assert.Equal(t, fixed, c.LastRefresh())
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New()
	calls := 0
	fn := func() (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("quota exceeded")
		}
		return "answer", nil
	}

	_, err := c.GetOrCompute("llm:abc", fn)
	require.Error(t, err)
	assert.Equal(t, 0, c.Stats().Entries)

	v, err := c.GetOrCompute("llm:abc", fn)
	require.NoError(t, err)
	assert.Equal(t, "answer", v)
	assert.Equal(t, 2, calls)
}

func TestConcurrentMissesShareOneComputation(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})
	fn := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.GetOrCompute("slow", fn)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestClearDuringComputeDoesNotStoreStaleValue(t *testing.T) {
	c := New()
	fn := func() (any, error) {
		c.Clear()
		return "stale", nil
	}

	v, err := c.GetOrCompute("k", fn)
	require.NoError(t, err)
	assert.Equal(t, "stale", v)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestKey(t *testing.T) {
	assert.Equal(t, `items:["100","200"]`, Key("items", []string{"100", "200"}))
	assert.Equal(t, `sales:"North":"2024-W10"`, Key("sales", "North", "2024-W10"))
	assert.Equal(t, `schedule:"North":4`, Key("schedule", "North", 4))
}

func TestKeySeparatorsInValuesDoNotCollide(t *testing.T) {
	assert.NotEqual(t,
		Key("sales_by_stockcode", "North:2024-W09", "x"),
		Key("sales_by_stockcode", "North", "2024-W09:x"))
	assert.NotEqual(t,
		Key("item_details", []string{"1,2"}),
		Key("item_details", []string{"1", "2"}))
	assert.NotEqual(t, Key("stock_onhand", "4"), Key("stock_onhand", 4))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("How much Tastic rice sold?")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("How much Tastic rice sold?"))
	assert.NotEqual(t, a, Fingerprint("How much Tastic rice sold? "))
	assert.Equal(t, a[:10], ShortFingerprint("How much Tastic rice sold?"))
}
