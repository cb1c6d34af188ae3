package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTrigger_CoalescesBurst(t *testing.T) {
	d := New(50 * time.Millisecond)

	var calls atomic.Int32
	var last atomic.Value
	for i := 0; i < 10; i++ {
		v := i
		d.Trigger("note:a.com", func() {
			calls.Add(1)
			last.Store(v)
		})
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 9, last.Load())
}

func TestTrigger_KeysAreIndependent(t *testing.T) {
	d := New(20 * time.Millisecond)

	var mu sync.Mutex
	got := map[string]int{}
	for _, k := range []string{"a", "b", "a", "b", "c"} {
		key := k
		d.Trigger(key, func() {
			mu.Lock()
			got[key]++
			mu.Unlock()
		})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, got)
	mu.Unlock()
}

func TestTrigger_TimerIsReusedAfterFiring(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger("k", func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 2*time.Millisecond)

	d.Trigger("k", func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 2*time.Millisecond)
}

func TestFlush_RunsPendingNow(t *testing.T) {
	d := New(time.Hour)
	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	d.Trigger("b", func() { calls.Add(1) })
	assert.True(t, d.Pending("a"))

	d.Flush()
	assert.Equal(t, int32(2), calls.Load())
	assert.False(t, d.Pending("a"))

	d.Flush()
	assert.Equal(t, int32(2), calls.Load())
}

func TestFlushKey(t *testing.T) {
	d := New(time.Hour)
	var a, b atomic.Int32
	d.Trigger("a", func() { a.Add(1) })
	d.Trigger("b", func() { b.Add(1) })

	d.FlushKey("a")
	d.FlushKey("missing")
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(0), b.Load())
	assert.True(t, d.Pending("b"))
	d.Stop()
}

func TestCancel_DropsOneKey(t *testing.T) {
	d := New(time.Hour)
	var a, b atomic.Int32
	d.Trigger("a", func() { a.Add(1) })
	d.Trigger("b", func() { b.Add(1) })

	d.Cancel("a")
	assert.False(t, d.Pending("a"))
	d.Flush()
	assert.Equal(t, int32(0), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestStop_CancelsAndIgnoresLaterTriggers(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	d.Stop()
	d.Trigger("a", func() { calls.Add(1) })

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestZeroWaitRunsInline(t *testing.T) {
	d := New(0)
	ran := false
	d.Trigger("a", func() { ran = true })
	assert.True(t, ran)
}
