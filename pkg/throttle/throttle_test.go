package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestThrottleRunsFirstCallImmediately(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	s.Throttle("a", 50*time.Millisecond, func() { calls++ })

	assert.Equal(t, 1, calls)
	assert.False(t, s.Pending("a"))
}

func TestThrottleCoalescesBurstIntoLastCall(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	var got []int
	s.Throttle("a", 50*time.Millisecond, func() { got = append(got, 0) })
	for i := 1; i <= 5; i++ {
		clock.Advance(5 * time.Millisecond)
		i := i
		s.Throttle("a", 50*time.Millisecond, func() { got = append(got, i) })
	}
	require.Equal(t, []int{0}, got)
	require.True(t, s.Pending("a"))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(49 * time.Millisecond)
	assert.Equal(t, []int{0}, got)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []int{0, 5}, got)
	assert.False(t, s.Pending("a"))
}

func TestThrottleRunsAgainAfterInterval(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	s.Throttle("a", 50*time.Millisecond, func() { calls++ })
	clock.Advance(51 * time.Millisecond)
	s.Throttle("a", 50*time.Millisecond, func() { calls++ })

	assert.Equal(t, 2, calls)
	assert.False(t, s.Pending("a"))
}

func TestThrottleKeysAreIndependent(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	var a, b int
	s.Throttle("a", 50*time.Millisecond, func() { a++ })
	s.Throttle("b", 50*time.Millisecond, func() { b++ })
	s.Throttle("a", 50*time.Millisecond, func() { a++ })

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
	assert.True(t, s.Pending("a"))
	assert.False(t, s.Pending("b"))
}

func TestClearDropsPendingCall(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	s.Throttle("a", 50*time.Millisecond, func() { calls++ })
	s.Throttle("a", 50*time.Millisecond, func() { calls++ })
	done := s.Done("a")

	s.Clear("a")
	clock.Advance(time.Second)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Len())
	select {
	case <-done:
	default:
		t.Fatal("Done channel should be released by Clear")
	}
}

func TestClearAll(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	for _, key := range []string{"a", "b", "c"} {
		s.Throttle(key, 50*time.Millisecond, func() {})
		s.Throttle(key, 50*time.Millisecond, func() { calls++ })
	}
	require.Equal(t, 3, s.Len())

	s.ClearAll()
	clock.Advance(time.Second)

	assert.Zero(t, calls)
	assert.Zero(t, s.Len())
}

func TestDoneResolvesAfterTrailingCall(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	select {
	case <-s.Done("missing"):
	default:
		t.Fatal("Done on an unknown key should be closed")
	}

	s.Throttle("a", 50*time.Millisecond, func() {})
	select {
	case <-s.Done("a"):
	default:
		t.Fatal("Done without a pending call should be closed")
	}

	ran := false
	s.Throttle("a", 50*time.Millisecond, func() { ran = true })
	done := s.Done("a")
	select {
	case <-done:
		t.Fatal("Done should block while a call is pending")
	default:
	}

	clock.Advance(50 * time.Millisecond)
	<-done
	assert.True(t, ran)
}

func TestWaitHonorsContext(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	s.Throttle("a", 50*time.Millisecond, func() {})
	s.Throttle("a", 50*time.Millisecond, func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx, "a"), context.Canceled)
}

func TestSweepRemovesIdleEntriesOnNewKey(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	s.Throttle("old", 50*time.Millisecond, func() {})
	clock.Advance(IdleTTL + time.Second)
	s.Throttle("new", 50*time.Millisecond, func() {})

	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Pending("old"))
}

func TestSweepKeepsRecentEntries(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	s.Throttle("recent", 50*time.Millisecond, func() {})
	clock.Advance(IdleTTL / 2)
	s.Throttle("new", 50*time.Millisecond, func() {})

	assert.Equal(t, 2, s.Len())
}

func TestCallbackMayRearm(t *testing.T) {
	clock := NewManualClock(epoch)
	s := New(clock)

	calls := 0
	var fn func()
	fn = func() {
		calls++
		if calls == 2 {
			s.Throttle("a", 50*time.Millisecond, fn)
		}
	}
	s.Throttle("a", 50*time.Millisecond, fn)
	s.Throttle("a", 50*time.Millisecond, fn)
	clock.Advance(50 * time.Millisecond)

	assert.Equal(t, 2, calls)
	assert.True(t, s.Pending("a"))

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, 3, calls)
}
