package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Fires(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})

	q.AfterFunc(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_PauseSuspendsAndResumeReleases(t *testing.T) {
	// --- Arrange ---
	q := NewQueue()
	var fired atomic.Int32
	done := make(chan struct{})
	q.AfterFunc(40*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})

	// --- Act ---
	q.Pause()
	time.Sleep(100 * time.Millisecond)

	// --- Assert ---
	assert.Equal(t, int32(0), fired.Load(), "timer must not fire while paused")
	assert.Equal(t, 1, q.Pending())
	assert.True(t, q.Paused())

	q.Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire after resume")
	}
	assert.Equal(t, int32(1), fired.Load())
}

func TestQueue_ScheduledWhilePausedWaitsForResume(t *testing.T) {
	q := NewQueue()
	q.Pause()

	var fired atomic.Bool
	q.AfterFunc(0, func() { fired.Store(true) })
	time.Sleep(30 * time.Millisecond)
	assert.False(t, fired.Load())

	q.Resume()
	require.Eventually(t, fired.Load, time.Second, 5*time.Millisecond)
}

func TestHandle_Stop(t *testing.T) {
	q := NewQueue()
	var fired atomic.Bool
	h := q.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })

	assert.True(t, h.Stop())
	assert.False(t, h.Stop(), "second stop reports nothing pending")

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_Stop(t *testing.T) {
	q := NewQueue()
	var fired atomic.Int32
	q.AfterFunc(10*time.Millisecond, func() { fired.Add(1) })
	q.AfterFunc(10*time.Millisecond, func() { fired.Add(1) })

	q.Stop()
	h := q.AfterFunc(0, func() { fired.Add(1) })
	assert.False(t, h.Stop())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_CallbackMaySchedule(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})

	q.AfterFunc(time.Millisecond, func() {
		q.AfterFunc(time.Millisecond, func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested timer did not fire")
	}
}

func TestQueue_PauseWaitsForRunningCallback(t *testing.T) {
	// --- Arrange ---
	q := NewQueue()
	started := make(chan struct{})
	release := make(chan struct{})
	q.AfterFunc(0, func() {
		close(started)
		<-release
	})
	<-started

	// --- Act ---
	paused := make(chan struct{})
	go func() {
		q.Pause()
		close(paused)
	}()

	// --- Assert ---
	select {
	case <-paused:
		t.Fatal("Pause returned while a callback was still running")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-paused:
	case <-time.After(time.Second):
		t.Fatal("Pause did not return after the callback finished")
	}
	assert.True(t, q.Paused())
}

func TestQueue_NoCallbackRunsAfterPause(t *testing.T) {
	q := NewQueue()
	var afterPause atomic.Int32
	var paused atomic.Bool

	var tick func()
	tick = func() {
		if paused.Load() {
			afterPause.Add(1)
		}
		q.AfterFunc(0, tick)
	}
	q.AfterFunc(0, tick)

	for range 200 {
		q.Pause()
		paused.Store(true)
		time.Sleep(50 * time.Microsecond)
		paused.Store(false)
		q.Resume()
	}
	q.Stop()

	assert.Zero(t, afterPause.Load())
}
