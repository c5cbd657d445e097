package timers

import (
	"sync"
	"time"
)

// Queue schedules one-shot callbacks that can be suspended as a group.
type Queue struct {
	// running is held for reading by every callback while it runs, so
	// Pause can wait for callbacks already past their deadline.
	running sync.RWMutex

	mu      sync.Mutex
	now     func() time.Time
	paused  bool
	stopped bool
	pending map[*Handle]struct{}
}

// Handle is a scheduled callback.
type Handle struct {
	q         *Queue
	f         func()
	timer     *time.Timer
	due       time.Time
	remaining time.Duration
	gen       uint64
}

// NewQueue returns an empty, running queue.
func NewQueue() *Queue {
	return &Queue{
		now:     time.Now,
		pending: make(map[*Handle]struct{}),
	}
}

// AfterFunc schedules f to run once d of playing time has passed. If the
// queue is paused the countdown starts on the next Resume. After Stop the
// returned handle is inert.
func (q *Queue) AfterFunc(d time.Duration, f func()) *Handle {
	if d < 0 {
		d = 0
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	h := &Handle{q: q, f: f, remaining: d}
	if q.stopped {
		return h
	}
	q.pending[h] = struct{}{}
	if !q.paused {
		q.armLocked(h)
	}
	return h
}

// Pause stops every pending timer and remembers how long each had left.
// It first waits for callbacks that are already running, so none runs
// after Pause returns. A timer whose callback is racing to fire is held
// with zero remaining time and released by Resume. Pause must not be
// called from a callback.
func (q *Queue) Pause() {
	q.running.Lock()
	defer q.running.Unlock()

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.paused || q.stopped {
		return
	}
	q.paused = true

	now := q.now()
	for h := range q.pending {
		if h.timer == nil {
			continue
		}
		h.timer.Stop()
		h.timer = nil
		h.gen++
		h.remaining = max(h.due.Sub(now), 0)
	}
}

// Resume restarts every held timer with its remaining time.
func (q *Queue) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.paused || q.stopped {
		return
	}
	q.paused = false
	for h := range q.pending {
		q.armLocked(h)
	}
}

// Stop cancels every pending timer permanently.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopped = true
	for h := range q.pending {
		if h.timer != nil {
			h.timer.Stop()
		}
		h.gen++
		delete(q.pending, h)
	}
}

// Pending returns the number of callbacks that have not yet run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Paused reports whether the queue is suspended.
func (q *Queue) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// Stop cancels the callback. It reports whether the callback was still
// pending.
func (h *Handle) Stop() bool {
	q := h.q
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.pending[h]; !ok {
		return false
	}
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
	delete(q.pending, h)
	return true
}

func (q *Queue) armLocked(h *Handle) {
	h.gen++
	gen := h.gen
	h.due = q.now().Add(h.remaining)
	h.timer = time.AfterFunc(h.remaining, func() {
		q.fire(h, gen)
	})
}

// fire runs h unless it was cancelled or paused since it was armed.
func (q *Queue) fire(h *Handle, gen uint64) {
	q.running.RLock()
	defer q.running.RUnlock()

	q.mu.Lock()
	if _, ok := q.pending[h]; !ok || h.gen != gen {
		q.mu.Unlock()
		return
	}
	delete(q.pending, h)
	q.mu.Unlock()

	// Callbacks run outside the lock so they may schedule new timers.
	h.f()
}
