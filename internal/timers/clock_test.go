package timers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time         { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock_ExcludesPausedTime(t *testing.T) {
	// --- Arrange ---
	wall := &fakeNow{t: time.Unix(1000, 0)}
	c := NewClock(WithNow(wall.now))

	// --- Act & Assert ---
	wall.advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Now())

	c.Pause()
	assert.True(t, c.Paused())
	wall.advance(time.Minute)
	assert.Equal(t, 3*time.Second, c.Now(), "time must not pass while paused")

	c.Resume()
	wall.advance(2 * time.Second)
	assert.Equal(t, 5*time.Second, c.Now())
}

func TestClock_RedundantTransitions(t *testing.T) {
	wall := &fakeNow{t: time.Unix(0, 0)}
	c := NewClock(WithNow(wall.now))

	c.Resume()
	wall.advance(time.Second)
	c.Pause()
	c.Pause()
	wall.advance(time.Second)
	assert.Equal(t, time.Second, c.Now())
}

func TestClock_StartingAt(t *testing.T) {
	wall := &fakeNow{t: time.Unix(0, 0)}
	c := NewClock(WithNow(wall.now), StartingAt(10*time.Second))

	wall.advance(time.Second)
	assert.Equal(t, 11*time.Second, c.Now())
}
