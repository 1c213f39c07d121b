package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Watch(t *testing.T) {
	watch := Watch{}

	watch.Start()
	time.Sleep(200 * time.Millisecond)
	dur := watch.Elapsed()
	assert.InDelta(t, 0.2, dur.Seconds(), 0.05, "seconds mismatch %v", dur.Seconds())

	watch.Pause()
	time.Sleep(200 * time.Millisecond)
	dur2 := watch.Elapsed()
	assert.InDelta(t, 0.2, dur2.Seconds(), 0.05, "paused seconds mismatch %v", dur2.Seconds())

	watch.UnPause()
	time.Sleep(200 * time.Millisecond)
	dur3 := watch.Toc()
	assert.InDelta(t, 0.4, dur3.Seconds(), 0.05, "unpaused seconds mismatch %v", dur3.Seconds())
	assert.Equal(t, 1, watch.Laps())
}

func Test_WatchAccumulates(t *testing.T) {
	var w Watch
	for i := 0; i < 3; i++ {
		w.Tic()
		time.Sleep(50 * time.Millisecond)
		w.Toc()
		time.Sleep(50 * time.Millisecond) // Not counted.
	}
	assert.Equal(t, 3, w.Laps())
	assert.InDelta(t, 0.15, w.Seconds(), 0.05, "accumulated seconds mismatch %v", w.Seconds())
	assert.Zero(t, (&Watch{}).Toc())

	w.Reset()
	assert.Zero(t, w.Elapsed())
}

func Test_WatchMisuse(t *testing.T) {
	var w Watch
	assert.Panics(t, func() { w.UnPause() })
	w.Start()
	w.Pause()
	assert.Panics(t, func() { w.Pause() })
	assert.Panics(t, func() { w.Tic() })
}
