package utils

import (
	"time"
)

// Watch measures elapsed wall time. Tic/Toc accumulate into a running total, so one Watch can time a phase
// that happens many times (e.g. the max-flow call of every unwrapping iteration).
// Not safe for concurrent use; give each goroutine its own.
type Watch struct {
	running   bool
	paused    bool
	startTime time.Time
	pauseTime time.Time
	total     time.Duration // Accumulated from finished Tic/Toc intervals.
	laps      int
}

// Tic starts (or restarts) an interval.
func (w *Watch) Tic() {
	if w.paused {
		panic("watch cant start because paused")
	}
	w.startTime = time.Now()
	w.running = true
}

// Toc closes the current interval, adds it to the total, and returns the interval length.
func (w *Watch) Toc() time.Duration {
	if !w.running {
		return 0
	}
	d := w.current(time.Now())
	w.total += d
	w.running = false
	w.laps++
	return d
}

// Start resets the watch and begins timing.
func (w *Watch) Start() {
	*w = Watch{}
	w.Tic()
}

// Elapsed returns the accumulated time, including the open interval if any. Time spent paused is excluded.
func (w *Watch) Elapsed() time.Duration {
	if !w.running {
		return w.total
	}
	return w.total + w.current(time.Now())
}

func (w *Watch) current(now time.Time) time.Duration {
	if w.paused {
		return w.pauseTime.Sub(w.startTime)
	}
	return now.Sub(w.startTime)
}

// Pause freezes the open interval; returns the elapsed time so far.
func (w *Watch) Pause() time.Duration {
	if w.paused {
		panic("watch already paused")
	}
	w.pauseTime = time.Now()
	w.paused = true
	return w.Elapsed()
}

func (w *Watch) UnPause() {
	if !w.paused {
		panic("watch wasn't paused")
	}
	w.paused = false
	w.startTime = w.startTime.Add(time.Since(w.pauseTime))
}

// Seconds of accumulated time.
func (w *Watch) Seconds() float64 {
	return w.Elapsed().Seconds()
}

// Laps is the number of completed Tic/Toc intervals.
func (w *Watch) Laps() int {
	return w.laps
}

func (w *Watch) Reset() {
	*w = Watch{}
}
