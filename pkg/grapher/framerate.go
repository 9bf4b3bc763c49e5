package grapher

import (
	"sync"
	"time"
)

// frameRate measures presented frames per second. The rate is recomputed
// once per period from the frames counted during it.
type frameRate struct {
	mu     sync.Mutex
	period time.Duration
	start  time.Time
	frames int
	fps    float64
}

func newFrameRate(period time.Duration, now time.Time) *frameRate {
	if period <= 0 {
		period = time.Second
	}
	return &frameRate{period: period, start: now}
}

func (r *frameRate) tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	if elapsed := now.Sub(r.start); elapsed >= r.period {
		r.fps = float64(r.frames) / elapsed.Seconds()
		r.frames = 0
		r.start = now
	}
}

func (r *frameRate) value() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fps
}
