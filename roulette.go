package main

import (
	"sync"
	"time"
)

// DefaultRouletteStepPeriod is how long each chase position holds.
const DefaultRouletteStepPeriod = 30 * time.Millisecond

// Roulette is the demo animation: a single full-brightness cell walking
// the matrix perimeter clockwise from the top-left corner. It drives the
// same FrameSink as the glyph animator, so every display backend gets the
// demo for free.
type Roulette struct {
	sink FrameSink
	x, y int

	stepPeriod time.Duration

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewRoulette(sink FrameSink, stepPeriod time.Duration) *Roulette {
	if stepPeriod <= 0 {
		stepPeriod = DefaultRouletteStepPeriod
	}
	return &Roulette{sink: sink, stepPeriod: stepPeriod}
}

// Tick latches the current chase frame and advances one position.
func (r *Roulette) Tick() {
	var frame Frame
	frame[r.y][r.x] = MaxBrightness
	r.sink.Latch(frame)
	r.x, r.y = nextPerimeter(r.x, r.y)
}

// nextPerimeter walks the matrix edge clockwise: top row left to right,
// right column down, bottom row right to left, left column up.
func nextPerimeter(x, y int) (int, int) {
	switch {
	case y == 0 && x < MatrixCols-1:
		return x + 1, y
	case x == MatrixCols-1 && y < MatrixRows-1:
		return x, y + 1
	case y == MatrixRows-1 && x > 0:
		return x - 1, y
	case x == 0 && y > 0:
		return x, y - 1
	}
	return 0, 0
}

func (r *Roulette) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(r.stepPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.Tick()
			}
		}
	}()
}

func (r *Roulette) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	r.started = false
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}
