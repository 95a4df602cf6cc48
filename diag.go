package main

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// Diagnostics receives debug events from the device core. Implementations
// must never block the caller: the serial mainline and the animation tick
// both emit events from latency-sensitive paths.
type Diagnostics interface {
	Eventf(format string, args ...any)
}

// NopDiag discards every event.
type NopDiag struct{}

func (NopDiag) Eventf(string, ...any) {}

// LogDiag hands events to a stdlib logger from its own goroutine. Events
// beyond the buffer depth are counted and dropped rather than stalling
// the emitter.
type LogDiag struct {
	ch      chan string
	quit    chan struct{}
	done    chan struct{}
	logger  *log.Logger
	dropped atomic.Uint64
	once    sync.Once
}

func NewLogDiag(logger *log.Logger, depth int) *LogDiag {
	if depth <= 0 {
		depth = 64
	}
	d := &LogDiag{
		ch:     make(chan string, depth),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
	go d.drain()
	return d
}

func (d *LogDiag) drain() {
	defer close(d.done)
	for {
		select {
		case line := <-d.ch:
			d.logger.Print(line)
		case <-d.quit:
			for {
				select {
				case line := <-d.ch:
					d.logger.Print(line)
				default:
					if n := d.dropped.Load(); n > 0 {
						d.logger.Printf("%d diagnostic events dropped", n)
					}
					return
				}
			}
		}
	}
}

// Eventf queues one event, dropping it if the buffer is full.
func (d *LogDiag) Eventf(format string, args ...any) {
	select {
	case d.ch <- fmt.Sprintf(format, args...):
	default:
		d.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded under backpressure.
func (d *LogDiag) Dropped() uint64 {
	return d.dropped.Load()
}

// Close flushes buffered events and stops the drain goroutine. Events
// emitted after Close are silently lost.
func (d *LogDiag) Close() {
	d.once.Do(func() { close(d.quit) })
	<-d.done
}
