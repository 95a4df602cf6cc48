package main

import (
	"fmt"
	"sync"
)

// recordDiag captures diagnostic events for assertions.
type recordDiag struct {
	mu     sync.Mutex
	events []string
}

func (r *recordDiag) Eventf(format string, args ...any) {
	r.mu.Lock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recordDiag) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// recordSink captures every latched frame in order.
type recordSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recordSink) Latch(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *recordSink) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

func (r *recordSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// failAfterPort delegates to a SerialFIFO but fails writes once
// writesLeft is exhausted.
type failAfterPort struct {
	*SerialFIFO
	writesLeft int
}

func (p *failAfterPort) WriteByte(b byte) error {
	if p.writesLeft <= 0 {
		return fmt.Errorf("uart tx: %w", ErrPortClosed)
	}
	p.writesLeft--
	return p.SerialFIFO.WriteByte(b)
}
