// animator.go - Fading glyph animation driver

/*
██╗     ██╗   ██╗███╗   ███╗ █████╗ ████████╗██████╗ ██╗██╗  ██╗
██║     ██║   ██║████╗ ████║██╔══██╗╚══██╔══╝██╔══██╗██║╚██╗██╔╝
██║     ██║   ██║██╔████╔██║███████║   ██║   ██████╔╝██║ ╚███╔╝
██║     ██║   ██║██║╚██╔╝██║██╔══██║   ██║   ██╔══██╗██║ ██╔██╗
███████╗╚██████╔╝██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██║██╔╝ ██╗
╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝╚═╝  ╚═╝

(c) 2025 - 2026 The Lumatrix Authors
https://github.com/lumatrix/Lumatrix
License: GPLv3 or later
*/

package main

import (
	"sync"
	"time"
)

const (
	// MaxFadeStep is the fade countdown start; a fresh character holds
	// full brightness while the step sits above the brightness scale.
	MaxFadeStep = 24
	// MinFadeStep is the countdown floor; reaching it returns the
	// animation to idle.
	MinFadeStep = 3

	// DefaultTickPeriod is the 16 Hz animation cadence.
	DefaultTickPeriod = 62500 * time.Microsecond
)

// Animator runs the fade state machine. Each tick drains the mailbox
// once, advances the fade, and latches one frame into the sink. The fade
// state (remembered character and countdown step) belongs to the tick
// path alone; nothing else reads or writes it.
type Animator struct {
	sink    FrameSink
	mailbox *InputMailbox
	diag    Diagnostics

	ch    byte
	hasCh bool
	step  uint8

	tickPeriod time.Duration

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewAnimator(sink FrameSink, mailbox *InputMailbox, diag Diagnostics, tickPeriod time.Duration) *Animator {
	if diag == nil {
		diag = NopDiag{}
	}
	if tickPeriod <= 0 {
		tickPeriod = DefaultTickPeriod
	}
	return &Animator{
		sink:       sink,
		mailbox:    mailbox,
		diag:       diag,
		step:       MaxFadeStep,
		tickPeriod: tickPeriod,
	}
}

// Tick advances the animation by one frame. The tick goroutine calls
// this on its cadence; tests call it directly to drive time by hand.
func (a *Animator) Tick() {
	b, ok := a.mailbox.Take()
	if ok {
		a.step = MaxFadeStep
		a.diag.Eventf("display %q", b)
	}
	if a.step <= MinFadeStep {
		a.step = MaxFadeStep
		a.hasCh = false
	}
	bri := brightnessForStep(a.step)

	var frame Frame
	repeat := ok && a.hasCh && b == a.ch
	idle := !ok && !a.hasCh
	if !repeat && !idle {
		// A repeated strike renders one dark frame so the eye sees a
		// fresh blink; otherwise adopt any new character and draw.
		if ok {
			a.ch = b
			a.hasCh = true
		}
		if a.hasCh {
			frame = GlyphFor(a.ch, bri)
		}
	}
	a.step--
	a.sink.Latch(frame)
}

// brightnessForStep maps the countdown to the cell intensity: a plateau
// at full brightness, then a linear tail.
func brightnessForStep(step uint8) uint8 {
	if step > 8 {
		return MaxBrightness
	}
	return step
}

// Start launches the tick loop.
func (a *Animator) Start() {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.done = make(chan struct{})
	done := a.done
	a.mu.Unlock()
	go a.run(done)
}

func (a *Animator) run(done chan struct{}) {
	ticker := time.NewTicker(a.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Stop halts the tick loop. Safe to call twice.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	a.started = false
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}

func (a *Animator) IsStarted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}
