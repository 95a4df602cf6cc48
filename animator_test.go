package main

import (
	"strings"
	"testing"
	"time"
)

func newTestAnimator() (*Animator, *InputMailbox, *recordSink) {
	sink := &recordSink{}
	mb := NewInputMailbox()
	return NewAnimator(sink, mb, nil, time.Millisecond), mb, sink
}

func TestAnimator_IdleStaysBlank(t *testing.T) {
	anim, _, sink := newTestAnimator()
	for i := 0; i < 30; i++ {
		anim.Tick()
	}
	for i, f := range sink.frames {
		if f != (Frame{}) {
			t.Fatalf("tick %d: expected blank idle frame, got %v", i, f)
		}
	}
}

func TestAnimator_AdoptsCharacterAtFullBrightness(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('A')
	anim.Tick()
	if got := sink.last(); got != GlyphFor('A', MaxBrightness) {
		t.Fatalf("expected 'A' at full brightness, got %v", got)
	}
}

func TestAnimator_FadeSequence(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('A')

	// 'A' has a lit cell at row 2, col 0.
	probe := func(f Frame) uint8 { return f[2][0] }

	var got []uint8
	for i := 0; i < 26; i++ {
		anim.Tick()
		got = append(got, probe(sink.last()))
	}

	var want []uint8
	for i := 0; i < 16; i++ { // steps 24 down to 9 hold the plateau
		want = append(want, 9)
	}
	want = append(want, 8, 7, 6, 5, 4) // linear tail
	want = append(want, 0, 0, 0, 0, 0) // reset to idle, stays dark
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tick %d: expected brightness %d, got %d (full: %v)",
				i, want[i], got[i], got)
		}
	}
}

func TestAnimator_BrightnessNeverExceedsScale(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('W')
	for i := 0; i < 60; i++ {
		anim.Tick()
		f := sink.last()
		for r := range f {
			for c := range f[r] {
				if f[r][c] > MaxBrightness {
					t.Fatalf("tick %d cell (%d,%d): brightness %d out of scale", i, r, c, f[r][c])
				}
			}
		}
	}
}

func TestAnimator_RepeatStrikeBlinksThenFullBrightness(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('A')
	anim.Tick()
	for i := 0; i < 10; i++ { // let it fade partway
		anim.Tick()
	}

	mb.Publish('A')
	anim.Tick()
	if got := sink.last(); got != (Frame{}) {
		t.Fatalf("expected one blank tick on repeat strike, got %v", got)
	}
	anim.Tick()
	if got := sink.last(); got != GlyphFor('A', MaxBrightness) {
		t.Fatalf("expected full-brightness 'A' after the blink, got %v", got)
	}
}

func TestAnimator_DifferentCharacterReplacesImmediately(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('A')
	anim.Tick()
	for i := 0; i < 8; i++ {
		anim.Tick()
	}

	mb.Publish('B')
	anim.Tick()
	if got := sink.last(); got != GlyphFor('B', MaxBrightness) {
		t.Fatalf("expected 'B' at full brightness with no blank tick, got %v", got)
	}
}

func TestAnimator_DrainsMailboxOncePerTick(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('a')
	mb.Publish('b')
	mb.Publish('c')

	anim.Tick()
	if got := sink.last(); got != GlyphFor('c', MaxBrightness) {
		t.Fatalf("expected only the last published byte to display, got %v", got)
	}
	if _, ok := mb.Take(); ok {
		t.Fatalf("expected mailbox drained after tick")
	}
	anim.Tick()
	if got := sink.last(); got != GlyphFor('c', MaxBrightness) {
		t.Fatalf("expected fade of 'c' to continue, got %v", got)
	}
}

func TestAnimator_ReturnsToIdleAndForgets(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('Q')
	for i := 0; i < 22; i++ { // through the full fade and reset
		anim.Tick()
	}
	if got := sink.last(); got != (Frame{}) {
		t.Fatalf("expected blank after fade-out, got %v", got)
	}

	// The character was forgotten: striking it again is an adoption,
	// not a repeat blink.
	mb.Publish('Q')
	anim.Tick()
	if got := sink.last(); got != GlyphFor('Q', MaxBrightness) {
		t.Fatalf("expected immediate redisplay after idle, got %v", got)
	}
}

func TestAnimator_EscapeClearsDisplay(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('A')
	anim.Tick()

	mb.Publish(ByteEscape)
	anim.Tick()
	if got := sink.last(); got != (Frame{}) {
		t.Fatalf("expected blank frame after escape, got %v", got)
	}
}

func TestAnimator_DiagnosesAdoption(t *testing.T) {
	sink := &recordSink{}
	mb := NewInputMailbox()
	diag := &recordDiag{}
	anim := NewAnimator(sink, mb, diag, time.Millisecond)

	mb.Publish('k')
	anim.Tick()
	events := diag.all()
	if len(events) != 1 || !strings.Contains(events[0], "'k'") {
		t.Fatalf("expected one adoption event naming 'k', got %v", events)
	}
}

func TestAnimator_StartStop(t *testing.T) {
	anim, mb, sink := newTestAnimator()
	mb.Publish('R')
	anim.Start()
	if !anim.IsStarted() {
		t.Fatalf("expected started animator")
	}

	deadline := time.Now().Add(time.Second)
	for sink.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected ticker-driven frames, got %d", sink.count())
		}
		time.Sleep(time.Millisecond)
	}
	anim.Stop()
	anim.Stop()
	n := sink.count()
	time.Sleep(20 * time.Millisecond)
	if got := sink.count(); got != n {
		t.Fatalf("expected frames to stop at %d, got %d", n, got)
	}
}
