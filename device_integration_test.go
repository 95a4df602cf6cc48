package main

import (
	"errors"
	"testing"
	"time"
)

// The integration tests wire the real pipeline - FIFO transport, echo
// terminal, mailbox, animator, matrix chip - and drive the animation
// clock by hand so every frame is deterministic.

func newIntegrationRig(t *testing.T) (*SerialFIFO, *EchoTerminal, *Animator, *MatrixChip, *recordDiag) {
	t.Helper()
	diag := &recordDiag{}
	fifo := NewSerialFIFO()
	mailbox := NewInputMailbox()
	editor := NewLineEditor(fifo, diag, EchoForward)
	term := NewEchoTerminal(fifo, editor, mailbox, diag)

	chip, err := NewMatrixChip(&fakeMatrixOutput{}, DefaultScanPeriod)
	if err != nil {
		t.Fatalf("expected chip to construct, got %v", err)
	}
	anim := NewAnimator(chip, mailbox, diag, DefaultTickPeriod)
	return fifo, term, anim, chip, diag
}

func tickN(anim *Animator, n int) {
	for i := 0; i < n; i++ {
		anim.Tick()
	}
}

func TestDevice_TypedByteLightsAndFades(t *testing.T) {
	fifo, term, anim, chip, diag := newIntegrationRig(t)
	wait := startSession(term)
	waitFlushes(t, fifo, 1)

	// Nothing typed yet: an idle tick latches a dark matrix.
	anim.Tick()
	if chip.Frame() != (Frame{}) {
		t.Fatalf("expected dark frame before input, got %v", chip.Frame())
	}

	fifo.EnqueueByte('A')
	waitFlushes(t, fifo, 2)
	anim.Tick()
	if chip.Frame() != GlyphFor('A', MaxBrightness) {
		t.Fatalf("expected 'A' at full brightness, got %v", chip.Frame())
	}
	found := false
	for _, ev := range diag.all() {
		if ev == "display 'A'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a display event for 'A', got %v", diag.all())
	}

	// The countdown plateaus at full brightness before the visible tail.
	tickN(anim, 15)
	if chip.Frame() != GlyphFor('A', MaxBrightness) {
		t.Fatalf("expected full brightness through the plateau, got %v", chip.Frame())
	}
	anim.Tick()
	if chip.Frame() != GlyphFor('A', 8) {
		t.Fatalf("expected brightness 8 entering the tail, got %v", chip.Frame())
	}
	tickN(anim, 4)
	if chip.Frame() != GlyphFor('A', 4) {
		t.Fatalf("expected brightness 4 near the end of the tail, got %v", chip.Frame())
	}

	// The countdown floor returns the matrix to idle and keeps it there.
	anim.Tick()
	if chip.Frame() != (Frame{}) {
		t.Fatalf("expected dark frame after the fade completed, got %v", chip.Frame())
	}
	anim.Tick()
	if chip.Frame() != (Frame{}) {
		t.Fatalf("expected the matrix to stay dark while idle, got %v", chip.Frame())
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestDevice_RepeatStrikeAndControlGlyphs(t *testing.T) {
	fifo, term, anim, chip, _ := newIntegrationRig(t)
	wait := startSession(term)
	waitFlushes(t, fifo, 1)

	fifo.EnqueueByte('B')
	waitFlushes(t, fifo, 2)
	anim.Tick()
	if chip.Frame() != GlyphFor('B', MaxBrightness) {
		t.Fatalf("expected 'B' at full brightness, got %v", chip.Frame())
	}

	// Striking the same key again blanks for one tick so the glyph
	// visibly restarts, then comes back at full brightness.
	fifo.EnqueueByte('B')
	waitFlushes(t, fifo, 3)
	anim.Tick()
	if chip.Frame() != (Frame{}) {
		t.Fatalf("expected a one-tick blink on repeat strike, got %v", chip.Frame())
	}
	anim.Tick()
	if chip.Frame() != GlyphFor('B', MaxBrightness) {
		t.Fatalf("expected 'B' back after the blink, got %v", chip.Frame())
	}

	// Enter renders its arrow glyph on the matrix while the editor
	// echoes the finished line.
	fifo.EnqueueByte(ByteEnter)
	waitFlushes(t, fifo, 4)
	anim.Tick()
	if chip.Frame() != GlyphFor(ByteEnter, MaxBrightness) {
		t.Fatalf("expected the enter arrow, got %v", chip.Frame())
	}

	// A byte with no glyph lights every cell; space darkens them all.
	fifo.EnqueueByte(0x01)
	waitFlushes(t, fifo, 5)
	anim.Tick()
	if chip.Frame() != allOnFrame(MaxBrightness) {
		t.Fatalf("expected all-on for an unmapped byte, got %v", chip.Frame())
	}
	fifo.EnqueueByte(ByteSpace)
	waitFlushes(t, fifo, 6)
	anim.Tick()
	if chip.Frame() != (Frame{}) {
		t.Fatalf("expected a dark frame for space, got %v", chip.Frame())
	}

	want := Greeting + "B" + "B" + "BB\r\n" + "\x01" + " "
	if got := fifo.DrainOutput(); got != want {
		t.Fatalf("expected echo %q, got %q", want, got)
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestDevice_ScanLoopDeliversLatchedFrames(t *testing.T) {
	output := &fakeMatrixOutput{}
	chip, err := NewMatrixChip(output, time.Millisecond)
	if err != nil {
		t.Fatalf("expected chip to construct, got %v", err)
	}
	if err := chip.Start(); err != nil {
		t.Fatalf("expected chip to start, got %v", err)
	}
	chip.Latch(GlyphFor('Z', MaxBrightness))

	deadline := time.Now().Add(2 * time.Second)
	for {
		frames := output.rendered()
		if len(frames) > 0 && frames[len(frames)-1] == GlyphFor('Z', MaxBrightness) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected the scan loop to render the latched frame")
		}
		time.Sleep(time.Millisecond)
	}
	if err := chip.Close(); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if chip.IsStarted() {
		t.Fatalf("expected chip stopped after close")
	}
}
