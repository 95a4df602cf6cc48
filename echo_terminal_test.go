package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// startSession runs the terminal loop in the background and returns a
// wait function that collects its exit error.
func startSession(term *EchoTerminal) func() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- term.Run()
	}()
	return func() error {
		return <-errCh
	}
}

// waitFlushes blocks until the device has flushed the port n times.
// One flush per processed byte plus one for the greeting.
func waitFlushes(t *testing.T, fifo *SerialFIFO, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for fifo.Flushes() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d flushes, got %d", n, fifo.Flushes())
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestSession(order EchoOrder, diag Diagnostics) (*SerialFIFO, *InputMailbox, *EchoTerminal) {
	fifo := NewSerialFIFO()
	mailbox := NewInputMailbox()
	editor := NewLineEditor(fifo, diag, order)
	return fifo, mailbox, NewEchoTerminal(fifo, editor, mailbox, diag)
}

func TestEchoTerminal_GreetingFirst(t *testing.T) {
	fifo, _, term := newTestSession(EchoForward, NopDiag{})
	wait := startSession(term)

	waitFlushes(t, fifo, 1)
	if got := fifo.DrainOutput(); got != Greeting {
		t.Fatalf("expected greeting %q, got %q", Greeting, got)
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestEchoTerminal_EditScenario(t *testing.T) {
	fifo, _, term := newTestSession(EchoForward, NopDiag{})
	wait := startSession(term)

	fifo.EnqueueString("AB")
	fifo.EnqueueByte(ByteBackspace)
	fifo.EnqueueByte(ByteEnter)

	waitFlushes(t, fifo, 5)
	want := Greeting + "AB\b \bA\r\n"
	if got := fifo.DrainOutput(); got != want {
		t.Fatalf("expected echo %q, got %q", want, got)
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestEchoTerminal_ReverseEchoScenario(t *testing.T) {
	fifo, _, term := newTestSession(EchoReverse, NopDiag{})
	wait := startSession(term)

	fifo.EnqueueString("AB")
	fifo.EnqueueByte(ByteEnter)

	waitFlushes(t, fifo, 4)
	want := Greeting + "AB" + "BA\r\n"
	if got := fifo.DrainOutput(); got != want {
		t.Fatalf("expected echo %q, got %q", want, got)
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

// Every received byte reaches the display mailbox, even ones the line
// editor rejects, and each is logged numerically.
func TestEchoTerminal_PublishesEveryByte(t *testing.T) {
	diag := &recordDiag{}
	fifo, mailbox, term := newTestSession(EchoForward, diag)
	wait := startSession(term)

	fill := strings.Repeat("x", LineCap)
	fifo.EnqueueString(fill)
	fifo.EnqueueByte('y') // 33rd byte: dropped by the editor

	waitFlushes(t, fifo, LineCap+2)

	if b, ok := mailbox.Take(); !ok || b != 'y' {
		t.Fatalf("expected mailbox to hold 'y', got %q ok=%v", b, ok)
	}
	want := Greeting + fill
	if got := fifo.DrainOutput(); got != want {
		t.Fatalf("expected echo %q, got %q", want, got)
	}

	var sawReceive, sawOverflow bool
	for _, ev := range diag.all() {
		if ev == "received byte 121" {
			sawReceive = true
		}
		if strings.Contains(ev, "line buffer full") {
			sawOverflow = true
		}
	}
	if !sawReceive {
		t.Fatalf("expected a received-byte event for 'y', got %v", diag.all())
	}
	if !sawOverflow {
		t.Fatalf("expected an overflow event, got %v", diag.all())
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestEchoTerminal_BellRingsBeeper(t *testing.T) {
	fifo, _, term := newTestSession(EchoForward, NopDiag{})
	beeper := NewBeeper()
	beeper.Start()
	term.SetBeeper(beeper)
	wait := startSession(term)

	fifo.EnqueueByte(ByteBell)
	waitFlushes(t, fifo, 2)

	if !beeper.Ringing() {
		t.Fatalf("expected beeper to be ringing after BEL")
	}
	// BEL is an ordinary byte to the editor: buffered and echoed.
	want := Greeting + "\a"
	if got := fifo.DrainOutput(); got != want {
		t.Fatalf("expected echo %q, got %q", want, got)
	}

	fifo.Close()
	if err := wait(); !errors.Is(err, ErrPortClosed) {
		t.Fatalf("expected ErrPortClosed, got %v", err)
	}
}

func TestEchoTerminal_GreetingWriteErrorFatal(t *testing.T) {
	fifo := NewSerialFIFO()
	port := &failAfterPort{SerialFIFO: fifo, writesLeft: 0}
	mailbox := NewInputMailbox()
	editor := NewLineEditor(port, NopDiag{}, EchoForward)
	term := NewEchoTerminal(port, editor, mailbox, NopDiag{})

	err := term.Run()
	if err == nil {
		t.Fatalf("expected error when greeting cannot be written")
	}
	if !strings.Contains(err.Error(), "greeting") {
		t.Fatalf("expected greeting failure, got %v", err)
	}
}

func TestEchoTerminal_EchoWriteErrorFatal(t *testing.T) {
	fifo := NewSerialFIFO()
	port := &failAfterPort{SerialFIFO: fifo, writesLeft: len(Greeting)}
	mailbox := NewInputMailbox()
	editor := NewLineEditor(port, NopDiag{}, EchoForward)
	term := NewEchoTerminal(port, editor, mailbox, NopDiag{})

	errCh := make(chan error, 1)
	go func() {
		errCh <- term.Run()
	}()

	fifo.EnqueueByte('A')
	select {
	case err := <-errCh:
		if err == nil {
			t.Fatalf("expected error when echo cannot be written")
		}
		if !strings.Contains(err.Error(), "echo") {
			t.Fatalf("expected echo failure, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected session to end on write failure")
	}
}
