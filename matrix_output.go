// matrix_output.go - Display backend interface for the LED matrix

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

import "fmt"

// DisplayError provides detailed error context for display operations
type DisplayError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *DisplayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("display %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("display %s failed: %s", e.Operation, e.Details)
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// MatrixOutput is the minimal interface a display backend must implement.
// RenderFrame receives a complete frame snapshot each scan; backends latch
// or multiplex it however their medium requires.
type MatrixOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	RenderFrame(frame Frame) error
}

// KeySource is implemented by backends that can source keystrokes
// (the window and terminal simulators). Bytes emitted by the handler
// feed the device's serial input in sim mode.
type KeySource interface {
	SetKeyHandler(fn func(byte))
}

// ConsoleSink is implemented by backends that can render the device's
// echo output alongside the matrix.
type ConsoleSink interface {
	ConsoleByte(b byte)
}

// CloseNotifier is implemented by backends whose surface the user can
// dismiss (window close button, Ctrl+C in the terminal simulator). The
// returned channel closes when that happens.
type CloseNotifier interface {
	Done() <-chan struct{}
}

// WindowScaler is implemented by backends with a scalable window.
type WindowScaler interface {
	SetScale(scale int)
}

// DefaultWindowScale is the window size multiplier applied when no
// -scale flag is given.
const DefaultWindowScale = 4

// echoLineCap bounds the one-line echo view the simulator backends
// keep; the device itself has no such limit.
const echoLineCap = 64

// Predefined matrix backend types
const (
	MATRIX_BACKEND_EBITEN = iota // Desktop window (pure Go Ebiten)
	MATRIX_BACKEND_TCELL         // Full-terminal simulator
	MATRIX_BACKEND_GPIO          // Real LEDs on GPIO pins (Linux)
)

// NewMatrixOutput creates a display backend by type. The GPIO backend
// needs pin configuration and is constructed directly via NewGPIOMatrix.
func NewMatrixOutput(backend int) (MatrixOutput, error) {
	switch backend {
	case MATRIX_BACKEND_EBITEN:
		return NewEbitenMatrix()
	case MATRIX_BACKEND_TCELL:
		return NewTcellMatrix()
	case MATRIX_BACKEND_GPIO:
		return nil, &DisplayError{
			Operation: "backend creation",
			Details:   "gpio backend requires pin names, use NewGPIOMatrix",
		}
	}
	return nil, &DisplayError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
