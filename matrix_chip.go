// matrix_chip.go - Latched display surface and scan loop

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
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultScanPeriod suits window and terminal backends. Real GPIO
// multiplexing wants a sub-millisecond period (one matrix row is lit
// per scan, so the full image repaints every five scans).
const DefaultScanPeriod = 16 * time.Millisecond

// FrameSink accepts complete frames. The animation driver renders
// through this; MatrixChip is the canonical implementation.
type FrameSink interface {
	Latch(frame Frame)
}

// MatrixChip owns the latched frame and feeds it to the display backend
// from its own scan goroutine. Latch replaces the whole frame at once;
// a scan can never observe a half-written image.
type MatrixChip struct {
	mu      sync.Mutex
	frame   Frame
	started bool
	done    chan struct{}

	output     MatrixOutput
	scanPeriod time.Duration
	scans      atomic.Uint64
}

func NewMatrixChip(output MatrixOutput, scanPeriod time.Duration) (*MatrixChip, error) {
	if output == nil {
		return nil, &DisplayError{Operation: "chip creation", Details: "nil output backend"}
	}
	if scanPeriod <= 0 {
		scanPeriod = DefaultScanPeriod
	}
	return &MatrixChip{
		output:     output,
		scanPeriod: scanPeriod,
	}, nil
}

// Latch replaces the displayed frame.
func (mc *MatrixChip) Latch(frame Frame) {
	mc.mu.Lock()
	mc.frame = frame
	mc.mu.Unlock()
}

// Frame returns a copy of the latched frame.
func (mc *MatrixChip) Frame() Frame {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.frame
}

// Scans reports how many scan passes have run.
func (mc *MatrixChip) Scans() uint64 {
	return mc.scans.Load()
}

func (mc *MatrixChip) IsStarted() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.started
}

// Start brings up the backend and launches the scan loop.
func (mc *MatrixChip) Start() error {
	mc.mu.Lock()
	if mc.started {
		mc.mu.Unlock()
		return nil
	}
	mc.started = true
	mc.done = make(chan struct{})
	done := mc.done
	mc.mu.Unlock()

	if err := mc.output.Start(); err != nil {
		mc.mu.Lock()
		mc.started = false
		mc.mu.Unlock()
		return fmt.Errorf("matrix output start: %w", err)
	}
	go mc.scanLoop(done)
	return nil
}

// Stop halts the scan loop and the backend. Safe to call twice.
func (mc *MatrixChip) Stop() error {
	mc.mu.Lock()
	if !mc.started {
		mc.mu.Unlock()
		return nil
	}
	mc.started = false
	select {
	case <-mc.done:
	default:
		close(mc.done)
	}
	mc.mu.Unlock()
	return mc.output.Stop()
}

// Close stops the chip and releases the backend.
func (mc *MatrixChip) Close() error {
	if err := mc.Stop(); err != nil {
		return err
	}
	return mc.output.Close()
}

func (mc *MatrixChip) scanLoop(done chan struct{}) {
	ticker := time.NewTicker(mc.scanPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := mc.output.RenderFrame(mc.Frame()); err != nil {
				fmt.Printf("matrix render error: %v\n", err)
			}
			mc.scans.Add(1)
		}
	}
}
