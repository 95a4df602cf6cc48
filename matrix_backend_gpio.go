//go:build linux

// matrix_backend_gpio.go - Real LED matrix on GPIO pins (periph.io)

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

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOMatrix drives a bare 5x5 LED matrix wired straight to GPIO pins.
// Rows source current (active high), columns sink it (active low), the
// usual common-anode-per-row arrangement. One row is energised per
// RenderFrame call, so the scan period should be set in the 1-2ms
// range for a flicker-free sweep.
//
// Brightness uses temporal dithering: a cell is lit on a given sweep
// when its level exceeds the sweep's pass number, with passes cycling
// 0..8. Level 9 is always on, level 0 always off.
type GPIOMatrix struct {
	mu      sync.Mutex
	rows    [MatrixRows]gpio.PinIO
	cols    [MatrixCols]gpio.PinIO
	started bool
	scanRow int
	pass    uint8
	frame   Frame
}

func NewGPIOMatrix(rowNames, colNames []string) (MatrixOutput, error) {
	if len(rowNames) != MatrixRows || len(colNames) != MatrixCols {
		return nil, &DisplayError{
			Operation: "gpio init",
			Details: fmt.Sprintf("need %d row and %d column pins, got %d and %d",
				MatrixRows, MatrixCols, len(rowNames), len(colNames)),
		}
	}
	if _, err := host.Init(); err != nil {
		return nil, &DisplayError{
			Operation: "gpio init",
			Details:   "loading host drivers",
			Err:       err,
		}
	}

	gm := &GPIOMatrix{}
	for i, name := range rowNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, &DisplayError{
				Operation: "gpio init",
				Details:   fmt.Sprintf("no such pin %q", name),
			}
		}
		gm.rows[i] = pin
	}
	for i, name := range colNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, &DisplayError{
				Operation: "gpio init",
				Details:   fmt.Sprintf("no such pin %q", name),
			}
		}
		gm.cols[i] = pin
	}
	return gm, nil
}

func (gm *GPIOMatrix) Start() error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if gm.started {
		return nil
	}
	if err := gm.blankLocked(); err != nil {
		return err
	}
	gm.started = true
	return nil
}

func (gm *GPIOMatrix) Stop() error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if !gm.started {
		return nil
	}
	gm.started = false
	return gm.blankLocked()
}

func (gm *GPIOMatrix) Close() error {
	return gm.Stop()
}

func (gm *GPIOMatrix) IsStarted() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.started
}

func (gm *GPIOMatrix) blankLocked() error {
	for _, pin := range gm.rows {
		if err := pin.Out(gpio.Low); err != nil {
			return &DisplayError{
				Operation: "gpio write",
				Details:   fmt.Sprintf("blanking row pin %s", pin.Name()),
				Err:       err,
			}
		}
	}
	for _, pin := range gm.cols {
		if err := pin.Out(gpio.High); err != nil {
			return &DisplayError{
				Operation: "gpio write",
				Details:   fmt.Sprintf("releasing column pin %s", pin.Name()),
				Err:       err,
			}
		}
	}
	return nil
}

// RenderFrame advances the multiplex scan by one row: the previous row
// is de-energised, the next row's column sinks are set up, and the row
// is driven high.
func (gm *GPIOMatrix) RenderFrame(frame Frame) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if !gm.started {
		return &DisplayError{
			Operation: "render",
			Details:   "gpio backend not started",
		}
	}
	gm.frame = frame

	if err := gm.rows[gm.scanRow].Out(gpio.Low); err != nil {
		return &DisplayError{
			Operation: "render",
			Details:   fmt.Sprintf("blanking row %d", gm.scanRow),
			Err:       err,
		}
	}

	gm.scanRow = (gm.scanRow + 1) % MatrixRows
	if gm.scanRow == 0 {
		gm.pass++
		if gm.pass >= MaxBrightness {
			gm.pass = 0
		}
	}
	row := gm.scanRow

	for col := 0; col < MatrixCols; col++ {
		level := gpio.High
		if gm.frame[row][col] > gm.pass {
			level = gpio.Low
		}
		if err := gm.cols[col].Out(level); err != nil {
			return &DisplayError{
				Operation: "render",
				Details:   fmt.Sprintf("setting column %d", col),
				Err:       err,
			}
		}
	}
	if err := gm.rows[row].Out(gpio.High); err != nil {
		return &DisplayError{
			Operation: "render",
			Details:   fmt.Sprintf("energising row %d", row),
			Err:       err,
		}
	}
	return nil
}
