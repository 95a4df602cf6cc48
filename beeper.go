// beeper.go - BEL tone generator

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

import "sync"

const (
	BeeperSampleRate = 44100
	beepFrequency    = 880.0
	beepVolume       = 0.25

	// 60ms of burst at the beeper rate.
	beepSamples = BeeperSampleRate * 60 / 1000
)

// Beeper synthesises the terminal bell: a short square-wave burst with
// a linear decay. The audio backend pulls samples one at a time; when
// no burst is in flight the output is silence.
type Beeper struct {
	mu        sync.Mutex
	remaining int
	phase     float64
	started   bool
}

func NewBeeper() *Beeper {
	return &Beeper{}
}

// Ring arms a bell burst. A ring landing mid-burst restarts it.
func (bp *Beeper) Ring() {
	bp.mu.Lock()
	bp.remaining = beepSamples
	bp.phase = 0
	bp.mu.Unlock()
}

// Ringing reports whether a burst still has samples to play.
func (bp *Beeper) Ringing() bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.remaining > 0
}

func (bp *Beeper) ReadSample() float32 {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if !bp.started || bp.remaining == 0 {
		return 0
	}

	v := float32(beepVolume)
	if bp.phase >= 0.5 {
		v = -v
	}
	v *= float32(bp.remaining) / float32(beepSamples)

	bp.phase += beepFrequency / BeeperSampleRate
	if bp.phase >= 1 {
		bp.phase -= 1
	}
	bp.remaining--
	return v
}

func (bp *Beeper) Start() {
	bp.mu.Lock()
	bp.started = true
	bp.mu.Unlock()
}

func (bp *Beeper) Stop() {
	bp.mu.Lock()
	bp.started = false
	bp.mu.Unlock()
}

func (bp *Beeper) IsStarted() bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.started
}
