//go:build !headless

// beeper_backend_oto.go - OTO v3 output for the bell

package main

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

type BeeperPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	beeper    atomic.Pointer[Beeper] // Atomic for lock-free Read()
	sampleBuf []float32              // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewBeeperPlayer(sampleRate int) (*BeeperPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &BeeperPlayer{ctx: ctx}, nil
}

func (bo *BeeperPlayer) SetupPlayer(beeper *Beeper) {
	bo.mutex.Lock()
	defer bo.mutex.Unlock()

	bo.beeper.Store(beeper)
	bo.player = bo.ctx.NewPlayer(bo)
	bo.sampleBuf = make([]float32, 4096)
}

func (bo *BeeperPlayer) Read(p []byte) (n int, err error) {
	// Load the beeper pointer atomically - no lock on the hot path
	beeper := bo.beeper.Load()
	if beeper == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	if len(bo.sampleBuf) < numSamples {
		bo.sampleBuf = make([]float32, numSamples)
	}
	samples := bo.sampleBuf[:numSamples]

	for i := range samples {
		samples[i] = beeper.ReadSample()
	}
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return len(p), nil
}

func (bo *BeeperPlayer) Start() {
	bo.mutex.Lock()
	defer bo.mutex.Unlock()

	if !bo.started && bo.player != nil {
		bo.player.Play()
		bo.started = true
	}
}

func (bo *BeeperPlayer) Stop() {
	bo.mutex.Lock()
	defer bo.mutex.Unlock()

	if bo.started && bo.player != nil {
		bo.player.Close()
		bo.started = false
	}
}

func (bo *BeeperPlayer) Close() {
	bo.Stop()
}
