//go:build headless

package main

type BeeperPlayer struct {
	started bool
}

func NewBeeperPlayer(sampleRate int) (*BeeperPlayer, error) {
	return &BeeperPlayer{}, nil
}

func (bo *BeeperPlayer) SetupPlayer(beeper *Beeper) {}

func (bo *BeeperPlayer) Start() {
	bo.started = true
}

func (bo *BeeperPlayer) Stop() {
	bo.started = false
}

func (bo *BeeperPlayer) Close() {
	bo.started = false
}
