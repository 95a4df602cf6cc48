//go:build headless

package main

import "sync/atomic"

type HeadlessMatrixOutput struct {
	started    bool
	frameCount uint64
}

func NewEbitenMatrix() (MatrixOutput, error) {
	return &HeadlessMatrixOutput{}, nil
}

func (h *HeadlessMatrixOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessMatrixOutput) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessMatrixOutput) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessMatrixOutput) IsStarted() bool {
	return h.started
}

func (h *HeadlessMatrixOutput) RenderFrame(frame Frame) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessMatrixOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}
