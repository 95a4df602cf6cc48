package main

import "sync"

// InputMailbox is the single-slot handoff between the serial mainline and
// the animation tick. A publish overwrites whatever is pending; a take
// empties the slot. Bytes arriving faster than one per tick are lost,
// which is the intended behavior: the animator only ever wants the most
// recent character.
type InputMailbox struct {
	mu   sync.Mutex
	b    byte
	full bool
}

func NewInputMailbox() *InputMailbox {
	return &InputMailbox{}
}

// Publish stores b, replacing any pending byte.
func (m *InputMailbox) Publish(b byte) {
	m.mu.Lock()
	m.b = b
	m.full = true
	m.mu.Unlock()
}

// Take removes and returns the pending byte, if any.
func (m *InputMailbox) Take() (byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return 0, false
	}
	m.full = false
	return m.b, true
}
