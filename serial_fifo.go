package main

import "sync"

// SerialFIFO is a pure in-memory serial port. The host side injects bytes
// with EnqueueByte/EnqueueString; the device side consumes them through the
// SerialPort interface. Echo written by the device accumulates in an output
// buffer drained by tests, or is delivered byte-by-byte to an output
// callback so simulators can render it live.
type SerialFIFO struct {
	mu   sync.Mutex
	cond *sync.Cond

	// Input ring buffer, host -> device.
	inputBuf  [1024]byte
	inputHead int // next read position
	inputTail int // next write position
	inputLen  int // number of bytes in buffer

	// Output, device -> host.
	outputBuf []byte

	// onOutput, when set, receives echoed bytes immediately.
	// Invoked outside mu to avoid re-entrancy deadlocks.
	onOutput func(byte)

	flushes int
	closed  bool
}

func NewSerialFIFO() *SerialFIFO {
	f := &SerialFIFO{
		outputBuf: make([]byte, 0, 256),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// SetOutputCallback registers a sink for echoed bytes. When set, bytes are
// still buffered for DrainOutput.
func (f *SerialFIFO) SetOutputCallback(fn func(byte)) {
	f.mu.Lock()
	f.onOutput = fn
	f.mu.Unlock()
}

// EnqueueByte injects one byte on the host side. Bytes beyond the ring
// capacity are dropped.
func (f *SerialFIFO) EnqueueByte(b byte) {
	f.mu.Lock()
	f.enqueueInputByteLocked(b)
	f.mu.Unlock()
	f.cond.Signal()
}

// EnqueueString injects each byte of s in order.
func (f *SerialFIFO) EnqueueString(s string) {
	f.mu.Lock()
	for i := 0; i < len(s); i++ {
		f.enqueueInputByteLocked(s[i])
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *SerialFIFO) enqueueInputByteLocked(b byte) {
	if f.inputLen >= len(f.inputBuf) {
		return
	}
	f.inputBuf[f.inputTail] = b
	f.inputTail = (f.inputTail + 1) % len(f.inputBuf)
	f.inputLen++
}

// ReadByte blocks until a byte is available or the port closes. Bytes
// enqueued before Close are still delivered.
func (f *SerialFIFO) ReadByte() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.inputLen == 0 && !f.closed {
		f.cond.Wait()
	}
	if f.inputLen == 0 {
		return 0, ErrPortClosed
	}
	b := f.inputBuf[f.inputHead]
	f.inputHead = (f.inputHead + 1) % len(f.inputBuf)
	f.inputLen--
	return b, nil
}

func (f *SerialFIFO) WriteByte(b byte) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrPortClosed
	}
	f.outputBuf = append(f.outputBuf, b)
	fn := f.onOutput
	f.mu.Unlock()
	if fn != nil {
		fn(b)
	}
	return nil
}

func (f *SerialFIFO) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrPortClosed
	}
	f.flushes++
	return nil
}

// Flushes reports how many times the device flushed the port.
func (f *SerialFIFO) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// DrainOutput returns and clears the accumulated echo output.
func (f *SerialFIFO) DrainOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := string(f.outputBuf)
	f.outputBuf = f.outputBuf[:0]
	return s
}

// Close unblocks pending readers. Enqueued input remains readable;
// writes after Close fail with ErrPortClosed.
func (f *SerialFIFO) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Broadcast()
	return nil
}
