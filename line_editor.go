package main

// LineCap is the fixed line buffer capacity. Bytes past it are dropped.
const LineCap = 32

// EchoOrder selects how a buffered line is echoed when Enter arrives.
type EchoOrder int

const (
	// EchoForward echoes the line in insertion order.
	EchoForward EchoOrder = iota
	// EchoReverse echoes the line back-to-front, stack order.
	EchoReverse
)

// lineBuffer is a fixed-capacity byte accumulator. It never allocates.
type lineBuffer struct {
	data [LineCap]byte
	n    int
}

func (lb *lineBuffer) push(b byte) bool {
	if lb.n >= LineCap {
		return false
	}
	lb.data[lb.n] = b
	lb.n++
	return true
}

func (lb *lineBuffer) pop() (byte, bool) {
	if lb.n == 0 {
		return 0, false
	}
	lb.n--
	return lb.data[lb.n], true
}

func (lb *lineBuffer) clear() {
	lb.n = 0
}

func (lb *lineBuffer) len() int {
	return lb.n
}

func (lb *lineBuffer) at(i int) byte {
	return lb.data[i]
}

// LineEditor consumes one received byte at a time and writes the echo to
// the serial port. Enter echoes the whole line plus CR LF and clears it,
// Backspace erases visually, anything else is appended and echoed.
// Overflow drops the byte with a diagnostic; only transport failures are
// returned as errors.
type LineEditor struct {
	port  SerialPort
	diag  Diagnostics
	order EchoOrder
	buf   lineBuffer
}

func NewLineEditor(port SerialPort, diag Diagnostics, order EchoOrder) *LineEditor {
	if diag == nil {
		diag = NopDiag{}
	}
	return &LineEditor{port: port, diag: diag, order: order}
}

// Len reports the current line length.
func (le *LineEditor) Len() int {
	return le.buf.len()
}

// Line returns a copy of the buffered line.
func (le *LineEditor) Line() []byte {
	out := make([]byte, le.buf.len())
	copy(out, le.buf.data[:le.buf.len()])
	return out
}

// HandleByte processes one received byte.
func (le *LineEditor) HandleByte(b byte) error {
	switch b {
	case ByteEnter:
		if err := le.echoLine(); err != nil {
			return err
		}
		le.buf.clear()
		return nil
	case ByteBackspace:
		if _, ok := le.buf.pop(); !ok {
			return nil
		}
		return le.writeAll(ByteBackspace, ByteSpace, ByteBackspace)
	default:
		if !le.buf.push(b) {
			le.diag.Eventf("line buffer full: dropped %q (len %d, cap %d)",
				b, le.buf.len(), LineCap)
			return nil
		}
		return le.port.WriteByte(b)
	}
}

func (le *LineEditor) echoLine() error {
	n := le.buf.len()
	for i := 0; i < n; i++ {
		idx := i
		if le.order == EchoReverse {
			idx = n - 1 - i
		}
		if err := le.port.WriteByte(le.buf.at(idx)); err != nil {
			return err
		}
	}
	return le.writeAll('\r', '\n')
}

func (le *LineEditor) writeAll(bytes ...byte) error {
	for _, b := range bytes {
		if err := le.port.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
