// serial_device.go - Physical serial port transport (tarm/serial)

package main

import (
	"bufio"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tarm/serial"
)

// DefaultBaudRate matches the UART rate the firmware this controller
// descends from ran at.
const DefaultBaudRate = 115200

// DevicePort speaks to real hardware through a serial device node.
// Writes are buffered and pushed out by Flush; note the buffering is
// ours, not tarm's (whose Flush discards pending data instead of
// draining it).
type DevicePort struct {
	mu     sync.Mutex
	port   *serial.Port
	out    *bufio.Writer
	closed atomic.Bool
}

func OpenDevicePort(name string, baud int) (*DevicePort, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("serial transport: opening %s: %w", name, err)
	}
	return &DevicePort{
		port: port,
		out:  bufio.NewWriter(port),
	}, nil
}

func (dp *DevicePort) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		if dp.closed.Load() {
			return 0, ErrPortClosed
		}
		n, err := dp.port.Read(buf[:])
		if err != nil {
			if dp.closed.Load() {
				return 0, ErrPortClosed
			}
			return 0, fmt.Errorf("serial read: %w", err)
		}
		if n > 0 {
			return buf[0], nil
		}
	}
}

func (dp *DevicePort) WriteByte(b byte) error {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	if dp.closed.Load() {
		return ErrPortClosed
	}
	return dp.out.WriteByte(b)
}

func (dp *DevicePort) Flush() error {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	if dp.closed.Load() {
		return ErrPortClosed
	}
	return dp.out.Flush()
}

// Close marks the port closed before tearing down the fd so a blocked
// ReadByte surfaces as ErrPortClosed rather than a raw I/O error.
func (dp *DevicePort) Close() error {
	if dp.closed.Swap(true) {
		return nil
	}
	dp.mu.Lock()
	dp.out.Flush()
	dp.mu.Unlock()
	return dp.port.Close()
}
