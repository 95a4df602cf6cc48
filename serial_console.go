// serial_console.go - Raw-mode stdin/stdout serial transport

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
	"bufio"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ConsolePort turns the controlling terminal into the serial line: the
// terminal is the far end, the process is the device. Stdin goes raw
// so bytes arrive one keystroke at a time with no local echo; the
// device's own echo is the only one the user sees, same as a real
// serial session.
type ConsolePort struct {
	mu       sync.Mutex
	fd       int
	oldState *term.State
	out      *bufio.Writer
	closed   bool
}

func NewConsolePort() (*ConsolePort, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("console transport: stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("console transport: entering raw mode: %w", err)
	}
	return &ConsolePort{
		fd:       fd,
		oldState: oldState,
		out:      bufio.NewWriter(os.Stdout),
	}, nil
}

// ReadByte blocks on stdin. Terminals send DEL for the backspace key,
// which is folded to BS here; Enter arrives as a bare CR in raw mode
// and passes through untouched. Raw mode also swallows ISIG, so Ctrl+C
// shows up as ETX and is treated as a hangup.
func (cp *ConsolePort) ReadByte() (byte, error) {
	var buf [1]byte
	for {
		if cp.isClosed() {
			return 0, ErrPortClosed
		}
		n, err := os.Stdin.Read(buf[:])
		if err != nil {
			if cp.isClosed() {
				return 0, ErrPortClosed
			}
			return 0, fmt.Errorf("console read: %w", err)
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case 0x7F:
			return ByteBackspace, nil
		case 0x03:
			return 0, ErrPortClosed
		}
		return buf[0], nil
	}
}

func (cp *ConsolePort) WriteByte(b byte) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.closed {
		return ErrPortClosed
	}
	return cp.out.WriteByte(b)
}

func (cp *ConsolePort) Flush() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.closed {
		return ErrPortClosed
	}
	return cp.out.Flush()
}

func (cp *ConsolePort) isClosed() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.closed
}

// Close restores the terminal state. It does not close stdin, so a
// read blocked on the keyboard stays blocked until the next keypress;
// the mainline exits on the ErrPortClosed that read then returns.
func (cp *ConsolePort) Close() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.closed {
		return nil
	}
	cp.closed = true
	cp.out.Flush()
	if err := term.Restore(cp.fd, cp.oldState); err != nil {
		return fmt.Errorf("console close: restoring terminal: %w", err)
	}
	return nil
}
