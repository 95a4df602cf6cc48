package main

import "errors"

// ErrPortClosed reports a read or write against a closed serial port.
// The mainline treats it as the orderly end of a session.
var ErrPortClosed = errors.New("serial port closed")

// SerialPort is the byte transport the device talks through. ReadByte
// blocks until a byte arrives or the port closes. Flush pushes any
// buffered echo out to the far side; the mainline flushes once per
// processed byte.
type SerialPort interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
	Flush() error
	Close() error
}
