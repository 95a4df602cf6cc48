// echo_terminal.go - Serial session mainline

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

import "fmt"

// Greeting is sent once when a session opens, exactly as the hardware
// prints it.
const Greeting = "Type Something.\r\n"

// EchoTerminal owns the receive loop of a session: every byte that
// arrives is handed to the display mailbox first, then to the line
// editor for echo and buffering, then the echo is flushed. The
// display therefore reacts to every keystroke, including ones the
// editor rejects.
type EchoTerminal struct {
	port    SerialPort
	editor  *LineEditor
	mailbox *InputMailbox
	beeper  *Beeper
	diag    Diagnostics
}

func NewEchoTerminal(port SerialPort, editor *LineEditor, mailbox *InputMailbox, diag Diagnostics) *EchoTerminal {
	if diag == nil {
		diag = NopDiag{}
	}
	return &EchoTerminal{
		port:    port,
		editor:  editor,
		mailbox: mailbox,
		diag:    diag,
	}
}

// SetBeeper attaches an optional bell, rung whenever a BEL byte
// arrives. The byte still flows through the editor like any other.
func (et *EchoTerminal) SetBeeper(b *Beeper) {
	et.beeper = b
}

// Run services the session until the transport fails. A wrapped
// ErrPortClosed is the orderly way out; anything else is a fault.
func (et *EchoTerminal) Run() error {
	if err := et.writeString(Greeting); err != nil {
		return fmt.Errorf("greeting: %w", err)
	}
	if err := et.port.Flush(); err != nil {
		return fmt.Errorf("greeting flush: %w", err)
	}

	for {
		b, err := et.port.ReadByte()
		if err != nil {
			return fmt.Errorf("serial read: %w", err)
		}

		et.mailbox.Publish(b)
		et.diag.Eventf("received byte %d", b)

		if b == ByteBell && et.beeper != nil {
			et.beeper.Ring()
		}

		if err := et.editor.HandleByte(b); err != nil {
			return fmt.Errorf("echo: %w", err)
		}
		if err := et.port.Flush(); err != nil {
			return fmt.Errorf("echo flush: %w", err)
		}
	}
}

func (et *EchoTerminal) writeString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := et.port.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}
