// matrix_backend_tcell.go - Full-terminal simulator backend

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
	"sync"

	"github.com/gdamore/tcell/v2"
)

// TcellMatrix draws the LED grid inside the controlling terminal using
// the alternate screen. Each LED is a pair of block characters so the
// cells come out roughly square. Ctrl+C plays the role of the window
// close button.
type TcellMatrix struct {
	mu         sync.Mutex
	screen     tcell.Screen
	running    bool
	frame      Frame
	done       chan struct{}
	closeOnce  sync.Once
	keyHandler func(byte)
	echoLine   []byte
	echoCol    int
}

func NewTcellMatrix() (MatrixOutput, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, &DisplayError{
			Operation: "terminal init",
			Details:   "allocating screen",
			Err:       err,
		}
	}
	return newTcellMatrix(screen), nil
}

func newTcellMatrix(screen tcell.Screen) *TcellMatrix {
	return &TcellMatrix{
		screen: screen,
		done:   make(chan struct{}),
	}
}

func (tm *TcellMatrix) Start() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.running {
		return nil
	}
	if err := tm.screen.Init(); err != nil {
		return &DisplayError{
			Operation: "terminal init",
			Details:   "entering alternate screen",
			Err:       err,
		}
	}
	tm.screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	tm.screen.HideCursor()
	tm.screen.Clear()
	tm.running = true
	go tm.eventLoop()
	tm.redrawLocked()
	return nil
}

func (tm *TcellMatrix) Stop() error {
	tm.mu.Lock()
	tm.running = false
	tm.mu.Unlock()
	return nil
}

func (tm *TcellMatrix) Close() error {
	tm.mu.Lock()
	wasRunning := tm.running
	tm.running = false
	tm.mu.Unlock()
	if wasRunning {
		// Fini unblocks PollEvent, which ends the event goroutine.
		tm.screen.Fini()
	}
	tm.signalDone()
	return nil
}

func (tm *TcellMatrix) IsStarted() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.running
}

// Done is closed when the user hits Ctrl+C or the backend closes.
func (tm *TcellMatrix) Done() <-chan struct{} {
	return tm.done
}

func (tm *TcellMatrix) signalDone() {
	tm.closeOnce.Do(func() {
		close(tm.done)
	})
}

func (tm *TcellMatrix) SetKeyHandler(fn func(byte)) {
	tm.mu.Lock()
	tm.keyHandler = fn
	tm.mu.Unlock()
}

func (tm *TcellMatrix) eventLoop() {
	for {
		ev := tm.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			tm.handleKey(ev)
		case *tcell.EventResize:
			tm.mu.Lock()
			if tm.running {
				tm.screen.Sync()
				tm.redrawLocked()
			}
			tm.mu.Unlock()
		}
	}
}

func (tm *TcellMatrix) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		tm.signalDone()
		return
	}
	b, ok := tcellKeyByte(ev)
	if !ok {
		return
	}
	tm.mu.Lock()
	handler := tm.keyHandler
	tm.mu.Unlock()
	if handler != nil {
		handler(b)
	}
}

func tcellKeyByte(ev *tcell.EventKey) (byte, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return ByteEnter, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ByteBackspace, true
	case tcell.KeyEscape:
		return ByteEscape, true
	case tcell.KeyTab:
		return '\t', true
	case tcell.KeyRune:
		r := ev.Rune()
		if r >= 0x20 && r <= 0x7E {
			return byte(r), true
		}
	}
	return 0, false
}

func (tm *TcellMatrix) RenderFrame(frame Frame) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if !tm.running {
		return &DisplayError{
			Operation: "render",
			Details:   "terminal backend not started",
		}
	}
	tm.frame = frame
	tm.redrawLocked()
	return nil
}

// ConsoleByte renders the echo stream on the line under the grid using
// the same one-line terminal model as the window backend.
func (tm *TcellMatrix) ConsoleByte(b byte) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	switch b {
	case '\r':
		tm.echoCol = 0
	case '\n':
		tm.echoLine = tm.echoLine[:0]
		tm.echoCol = 0
	case ByteBackspace:
		if tm.echoCol > 0 {
			tm.echoCol--
		}
	default:
		if b < 0x20 || b > 0x7E {
			return
		}
		if tm.echoCol < len(tm.echoLine) {
			tm.echoLine[tm.echoCol] = b
		} else if len(tm.echoLine) < echoLineCap {
			tm.echoLine = append(tm.echoLine, b)
		} else {
			return
		}
		tm.echoCol++
	}
	if tm.running {
		tm.redrawLocked()
	}
}

// amberCellColor scales the LED amber by brightness level. Level zero
// keeps a dim ghost so the grid outline stays visible.
func amberCellColor(level uint8) tcell.Color {
	if level > MaxBrightness {
		level = MaxBrightness
	}
	t := float64(level) / float64(MaxBrightness)
	r := int32(44 + t*(255-44))
	g := int32(30 + t*(176-30))
	b := int32(8 + t*(0-8))
	return tcell.NewRGBColor(r, g, b)
}

func (tm *TcellMatrix) redrawLocked() {
	width, height := tm.screen.Size()

	// Two terminal columns per LED plus one of padding.
	gridW := MatrixCols*3 - 1
	gridH := MatrixRows * 2
	ox := (width - gridW) / 2
	oy := (height - gridH - 3) / 2
	if ox < 0 {
		ox = 0
	}
	if oy < 0 {
		oy = 0
	}

	tm.screen.Clear()
	for row := 0; row < MatrixRows; row++ {
		for col := 0; col < MatrixCols; col++ {
			style := tcell.StyleDefault.
				Background(tcell.ColorBlack).
				Foreground(amberCellColor(tm.frame[row][col]))
			x := ox + col*3
			y := oy + row*2
			tm.screen.SetContent(x, y, '█', nil, style)
			tm.screen.SetContent(x+1, y, '█', nil, style)
		}
	}

	echoStyle := tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorGreen)
	tm.drawText(ox, oy+gridH+1, echoStyle, "ECHO "+string(tm.echoLine))

	hintStyle := tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorGray)
	tm.drawText(ox, oy+gridH+2, hintStyle, "Ctrl+C quits")

	tm.screen.Show()
}

func (tm *TcellMatrix) drawText(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		tm.screen.SetContent(x+i, y, r, nil, style)
	}
}
