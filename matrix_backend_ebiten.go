//go:build !headless

// matrix_backend_ebiten.go - Desktop window backend for the LED matrix

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
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// Canvas geometry. Each LED is a disc inside a ledCell square; the
// window scales the whole logical canvas up, so the pixel font in the
// status bar stays chunky the way the LEDs do.
const (
	ledCell    = 24
	ledGap     = 6
	ledBorder  = 15
	statusBarH = 30

	canvasW = 2*ledBorder + MatrixCols*ledCell + (MatrixCols-1)*ledGap
	canvasH = 2*ledBorder + MatrixRows*ledCell + (MatrixRows-1)*ledGap + statusBarH

	maxPasteBytes = 4096
	echoTailCols  = 17
)

var canvasBackground = color.RGBA{14, 14, 18, 255}

// amberPalette maps a brightness level to the LED colour. Level zero is
// the faint ghost of an unlit LED so the grid stays visible.
var amberPalette = buildAmberPalette()

func buildAmberPalette() [MaxBrightness + 1]color.RGBA {
	ghost := color.RGBA{44, 30, 8, 255}
	full := color.RGBA{255, 176, 0, 255}
	var p [MaxBrightness + 1]color.RGBA
	for i := range p {
		t := float64(i) / float64(MaxBrightness)
		p[i] = color.RGBA{
			R: uint8(float64(ghost.R) + t*(float64(full.R)-float64(ghost.R))),
			G: uint8(float64(ghost.G) + t*(float64(full.G)-float64(ghost.G))),
			B: uint8(float64(ghost.B) + t*(float64(full.B)-float64(ghost.B))),
			A: 255,
		}
	}
	return p
}

type EbitenMatrix struct {
	running     bool
	window      *ebiten.Image
	scale       int
	fullscreen  bool
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	vsyncChan   chan struct{}
	done        chan struct{}
	keyHandler  func(byte)

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool

	echoLine []byte
	echoCol  int
}

func NewEbitenMatrix() (MatrixOutput, error) {
	em := &EbitenMatrix{
		scale:         DefaultWindowScale,
		frameBuffer:   make([]byte, canvasW*canvasH*4),
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}
	em.clearCanvas()
	return em, nil
}

// SetScale adjusts the window size multiplier. Takes effect on Start.
func (em *EbitenMatrix) SetScale(scale int) {
	em.bufferMutex.Lock()
	em.scale = clampWindowScale(scale)
	em.bufferMutex.Unlock()
}

func clampWindowScale(scale int) int {
	if scale < 1 {
		return 1
	}
	if scale > 8 {
		return 8
	}
	return scale
}

func (em *EbitenMatrix) Start() error {
	if em.running {
		return nil
	}
	em.bufferMutex.Lock()
	em.done = make(chan struct{})
	scale := em.scale
	em.bufferMutex.Unlock()
	em.running = true
	ebiten.SetWindowSize(canvasW*scale, canvasH*scale)
	ebiten.SetWindowTitle("Lumatrix (c) 2025 - 2026 The Lumatrix Authors")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		defer func() {
			em.running = false
			em.bufferMutex.RLock()
			done := em.done
			em.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(em); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-em.vsyncChan
	return nil
}

func (em *EbitenMatrix) Stop() error {
	em.running = false
	return nil
}

func (em *EbitenMatrix) Close() error {
	return em.Stop()
}

func (em *EbitenMatrix) IsStarted() bool {
	return em.running
}

// Done is closed when the window goes away, whether by user action or
// by Stop. The mainline treats it like a hangup on the serial line.
func (em *EbitenMatrix) Done() <-chan struct{} {
	em.bufferMutex.RLock()
	done := em.done
	em.bufferMutex.RUnlock()
	return done
}

func (em *EbitenMatrix) clearCanvas() {
	for i := 0; i < len(em.frameBuffer); i += 4 {
		em.frameBuffer[i] = canvasBackground.R
		em.frameBuffer[i+1] = canvasBackground.G
		em.frameBuffer[i+2] = canvasBackground.B
		em.frameBuffer[i+3] = canvasBackground.A
	}
	for row := 0; row < MatrixRows; row++ {
		for col := 0; col < MatrixCols; col++ {
			em.paintCell(row, col, 0)
		}
	}
}

// RenderFrame rasterises the latched frame into the RGBA canvas. The
// actual blit to the screen happens on Ebiten's draw tick.
func (em *EbitenMatrix) RenderFrame(frame Frame) error {
	em.bufferMutex.Lock()
	for row := 0; row < MatrixRows; row++ {
		for col := 0; col < MatrixCols; col++ {
			em.paintCell(row, col, frame[row][col])
		}
	}
	em.bufferMutex.Unlock()
	return nil
}

func (em *EbitenMatrix) paintCell(row, col int, level uint8) {
	if level > MaxBrightness {
		level = MaxBrightness
	}
	c := amberPalette[level]
	cx := ledBorder + col*(ledCell+ledGap) + ledCell/2
	cy := ledBorder + row*(ledCell+ledGap) + ledCell/2
	r := ledCell/2 - 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			off := ((cy+dy)*canvasW + (cx + dx)) * 4
			em.frameBuffer[off] = c.R
			em.frameBuffer[off+1] = c.G
			em.frameBuffer[off+2] = c.B
			em.frameBuffer[off+3] = c.A
		}
	}
}

func (em *EbitenMatrix) SetKeyHandler(fn func(byte)) {
	em.bufferMutex.Lock()
	em.keyHandler = fn
	em.bufferMutex.Unlock()
}

func (em *EbitenMatrix) emitByte(b byte) {
	em.bufferMutex.RLock()
	handler := em.keyHandler
	em.bufferMutex.RUnlock()
	if handler != nil {
		handler(b)
	}
}

// ConsoleByte feeds the device's echo stream into the status bar line.
// It emulates just enough of a terminal: CR returns to column zero,
// LF starts a fresh line, BS steps the cursor back.
func (em *EbitenMatrix) ConsoleByte(b byte) {
	em.bufferMutex.Lock()
	defer em.bufferMutex.Unlock()
	switch b {
	case '\r':
		em.echoCol = 0
	case '\n':
		em.echoLine = em.echoLine[:0]
		em.echoCol = 0
	case ByteBackspace:
		if em.echoCol > 0 {
			em.echoCol--
		}
	default:
		if b < 0x20 || b > 0x7E {
			return
		}
		if em.echoCol < len(em.echoLine) {
			em.echoLine[em.echoCol] = b
		} else if len(em.echoLine) < echoLineCap {
			em.echoLine = append(em.echoLine, b)
		} else {
			return
		}
		em.echoCol++
	}
}

func (em *EbitenMatrix) Update() error {
	if !em.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		em.bufferMutex.Lock()
		em.fullscreen = !em.fullscreen
		ebiten.SetFullscreen(em.fullscreen)
		if !em.fullscreen {
			ebiten.SetWindowSize(canvasW*em.scale, canvasH*em.scale)
		}
		em.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		em.bufferMutex.Lock()
		em.showStatusBar = !em.showStatusBar
		em.bufferMutex.Unlock()
	}
	em.handleKeyboardInput()
	return nil
}

func (em *EbitenMatrix) handleKeyboardInput() {
	em.bufferMutex.RLock()
	hasHandler := em.keyHandler != nil
	em.bufferMutex.RUnlock()
	if !hasHandler {
		return
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		em.handleClipboardPaste()
	}

	// Printable input path.
	for _, r := range ebiten.AppendInputChars(nil) {
		if b, ok := runeToInputByte(r); ok {
			em.emitByte(b)
		}
	}

	specialKeys := []ebiten.Key{
		ebiten.KeyEnter,
		ebiten.KeyNumpadEnter,
		ebiten.KeyBackspace,
		ebiten.KeyTab,
		ebiten.KeyEscape,
	}
	for _, key := range specialKeys {
		if inpututil.IsKeyJustPressed(key) {
			if b, ok := translateSpecialKey(key); ok {
				em.emitByte(b)
			}
		}
	}
}

func runeToInputByte(r rune) (byte, bool) {
	if r < 0x20 || r > 0x7E {
		return 0, false
	}
	return byte(r), true
}

func translateSpecialKey(key ebiten.Key) (byte, bool) {
	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return ByteEnter, true
	case ebiten.KeyBackspace:
		return ByteBackspace, true
	case ebiten.KeyTab:
		return '\t', true
	case ebiten.KeyEscape:
		return ByteEscape, true
	default:
		return 0, false
	}
}

// normalizePasteText collapses CRLF and bare LF to the CR the device
// reads as Enter.
func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, ByteEnter)
			continue
		}
		if raw[i] == '\n' {
			norm = append(norm, ByteEnter)
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

func (em *EbitenMatrix) handleClipboardPaste() {
	em.clipboardOnce.Do(func() {
		em.clipboardOK = clipboard.Init() == nil
	})
	if !em.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	data = normalizePasteText(data)
	data = capPasteText(data, maxPasteBytes)
	for _, b := range data {
		em.emitByte(b)
	}
}

func statusTail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}

func (em *EbitenMatrix) Draw(screen *ebiten.Image) {
	if em.window == nil {
		em.window = ebiten.NewImage(canvasW, canvasH)
	}

	em.bufferMutex.RLock()
	em.window.WritePixels(em.frameBuffer)
	showStatusBar := em.showStatusBar
	echo := statusTail(string(em.echoLine), echoTailCols)
	em.bufferMutex.RUnlock()
	screen.DrawImage(em.window, nil)
	if showStatusBar {
		em.drawStatusBar(screen, echo)
	}

	em.frameCount++
	select {
	case em.vsyncChan <- struct{}{}:
	default:
	}
}

func (em *EbitenMatrix) drawStatusBar(screen *ebiten.Image, echo string) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	echoColor := color.RGBA{0, 220, 90, 255}
	legendColor := color.RGBA{120, 120, 120, 255}

	y := canvasH - statusBarH
	ebitenutil.DrawRect(screen, 0, float64(y), float64(canvasW), float64(statusBarH), color.RGBA{0, 0, 0, 180})

	text.Draw(screen, "ECHO", face, 6, y+13, labelColor)
	text.Draw(screen, echo, face, 6+text.BoundString(face, "ECHO").Dx()+8, y+13, echoColor)

	legend := fmt.Sprintf("#%-8d F11 F12", em.frameCount)
	text.Draw(screen, legend, face, 6, y+26, legendColor)
}

func (em *EbitenMatrix) Layout(_, _ int) (int, int) {
	return canvasW, canvasH
}
