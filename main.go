// main.go - Main entry point for the Lumatrix controller

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
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;120;0m██╗     ██╗   ██╗███╗   ███╗ █████╗ ████████╗██████╗ ██╗██╗  ██╗\033[0m\n\033[38;2;255;140;16m██║     ██║   ██║████╗ ████║██╔══██╗╚══██╔══╝██╔══██╗██║╚██╗██╔╝\033[0m\n\033[38;2;255;160;32m██║     ██║   ██║██╔████╔██║███████║   ██║   ██████╔╝██║ ╚███╔╝\033[0m\n\033[38;2;255;180;48m██║     ██║   ██║██║╚██╔╝██║██╔══██║   ██║   ██╔══██╗██║ ██╔██╗\033[0m\n\033[38;2;255;200;64m███████╗╚██████╔╝██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██║██╔╝ ██╗\033[0m\n\033[38;2;255;220;80m╚══════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝╚═╝  ╚═╝\033[0m")
	fmt.Println("\nA serial echo terminal with a fading 5x5 LED matrix display.")
	fmt.Println("(c) 2025 - 2026 The Lumatrix Authors")
	fmt.Println("https://github.com/lumatrix/Lumatrix")
	fmt.Println("License: GPLv3 or later")
}

func resolveBackend(name string) (int, error) {
	switch strings.ToLower(name) {
	case "ebiten", "window":
		return MATRIX_BACKEND_EBITEN, nil
	case "tcell", "terminal":
		return MATRIX_BACKEND_TCELL, nil
	case "gpio":
		return MATRIX_BACKEND_GPIO, nil
	}
	return 0, fmt.Errorf("unknown display backend %q (want ebiten, tcell or gpio)", name)
}

func splitPinList(list string, want int) ([]string, error) {
	if list == "" {
		return nil, fmt.Errorf("no pins given (want %d comma-separated names)", want)
	}
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty pin name in %q", list)
		}
		names = append(names, p)
	}
	if len(names) != want {
		return nil, fmt.Errorf("got %d pins in %q, want %d", len(names), list, want)
	}
	return names, nil
}

func validateTransport(backend int, portName string, console bool) error {
	if portName != "" && console {
		return errors.New("-port and -console are mutually exclusive")
	}
	if console && backend == MATRIX_BACKEND_TCELL {
		return errors.New("-console and -display tcell both need the controlling terminal; pick one")
	}
	return nil
}

// dumpGlyphTable prints every glyph the display knows, full brightness
// as '#', dark as '.'.
func dumpGlyphTable(w io.Writer) {
	keys := make([]byte, 0, len(glyphPatterns))
	for ch := range glyphPatterns {
		keys = append(keys, ch)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, ch := range keys {
		if ch >= 0x20 && ch <= 0x7E {
			fmt.Fprintf(w, "0x%02X %q\n", ch, ch)
		} else {
			fmt.Fprintf(w, "0x%02X\n", ch)
		}
		frame := GlyphFor(ch, MaxBrightness)
		for _, row := range frame {
			line := make([]byte, MatrixCols)
			for i, level := range row {
				if level > 0 {
					line[i] = '#'
				} else {
					line[i] = '.'
				}
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

func main() {
	boilerPlate()

	var (
		displayName string
		portName    string
		baudRate    int
		useConsole  bool
		reverseEcho bool
		bellOn      bool
		scale       int
		scanPeriod  time.Duration
		tickPeriod  time.Duration
		diagPath    string
		demoMode    bool
		dumpGlyphs  bool
		gpioRows    string
		gpioCols    string
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&displayName, "display", "ebiten", "Display backend: ebiten, tcell or gpio")
	flagSet.StringVar(&portName, "port", "", "Serial device to serve (e.g. /dev/ttyUSB0)")
	flagSet.IntVar(&baudRate, "baud", DefaultBaudRate, "Serial baud rate")
	flagSet.BoolVar(&useConsole, "console", false, "Serve the controlling terminal in raw mode")
	flagSet.BoolVar(&reverseEcho, "reverse-echo", false, "Echo completed lines back-to-front")
	flagSet.BoolVar(&bellOn, "bell", true, "Ring the speaker on BEL bytes")
	flagSet.IntVar(&scale, "scale", DefaultWindowScale, "Window size multiplier")
	flagSet.DurationVar(&scanPeriod, "scan", DefaultScanPeriod, "Matrix scan period (1-2ms for gpio)")
	flagSet.DurationVar(&tickPeriod, "tick", DefaultTickPeriod, "Fade animation tick period")
	flagSet.StringVar(&diagPath, "diag", "", "Write diagnostics to this file instead of stderr")
	flagSet.BoolVar(&demoMode, "demo", false, "Run the roulette chase instead of a serial session")
	flagSet.BoolVar(&dumpGlyphs, "dumpglyphs", false, "Print the glyph table and exit")
	flagSet.StringVar(&gpioRows, "gpio-rows", "", "Row pin names for -display gpio (5, comma-separated)")
	flagSet.StringVar(&gpioCols, "gpio-cols", "", "Column pin names for -display gpio (5, comma-separated)")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./lumatrix [-display ebiten|tcell|gpio] [-port PATH [-baud N] | -console] [options]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if dumpGlyphs {
		dumpGlyphTable(os.Stdout)
		return
	}

	backend, err := resolveBackend(displayName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := validateTransport(backend, portName, useConsole); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Diagnostics first so everything downstream can log. The raw
	// console owns the terminal, so without -diag it logs nowhere.
	var diag Diagnostics = NopDiag{}
	var logDiag *LogDiag
	switch {
	case diagPath != "":
		f, err := os.Create(diagPath)
		if err != nil {
			fmt.Printf("Failed to open diag file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logDiag = NewLogDiag(log.New(f, "lumatrix ", log.LstdFlags|log.Lmicroseconds), 256)
		diag = logDiag
	case !useConsole:
		logDiag = NewLogDiag(log.New(os.Stderr, "lumatrix ", log.LstdFlags|log.Lmicroseconds), 256)
		diag = logDiag
	}
	if logDiag != nil {
		defer logDiag.Close()
	}

	mailbox := NewInputMailbox()

	var output MatrixOutput
	if backend == MATRIX_BACKEND_GPIO {
		rows, err := splitPinList(gpioRows, MatrixRows)
		if err != nil {
			fmt.Printf("Error: -gpio-rows: %v\n", err)
			os.Exit(1)
		}
		cols, err := splitPinList(gpioCols, MatrixCols)
		if err != nil {
			fmt.Printf("Error: -gpio-cols: %v\n", err)
			os.Exit(1)
		}
		output, err = NewGPIOMatrix(rows, cols)
		if err != nil {
			fmt.Printf("Failed to initialize display: %v\n", err)
			os.Exit(1)
		}
	} else {
		output, err = NewMatrixOutput(backend)
		if err != nil {
			fmt.Printf("Failed to initialize display: %v\n", err)
			os.Exit(1)
		}
	}
	if ws, ok := output.(WindowScaler); ok {
		ws.SetScale(scale)
	}

	chip, err := NewMatrixChip(output, scanPeriod)
	if err != nil {
		fmt.Printf("Failed to initialize matrix: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if demoMode {
		if err := chip.Start(); err != nil {
			fmt.Printf("Failed to start matrix: %v\n", err)
			os.Exit(1)
		}
		roulette := NewRoulette(chip, DefaultRouletteStepPeriod)
		roulette.Start()

		if cn, ok := output.(CloseNotifier); ok {
			select {
			case <-sigChan:
			case <-cn.Done():
			}
		} else {
			<-sigChan
		}

		roulette.Stop()
		chip.Close()
		fmt.Println("Demo stopped.")
		return
	}

	var port SerialPort
	var fifo *SerialFIFO
	switch {
	case portName != "":
		dev, err := OpenDevicePort(portName, baudRate)
		if err != nil {
			fmt.Printf("Failed to open serial port: %v\n", err)
			os.Exit(1)
		}
		port = dev
	case useConsole:
		con, err := NewConsolePort()
		if err != nil {
			fmt.Printf("Failed to claim console: %v\n", err)
			os.Exit(1)
		}
		port = con
	default:
		// Sim mode: the display backend's keyboard is the far end.
		fifo = NewSerialFIFO()
		port = fifo
	}

	if fifo != nil {
		if src, ok := output.(KeySource); ok {
			src.SetKeyHandler(fifo.EnqueueByte)
		}
		if sink, ok := output.(ConsoleSink); ok {
			fifo.SetOutputCallback(sink.ConsoleByte)
		}
	}

	var beeper *Beeper
	var beeperOut *BeeperPlayer
	if bellOn {
		player, err := NewBeeperPlayer(BeeperSampleRate)
		if err != nil {
			fmt.Printf("Bell disabled: %v\n", err)
		} else {
			beeper = NewBeeper()
			player.SetupPlayer(beeper)
			beeper.Start()
			player.Start()
			beeperOut = player
		}
	}

	animator := NewAnimator(chip, mailbox, diag, tickPeriod)

	order := EchoForward
	if reverseEcho {
		order = EchoReverse
	}
	editor := NewLineEditor(port, diag, order)
	terminal := NewEchoTerminal(port, editor, mailbox, diag)
	if beeper != nil {
		terminal.SetBeeper(beeper)
	}

	if err := chip.Start(); err != nil {
		fmt.Printf("Failed to start matrix: %v\n", err)
		os.Exit(1)
	}
	animator.Start()

	go func() {
		<-sigChan
		port.Close()
	}()
	if cn, ok := output.(CloseNotifier); ok {
		go func() {
			<-cn.Done()
			port.Close()
		}()
	}

	err = terminal.Run()

	animator.Stop()
	chip.Close()
	if beeperOut != nil {
		beeperOut.Close()
		beeper.Stop()
	}
	port.Close()

	if err != nil && !errors.Is(err, ErrPortClosed) {
		fmt.Printf("Session ended: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Session closed.")
}
