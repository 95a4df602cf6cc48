package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tarm/serial"
)

func main() {
	portName := flag.String("port", "", "Serial device the controller is on (required)")
	baud := flag.Int("baud", 115200, "Baud rate")
	delay := flag.Duration("delay", 100*time.Millisecond, "Pause between bytes so the fade is visible")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lumasend -port PATH [options] [text...]\n\nSends text to a Lumatrix controller one byte at a time and prints the echo.\nWith no text arguments the line is read from stdin.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lumasend -port /dev/ttyUSB0 hello\n")
		fmt.Fprintf(os.Stderr, "  echo hello | lumasend -port /dev/ttyUSB0 -delay 250ms\n")
	}
	flag.Parse()

	if *portName == "" {
		flag.Usage()
		os.Exit(1)
	}

	line := strings.Join(flag.Args(), " ")
	if line == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
			os.Exit(1)
		}
		line = strings.TrimRight(string(data), "\r\n")
	}

	port, err := serial.OpenPort(&serial.Config{Name: *portName, Baud: *baud})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	// Mirror everything the device sends, greeting included.
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := port.Read(buf)
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	payload := append([]byte(line), '\r')
	for _, b := range payload {
		if _, err := port.Write([]byte{b}); err != nil {
			fmt.Fprintf(os.Stderr, "error writing byte: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(*delay)
	}

	// Let the echo of the trailing CR LF drain before closing.
	time.Sleep(500 * time.Millisecond)
}
