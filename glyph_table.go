// glyph_table.go - 5x5 glyph patterns and frame construction

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

const (
	MatrixRows = 5
	MatrixCols = 5

	// MaxBrightness is the top of the per-cell intensity scale; 0 is off.
	MaxBrightness = 9
)

// Control bytes the device gives meaning to.
const (
	ByteEnter     = '\r'
	ByteBackspace = 0x08
	ByteBell      = 0x07
	ByteEscape    = 0x1B
	ByteSpace     = ' '
)

// Frame is one complete image for the LED matrix, row-major,
// frame[row][col] holding a brightness of 0..MaxBrightness.
type Frame [MatrixRows][MatrixCols]uint8

// glyphPattern packs one glyph as five row masks, bit 4 = leftmost column.
type glyphPattern [MatrixRows]uint8

var glyphPatterns = map[byte]glyphPattern{
	'A': {0b01110, 0b10001, 0b11111, 0b10001, 0b10001},
	'B': {0b11110, 0b10001, 0b11110, 0b10001, 0b11110},
	'C': {0b01111, 0b10000, 0b10000, 0b10000, 0b01111},
	'D': {0b11110, 0b10001, 0b10001, 0b10001, 0b11110},
	'E': {0b11111, 0b10000, 0b11111, 0b10000, 0b11111},
	'F': {0b11111, 0b10000, 0b11100, 0b10000, 0b10000},
	'G': {0b01111, 0b10000, 0b10111, 0b10001, 0b01111},
	'H': {0b10001, 0b10001, 0b11111, 0b10001, 0b10001},
	'I': {0b01110, 0b00100, 0b00100, 0b00100, 0b01110},
	'J': {0b00111, 0b00001, 0b00001, 0b10001, 0b01110},
	'K': {0b10010, 0b10100, 0b11110, 0b10001, 0b10001},
	'L': {0b10000, 0b10000, 0b10000, 0b10000, 0b11111},
	'M': {0b10001, 0b11011, 0b10101, 0b10001, 0b10001},
	'N': {0b11001, 0b10101, 0b10101, 0b10101, 0b10011},
	'O': {0b01110, 0b10001, 0b10001, 0b10001, 0b01110},
	'P': {0b11110, 0b10001, 0b11110, 0b10000, 0b10000},
	'Q': {0b01100, 0b10010, 0b10010, 0b10010, 0b01111},
	'R': {0b11110, 0b10001, 0b11110, 0b10010, 0b10001},
	'S': {0b01111, 0b10000, 0b01110, 0b00001, 0b11110},
	'T': {0b11111, 0b00100, 0b00100, 0b00100, 0b00100},
	'U': {0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	'V': {0b10001, 0b10001, 0b01010, 0b01010, 0b00100},
	'W': {0b10001, 0b10001, 0b10101, 0b11011, 0b10001},
	'X': {0b10001, 0b01010, 0b00100, 0b01010, 0b10001},
	'Y': {0b10001, 0b10001, 0b01110, 0b00100, 0b00100},
	'Z': {0b11111, 0b00001, 0b01110, 0b10000, 0b11111},

	'a': {0b11110, 0b00001, 0b01111, 0b10001, 0b01111},
	'b': {0b10000, 0b11110, 0b10001, 0b10001, 0b11110},
	'c': {0b01110, 0b10001, 0b10000, 0b10001, 0b01110},
	'd': {0b00001, 0b01111, 0b10001, 0b10001, 0b01111},
	'e': {0b01110, 0b10001, 0b11111, 0b10000, 0b01111},
	'f': {0b01111, 0b10000, 0b11100, 0b10000, 0b10000},
	'g': {0b01110, 0b10001, 0b01111, 0b00001, 0b11110},
	'h': {0b10000, 0b11110, 0b10001, 0b10001, 0b10001},
	'i': {0b00100, 0b00000, 0b00100, 0b00100, 0b00100},
	'j': {0b00001, 0b00001, 0b00001, 0b00001, 0b11110},
	'k': {0b10001, 0b10010, 0b11100, 0b10010, 0b10001},
	'l': {0b10000, 0b10000, 0b10000, 0b10000, 0b01111},
	'm': {0b01010, 0b10101, 0b10101, 0b10101, 0b10101},
	'n': {0b11110, 0b10001, 0b10001, 0b10001, 0b10001},
	'o': {0b00000, 0b01100, 0b10010, 0b10010, 0b01100},
	'p': {0b11110, 0b10001, 0b10001, 0b11110, 0b10000},
	'q': {0b01111, 0b10001, 0b10001, 0b01111, 0b00001},
	'r': {0b10110, 0b11001, 0b10000, 0b10000, 0b10000},
	's': {0b00110, 0b01000, 0b00100, 0b00010, 0b01100},
	't': {0b10000, 0b11100, 0b10000, 0b10001, 0b01110},
	'u': {0b10001, 0b10001, 0b10001, 0b10011, 0b01101},
	'v': {0b00000, 0b10001, 0b01010, 0b00100, 0b00000},
	'w': {0b10001, 0b10101, 0b10101, 0b10101, 0b01010},
	'x': {0b10001, 0b10001, 0b01110, 0b10001, 0b10001},
	'y': {0b10001, 0b10001, 0b01111, 0b00001, 0b11110},
	'z': {0b11111, 0b00010, 0b00100, 0b01000, 0b11111},

	'0': {0b01110, 0b10011, 0b10101, 0b11001, 0b01110},
	'1': {0b00100, 0b01100, 0b00100, 0b00100, 0b01110},
	'2': {0b11110, 0b00001, 0b01110, 0b10000, 0b11111},
	'3': {0b11110, 0b00001, 0b00110, 0b00001, 0b11111},
	'4': {0b10001, 0b10001, 0b01111, 0b00001, 0b00001},
	'5': {0b11111, 0b10000, 0b11110, 0b00001, 0b11110},
	'6': {0b01111, 0b10000, 0b11110, 0b10001, 0b01110},
	'7': {0b11111, 0b00001, 0b00010, 0b00010, 0b00010},
	'8': {0b01110, 0b10001, 0b01110, 0b10001, 0b01110},
	'9': {0b01110, 0b10001, 0b01111, 0b00001, 0b00110},

	// Enter renders a carriage-return arrow, Backspace a left arrow.
	ByteEnter:     {0b00001, 0b00001, 0b01001, 0b11111, 0b01000},
	ByteBackspace: {0b00000, 0b01000, 0b11111, 0b01000, 0b00000},

	// Space is absence. ESC clears whatever is fading.
	ByteSpace:  {},
	ByteEscape: {},
}

// GlyphFor builds the frame for ch with set cells at the given brightness.
// Unsupported bytes come back as a full-brightness all-on frame so a bad
// byte is visible on the matrix instead of silently dropped.
func GlyphFor(ch byte, brightness uint8) Frame {
	if brightness > MaxBrightness {
		brightness = MaxBrightness
	}
	pattern, ok := glyphPatterns[ch]
	if !ok {
		return allOnFrame(MaxBrightness)
	}
	var frame Frame
	for row, bits := range pattern {
		for col := 0; col < MatrixCols; col++ {
			if bits&(0b10000>>col) != 0 {
				frame[row][col] = brightness
			}
		}
	}
	return frame
}

func allOnFrame(brightness uint8) Frame {
	var frame Frame
	for row := range frame {
		for col := range frame[row] {
			frame[row][col] = brightness
		}
	}
	return frame
}
