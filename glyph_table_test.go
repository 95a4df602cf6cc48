package main

import "testing"

func TestGlyphFor_KnownShapes(t *testing.T) {
	b := uint8(9)
	cases := []struct {
		name string
		ch   byte
		want Frame
	}{
		{"letter A", 'A', Frame{
			{0, b, b, b, 0},
			{b, 0, 0, 0, b},
			{b, b, b, b, b},
			{b, 0, 0, 0, b},
			{b, 0, 0, 0, b},
		}},
		{"letter I", 'I', Frame{
			{0, b, b, b, 0},
			{0, 0, b, 0, 0},
			{0, 0, b, 0, 0},
			{0, 0, b, 0, 0},
			{0, b, b, b, 0},
		}},
		{"digit 0", '0', Frame{
			{0, b, b, b, 0},
			{b, 0, 0, b, b},
			{b, 0, b, 0, b},
			{b, b, 0, 0, b},
			{0, b, b, b, 0},
		}},
		{"enter arrow", ByteEnter, Frame{
			{0, 0, 0, 0, b},
			{0, 0, 0, 0, b},
			{0, b, 0, 0, b},
			{b, b, b, b, b},
			{0, b, 0, 0, 0},
		}},
		{"backspace arrow", ByteBackspace, Frame{
			{0, 0, 0, 0, 0},
			{0, b, 0, 0, 0},
			{b, b, b, b, b},
			{0, b, 0, 0, 0},
			{0, 0, 0, 0, 0},
		}},
	}
	for _, tc := range cases {
		got := GlyphFor(tc.ch, b)
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestGlyphFor_BrightnessScaling(t *testing.T) {
	for _, ch := range []byte{'A', 'z', '7', ByteEnter} {
		full := GlyphFor(ch, MaxBrightness)
		for bri := uint8(0); bri <= MaxBrightness; bri++ {
			frame := GlyphFor(ch, bri)
			for row := range frame {
				for col := range frame[row] {
					want := uint8(0)
					if full[row][col] != 0 {
						want = bri
					}
					if frame[row][col] != want {
						t.Fatalf("char %q bri %d cell (%d,%d): expected %d, got %d",
							ch, bri, row, col, want, frame[row][col])
					}
				}
			}
		}
	}
}

func TestGlyphFor_Deterministic(t *testing.T) {
	for bri := uint8(0); bri <= MaxBrightness; bri++ {
		if GlyphFor('Q', bri) != GlyphFor('Q', bri) {
			t.Fatalf("expected identical frames for repeated calls at brightness %d", bri)
		}
	}
}

func TestGlyphFor_SpaceAndEscapeAreBlank(t *testing.T) {
	for _, ch := range []byte{ByteSpace, ByteEscape} {
		if got := GlyphFor(ch, MaxBrightness); got != (Frame{}) {
			t.Fatalf("char %#x: expected blank frame, got %v", ch, got)
		}
	}
}

func TestGlyphFor_UnknownIsAllOnAtFullBrightness(t *testing.T) {
	// The unsupported-glyph indicator ignores the requested brightness.
	for _, bri := range []uint8{0, 3, 9} {
		frame := GlyphFor('~', bri)
		for row := range frame {
			for col := range frame[row] {
				if frame[row][col] != MaxBrightness {
					t.Fatalf("bri %d cell (%d,%d): expected %d, got %d",
						bri, row, col, MaxBrightness, frame[row][col])
				}
			}
		}
	}
}

func TestGlyphFor_ClampsBrightness(t *testing.T) {
	frame := GlyphFor('A', 200)
	for row := range frame {
		for col := range frame[row] {
			if frame[row][col] > MaxBrightness {
				t.Fatalf("cell (%d,%d): expected <= %d, got %d",
					row, col, MaxBrightness, frame[row][col])
			}
		}
	}
}

func TestGlyphFor_CoversAlphanumerics(t *testing.T) {
	allOn := allOnFrame(MaxBrightness)
	for ch := byte('A'); ch <= 'Z'; ch++ {
		checkSupported(t, ch, allOn)
	}
	for ch := byte('a'); ch <= 'z'; ch++ {
		checkSupported(t, ch, allOn)
	}
	for ch := byte('0'); ch <= '9'; ch++ {
		checkSupported(t, ch, allOn)
	}
}

func checkSupported(t *testing.T, ch byte, allOn Frame) {
	t.Helper()
	frame := GlyphFor(ch, MaxBrightness)
	if frame == (Frame{}) {
		t.Fatalf("char %q: expected a visible glyph, got blank", ch)
	}
	if frame == allOn {
		t.Fatalf("char %q: expected a glyph pattern, got the unsupported indicator", ch)
	}
}
