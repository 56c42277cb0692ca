package guid

import (
	"strings"
	"testing"
)

var sampleWire = [16]byte{
	0x03, 0x32, 0xA6, 0x8D, 0x5A, 0x7B, 0x9F, 0x4F,
	0xB2, 0x1B, 0x5F, 0x8B, 0x2D, 0x6B, 0x92, 0x0E,
}

const sampleText = "8DA63203-7B5A-4F9F-B21B-5F8B2D6B920E"

func TestDecodeString(t *testing.T) {
	g := Decode(sampleWire)
	if got := g.String(); got != sampleText {
		t.Errorf("String() = %q, want %q", got, sampleText)
	}
	if g.TimeLo != 0x8DA63203 {
		t.Errorf("TimeLo = %08X, want 8DA63203", g.TimeLo)
	}
	if g.TimeMid != 0x7B5A || g.TimeHiAndVersion != 0x4F9F {
		t.Errorf("mid/hi = %04X/%04X, want 7B5A/4F9F", g.TimeMid, g.TimeHiAndVersion)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	g := Decode(sampleWire)
	if g.Bytes() != sampleWire {
		t.Errorf("Bytes() = % X, want % X", g.Bytes(), sampleWire)
	}
}

func TestUUIDAgreesWithString(t *testing.T) {
	g := Decode(sampleWire)
	if got, want := g.UUID().String(), strings.ToLower(sampleText); got != want {
		t.Errorf("UUID() = %q, want %q", got, want)
	}
}

func TestIsZero(t *testing.T) {
	if !Decode([16]byte{}).IsZero() {
		t.Error("zero wire bytes: IsZero() = false")
	}
	if Decode(sampleWire).IsZero() {
		t.Error("sample: IsZero() = true")
	}
	var oneBit [16]byte
	oneBit[15] = 1
	if Decode(oneBit).IsZero() {
		t.Error("single set byte: IsZero() = true")
	}
}
