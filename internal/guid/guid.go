// Package guid converts between the 16-byte mixed-endian GUID wire format
// used by GPT and its canonical textual form.
package guid

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GUID holds the five wire fields of a GPT GUID. On disk the first three
// fields are little-endian and the rest keep byte order (UEFI Appendix A).
type GUID struct {
	TimeLo                uint32
	TimeMid               uint16
	TimeHiAndVersion      uint16
	ClockSeqHiAndReserved uint8
	ClockSeqLo            uint8
	Node                  [6]byte
}

// Decode unpacks the on-disk representation. Fixed-width input, no failure
// mode.
func Decode(b [16]byte) GUID {
	g := GUID{
		TimeLo:                binary.LittleEndian.Uint32(b[0:4]),
		TimeMid:               binary.LittleEndian.Uint16(b[4:6]),
		TimeHiAndVersion:      binary.LittleEndian.Uint16(b[6:8]),
		ClockSeqHiAndReserved: b[8],
		ClockSeqLo:            b[9],
	}
	copy(g.Node[:], b[10:16])
	return g
}

// Bytes re-encodes the GUID to its on-disk form. Inverse of Decode.
func (g GUID) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], g.TimeLo)
	binary.LittleEndian.PutUint16(b[4:6], g.TimeMid)
	binary.LittleEndian.PutUint16(b[6:8], g.TimeHiAndVersion)
	b[8] = g.ClockSeqHiAndReserved
	b[9] = g.ClockSeqLo
	copy(b[10:16], g.Node[:])
	return b
}

// String renders the canonical dash-separated form. Uppercase throughout:
// the type registry is keyed on this exact rendering.
func (g GUID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		g.TimeLo, g.TimeMid, g.TimeHiAndVersion,
		g.ClockSeqHiAndReserved, g.ClockSeqLo,
		g.Node[0], g.Node[1], g.Node[2], g.Node[3], g.Node[4], g.Node[5])
}

// UUID returns the RFC 4122 (big-endian) view of the GUID.
func (g GUID) UUID() uuid.UUID {
	var be [16]byte
	binary.BigEndian.PutUint32(be[0:4], g.TimeLo)
	binary.BigEndian.PutUint16(be[4:6], g.TimeMid)
	binary.BigEndian.PutUint16(be[6:8], g.TimeHiAndVersion)
	be[8] = g.ClockSeqHiAndReserved
	be[9] = g.ClockSeqLo
	copy(be[10:16], g.Node[:])
	u, _ := uuid.FromBytes(be[:])
	return u
}

// IsZero reports whether every byte of the GUID is zero. GPT uses the zero
// GUID to mark unused partition entries.
func (g GUID) IsZero() bool {
	return g == GUID{}
}
