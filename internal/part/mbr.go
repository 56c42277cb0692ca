// Package part decodes and validates MBR and GPT partition tables from raw
// sector bytes. Decoders extract every field eagerly at explicit byte
// offsets; nothing retains a reference into the caller's buffer.
package part

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"parttool/internal/common"
	"parttool/internal/disk"
)

const (
	// MBRSignature sits in the last two bytes of the boot sector,
	// little-endian.
	MBRSignature = 0xAA55

	// MBRTypeUnused marks an empty slot in the MBR partition table.
	MBRTypeUnused byte = 0x00
	// MBRTypeProtectiveGPT marks the disk as GPT-formatted.
	MBRTypeProtectiveGPT byte = 0xEE

	mbrBootCodeLen  = 446
	mbrEntryLen     = 16
	mbrEntryCount   = 4
	mbrSignatureOff = 510
	mbrBootableFlag = 0x80
	ebrMaxChainHops = 128
)

// Classification is the three-way outcome of inspecting a boot sector.
type Classification int

const (
	Invalid Classification = iota
	Traditional
	ProtectiveGPT
)

func (c Classification) String() string {
	switch c {
	case Traditional:
		return "MBR"
	case ProtectiveGPT:
		return "GPT (protective MBR)"
	default:
		return "invalid"
	}
}

// MBREntry is one 16-byte slot of the MBR partition table. The CHS fields
// are captured byte-for-byte but never interpreted.
type MBREntry struct {
	BootFlag byte
	CHSStart [3]byte
	Type     byte
	CHSEnd   [3]byte
	StartLBA uint32
	Sectors  uint32
}

func (e MBREntry) Bootable() bool { return e.BootFlag == mbrBootableFlag }
func (e MBREntry) Unused() bool   { return e.Type == MBRTypeUnused }

// Extended reports whether the entry is an extended-partition container
// (CHS, LBA, or Linux extended).
func (e MBREntry) Extended() bool {
	switch e.Type {
	case 0x05, 0x0F, 0x85:
		return true
	default:
		return false
	}
}

// MBR is the full decoded boot sector: 446 bytes of opaque boot code, four
// table entries, and the trailing signature.
type MBR struct {
	BootCode  [mbrBootCodeLen]byte
	Entries   [mbrEntryCount]MBREntry
	Signature uint16
}

// ClassifyMBR inspects a boot sector. No signature means Invalid; with a
// valid signature, any entry of the protective type means ProtectiveGPT;
// anything else, including a table of all-zero entries, is Traditional.
func ClassifyMBR(sector []byte) Classification {
	if len(sector) < disk.SectorSize {
		return Invalid
	}
	if binary.LittleEndian.Uint16(sector[mbrSignatureOff:]) != MBRSignature {
		return Invalid
	}
	for i := 0; i < mbrEntryCount; i++ {
		if sector[mbrBootCodeLen+i*mbrEntryLen+4] == MBRTypeProtectiveGPT {
			return ProtectiveGPT
		}
	}
	return Traditional
}

// DecodeMBREntry unpacks one 16-byte table slot.
func DecodeMBREntry(b []byte) MBREntry {
	e := MBREntry{
		BootFlag: b[0],
		Type:     b[4],
		StartLBA: binary.LittleEndian.Uint32(b[8:12]),
		Sectors:  binary.LittleEndian.Uint32(b[12:16]),
	}
	copy(e.CHSStart[:], b[1:4])
	copy(e.CHSEnd[:], b[5:8])
	return e
}

// DecodeMBR unpacks a full boot sector. The sector must be at least
// disk.SectorSize bytes; the caller (a SectorReader consumer) guarantees
// that.
func DecodeMBR(sector []byte) MBR {
	var m MBR
	copy(m.BootCode[:], sector[:mbrBootCodeLen])
	for i := 0; i < mbrEntryCount; i++ {
		off := mbrBootCodeLen + i*mbrEntryLen
		m.Entries[i] = DecodeMBREntry(sector[off : off+mbrEntryLen])
	}
	m.Signature = binary.LittleEndian.Uint16(sector[mbrSignatureOff:])
	return m
}

// WalkEBRChain follows the extended boot record chain rooted at baseLBA and
// returns the logical partitions it describes, with StartLBA rewritten to
// absolute sectors. The first entry of each EBR is the logical partition
// (relative to that EBR); the second links to the next EBR (relative to the
// extended partition base). The chain is hop-capped against loops.
func WalkEBRChain(r disk.SectorReader, baseLBA uint32) ([]MBREntry, error) {
	var logical []MBREntry
	next := uint64(baseLBA)
	for hops := 0; hops < ebrMaxChainHops; hops++ {
		sector, err := r.ReadSector(next)
		if err != nil {
			return logical, err
		}
		if binary.LittleEndian.Uint16(sector[mbrSignatureOff:]) != MBRSignature {
			return logical, errors.Wrapf(common.ErrInvalidSignature, "EBR at LBA %d", next)
		}

		first := DecodeMBREntry(sector[mbrBootCodeLen : mbrBootCodeLen+mbrEntryLen])
		link := DecodeMBREntry(sector[mbrBootCodeLen+mbrEntryLen : mbrBootCodeLen+2*mbrEntryLen])

		if !first.Unused() && first.Sectors != 0 {
			first.StartLBA = uint32(next) + first.StartLBA
			logical = append(logical, first)
		}
		if link.Unused() || link.Sectors == 0 || !link.Extended() {
			break
		}
		next = uint64(baseLBA) + uint64(link.StartLBA)
	}
	return logical, nil
}
