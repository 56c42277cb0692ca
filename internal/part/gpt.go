package part

import (
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"parttool/internal/common"
	"parttool/internal/disk"
	"parttool/internal/guid"
)

const (
	// GPTSignature is the 8-byte ASCII literal opening every GPT header.
	GPTSignature = "EFI PART"

	// gptHeaderLen is the size of the defined header fields. The header
	// CRC covers exactly HeaderSize bytes, which must equal this.
	gptHeaderLen = 92

	// gptEntryLen is the defined portion of a partition entry. Entry
	// sizes are multiples of this per UEFI.
	gptEntryLen = 128

	gptNameLen = 72

	// maxPartEntries bounds NumPartEntries so a corrupted header cannot
	// drive unbounded sector reads (512x the typical 128).
	maxPartEntries = 65536
)

// CRCMode selects how strictly CRC32 mismatches are treated.
type CRCMode int

const (
	// CRCWarn recomputes and logs a warning on mismatch.
	CRCWarn CRCMode = iota
	// CRCOff skips CRC verification entirely.
	CRCOff
	// CRCStrict fails validation on mismatch.
	CRCStrict
)

// GPTHeader is the decoded LBA 1 header.
type GPTHeader struct {
	Signature      [8]byte
	Revision       uint32
	HeaderSize     uint32
	HeaderCRC32    uint32
	Reserved       uint32
	CurrentLBA     uint64
	BackupLBA      uint64
	FirstUsableLBA uint64
	LastUsableLBA  uint64
	DiskGUID       guid.GUID
	EntriesLBA     uint64
	NumEntries     uint32
	EntrySize      uint32
	EntriesCRC32   uint32
}

// DecodeGPTHeader unpacks the header fields from a full sector.
func DecodeGPTHeader(sector []byte) GPTHeader {
	var h GPTHeader
	copy(h.Signature[:], sector[0:8])
	h.Revision = binary.LittleEndian.Uint32(sector[8:12])
	h.HeaderSize = binary.LittleEndian.Uint32(sector[12:16])
	h.HeaderCRC32 = binary.LittleEndian.Uint32(sector[16:20])
	h.Reserved = binary.LittleEndian.Uint32(sector[20:24])
	h.CurrentLBA = binary.LittleEndian.Uint64(sector[24:32])
	h.BackupLBA = binary.LittleEndian.Uint64(sector[32:40])
	h.FirstUsableLBA = binary.LittleEndian.Uint64(sector[40:48])
	h.LastUsableLBA = binary.LittleEndian.Uint64(sector[48:56])
	var g [16]byte
	copy(g[:], sector[56:72])
	h.DiskGUID = guid.Decode(g)
	h.EntriesLBA = binary.LittleEndian.Uint64(sector[72:80])
	h.NumEntries = binary.LittleEndian.Uint32(sector[80:84])
	h.EntrySize = binary.LittleEndian.Uint32(sector[84:88])
	h.EntriesCRC32 = binary.LittleEndian.Uint32(sector[88:92])
	return h
}

// Validate checks the header against the sector it was decoded from.
// Failures wrap common.ErrInvalidGPTHeader; callers report them and skip
// the device, they are never fatal to the run.
func (h GPTHeader) Validate(sector []byte, crc CRCMode) error {
	if string(h.Signature[:]) != GPTSignature {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "signature %q", h.Signature)
	}
	if h.HeaderSize != gptHeaderLen {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "header size %d, want %d", h.HeaderSize, gptHeaderLen)
	}
	if h.NumEntries == 0 || h.EntrySize == 0 {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "entry geometry %dx%d", h.NumEntries, h.EntrySize)
	}
	if h.EntrySize%gptEntryLen != 0 {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "entry size %d not a multiple of %d", h.EntrySize, gptEntryLen)
	}
	// Entries must pack evenly: several per sector, or spanning whole
	// sectors.
	if h.EntrySize < disk.SectorSize {
		if disk.SectorSize%h.EntrySize != 0 {
			return errors.Wrapf(common.ErrInvalidGPTHeader, "entry size %d does not pack into %d-byte sectors", h.EntrySize, disk.SectorSize)
		}
	} else if h.EntrySize%disk.SectorSize != 0 {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "entry size %d does not span whole sectors", h.EntrySize)
	}
	if h.NumEntries > maxPartEntries {
		return errors.Wrapf(common.ErrInvalidGPTHeader, "implausible entry count %d", h.NumEntries)
	}

	if crc != CRCOff {
		stored := h.HeaderCRC32
		sum := headerCRC(sector[:gptHeaderLen])
		if sum != stored {
			if crc == CRCStrict {
				return errors.Wrapf(common.ErrInvalidGPTHeader, "header CRC32 %08X, stored %08X", sum, stored)
			}
			log.Warnf("GPT header CRC32 mismatch: computed %08X, stored %08X", sum, stored)
		}
	}
	return nil
}

// headerCRC computes the header checksum with the stored CRC field zeroed.
func headerCRC(hdr []byte) uint32 {
	tmp := make([]byte, len(hdr))
	copy(tmp, hdr)
	for i := 16; i < 20; i++ {
		tmp[i] = 0
	}
	return crc32.ChecksumIEEE(tmp)
}

// ArraySectors is the number of sectors spanned by the partition entry
// array: ceil(NumEntries*EntrySize / SectorSize).
func (h GPTHeader) ArraySectors() uint64 {
	total := uint64(h.NumEntries) * uint64(h.EntrySize)
	return (total + disk.SectorSize - 1) / disk.SectorSize
}

// ArrayBytes is the exact byte length of the entry array (the region the
// stored array CRC covers).
func (h GPTHeader) ArrayBytes() uint64 {
	return uint64(h.NumEntries) * uint64(h.EntrySize)
}

// VerifyEntriesCRC checks the stored array checksum against the array
// bytes. Mode semantics match header validation.
func (h GPTHeader) VerifyEntriesCRC(array []byte, crc CRCMode) error {
	if crc == CRCOff {
		return nil
	}
	sum := crc32.ChecksumIEEE(array)
	if sum != h.EntriesCRC32 {
		if crc == CRCStrict {
			return errors.Wrapf(common.ErrInvalidGPTHeader, "entry array CRC32 %08X, stored %08X", sum, h.EntriesCRC32)
		}
		log.Warnf("GPT entry array CRC32 mismatch: computed %08X, stored %08X", sum, h.EntriesCRC32)
	}
	return nil
}

// GPTEntry is one decoded partition entry.
type GPTEntry struct {
	TypeGUID   guid.GUID
	UniqueGUID guid.GUID
	FirstLBA   uint64
	LastLBA    uint64
	Attributes uint64
	RawName    [gptNameLen]byte
}

// DecodeGPTEntry unpacks the defined fields of one entry. The slice must
// carry at least gptEntryLen bytes; larger entry sizes only pad.
func DecodeGPTEntry(b []byte) GPTEntry {
	var e GPTEntry
	var g [16]byte
	copy(g[:], b[0:16])
	e.TypeGUID = guid.Decode(g)
	copy(g[:], b[16:32])
	e.UniqueGUID = guid.Decode(g)
	e.FirstLBA = binary.LittleEndian.Uint64(b[32:40])
	e.LastLBA = binary.LittleEndian.Uint64(b[40:48])
	e.Attributes = binary.LittleEndian.Uint64(b[48:56])
	copy(e.RawName[:], b[56:56+gptNameLen])
	return e
}

// IsEmpty reports an unused slot: the type GUID is all zero, whatever the
// other fields say.
func (e GPTEntry) IsEmpty() bool {
	return e.TypeGUID.IsZero()
}

// Name decodes the partition name field.
func (e GPTEntry) Name() string {
	return DecodePartitionName(e.RawName[:])
}

// DecodePartitionName reads 2-byte little-endian code units up to the first
// NUL. Printable ASCII passes through; anything outside that range renders
// as '.' rather than attempting a full UTF-16 conversion. The terminator
// and padding never appear in the result.
func DecodePartitionName(raw []byte) string {
	var sb strings.Builder
	for i := 0; i+1 < len(raw); i += 2 {
		v := binary.LittleEndian.Uint16(raw[i:])
		if v == 0 {
			break
		}
		if v >= 0x20 && v <= 0x7E {
			sb.WriteByte(byte(v))
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
