package part

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/google/uuid"

	"parttool/internal/disk"
)

// Wire-format builders shared by the decoder tests. They construct sectors
// the same way the UEFI and MBR layouts define them, independently of the
// decoders under test.

const (
	efiSystemGUID = "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"
	linuxDataGUID = "0FC63DAF-8483-4772-8E79-3D69D8477DE4"
)

// guidWire converts canonical GUID text to the mixed-endian on-disk form.
func guidWire(t *testing.T, text string) [16]byte {
	t.Helper()
	be := uuid.MustParse(text)
	var w [16]byte
	w[0], w[1], w[2], w[3] = be[3], be[2], be[1], be[0]
	w[4], w[5] = be[5], be[4]
	w[6], w[7] = be[7], be[6]
	copy(w[8:], be[8:])
	return w
}

func newSector() []byte {
	return make([]byte, disk.SectorSize)
}

func signMBR(sector []byte) {
	sector[510] = 0x55
	sector[511] = 0xAA
}

func putMBREntry(sector []byte, slot int, boot, typ byte, startLBA, sectors uint32) {
	off := 446 + slot*16
	sector[off] = boot
	sector[off+4] = typ
	binary.LittleEndian.PutUint32(sector[off+8:], startLBA)
	binary.LittleEndian.PutUint32(sector[off+12:], sectors)
}

// protectiveSector is a boot sector whose single entry covers the disk with
// the GPT-protective type.
func protectiveSector(sectors uint32) []byte {
	sec := newSector()
	signMBR(sec)
	putMBREntry(sec, 0, 0x00, 0xEE, 1, sectors)
	return sec
}

func utf16leName(name string) [72]byte {
	var raw [72]byte
	for i, c := range []byte(name) {
		raw[i*2] = c
	}
	return raw
}

func encodeGPTEntry(t *testing.T, typeGUID, uniqueGUID string, first, last, attrs uint64, name string) []byte {
	t.Helper()
	b := make([]byte, 128)
	tw := guidWire(t, typeGUID)
	uw := guidWire(t, uniqueGUID)
	copy(b[0:16], tw[:])
	copy(b[16:32], uw[:])
	binary.LittleEndian.PutUint64(b[32:40], first)
	binary.LittleEndian.PutUint64(b[40:48], last)
	binary.LittleEndian.PutUint64(b[48:56], attrs)
	raw := utf16leName(name)
	copy(b[56:128], raw[:])
	return b
}

// encodeGPTHeader renders h into a full sector, computing and storing the
// header CRC. h.HeaderCRC32 is ignored.
func encodeGPTHeader(h GPTHeader) []byte {
	sec := newSector()
	copy(sec[0:8], h.Signature[:])
	binary.LittleEndian.PutUint32(sec[8:12], h.Revision)
	binary.LittleEndian.PutUint32(sec[12:16], h.HeaderSize)
	binary.LittleEndian.PutUint32(sec[20:24], h.Reserved)
	binary.LittleEndian.PutUint64(sec[24:32], h.CurrentLBA)
	binary.LittleEndian.PutUint64(sec[32:40], h.BackupLBA)
	binary.LittleEndian.PutUint64(sec[40:48], h.FirstUsableLBA)
	binary.LittleEndian.PutUint64(sec[48:56], h.LastUsableLBA)
	g := h.DiskGUID.Bytes()
	copy(sec[56:72], g[:])
	binary.LittleEndian.PutUint64(sec[72:80], h.EntriesLBA)
	binary.LittleEndian.PutUint32(sec[80:84], h.NumEntries)
	binary.LittleEndian.PutUint32(sec[84:88], h.EntrySize)
	binary.LittleEndian.PutUint32(sec[88:92], h.EntriesCRC32)
	sum := crc32.ChecksumIEEE(sec[:92])
	binary.LittleEndian.PutUint32(sec[16:20], sum)
	return sec
}

func defaultHeader(numEntries uint32) GPTHeader {
	var h GPTHeader
	copy(h.Signature[:], GPTSignature)
	h.Revision = 0x00010000
	h.HeaderSize = 92
	h.CurrentLBA = 1
	h.BackupLBA = 127
	h.FirstUsableLBA = 34
	h.LastUsableLBA = 93
	h.EntriesLBA = 2
	h.NumEntries = numEntries
	h.EntrySize = 128
	return h
}

// buildGPTImage assembles a minimal disk image: protective MBR, header at
// LBA 1, entry array at h.EntriesLBA. entries maps slot index (0-based) to
// encoded 128-byte entries; unset slots stay zero.
func buildGPTImage(t *testing.T, h GPTHeader, entries map[int][]byte) []byte {
	t.Helper()
	array := make([]byte, h.ArrayBytes())
	for slot, e := range entries {
		copy(array[slot*int(h.EntrySize):], e)
	}
	h.EntriesCRC32 = crc32.ChecksumIEEE(array)

	totalSectors := h.EntriesLBA + h.ArraySectors() + 1
	img := make([]byte, totalSectors*disk.SectorSize)
	copy(img, protectiveSector(uint32(totalSectors-1)))
	copy(img[disk.SectorSize:], encodeGPTHeader(h))
	copy(img[h.EntriesLBA*disk.SectorSize:], array)
	return img
}
