package part

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"parttool/internal/common"
	"parttool/internal/disk"
)

// Scheme is the partition scheme a table was decoded from.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeMBR
	SchemeGPT
)

func (s Scheme) String() string {
	switch s {
	case SchemeMBR:
		return "MBR"
	case SchemeGPT:
		return "GPT"
	default:
		return "unknown"
	}
}

// Row is one live partition, ready for rendering. Rows keep on-disk entry
// order; the only filtering applied is dropping unused/empty slots.
type Row struct {
	// Slot is the 1-based on-disk entry index. Logical partitions found
	// through an EBR chain share the slot of their extended container.
	Slot      int
	StartLBA  uint64
	EndLBA    uint64
	SizeBytes uint64
	// TypeKey is the raw type identifier: "0xNN" for MBR, the canonical
	// GUID text for GPT.
	TypeKey  string
	Type     TypeDescriptor
	Name     string
	Bootable bool
	Logical  bool
}

// Table is the decoded partition table of one device.
type Table struct {
	Device string
	Scheme Scheme
	MBR    *MBR
	GPT    *GPTHeader
	Rows   []Row
}

// Options tune table assembly.
type Options struct {
	CRC CRCMode
}

// ReadTable reads sector 0 from r, classifies it, and decodes the full
// partition table. It returns common.ErrInvalidSignature for a sector
// without a boot signature, common.ErrInvalidGPTHeader when the protective
// MBR leads to a header that fails validation, and
// common.ErrDeviceUnreadable when any required sector cannot be read.
// Every failure aborts this device only.
func ReadTable(r disk.SectorReader, opts Options) (*Table, error) {
	sector, err := r.ReadSector(0)
	if err != nil {
		return nil, err
	}

	t := &Table{Device: r.Name()}
	switch ClassifyMBR(sector) {
	case Invalid:
		return nil, errors.Wrapf(common.ErrInvalidSignature, "%s: boot sector", r.Name())
	case Traditional:
		t.Scheme = SchemeMBR
		m := DecodeMBR(sector)
		t.MBR = &m
		t.Rows = assembleMBRRows(r, &m)
	case ProtectiveGPT:
		t.Scheme = SchemeGPT
		if err := assembleGPT(r, t, opts); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func assembleMBRRows(r disk.SectorReader, m *MBR) []Row {
	var rows []Row
	for i, e := range m.Entries {
		if e.Unused() || e.Sectors == 0 {
			continue
		}
		rows = append(rows, mbrRow(i+1, e, false))
		if !e.Extended() {
			continue
		}
		logical, err := WalkEBRChain(r, e.StartLBA)
		if err != nil {
			log.Warnf("%s: extended partition %d: %v", r.Name(), i+1, err)
		}
		for _, l := range logical {
			rows = append(rows, mbrRow(i+1, l, true))
		}
	}
	return rows
}

func mbrRow(slot int, e MBREntry, logical bool) Row {
	start := uint64(e.StartLBA)
	return Row{
		Slot:      slot,
		StartLBA:  start,
		EndLBA:    start + uint64(e.Sectors) - 1,
		SizeBytes: uint64(e.Sectors) * disk.SectorSize,
		TypeKey:   fmt.Sprintf("0x%02X", e.Type),
		Type:      LookupMBRType(e.Type),
		Bootable:  e.Bootable(),
		Logical:   logical,
	}
}

func assembleGPT(r disk.SectorReader, t *Table, opts Options) error {
	sector, err := r.ReadSector(1)
	if err != nil {
		return err
	}
	h := DecodeGPTHeader(sector)
	if err := h.Validate(sector, opts.CRC); err != nil {
		return errors.WithMessage(err, r.Name())
	}
	t.GPT = &h

	// One read per array sector, never one per entry: entries pack
	// several to a sector.
	array := make([]byte, 0, h.ArraySectors()*disk.SectorSize)
	for s := uint64(0); s < h.ArraySectors(); s++ {
		sec, err := r.ReadSector(h.EntriesLBA + s)
		if err != nil {
			return err
		}
		array = append(array, sec...)
	}
	array = array[:h.ArrayBytes()]
	if err := h.VerifyEntriesCRC(array, opts.CRC); err != nil {
		return errors.WithMessage(err, r.Name())
	}

	for i := uint32(0); i < h.NumEntries; i++ {
		off := uint64(i) * uint64(h.EntrySize)
		e := DecodeGPTEntry(array[off : off+uint64(h.EntrySize)])
		if e.IsEmpty() {
			continue
		}
		key := e.TypeGUID.String()
		t.Rows = append(t.Rows, Row{
			Slot:      int(i) + 1,
			StartLBA:  e.FirstLBA,
			EndLBA:    e.LastLBA,
			SizeBytes: (e.LastLBA - e.FirstLBA + 1) * disk.SectorSize,
			TypeKey:   key,
			Type:      LookupGPTType(key),
			Name:      e.Name(),
		})
	}
	return nil
}
