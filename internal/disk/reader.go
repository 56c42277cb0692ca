// Package disk is the sector-level I/O collaborator: it hands out full
// 512-byte sectors by logical block address and nothing else.
package disk

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"parttool/internal/common"
	"parttool/internal/compress"
)

// SectorSize is the logical block size this tool works in. Decoders assume
// it; readers must deliver exactly this many bytes per call.
const SectorSize = 512

// SectorReader reads one full sector at a logical block address. A short
// read, seek failure, or open failure surfaces as common.ErrDeviceUnreadable.
type SectorReader interface {
	ReadSector(lba uint64) ([]byte, error)
	Name() string
}

// Device serves sectors from a block device, a raw image file, or a
// decompressed in-memory copy of a compressed image.
type Device struct {
	name   string
	ra     io.ReaderAt
	closer io.Closer
}

// Open opens a device or image path. Regular files beginning with a known
// compression magic (gzip, zstd, lz4, xz, bzip2) are inflated fully into
// memory first, since compressed streams cannot be seeked sector-wise.
func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(common.ErrDeviceUnreadable, "open %s: %v", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(common.ErrDeviceUnreadable, "stat %s: %v", path, err)
	}

	if fi.Mode().IsRegular() {
		magic := make([]byte, 6)
		n, err := f.ReadAt(magic, 0)
		if err != nil && err != io.EOF {
			f.Close()
			return nil, errors.Wrapf(common.ErrDeviceUnreadable, "read %s: %v", path, err)
		}
		if kind := compress.Detect(magic[:n]); kind != "none" {
			raw, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, errors.Wrapf(common.ErrDeviceUnreadable, "read %s: %v", path, err)
			}
			data, err := compress.Decompress(raw, kind)
			if err != nil {
				return nil, errors.Wrapf(common.ErrDeviceUnreadable, "inflate %s (%s): %v", path, kind, err)
			}
			return &Device{name: path, ra: bytes.NewReader(data)}, nil
		}
	}

	return &Device{name: path, ra: f, closer: f}, nil
}

// NewMemReader serves sectors from an in-memory image.
func NewMemReader(name string, data []byte) *Device {
	return &Device{name: name, ra: bytes.NewReader(data)}
}

func (d *Device) Name() string { return d.name }

// ReadSector returns a fresh copy of the sector at lba. Anything short of a
// full sector is a failure.
func (d *Device) ReadSector(lba uint64) ([]byte, error) {
	buf := make([]byte, SectorSize)
	n, err := d.ra.ReadAt(buf, int64(lba)*SectorSize)
	if n != SectorSize {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(common.ErrDeviceUnreadable, "%s: sector %d: %v", d.name, lba, err)
	}
	return buf, nil
}

// Close releases the underlying file, if any.
func (d *Device) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
