package part

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	befile "github.com/diskfs/go-diskfs/backend/file"
	diskgpt "github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parttool/internal/disk"
)

// TestReadTableAgreesWithDiskfs decodes the same image with this package
// and with go-diskfs and compares the results field by field.
func TestReadTableAgreesWithDiskfs(t *testing.T) {
	h := defaultHeader(128)
	entries := map[int][]byte{
		0: encodeGPTEntry(t, efiSystemGUID, "8DA63203-7B5A-4F9F-B21B-5F8B2D6B920E", 34, 2081, 0, "EFI System"),
		1: encodeGPTEntry(t, linuxDataGUID, "F3A6E5DE-1F04-4C2E-8F0A-000000000001", 2082, 10273, 0, "rootfs"),
		7: encodeGPTEntry(t, linuxDataGUID, "F3A6E5DE-1F04-4C2E-8F0A-000000000002", 10274, 12321, 4, "var"),
	}
	img := buildGPTImage(t, h, entries)

	path := filepath.Join(t.TempDir(), "gpt.img")
	require.NoError(t, os.WriteFile(path, img, 0o644))

	table, err := ReadTable(disk.NewMemReader(path, img), Options{CRC: CRCStrict})
	require.NoError(t, err)

	b, err := befile.OpenFromPath(path, true)
	require.NoError(t, err)
	defer b.Close()
	ref, err := diskgpt.Read(b, disk.SectorSize, disk.SectorSize)
	require.NoError(t, err)

	require.Len(t, ref.Partitions, len(table.Rows))
	for i, row := range table.Rows {
		p := ref.Partitions[i]
		assert.Equal(t, p.Start, row.StartLBA, "row %d start", i)
		assert.Equal(t, p.End, row.EndLBA, "row %d end", i)
		assert.Equal(t, p.Size, row.SizeBytes, "row %d size", i)
		assert.True(t, strings.EqualFold(string(p.Type), row.TypeKey), "row %d type %s vs %s", i, p.Type, row.TypeKey)
		assert.Equal(t, p.Name, row.Name, "row %d name", i)
	}
}
