package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parttool/internal/part"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0 bytes"},
		{511, "511 bytes"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{2 * 1 << 20, "2.00 MB"},
		{10 * 1 << 30, "10.00 GB"},
		{3 * 1 << 40, "3.00 TB"},
		{1 << 50, "1.00 PB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.n))
	}
}

func TestGPTHeaderSummary(t *testing.T) {
	h := &part.GPTHeader{
		Revision:       0x00010000,
		CurrentLBA:     1,
		BackupLBA:      4095,
		FirstUsableLBA: 34,
		LastUsableLBA:  4062,
		EntriesLBA:     2,
		NumEntries:     128,
		EntrySize:      128,
	}
	var out bytes.Buffer
	require.NoError(t, GPTHeaderSummary(&out, h))

	s := out.String()
	assert.Contains(t, s, "Disk GUID:        00000000-0000-0000-0000-000000000000")
	assert.Contains(t, s, "Revision:         1.0")
	assert.Contains(t, s, "Entries:          128 x 128 bytes at LBA 2")
	assert.Contains(t, s, "Last usable LBA:  4062")
}

func TestTableMBR(t *testing.T) {
	tbl := &part.Table{
		Device: "/dev/sda",
		Scheme: part.SchemeMBR,
		Rows: []part.Row{
			{Slot: 1, StartLBA: 2048, EndLBA: 6143, SizeBytes: 4096 * 512,
				TypeKey: "0x83", Type: part.LookupMBRType(0x83), Bootable: true},
			{Slot: 2, StartLBA: 8192, EndLBA: 10239, SizeBytes: 2048 * 512,
				TypeKey: "0x83", Type: part.LookupMBRType(0x83), Logical: true},
		},
	}
	var out bytes.Buffer
	Table(&out, tbl)

	s := out.String()
	assert.Contains(t, s, "/dev/sda: MBR partition table, 2 partition(s)")
	assert.Contains(t, s, "BOOT")
	assert.Contains(t, s, "*")
	assert.Contains(t, s, "Linux - Linux (0x83)")
	assert.Contains(t, s, "2.00 MB")

	// Logical rows are indented under their container.
	lines := strings.Split(s, "\n")
	var logicalLine string
	for _, l := range lines {
		if strings.Contains(l, "8192") {
			logicalLine = l
		}
	}
	require.NotEmpty(t, logicalLine)
	assert.True(t, strings.HasPrefix(logicalLine, "  "))
}

func TestTableGPT(t *testing.T) {
	tbl := &part.Table{
		Device: "disk.img",
		Scheme: part.SchemeGPT,
		Rows: []part.Row{
			{Slot: 1, StartLBA: 34, EndLBA: 2081, SizeBytes: 2048 * 512,
				TypeKey: "C12A7328-F81F-11D2-BA4B-00A0C93EC93B",
				Type:    part.LookupGPTType("C12A7328-F81F-11D2-BA4B-00A0C93EC93B"),
				Name:    "EFI System"},
		},
	}
	var out bytes.Buffer
	Table(&out, tbl)

	s := out.String()
	assert.Contains(t, s, "disk.img: GPT partition table, 1 partition(s)")
	assert.Contains(t, s, "NAME")
	assert.Contains(t, s, "EFI System")
	assert.Contains(t, s, "EFI - EFI System Partition")
	assert.NotContains(t, s, "BOOT")
}

func TestTableEmpty(t *testing.T) {
	tbl := &part.Table{Device: "empty.img", Scheme: part.SchemeMBR}
	var out bytes.Buffer
	Table(&out, tbl)

	assert.Equal(t, "empty.img: MBR partition table, 0 partition(s)\n", out.String())
}
