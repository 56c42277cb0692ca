// Package render turns decoded partition tables into terminal output.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"

	"parttool/internal/part"
)

const (
	kb = 1 << 10
	mb = 1 << 20
	gb = 1 << 30
	tb = 1 << 40
	pb = 1 << 50
)

// unit is a data size unit with its threshold, in descending order.
type unit struct {
	name      string
	threshold uint64
}

var units = []unit{
	{"PB", pb},
	{"TB", tb},
	{"GB", gb},
	{"MB", mb},
	{"KB", kb},
}

// FormatBytes renders n as a human size in the largest unit it reaches.
func FormatBytes(n uint64) string {
	for _, u := range units {
		if n >= u.threshold {
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.threshold), u.name)
		}
	}
	return fmt.Sprintf("%d bytes", n)
}

var gptHeaderTmpl = template.Must(template.New("gptheader").Parse(
	`Disk GUID:        {{.DiskGUID}}
Revision:         {{.Revision}}
Current LBA:      {{.CurrentLBA}}
Backup LBA:       {{.BackupLBA}}
First usable LBA: {{.FirstUsableLBA}}
Last usable LBA:  {{.LastUsableLBA}}
Entries:          {{.NumEntries}} x {{.EntrySize}} bytes at LBA {{.EntriesLBA}}
`))

type gptHeaderView struct {
	DiskGUID       string
	Revision       string
	CurrentLBA     uint64
	BackupLBA      uint64
	FirstUsableLBA uint64
	LastUsableLBA  uint64
	NumEntries     uint32
	EntrySize      uint32
	EntriesLBA     uint64
}

// GPTHeaderSummary writes the decoded header fields an operator cares about.
func GPTHeaderSummary(w io.Writer, h *part.GPTHeader) error {
	return gptHeaderTmpl.Execute(w, gptHeaderView{
		DiskGUID:       h.DiskGUID.String(),
		Revision:       fmt.Sprintf("%d.%d", h.Revision>>16, h.Revision&0xFFFF),
		CurrentLBA:     h.CurrentLBA,
		BackupLBA:      h.BackupLBA,
		FirstUsableLBA: h.FirstUsableLBA,
		LastUsableLBA:  h.LastUsableLBA,
		NumEntries:     h.NumEntries,
		EntrySize:      h.EntrySize,
		EntriesLBA:     h.EntriesLBA,
	})
}

// Table writes t's rows as an aligned table. MBR and GPT tables carry
// different columns; both keep on-disk entry order.
func Table(w io.Writer, t *part.Table) {
	fmt.Fprintf(w, "%s: %s partition table, %d partition(s)\n", t.Device, t.Scheme, len(t.Rows))
	if len(t.Rows) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	defer tw.Flush()

	if t.Scheme == part.SchemeGPT {
		fmt.Fprintln(tw, "#\tSTART LBA\tEND LBA\tSIZE\tNAME\tTYPE")
		for _, r := range t.Rows {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n",
				r.Slot, r.StartLBA, r.EndLBA, FormatBytes(r.SizeBytes), r.Name, r.Type)
		}
		return
	}

	fmt.Fprintln(tw, "#\tSTART LBA\tEND LBA\tSIZE\tBOOT\tTYPE")
	for _, r := range t.Rows {
		slot := fmt.Sprintf("%d", r.Slot)
		if r.Logical {
			// Logical partitions sit under their extended container.
			slot = "  " + slot
		}
		boot := ""
		if r.Bootable {
			boot = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s (%s)\n",
			slot, r.StartLBA, r.EndLBA, FormatBytes(r.SizeBytes), boot, r.Type, r.TypeKey)
	}
}
