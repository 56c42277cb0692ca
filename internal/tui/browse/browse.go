// Package browse is an interactive partition table viewer: a selectable
// list of partitions on the left, a hex view of the selected partition's
// first sector on the right.
package browse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"parttool/internal/disk"
	"parttool/internal/dump"
	"parttool/internal/part"
	"parttool/internal/render"
)

type browser struct {
	app    *tview.Application
	pages  *tview.Pages
	grid   *tview.Grid
	header *tview.TextView
	rows   *tview.Table
	sector *tview.TextView
	footer *tview.TextView

	reader disk.SectorReader
	table  *part.Table
}

// Run opens the viewer over an already decoded table. It blocks until the
// user quits.
func Run(r disk.SectorReader, t *part.Table) error {
	b := &browser{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		grid:   tview.NewGrid(),
		header: tview.NewTextView(),
		rows:   tview.NewTable(),
		sector: tview.NewTextView(),
		footer: tview.NewTextView(),
		reader: r,
		table:  t,
	}

	b.style()
	b.layout()
	b.bindKeys()
	b.fillRows()
	b.drawHeader()

	b.pages.AddAndSwitchToPage("main", b.grid, true)
	b.app.SetRoot(b.pages, true)
	b.app.SetFocus(b.rows)
	return b.app.Run()
}

func (b *browser) style() {
	b.header.SetBorder(true)
	b.header.SetDynamicColors(true)
	b.header.SetTitle(" parttool ")
	b.header.SetTitleColor(tcell.ColorSkyblue)

	b.footer.SetBorder(true)
	b.footer.SetDynamicColors(true)
	fmt.Fprint(b.footer, b.footerText())

	b.rows.SetBorder(true)
	b.rows.SetTitle(" partitions ")
	b.rows.SetTitleAlign(tview.AlignLeft)
	b.rows.SetSelectable(true, false)
	b.rows.SetFixed(1, 0)

	b.sector.SetBorder(true)
	b.sector.SetTitle(" first sector ")
	b.sector.SetTitleAlign(tview.AlignLeft)
	b.sector.SetDynamicColors(false)
	b.sector.SetWrap(false)
}

func (b *browser) footerText() string {
	lbl := func(fn, t string) string { return fmt.Sprintf("[black:white] %s [-:-:-] [yellow]%s[-]", fn, t) }
	return strings.Join([]string{
		lbl("Up/Dn", "Select"),
		lbl("Enter", "Sector"),
		lbl("q", "Quit"),
	}, "  ")
}

func (b *browser) layout() {
	b.grid.SetRows(3, 0, 2).SetColumns(0, 0).SetBorders(false)
	center := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(b.rows, 0, 1, true).
		AddItem(b.sector, 0, 1, false)
	b.grid.AddItem(b.header, 0, 0, 1, 2, 0, 0, false)
	b.grid.AddItem(center, 1, 0, 1, 2, 0, 0, true)
	b.grid.AddItem(b.footer, 2, 0, 1, 2, 0, 0, false)
}

func (b *browser) drawHeader() {
	b.header.Clear()
	fmt.Fprintf(b.header, "[yellow]%s[-]  [white]%s[-]  %d partition(s)",
		b.table.Device, b.table.Scheme, len(b.table.Rows))
}

func (b *browser) fillRows() {
	headers := []string{"#", "START LBA", "END LBA", "SIZE", "NAME", "TYPE"}
	for c, h := range headers {
		b.rows.SetCell(0, c, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, r := range b.table.Rows {
		slot := fmt.Sprintf("%d", r.Slot)
		if r.Logical {
			slot = "  " + slot
		}
		cells := []string{
			slot,
			fmt.Sprintf("%d", r.StartLBA),
			fmt.Sprintf("%d", r.EndLBA),
			render.FormatBytes(r.SizeBytes),
			r.Name,
			r.Type.String(),
		}
		for c, text := range cells {
			b.rows.SetCell(i+1, c, tview.NewTableCell(text))
		}
	}
	b.rows.Select(1, 0)
	b.rows.SetSelectionChangedFunc(func(row, col int) {
		b.showSector(row - 1)
	})
	b.rows.SetSelectedFunc(func(row, col int) {
		b.showSector(row - 1)
	})
	if len(b.table.Rows) > 0 {
		b.showSector(0)
	}
}

// showSector reads the first sector of partition index i on demand and
// renders it in the right panel.
func (b *browser) showSector(i int) {
	b.sector.Clear()
	if i < 0 || i >= len(b.table.Rows) {
		return
	}
	r := b.table.Rows[i]
	sec, err := b.reader.ReadSector(r.StartLBA)
	if err != nil {
		fmt.Fprintf(b.sector, "read LBA %d: %v", r.StartLBA, err)
		return
	}
	var buf bytes.Buffer
	dump.Hex(&buf, sec, int64(r.StartLBA)*disk.SectorSize)
	fmt.Fprint(b.sector, buf.String())
	b.sector.SetTitle(fmt.Sprintf(" LBA %d ", r.StartLBA))
}

func (b *browser) bindKeys() {
	b.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyF10:
			b.app.Stop()
			return nil
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				b.app.Stop()
				return nil
			}
		}
		return ev
	})
}
