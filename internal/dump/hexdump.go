// Package dump renders raw sector bytes as a classic hex dump.
package dump

import (
	"fmt"
	"io"
)

const bytesPerRow = 16

func isPrintable(b byte) bool {
	return b >= 32 && b <= 126
}

// Hex writes buf to w, 16 bytes per row: offset, hex bytes with a gap after
// the eighth, and the printable-ASCII gutter. base offsets the printed
// addresses so a dump of sector N can show absolute positions.
func Hex(w io.Writer, buf []byte, base int64) {
	for i := 0; i < len(buf); i += bytesPerRow {
		hexStr := ""
		charStr := ""
		for j := 0; j < bytesPerRow && i+j < len(buf); j++ {
			b := buf[i+j]
			hexStr += fmt.Sprintf("%02X ", b)
			if j == 7 {
				hexStr += " "
			}
			if isPrintable(b) {
				charStr += string(b)
			} else {
				charStr += "."
			}
		}
		fmt.Fprintf(w, "%08X  %-49s  |%s|\n", base+int64(i), hexStr, charStr)
	}
}
