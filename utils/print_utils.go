package utils

import (
	"fmt"
	"io"
	"strings"
)

func PrintStringLine(w io.Writer, s ...string) {
	for _, str := range s {
		fmt.Fprintln(w, str)
	}
}

// PrintBytes writes a hex dump of bs, 16 bytes per line, labelling each
// line with its absolute offset starting at base.
func PrintBytes(w io.Writer, base uint64, bs []byte) {
	const width = 16

	for i := 0; i < len(bs); i += width {
		line := bs[i:min(i+width, len(bs))]

		var hexCol, ascii strings.Builder
		for j := 0; j < width; j++ {
			if j == width/2 {
				hexCol.WriteByte(' ')
			}
			if j < len(line) {
				fmt.Fprintf(&hexCol, "%02x ", line[j])
			} else {
				hexCol.WriteString("   ")
			}
		}
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}

		fmt.Fprintf(w, "%016x  %s |%s|\n", base+uint64(i), hexCol.String(), ascii.String())
	}
}
