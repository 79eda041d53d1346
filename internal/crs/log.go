package crs

import (
	"fmt"
	"io"
	"strings"
)

// WriteLog emits the human-readable companion log for a patch run: a
// summary of the rebuilt index followed by one line per retained entry
// with its original and adjusted offsets and the raw record bytes.
func WriteLog(w io.Writer, r *Result) error {
	var sb strings.Builder

	tableSize := len(r.Entries) * EntrySize
	sb.WriteString("Generated index summary\n")
	sb.WriteString("------------------------\n")
	fmt.Fprintf(&sb, "Number of files: %d\n", len(r.Entries))
	fmt.Fprintf(&sb, "Index size: %d bytes (0x%04X)\n", tableSize, tableSize)

	h, m, s := r.Stamp.Clock()
	y, mo, d := r.Stamp.Calendar()
	fmt.Fprintf(&sb, "MS-DOS Time: %02d:%02d:%02d (HEX: %02X %02X)\n",
		h, m, s, byte(r.Stamp.Time), byte(r.Stamp.Time>>8))
	fmt.Fprintf(&sb, "MS-DOS Date: %d-%02d-%02d (HEX: %02X %02X)\n",
		y, mo, d, byte(r.Stamp.Date), byte(r.Stamp.Date>>8))
	sb.WriteString("\n")

	for i, e := range r.Entries {
		rec := e.Record()
		name := e.DisplayName()
		if len(name) != len(e.Name) {
			name = "NON-PRINTABLE NAME"
		}
		fmt.Fprintf(&sb, "[%d] Original offset: 0x%06X → Adjusted offset: 0x%06X → Name HEX: %X → ASCII: %s\n",
			i, e.ScanPos, e.Offset, rec[:], name)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
