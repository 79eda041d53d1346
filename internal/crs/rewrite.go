package crs

import (
	"bytes"
	"log/slog"
)

// RewritePaths overwrites the embedded working path in every file
// sub-header of the assembled archive, in place. The path field is a
// length-prefixed ASCII string 0x36 bytes after each sub-header
// signature. A site whose write would run past the buffer end is
// skipped with a warning and scanning resumes at the next byte. After
// each write, leftover bytes from a previously longer path are
// space-filled up to the first byte that is already a space.
//
// Returns the number of rewritten sites and the number skipped.
func RewritePaths(data []byte, target string) (rewritten, skipped int) {
	path := []byte(target)
	segment := make([]byte, 0, len(path)+1)
	segment = append(segment, byte(len(path)))
	segment = append(segment, path...)

	pos := 0
	for {
		i := bytes.Index(data[pos:], subHeaderSignature)
		if i < 0 {
			break
		}
		sigPos := pos + i
		pos = sigPos + 1

		start := sigPos + pathFieldOffset
		end := start + len(segment)
		if end >= len(data) {
			slog.Warn("skipping path rewrite, field would exceed buffer",
				"offset", sigPos, "need", end, "have", len(data))
			skipped++
			continue
		}

		copy(data[start:end], segment)
		rewritten++

		for p := end; p < len(data) && data[p] != 0x20; p++ {
			data[p] = 0x20
		}
	}
	return rewritten, skipped
}
