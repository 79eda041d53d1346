package crs

import (
	"bytes"
	"log/slog"
)

// RemoveBlocks drops every block whose bytes contain one of the
// exclusion signatures. Blocks are derived from the given signature
// positions; the first matching signature marks a block and later
// signatures are not tested against it.
//
// The retained set is computed from an immutable snapshot of the
// positions and copied span by span into a fresh buffer, so removal
// never shifts offsets out from under the remaining spans. With no
// exclusions or no positions the input buffer is returned unchanged.
func RemoveBlocks(data []byte, positions []int, exclusions [][]byte) ([]byte, int) {
	if len(exclusions) == 0 || len(positions) == 0 {
		return data, 0
	}

	spans := Spans(positions, len(data))
	drop := make([]bool, len(spans))
	removed := 0

	for i, span := range spans {
		block := data[span.Start:span.End]
		for _, sig := range exclusions {
			if bytes.Contains(block, sig) {
				slog.Debug("removing block",
					"signature", string(sig),
					"start", span.Start,
					"end", span.End)
				drop[i] = true
				removed++
				break
			}
		}
	}

	if removed == 0 {
		return data, 0
	}

	out := make([]byte, 0, len(data))
	if len(spans) > 0 {
		// Bytes before the first block are not part of any span
		// and always survive.
		out = append(out, data[:spans[0].Start]...)
	}
	for i, span := range spans {
		if drop[i] {
			continue
		}
		out = append(out, data[span.Start:span.End]...)
	}
	return out, removed
}
