package crs

import "bytes"

// FindSignatures returns every offset in data where sig occurs, in
// ascending order. The cursor advances one byte past each hit rather
// than the signature length, so overlapping occurrences are reported.
func FindSignatures(data, sig []byte) []int {
	var positions []int
	pos := 0
	for pos < len(data) {
		i := bytes.Index(data[pos:], sig)
		if i < 0 {
			break
		}
		positions = append(positions, pos+i)
		pos += i + 1
	}
	return positions
}

// Span is a half-open byte range [Start, End) covering one block.
type Span struct {
	Start int
	End   int
}

// Spans derives block ranges from ascending signature positions. Each
// block runs from its signature to the next one; the last block runs to
// size.
func Spans(positions []int, size int) []Span {
	spans := make([]Span, len(positions))
	for i, start := range positions {
		end := size
		if i+1 < len(positions) {
			end = positions[i+1]
		}
		spans[i] = Span{Start: start, End: end}
	}
	return spans
}
