package crs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveBlocks(t *testing.T) {
	keep1 := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	dead1 := testBlock("PATCH.OFS", `D:\BUILD\`, 0x70)
	keep2 := testBlock("HOLE2.FDL", `D:\BUILD\`, 0x90)
	dead2 := testBlock("OBJECT.OFS", `D:\BUILD\`, 0x70)
	keep3 := testBlock("TEXTURE.BMP", `D:\BUILD\`, 0x100)

	data := archiveOf(keep1, dead1, keep2, dead2, keep3)
	positions := FindSignatures(data, Signature())
	require.Len(t, positions, 5)

	out, removed := RemoveBlocks(data, positions, DefaultExclusions())
	assert.Equal(t, 2, removed)
	assert.Equal(t, archiveOf(keep1, keep2, keep3), out)
}

func TestRemoveBlocksNoExclusions(t *testing.T) {
	data := archiveOf(testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80))
	positions := FindSignatures(data, Signature())

	out, removed := RemoveBlocks(data, positions, nil)
	assert.Zero(t, removed)
	assert.Equal(t, data, out)
}

func TestRemoveBlocksNoMatches(t *testing.T) {
	data := archiveOf(
		testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80),
		testBlock("HOLE2.FDL", `D:\BUILD\`, 0x80),
	)
	positions := FindSignatures(data, Signature())

	out, removed := RemoveBlocks(data, positions, DefaultExclusions())
	assert.Zero(t, removed)
	assert.Equal(t, data, out)
}

func TestRemoveBlocksSignatureAtBufferEnd(t *testing.T) {
	// Exclusion signature forming the very last bytes of the last
	// block must not trip the span math.
	keep := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	dead := testBlock("LAST.FDL", `D:\BUILD\`, 0x70)
	copy(dead[len(dead)-len("PATCH.OFS"):], "PATCH.OFS")

	data := archiveOf(keep, dead)
	positions := FindSignatures(data, Signature())

	out, removed := RemoveBlocks(data, positions, DefaultExclusions())
	assert.Equal(t, 1, removed)
	assert.Equal(t, keep, out)
}

func TestRemoveBlocksKeepsPrefix(t *testing.T) {
	// Bytes before the first signature belong to no block and
	// always survive.
	prefix := []byte{0x01, 0x02, 0x03}
	keep := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	dead := testBlock("PATCH.OFS", `D:\BUILD\`, 0x70)

	data := append(append([]byte(nil), prefix...), archiveOf(keep, dead)...)
	positions := FindSignatures(data, Signature())

	out, removed := RemoveBlocks(data, positions, DefaultExclusions())
	assert.Equal(t, 1, removed)
	assert.Equal(t, append(append([]byte(nil), prefix...), keep...), out)
}

func TestRemoveBlocksFirstSignatureWins(t *testing.T) {
	// A block matching several exclusion signatures counts once.
	dead := testBlock("PATCH.OFS", `D:\BUILD\`, 0x80)
	copy(dead[0x60:], "OBJECT.OFS")

	data := archiveOf(dead)
	positions := FindSignatures(data, Signature())

	out, removed := RemoveBlocks(data, positions, DefaultExclusions())
	assert.Equal(t, 1, removed)
	assert.Empty(t, out)
}

// removeInPlace is the reference strategy: delete marked spans from a
// copy in strictly descending start order.
func removeInPlace(data []byte, positions []int, exclusions [][]byte) []byte {
	spans := Spans(positions, len(data))
	var marked []Span
	for _, span := range spans {
		for _, sig := range exclusions {
			if bytes.Contains(data[span.Start:span.End], sig) {
				marked = append(marked, span)
				break
			}
		}
	}
	out := append([]byte(nil), data...)
	for i := len(marked) - 1; i >= 0; i-- {
		out = append(out[:marked[i].Start], out[marked[i].End:]...)
	}
	return out
}

func TestRemoveBlocksMatchesDescendingDeletion(t *testing.T) {
	// Copying the retained spans must produce byte-identical output
	// to descending-order in-place deletion.
	data := archiveOf(
		testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80),
		testBlock("PATCH.OFS", `D:\BUILD\`, 0x75),
		testBlock("HOLE2.FDL", `D:\BUILD\`, 0x9B),
		testBlock("OBJECT.OFS", `D:\BUILD\`, 0x70),
		testBlock("GREEN.BMP", `D:\BUILD\`, 0x123),
	)
	positions := FindSignatures(data, Signature())

	got, _ := RemoveBlocks(data, positions, DefaultExclusions())
	want := removeInPlace(data, positions, DefaultExclusions())
	assert.Equal(t, want, got)
}
