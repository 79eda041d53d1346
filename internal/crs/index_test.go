package crs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexThreeBlocks(t *testing.T) {
	b1 := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	b2 := testBlock("HOLE2.FDL", `D:\BUILD\`, 0x95)
	b3 := testBlock("GREEN.BMP", `D:\BUILD\`, 0x60)
	data := archiveOf(b1, b2, b3)

	entries, err := BuildIndex(data, DefaultExclusions())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	base := BaseOffset(3)
	assert.Equal(t, 3*EntrySize+HeaderSize, base)

	wantNames := []string{"HOLE1.FDL", "HOLE2.FDL", "GREEN.BMP"}
	wantPos := []int{0, 0x80, 0x80 + 0x95}
	for i, e := range entries {
		assert.Equal(t, wantNames[i], string(e.Name))
		assert.Equal(t, wantPos[i], e.ScanPos)
		assert.Equal(t, wantPos[i]+base, e.Offset)
	}
}

func TestBuildIndexRecordLayout(t *testing.T) {
	data := archiveOf(testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80))
	entries, err := BuildIndex(data, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rec := entries[0].Record()
	assert.Equal(t, []byte("HOLE1.FDL"), rec[:9])
	// Zero padding between the name and the offset field.
	assert.Equal(t, []byte{0, 0, 0, 0}, rec[9:13])

	off := entries[0].Offset
	assert.Equal(t, byte(off), rec[13])
	assert.Equal(t, byte(off>>8), rec[14])
	assert.Equal(t, byte(off>>16), rec[15])
	assert.Equal(t, byte(0), rec[16])
}

func TestBuildIndexNameFilter(t *testing.T) {
	// The name-based filter drops a block even when its content
	// survived removal. Lower-case names match case-insensitively.
	good := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	bad := testBlock("patch.ofs", `D:\BUILD\`, 0x80)
	data := archiveOf(good, bad)

	entries, err := BuildIndex(data, DefaultExclusions())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HOLE1.FDL", string(entries[0].Name))
}

func TestBuildIndexNameTruncation(t *testing.T) {
	data := archiveOf(testBlock("AVERYLONGBLOCKNAME.BIN", `D:\BUILD\`, 0x80))
	entries, err := BuildIndex(data, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AVERYLONGBLOC", string(entries[0].Name))
	assert.Len(t, entries[0].Name, MaxNameLen)
}

func TestBuildIndexEmptyBuffer(t *testing.T) {
	entries, err := BuildIndex(nil, DefaultExclusions())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildIndexNoSignatures(t *testing.T) {
	entries, err := BuildIndex([]byte("no blocks in here at all"), DefaultExclusions())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildIndexOffsetOverflow(t *testing.T) {
	// A block whose adjusted offset cannot fit the 3-byte field is
	// a hard error for the whole file.
	block := testBlock("HOLE1.FDL", `D:\BUILD\`, 0x80)
	data := make([]byte, offsetFieldMax+1)
	copy(data[len(data)-len(block):], block)

	_, err := BuildIndex(data, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3-byte index field")
}

func TestBaseOffset(t *testing.T) {
	assert.Equal(t, HeaderSize, BaseOffset(0))
	assert.Equal(t, 122+17, BaseOffset(1))
	assert.Equal(t, 122+51, BaseOffset(3))
}
