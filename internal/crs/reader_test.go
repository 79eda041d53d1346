package crs

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeaderTooShort(t *testing.T) {
	_, err := ReadHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestReadHeaderBadSignature(t *testing.T) {
	data := make([]byte, HeaderSize)
	copy(data, "XXXX")
	_, err := ReadHeader(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestReadHeaderTableSizeMismatch(t *testing.T) {
	header, _ := BuildHeader(3, time.Unix(0, 0))
	binary.LittleEndian.PutUint16(header[offTableSize2:], 0x1234)

	_, err := ReadHeader(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disagree")
}

func TestReadHeaderCountTableSizeMismatch(t *testing.T) {
	header, _ := BuildHeader(3, time.Unix(0, 0))
	binary.LittleEndian.PutUint16(header[offFileCount:], 4)

	_, err := ReadHeader(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestReadIndexTruncated(t *testing.T) {
	header, _ := BuildHeader(2, time.Unix(0, 0))
	h, err := ReadHeader(append(header, make([]byte, EntrySize)...))
	require.NoError(t, err)

	_, err = ReadIndex(append(header, make([]byte, EntrySize)...), h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestReadIndexDecodesRecords(t *testing.T) {
	entries := []Entry{
		{Name: []byte("HOLE1.FDL"), ScanPos: 0},
		{Name: []byte("GREEN.BMP"), ScanPos: 0x1234},
	}
	base := BaseOffset(len(entries))
	for i := range entries {
		entries[i].Offset = entries[i].ScanPos + base
	}

	header, _ := BuildHeader(len(entries), time.Unix(0, 0))
	data := append(header, IndexTable(entries)...)

	h, err := ReadHeader(data)
	require.NoError(t, err)
	got, err := ReadIndex(data, h)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
