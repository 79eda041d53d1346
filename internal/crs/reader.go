package crs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header is the decoded fixed archive header.
type Header struct {
	ReleaseLevel byte
	HeaderType   byte
	HeaderLength uint16
	FileCount    uint16
	TableSize    uint16
	TableSize2   uint16
	Stamp        DOSStamp
	IndexMarker  string
}

// ReadHeader decodes and validates the archive header at the front of
// data.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("archive too short for header: %d bytes, need %d", len(data), HeaderSize)
	}
	if !bytes.Equal(data[offSignature:offSignature+4], Signature()) {
		return nil, fmt.Errorf("bad archive signature %q, want %q", data[:4], signatureText)
	}

	h := &Header{
		ReleaseLevel: data[offReleaseLevel],
		HeaderType:   data[offHeaderType],
		HeaderLength: binary.LittleEndian.Uint16(data[offHeaderLength:]),
		FileCount:    binary.LittleEndian.Uint16(data[offFileCount:]),
		TableSize:    binary.LittleEndian.Uint16(data[offTableSize1:]),
		TableSize2:   binary.LittleEndian.Uint16(data[offTableSize2:]),
		Stamp: DOSStamp{
			Time: binary.LittleEndian.Uint16(data[offDOSTime:]),
			Date: binary.LittleEndian.Uint16(data[offDOSDate:]),
		},
	}

	markerLen := int(data[offIndexMarker])
	markerEnd := offIndexMarker + 1 + markerLen
	if markerLen > 0 && markerEnd <= len(data) {
		h.IndexMarker = string(data[offIndexMarker+1 : markerEnd])
	}

	if h.HeaderLength != HeaderSize {
		return nil, fmt.Errorf("unexpected header length %d, want %d", h.HeaderLength, HeaderSize)
	}
	if h.TableSize != h.TableSize2 {
		return nil, fmt.Errorf("redundant index table sizes disagree: %d vs %d", h.TableSize, h.TableSize2)
	}
	if int(h.TableSize) != int(h.FileCount)*EntrySize {
		return nil, fmt.Errorf("index table size %d does not match %d entries", h.TableSize, h.FileCount)
	}

	return h, nil
}

// ReadIndex decodes the directory records that follow the header.
// Offsets come back as absolute archive positions; ScanPos is derived
// by subtracting the base offset.
func ReadIndex(data []byte, h *Header) ([]Entry, error) {
	count := int(h.FileCount)
	need := HeaderSize + count*EntrySize
	if len(data) < need {
		return nil, fmt.Errorf("archive too short for %d index entries: %d bytes, need %d", count, len(data), need)
	}

	base := BaseOffset(count)
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		rec := data[HeaderSize+i*EntrySize : HeaderSize+(i+1)*EntrySize]

		name := rec[:MaxNameLen]
		if z := bytes.IndexByte(name, 0); z >= 0 {
			name = name[:z]
		}

		off := entryOffset(rec)
		entries = append(entries, Entry{
			Name:    append([]byte(nil), name...),
			Offset:  off,
			ScanPos: off - base,
		})
	}
	return entries, nil
}
