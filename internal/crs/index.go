package crs

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
)

// Entry is one directory index record for a surviving block.
type Entry struct {
	// Name holds the raw block name bytes, at most MaxNameLen.
	// Comparisons and serialization use these bytes; DisplayName
	// derives a lossy form for humans only.
	Name []byte

	// ScanPos is the block's position within the post-removal data
	// segment.
	ScanPos int

	// Offset is the block's absolute position in the rebuilt
	// archive: ScanPos shifted past the header and index table.
	Offset int
}

// DisplayName renders the entry name as printable ASCII, dropping any
// bytes outside the 7-bit range. Display only; never used for
// comparison or offset logic.
func (e Entry) DisplayName() string {
	return asciiString(e.Name)
}

// Record serializes the entry into its fixed 17-byte form: name at the
// front zero-padded, 3-byte little-endian offset at bytes 13..15, one
// reserved zero byte.
func (e Entry) Record() [EntrySize]byte {
	var rec [EntrySize]byte
	copy(rec[:MaxNameLen], e.Name)
	rec[13] = byte(e.Offset)
	rec[14] = byte(e.Offset >> 8)
	rec[15] = byte(e.Offset >> 16)
	return rec
}

// BaseOffset is the byte distance from archive start to the data
// segment: the fixed header plus the index table.
func BaseOffset(entryCount int) int {
	return entryCount*EntrySize + HeaderSize
}

// BuildIndex rescans the post-removal buffer and builds one index
// record per surviving block. Block names whose uppercased ASCII form
// equals an exclusion name are dropped here as well, independent of the
// content match in RemoveBlocks.
//
// Offsets are patched for the final layout (header ++ index ++ data):
// every data-relative position shifts forward by BaseOffset.
func BuildIndex(data []byte, exclusions [][]byte) ([]Entry, error) {
	positions := FindSignatures(data, Signature())

	excluded := make(map[string]bool, len(exclusions))
	for _, sig := range exclusions {
		excluded[strings.ToUpper(asciiString(sig))] = true
	}

	var entries []Entry
	for _, pos := range positions {
		name := blockName(data, pos)
		if excluded[strings.ToUpper(asciiString(name))] {
			slog.Debug("excluding block by name", "name", asciiString(name), "pos", pos)
			continue
		}
		entries = append(entries, Entry{Name: name, ScanPos: pos})
	}

	base := BaseOffset(len(entries))
	for i := range entries {
		off := entries[i].ScanPos + base
		if off > offsetFieldMax {
			return nil, fmt.Errorf("block %q at 0x%06X: offset 0x%X exceeds 3-byte index field",
				entries[i].DisplayName(), entries[i].ScanPos, off)
		}
		entries[i].Offset = off
	}
	return entries, nil
}

// blockName reads the block name from the 32-byte window after the
// signature: the leading run up to the first space, capped at
// MaxNameLen bytes.
func blockName(data []byte, sigPos int) []byte {
	start := sigPos + nameFieldOffset
	if start >= len(data) {
		return nil
	}
	end := start + nameFieldSize
	if end > len(data) {
		end = len(data)
	}
	window := data[start:end]
	if i := bytes.IndexByte(window, ' '); i >= 0 {
		window = window[:i]
	}
	if len(window) > MaxNameLen {
		window = window[:MaxNameLen]
	}
	name := make([]byte, len(window))
	copy(name, window)
	return name
}

// asciiString drops non-ASCII bytes, mirroring a lossy ASCII decode.
func asciiString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// IndexTable serializes entries into the contiguous index table that
// sits between the header and the data segment.
func IndexTable(entries []Entry) []byte {
	table := make([]byte, 0, len(entries)*EntrySize)
	for _, e := range entries {
		rec := e.Record()
		table = append(table, rec[:]...)
	}
	return table
}

// entryOffset decodes the 3-byte little-endian offset field of a raw
// index record.
func entryOffset(rec []byte) int {
	return int(rec[13]) | int(rec[14])<<8 | int(rec[15])<<16
}
