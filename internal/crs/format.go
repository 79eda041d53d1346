// Package crs implements the CRS course archive container used by
// LINKS: The Challenge of Golf. It rebuilds archives after selected
// embedded files are removed: blocks are located by signature, excluded
// blocks are dropped, the directory index is regenerated with corrected
// offsets, a fresh header is emitted and the internal working paths in
// each file sub-header are rewritten.
package crs

import "time"

// CRS format constants
const (
	// Block and archive signature "MDmd" in ASCII
	signatureText = "MDmd"

	// HeaderSize is the fixed size of the archive header in bytes.
	HeaderSize = 122

	// EntrySize is the fixed size of one directory index record.
	EntrySize = 17

	// MaxNameLen caps the name portion of an index record.
	MaxNameLen = 13

	// nameFieldOffset is where the 32-byte name window starts,
	// relative to a block signature match.
	nameFieldOffset = 0x2A
	nameFieldSize   = 32

	// offsetFieldMax is the largest value the 3-byte offset field can hold.
	offsetFieldMax = 0xFFFFFF
)

// Header field offsets
const (
	offSignature    = 0x00
	offReleaseLevel = 0x04
	offHeaderType   = 0x05
	offHeaderLength = 0x06
	offFileCount    = 0x0A
	offTableSize1   = 0x19
	offTableSize2   = 0x1D
	offDOSTime      = 0x23
	offDOSDate      = 0x25
	offIndexMarker  = 0x29
)

const (
	releaseLevel = 0x0A // v1.0
	headerType   = 0x01

	indexMarker = "~INDEX~"
)

// Signature returns the 4-byte block signature.
func Signature() []byte {
	return []byte(signatureText)
}

// subHeaderSignature identifies the extended per-file sub-header that
// carries an embedded working path 0x36 bytes further in.
var subHeaderSignature = []byte{
	0x4D, 0x44, 0x6D, 0x64, // MDmd
	0x0A, 0x01, // release level, header type
	0x7A, 0x00, // header length 122
	0x00, 0x00, 0x00, 0x00,
}

// pathFieldOffset is where the length-prefixed path sits relative to a
// sub-header signature match.
const pathFieldOffset = 0x36

// DefaultTargetPath is the working path written into every file
// sub-header. The Memorex VIS build of the game resolves assets
// through this fixed location.
const DefaultTargetPath = `C:\LINKS\TEMP\`

// DefaultExclusions lists the embedded files stripped from course
// archives for VIS compatibility.
func DefaultExclusions() [][]byte {
	return [][]byte{
		[]byte("PATCH.OFS"),
		[]byte("OBJECT.OFS"),
	}
}

// timeCorrection is applied to the source modification time before DOS
// packing. The value comes from the original course build toolchain and
// is preserved as-is.
const timeCorrection = 4*time.Hour + 30*time.Minute
