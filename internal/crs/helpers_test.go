package crs

import "bytes"

// pathFieldEnd is where the space-padded path region of a synthetic
// test block stops and pattern filler begins.
const pathFieldEnd = 0x60

// testBlock builds a synthetic CRS block shaped like the real thing:
// the 12-byte sub-header signature, a space-padded name field at
// +0x2A, a length-prefixed path in a space-padded region at +0x36 and
// pattern filler out to size.
func testBlock(name, path string, size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = 0xEE
	}
	copy(b, subHeaderSignature)

	for i := nameFieldOffset; i < pathFieldEnd && i < len(b); i++ {
		b[i] = 0x20
	}
	if pathFieldOffset < len(b) {
		seg := append([]byte{byte(len(path))}, path...)
		copy(b[pathFieldOffset:], seg)
	}
	copy(b[nameFieldOffset:], name)
	return b
}

// archiveOf concatenates blocks into a raw source buffer.
func archiveOf(blocks ...[]byte) []byte {
	return bytes.Join(blocks, nil)
}
