package crs

import (
	"encoding/binary"
	"fmt"
	"time"
)

// DOSStamp is the MS-DOS packed time and date pair written into the
// header at 0x23 and 0x25.
type DOSStamp struct {
	Time uint16
	Date uint16
}

// PackDOSStamp converts a modification time into the MS-DOS packed
// encoding. The fixed +4h30m correction from the original course build
// toolchain is applied first; its rationale is undocumented and the
// value is preserved numerically.
func PackDOSStamp(mtime time.Time) DOSStamp {
	t := mtime.UTC().Add(timeCorrection)
	year, month, day := t.Date()
	return DOSStamp{
		Time: uint16(t.Hour()<<11 | t.Minute()<<5 | t.Second()/2),
		Date: uint16((year-1980)<<9 | int(month)<<5 | day),
	}
}

// Clock unpacks the time word into hours, minutes and seconds. Seconds
// carry two-second resolution.
func (s DOSStamp) Clock() (hour, min, sec int) {
	return int(s.Time >> 11), int(s.Time >> 5 & 0x3F), int(s.Time&0x1F) * 2
}

// Calendar unpacks the date word into year, month and day.
func (s DOSStamp) Calendar() (year, month, day int) {
	return int(s.Date>>9) + 1980, int(s.Date >> 5 & 0x0F), int(s.Date & 0x1F)
}

func (s DOSStamp) String() string {
	y, mo, d := s.Calendar()
	h, mi, se := s.Clock()
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", y, mo, d, h, mi, se)
}

// BuildHeader constructs the fixed 122-byte archive header for the
// given entry count and source modification time. The index table byte
// size is written into both redundant slots; the loader rejects
// archives where they differ.
func BuildHeader(entryCount int, mtime time.Time) ([]byte, DOSStamp) {
	header := make([]byte, HeaderSize)
	stamp := PackDOSStamp(mtime)

	copy(header[offSignature:], signatureText)
	header[offReleaseLevel] = releaseLevel
	header[offHeaderType] = headerType
	binary.LittleEndian.PutUint16(header[offHeaderLength:], HeaderSize)

	binary.LittleEndian.PutUint16(header[offFileCount:], uint16(entryCount))
	tableSize := uint16(entryCount * EntrySize)
	binary.LittleEndian.PutUint16(header[offTableSize1:], tableSize)
	binary.LittleEndian.PutUint16(header[offTableSize2:], tableSize)

	binary.LittleEndian.PutUint16(header[offDOSTime:], stamp.Time)
	binary.LittleEndian.PutUint16(header[offDOSDate:], stamp.Date)

	header[offIndexMarker] = byte(len(indexMarker))
	copy(header[offIndexMarker+1:], indexMarker)

	// Filler: spaces with a single zero byte at 0x36.
	for i := 0x31; i < 0x36; i++ {
		header[i] = 0x20
	}
	header[0x36] = 0x00
	for i := 0x37; i < 0x7A; i++ {
		header[i] = 0x20
	}

	return header, stamp
}
