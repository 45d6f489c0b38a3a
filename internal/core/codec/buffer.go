package codec

import "encoding/binary"

// Bounds-checked little-endian reads. Every multi-byte integer in the
// format is little-endian.

func u16(data []byte, off int) (int, error) {
	if off < 0 || off+2 > len(data) {
		return 0, truncated(off)
	}
	return int(binary.LittleEndian.Uint16(data[off:])), nil
}

func u32(data []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(data) {
		return 0, truncated(off)
	}
	return binary.LittleEndian.Uint32(data[off:]), nil
}

// span returns data[start:end] or a truncation error naming end.
func span(data []byte, start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(data) {
		return nil, truncated(end)
	}
	return data[start:end], nil
}

// maxRecords bounds a declared record count by what the remaining bytes
// could hold, so a corrupt count does not size a huge allocation.
func maxRecords(data []byte, off int, count uint32) int {
	room := (len(data) - off) / minRecordSize
	if room < 0 {
		room = 0
	}
	if uint64(count) < uint64(room) {
		return int(count)
	}
	return room
}
