// Package codectest builds well-formed CIV7 save buffers for tests.
//
// Each helper returns the full encoding of one record; records are plain
// byte slices so they can be nested and concatenated freely.
package codectest

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

func header(m domain.Marker, typ domain.ChunkType) []byte {
	b := make([]byte, 0, domain.HeaderSize)
	b = append(b, m[:]...)
	b = binary.LittleEndian.AppendUint32(b, uint32(typ))
	return binary.LittleEndian.AppendUint32(b, 0)
}

// Number encodes a Number32 record.
func Number(m domain.Marker, v uint32) []byte {
	b := header(m, domain.ChunkNumber32)
	b = append(b, make([]byte, 8)...)
	return binary.LittleEndian.AppendUint32(b, v)
}

// Utf8 encodes a Utf8String record with a trailing NUL.
func Utf8(m domain.Marker, s string) []byte {
	b := header(m, domain.ChunkUtf8String)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s)+1))
	b = append(b, make([]byte, 6)...)
	b = append(b, s...)
	return append(b, 0)
}

// Utf16 encodes a Utf16String record with a trailing NUL unit.
func Utf16(m domain.Marker, s string) []byte {
	units := utf16.Encode([]rune(s))
	b := header(m, domain.ChunkUtf16String)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(units)+1))
	b = append(b, make([]byte, 6)...)
	for _, u := range units {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return binary.LittleEndian.AppendUint16(b, 0)
}

// Fixed encodes an Unknown_1 or Unknown_12 record.
func Fixed(m domain.Marker, typ domain.ChunkType, payload [12]byte) []byte {
	return append(header(m, typ), payload[:]...)
}

// Words encodes an Unknown_9 record holding the given 32-bit words.
func Words(m domain.Marker, words ...uint32) []byte {
	b := header(m, domain.ChunkUnknown9)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(words)))
	b = append(b, make([]byte, 6)...)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

// Quads encodes an Unknown_10, Unknown_11 or Unknown_17 record holding the
// given 64-bit values. tail fills bytes 4..8 of the payload, which belong
// to the decoded value.
func Quads(m domain.Marker, typ domain.ChunkType, tail uint32, quads ...uint64) []byte {
	b := header(m, typ)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(quads)))
	b = append(b, 0, 0)
	b = binary.LittleEndian.AppendUint32(b, tail)
	for _, q := range quads {
		b = binary.LittleEndian.AppendUint64(b, q)
	}
	return b
}

// Blob encodes an Unknown_32 record.
func Blob(m domain.Marker, data []byte) []byte {
	b := header(m, domain.ChunkUnknown32)
	b = append(b, 0, 0, 0, 0)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(data)))
	return append(b, data...)
}

// Array encodes a ChunkArray record around already encoded children.
func Array(m domain.Marker, children ...[]byte) []byte {
	b := header(m, domain.ChunkArray)
	b = append(b, make([]byte, 8)...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(children)))
	for _, c := range children {
		b = append(b, c...)
	}
	return b
}

// Nested encodes a NestedArray record; each item is a list of encoded
// records.
func Nested(m domain.Marker, items ...[][]byte) []byte {
	b := header(m, domain.ChunkNestedArray)
	b = append(b, make([]byte, 8)...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(items)))
	for _, item := range items {
		b = append(b, make([]byte, 16)...)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(item)))
		for _, c := range item {
			b = append(b, c...)
		}
	}
	return b
}

// Raw encodes a record with an arbitrary type tag and payload, for
// exercising unknown types.
func Raw(m domain.Marker, typ uint32, payload []byte) []byte {
	return append(header(m, domain.ChunkType(typ)), payload...)
}

// groupGaps is the number of filler bytes written before each group's
// record count, counted from the end of the previous group.
var groupGaps = [domain.GroupCount]int{4, 8, 4, 16, 0}

// File encodes a complete save: the magic, then each group's filler, count
// and records.
func File(groups [domain.GroupCount][][]byte) []byte {
	b := []byte("CIV7")
	for i, g := range groups {
		b = append(b, make([]byte, groupGaps[i])...)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(g)))
		for _, rec := range g {
			b = append(b, rec...)
		}
	}
	return b
}
