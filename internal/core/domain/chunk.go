package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// HeaderSize is the fixed record header: marker(4) + type(4) + common(4).
const HeaderSize = 12

// ChunkType is the 32-bit record type tag that selects a payload shape.
type ChunkType uint32

// The closed set of record types found in CIV7 saves. Types named Unknown_N
// have no decoded structure and keep their payload as raw bytes.
const (
	ChunkUnknown1    ChunkType = 1
	ChunkUtf8String  ChunkType = 2
	ChunkUtf16String ChunkType = 3
	ChunkNumber32    ChunkType = 8
	ChunkUnknown9    ChunkType = 9
	ChunkUnknown10   ChunkType = 10
	ChunkUnknown11   ChunkType = 11
	ChunkUnknown12   ChunkType = 12
	ChunkUnknown17   ChunkType = 17
	ChunkArray       ChunkType = 29
	ChunkNestedArray ChunkType = 30
	ChunkUnknown32   ChunkType = 32
)

var chunkTypeNames = map[ChunkType]string{
	ChunkUnknown1:    "Unknown_1",
	ChunkUtf8String:  "Utf8String",
	ChunkUtf16String: "Utf16String",
	ChunkNumber32:    "Number32",
	ChunkUnknown9:    "Unknown_9",
	ChunkUnknown10:   "Unknown_10",
	ChunkUnknown11:   "Unknown_11",
	ChunkUnknown12:   "Unknown_12",
	ChunkUnknown17:   "Unknown_17",
	ChunkArray:       "ChunkArray",
	ChunkNestedArray: "NestedArray",
	ChunkUnknown32:   "Unknown_32",
}

// Known reports whether t is one of the recognised record types.
func (t ChunkType) Known() bool {
	_, ok := chunkTypeNames[t]
	return ok
}

// String returns the type name, or "Type(N)" for unrecognised tags.
func (t ChunkType) String() string {
	if name, ok := chunkTypeNames[t]; ok {
		return name
	}
	return "Type(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// MarshalText renders the type by name.
func (t ChunkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Opaque reports whether records of this type keep raw, undecoded bytes.
func (t ChunkType) Opaque() bool {
	switch t {
	case ChunkUnknown1, ChunkUnknown9, ChunkUnknown10, ChunkUnknown11,
		ChunkUnknown12, ChunkUnknown17, ChunkUnknown32:
		return true
	}
	return false
}

// Value is the payload of a chunk. The set of implementations is closed:
// Number, Text, Bytes, ChunkList and NestedList.
type Value interface {
	isValue()
}

// Number is the payload of a Number32 record.
type Number uint32

// Text is the payload of a Utf8String or Utf16String record, without its
// terminator.
type Text string

// Bytes is the raw payload of a record whose structure is not known.
type Bytes []byte

// ChunkList is the payload of a ChunkArray record.
type ChunkList []Chunk

// NestedList is the payload of a NestedArray record.
type NestedList [][]Chunk

func (Number) isValue()     {}
func (Text) isValue()       {}
func (Bytes) isValue()      {}
func (ChunkList) isValue()  {}
func (NestedList) isValue() {}

// MarshalText renders opaque bytes as lowercase hex.
func (b Bytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

// Chunk is one decoded record.
type Chunk struct {
	// Offset is the absolute offset of the record's marker.
	Offset int
	// EndOffset is one past the record's last payload byte.
	EndOffset int

	Marker Marker
	Type   ChunkType
	Value  Value
}

// DataStartOffset is where the type-specific payload begins.
func (c Chunk) DataStartOffset() int {
	return c.Offset + HeaderSize
}

// Len is the total encoded size of the record, header included.
func (c Chunk) Len() int {
	return c.EndOffset - c.Offset
}

// Children returns the sub-chunks of a ChunkArray record, or nil.
func (c Chunk) Children() []Chunk {
	if l, ok := c.Value.(ChunkList); ok {
		return l
	}
	return nil
}

// Empty reports whether the chunk carries no usable value. Numbers are
// never empty; text, bytes and lists are empty when they have length zero.
func (c Chunk) Empty() bool {
	switch v := c.Value.(type) {
	case Number:
		return false
	case Text:
		return v == ""
	case Bytes:
		return len(v) == 0
	case ChunkList:
		return len(v) == 0
	case NestedList:
		return len(v) == 0
	}
	return true
}

// String renders a one-line description, for diagnostics.
func (c Chunk) String() string {
	return fmt.Sprintf("%s %s @%d..%d", c.Marker, c.Type, c.Offset, c.EndOffset)
}

type chunkView struct {
	Offset          int       `json:"offset" yaml:"offset"`
	DataStartOffset int       `json:"data_start_offset" yaml:"data_start_offset"`
	EndOffset       int       `json:"end_offset" yaml:"end_offset"`
	Marker          Marker    `json:"marker" yaml:"marker"`
	Name            string    `json:"name,omitempty" yaml:"name,omitempty"`
	Type            ChunkType `json:"type" yaml:"type"`
	Value           Value     `json:"value" yaml:"value"`
}

func (c Chunk) view() chunkView {
	return chunkView{
		Offset:          c.Offset,
		DataStartOffset: c.DataStartOffset(),
		EndOffset:       c.EndOffset,
		Marker:          c.Marker,
		Name:            c.Marker.Name(),
		Type:            c.Type,
		Value:           c.Value,
	}
}

// MarshalJSON includes the derived data start offset and the marker's known
// name, if any.
func (c Chunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

// MarshalYAML mirrors MarshalJSON.
func (c Chunk) MarshalYAML() (any, error) {
	return c.view(), nil
}

// Walk calls fn for every chunk in chunks and, depth first, for every
// chunk nested inside ChunkArray and NestedArray values.
func Walk(chunks []Chunk, fn func(Chunk)) {
	for _, c := range chunks {
		fn(c)
		switch v := c.Value.(type) {
		case ChunkList:
			Walk(v, fn)
		case NestedList:
			for _, item := range v {
				Walk(item, fn)
			}
		}
	}
}
