package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/yndnr/civ7save-go/internal/core/codec/codectest"
	"github.com/yndnr/civ7save-go/internal/core/domain"
)

var testMarker = domain.Marker{0xde, 0xad, 0xbe, 0xef}

func TestDecodeChunk_Types(t *testing.T) {
	fixed := [12]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	tests := []struct {
		name    string
		rec     []byte
		typ     domain.ChunkType
		wantLen int
		check   func(t *testing.T, v domain.Value)
	}{
		{
			name:    "number32",
			rec:     codectest.Number(testMarker, 51),
			typ:     domain.ChunkNumber32,
			wantLen: 24,
			check: func(t *testing.T, v domain.Value) {
				if v != domain.Number(51) {
					t.Errorf("value = %v, want 51", v)
				}
			},
		},
		{
			name:    "utf8 string",
			rec:     codectest.Utf8(testMarker, "AGE_ANTIQUITY"),
			typ:     domain.ChunkUtf8String,
			wantLen: 12 + 8 + 14,
			check: func(t *testing.T, v domain.Value) {
				if v != domain.Text("AGE_ANTIQUITY") {
					t.Errorf("value = %q, want AGE_ANTIQUITY", v)
				}
			},
		},
		{
			name:    "utf16 string",
			rec:     codectest.Utf16(testMarker, "Ĺéå"),
			typ:     domain.ChunkUtf16String,
			wantLen: 12 + 8 + 8,
			check: func(t *testing.T, v domain.Value) {
				if v != domain.Text("Ĺéå") {
					t.Errorf("value = %q, want Ĺéå", v)
				}
			},
		},
		{
			name:    "unknown 1",
			rec:     codectest.Fixed(testMarker, domain.ChunkUnknown1, fixed),
			typ:     domain.ChunkUnknown1,
			wantLen: 24,
			check: func(t *testing.T, v domain.Value) {
				if !bytes.Equal(v.(domain.Bytes), fixed[:]) {
					t.Errorf("value = %x, want %x", v, fixed)
				}
			},
		},
		{
			name:    "unknown 12",
			rec:     codectest.Fixed(testMarker, domain.ChunkUnknown12, fixed),
			typ:     domain.ChunkUnknown12,
			wantLen: 24,
		},
		{
			name:    "unknown 9",
			rec:     codectest.Words(testMarker, 7, 9),
			typ:     domain.ChunkUnknown9,
			wantLen: 12 + 8 + 8,
			check: func(t *testing.T, v domain.Value) {
				want := binary.LittleEndian.AppendUint32(binary.LittleEndian.AppendUint32(nil, 7), 9)
				if !bytes.Equal(v.(domain.Bytes), want) {
					t.Errorf("value = %x, want %x", v, want)
				}
			},
		},
		{
			name:    "unknown 10",
			rec:     codectest.Quads(testMarker, domain.ChunkUnknown10, 0xaabbccdd, 1),
			typ:     domain.ChunkUnknown10,
			wantLen: 12 + 8 + 8,
			check: func(t *testing.T, v domain.Value) {
				want := binary.LittleEndian.AppendUint64(binary.LittleEndian.AppendUint32(nil, 0xaabbccdd), 1)
				if !bytes.Equal(v.(domain.Bytes), want) {
					t.Errorf("value = %x, want %x", v, want)
				}
			},
		},
		{
			name:    "unknown 11",
			rec:     codectest.Quads(testMarker, domain.ChunkUnknown11, 0, 1, 2),
			typ:     domain.ChunkUnknown11,
			wantLen: 12 + 8 + 16,
		},
		{
			name:    "unknown 17 empty",
			rec:     codectest.Quads(testMarker, domain.ChunkUnknown17, 0),
			typ:     domain.ChunkUnknown17,
			wantLen: 12 + 8,
		},
		{
			name:    "unknown 32",
			rec:     codectest.Blob(testMarker, []byte("hello")),
			typ:     domain.ChunkUnknown32,
			wantLen: 12 + 8 + 5,
			check: func(t *testing.T, v domain.Value) {
				if string(v.(domain.Bytes)) != "hello" {
					t.Errorf("value = %q, want hello", v)
				}
			},
		},
		{
			name: "chunk array",
			rec: codectest.Array(testMarker,
				codectest.Number(domain.MarkerGameTurn, 1),
				codectest.Utf8(domain.MarkerGameAge, "X"),
			),
			typ:     domain.ChunkArray,
			wantLen: 24 + 24 + 22,
			check: func(t *testing.T, v domain.Value) {
				list := v.(domain.ChunkList)
				if len(list) != 2 {
					t.Fatalf("len = %d, want 2", len(list))
				}
				if list[0].Offset != 24 || list[1].Offset != 48 {
					t.Errorf("child offsets = %d,%d, want 24,48", list[0].Offset, list[1].Offset)
				}
			},
		},
		{
			name:    "empty chunk array",
			rec:     codectest.Array(testMarker),
			typ:     domain.ChunkArray,
			wantLen: 24,
			check: func(t *testing.T, v domain.Value) {
				if len(v.(domain.ChunkList)) != 0 {
					t.Errorf("expected no children, got %d", len(v.(domain.ChunkList)))
				}
			},
		},
		{
			name: "nested array",
			rec: codectest.Nested(testMarker,
				[][]byte{codectest.Number(testMarker, 3)},
				nil,
				[][]byte{codectest.Number(testMarker, 4), codectest.Number(testMarker, 5)},
			),
			typ:     domain.ChunkNestedArray,
			wantLen: 24 + (20 + 24) + 20 + (20 + 48),
			check: func(t *testing.T, v domain.Value) {
				items := v.(domain.NestedList)
				if len(items) != 3 {
					t.Fatalf("items = %d, want 3", len(items))
				}
				if len(items[0]) != 1 || len(items[1]) != 0 || len(items[2]) != 2 {
					t.Errorf("item sizes = %d,%d,%d, want 1,0,2", len(items[0]), len(items[1]), len(items[2]))
				}
				// first item records start 20 bytes past the item cursor
				if items[0][0].Offset != 24+20 {
					t.Errorf("items[0][0].Offset = %d, want 44", items[0][0].Offset)
				}
				if items[2][0].Offset != 24+44+20+20 {
					t.Errorf("items[2][0].Offset = %d, want 108", items[2][0].Offset)
				}
			},
		},
		{
			name:    "empty nested array",
			rec:     codectest.Nested(testMarker),
			typ:     domain.ChunkNestedArray,
			wantLen: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeChunk(tt.rec, 0)
			if err != nil {
				t.Fatalf("DecodeChunk() error = %v", err)
			}
			if c.Type != tt.typ {
				t.Errorf("Type = %v, want %v", c.Type, tt.typ)
			}
			if c.Marker != testMarker {
				t.Errorf("Marker = %v, want %v", c.Marker, testMarker)
			}
			if c.DataStartOffset() != domain.HeaderSize {
				t.Errorf("DataStartOffset() = %d, want %d", c.DataStartOffset(), domain.HeaderSize)
			}
			if c.EndOffset != tt.wantLen {
				t.Errorf("EndOffset = %d, want %d", c.EndOffset, tt.wantLen)
			}
			if c.EndOffset != len(tt.rec) {
				t.Errorf("EndOffset = %d, record is %d bytes", c.EndOffset, len(tt.rec))
			}
			if tt.check != nil {
				tt.check(t, c.Value)
			}
		})
	}
}

func TestDecodeChunk_AtOffset(t *testing.T) {
	prefix := bytes.Repeat([]byte{0xff}, 100)
	data := append(prefix, codectest.Number(testMarker, 9)...)

	c, err := DecodeChunk(data, 100)
	if err != nil {
		t.Fatalf("DecodeChunk() error = %v", err)
	}
	if c.Offset != 100 || c.DataStartOffset() != 112 || c.EndOffset != 124 {
		t.Errorf("offsets = %d/%d/%d, want 100/112/124", c.Offset, c.DataStartOffset(), c.EndOffset)
	}
}

func TestDecodeChunk_EmptyStrings(t *testing.T) {
	// n == 0: no terminator at all
	rec := codectest.Raw(testMarker, uint32(domain.ChunkUtf8String), make([]byte, 8))
	c, err := DecodeChunk(rec, 0)
	if err != nil {
		t.Fatalf("DecodeChunk() error = %v", err)
	}
	if c.Value != domain.Text("") || c.EndOffset != 20 {
		t.Errorf("got %q ending at %d, want empty ending at 20", c.Value, c.EndOffset)
	}

	rec = codectest.Utf16(testMarker, "")
	c, err = DecodeChunk(rec, 0)
	if err != nil {
		t.Fatalf("DecodeChunk() error = %v", err)
	}
	if c.Value != domain.Text("") || c.EndOffset != 22 {
		t.Errorf("got %q ending at %d, want empty ending at 22", c.Value, c.EndOffset)
	}
}

func TestDecodeChunk_UnknownType(t *testing.T) {
	for _, typ := range []uint32{0, 4, 7, 31, 33, 0xffffffff} {
		rec := codectest.Raw(testMarker, typ, make([]byte, 12))
		_, err := DecodeChunk(rec, 0)
		if !errors.Is(err, domain.ErrUnknownChunkType) {
			t.Errorf("type %d: error = %v, want ErrUnknownChunkType", typ, err)
			continue
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("type %d: error is not a *DecodeError", typ)
		}
		if de.Offset != 0 || de.Type != typ {
			t.Errorf("type %d: DecodeError = %+v", typ, de)
		}
	}
}

func TestDecodeChunk_Truncated(t *testing.T) {
	tests := []struct {
		name       string
		rec        []byte
		cut        int
		wantOffset int
	}{
		{"header", codectest.Number(testMarker, 1), 8, 12},
		{"number value", codectest.Number(testMarker, 1), 20, 20},
		{"utf8 body", codectest.Utf8(testMarker, "LEADER_ASHOKA"), 25, 34},
		{"utf16 body", codectest.Utf16(testMarker, "abc"), 26, 28},
		{"blob length", codectest.Blob(testMarker, []byte("xyz")), 14, 16},
		{"blob body", codectest.Blob(testMarker, []byte("xyz")), 22, 23},
		{"array child", codectest.Array(testMarker, codectest.Number(testMarker, 1)), 30, 36},
		{"nested sub-count", codectest.Nested(testMarker, [][]byte{codectest.Number(testMarker, 1)}), 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChunk(tt.rec[:tt.cut], 0)
			if !errors.Is(err, domain.ErrTruncatedInput) {
				t.Fatalf("error = %v, want ErrTruncatedInput", err)
			}
			var de *DecodeError
			if errors.As(err, &de) && de.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", de.Offset, tt.wantOffset)
			}
		})
	}
}

func TestDecodeChunk_HugeCount(t *testing.T) {
	rec := codectest.Array(testMarker)
	binary.LittleEndian.PutUint32(rec[20:], 0xffffffff)

	_, err := DecodeChunk(rec, 0)
	if !errors.Is(err, domain.ErrTruncatedInput) {
		t.Errorf("error = %v, want ErrTruncatedInput", err)
	}
}

func TestDecodeChunk_DoesNotRetainInput(t *testing.T) {
	rec := codectest.Array(testMarker,
		codectest.Blob(testMarker, []byte("opaque")),
		codectest.Utf8(testMarker, "text"),
	)
	orig := bytes.Clone(rec)

	c, err := DecodeChunk(rec, 0)
	if err != nil {
		t.Fatalf("DecodeChunk() error = %v", err)
	}
	if !bytes.Equal(rec, orig) {
		t.Fatal("input buffer was modified")
	}

	for i := range rec {
		rec[i] = 0
	}
	children := c.Children()
	if string(children[0].Value.(domain.Bytes)) != "opaque" {
		t.Errorf("blob value changed with input: %q", children[0].Value)
	}
	if children[1].Value != domain.Text("text") {
		t.Errorf("text value changed with input: %q", children[1].Value)
	}
}

func TestReadChunks(t *testing.T) {
	data := bytes.Join([][]byte{
		codectest.Number(testMarker, 1),
		codectest.Utf8(testMarker, "two"),
		codectest.Array(testMarker, codectest.Number(testMarker, 3)),
		codectest.Blob(testMarker, []byte{4}),
	}, nil)

	chunks, err := ReadChunks(data, 0, 4)
	if err != nil {
		t.Fatalf("ReadChunks() error = %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("len = %d, want 4", len(chunks))
	}
	if chunks[0].Offset != 0 {
		t.Errorf("first Offset = %d, want 0", chunks[0].Offset)
	}
	for i := 0; i+1 < len(chunks); i++ {
		if chunks[i+1].Offset != chunks[i].EndOffset {
			t.Errorf("chunk %d starts at %d, previous ends at %d", i+1, chunks[i+1].Offset, chunks[i].EndOffset)
		}
	}
	if last := chunks[3].EndOffset; last != len(data) {
		t.Errorf("last EndOffset = %d, want %d", last, len(data))
	}

	t.Run("zero count", func(t *testing.T) {
		chunks, err := ReadChunks(nil, 0, 0)
		if err != nil || len(chunks) != 0 {
			t.Errorf("ReadChunks(nil, 0, 0) = %v, %v", chunks, err)
		}
	})

	t.Run("no partial result", func(t *testing.T) {
		chunks, err := ReadChunks(data, 0, 5)
		if !errors.Is(err, domain.ErrTruncatedInput) {
			t.Errorf("error = %v, want ErrTruncatedInput", err)
		}
		if chunks != nil {
			t.Errorf("expected nil chunks on failure, got %d", len(chunks))
		}
	})
}
