package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

// minRecordSize is the smallest well-formed record: a header plus the
// 8-byte length prefix of an empty variable-length payload.
const minRecordSize = domain.HeaderSize + 8

// DecodeChunk decodes the single record starting at offset. The returned
// chunk's EndOffset is where the next record begins.
//
// The input is never modified and the returned chunk holds no reference
// into it.
func DecodeChunk(data []byte, offset int) (domain.Chunk, error) {
	head, err := span(data, offset, offset+domain.HeaderSize)
	if err != nil {
		return domain.Chunk{}, err
	}

	c := domain.Chunk{
		Offset: offset,
		Type:   domain.ChunkType(binary.LittleEndian.Uint32(head[4:8])),
	}
	copy(c.Marker[:], head[:4])

	start := c.DataStartOffset()

	switch c.Type {
	case domain.ChunkUnknown1, domain.ChunkUnknown12:
		err = decodeFixed(data, start, &c)
	case domain.ChunkUnknown9:
		err = decodeCounted(data, start, 4, 8, &c)
	case domain.ChunkUnknown10, domain.ChunkUnknown11, domain.ChunkUnknown17:
		err = decodeCounted(data, start, 8, 4, &c)
	case domain.ChunkNumber32:
		err = decodeNumber(data, start, &c)
	case domain.ChunkUtf8String:
		err = decodeUtf8(data, start, &c)
	case domain.ChunkUtf16String:
		err = decodeUtf16(data, start, &c)
	case domain.ChunkArray:
		err = decodeArray(data, start, &c)
	case domain.ChunkNestedArray:
		err = decodeNested(data, start, &c)
	case domain.ChunkUnknown32:
		err = decodeSized(data, start, &c)
	default:
		return domain.Chunk{}, unknownType(offset, uint32(c.Type))
	}
	if err != nil {
		return domain.Chunk{}, err
	}
	return c, nil
}

// decodeFixed handles the 12-byte opaque payloads of Unknown_1 and Unknown_12.
func decodeFixed(data []byte, start int, c *domain.Chunk) error {
	c.EndOffset = start + 12
	return setOpaque(data, start, c)
}

// decodeCounted handles opaque payloads sized by a 16-bit element count:
// length = 8 + count*width, raw value starting at start+skip.
func decodeCounted(data []byte, start, width, skip int, c *domain.Chunk) error {
	count, err := u16(data, start)
	if err != nil {
		return err
	}
	c.EndOffset = start + 8 + count*width
	return setOpaque(data, start+skip, c)
}

// decodeSized handles Unknown_32, whose 32-bit byte length sits at start+4
// rather than at start like the other variable-length types.
func decodeSized(data []byte, start int, c *domain.Chunk) error {
	n, err := u32(data, start+4)
	if err != nil {
		return err
	}
	c.EndOffset = start + 8 + int(n)
	return setOpaque(data, start+8, c)
}

func setOpaque(data []byte, from int, c *domain.Chunk) error {
	raw, err := span(data, from, c.EndOffset)
	if err != nil {
		return err
	}
	c.Value = domain.Bytes(bytes.Clone(raw))
	return nil
}

func decodeNumber(data []byte, start int, c *domain.Chunk) error {
	v, err := u32(data, start+8)
	if err != nil {
		return err
	}
	c.EndOffset = start + 12
	c.Value = domain.Number(v)
	return nil
}

// decodeUtf8 reads n bytes after the 8-byte prefix; the last one is a
// terminator and is not part of the value.
func decodeUtf8(data []byte, start int, c *domain.Chunk) error {
	n, err := u16(data, start)
	if err != nil {
		return err
	}
	c.EndOffset = start + 8 + n
	raw, err := span(data, start+8, c.EndOffset)
	if err != nil {
		return err
	}
	if n == 0 {
		c.Value = domain.Text("")
		return nil
	}
	c.Value = domain.Text(raw[:n-1])
	return nil
}

// decodeUtf16 reads n little-endian UTF-16 units after the 8-byte prefix;
// the last unit is a terminator.
func decodeUtf16(data []byte, start int, c *domain.Chunk) error {
	n, err := u16(data, start)
	if err != nil {
		return err
	}
	c.EndOffset = start + 8 + n*2
	raw, err := span(data, start+8, c.EndOffset)
	if err != nil {
		return err
	}
	if n == 0 {
		c.Value = domain.Text("")
		return nil
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	text, err := dec.Bytes(raw[:len(raw)-2])
	if err != nil {
		return fmt.Errorf("codec: offset %d: utf16: %w", c.Offset, err)
	}
	c.Value = domain.Text(text)
	return nil
}

// decodeArray reads a ChunkArray: a 32-bit child count at start+8 and the
// children from start+12. An empty array ends at start+12.
func decodeArray(data []byte, start int, c *domain.Chunk) error {
	count, err := u32(data, start+8)
	if err != nil {
		return err
	}
	children, err := ReadChunks(data, start+12, count)
	if err != nil {
		return err
	}
	c.EndOffset = endOf(children, start+12)
	c.Value = domain.ChunkList(children)
	return nil
}

// decodeNested reads a NestedArray: a 32-bit item count at start+8, then
// per item a 32-bit sub-count at cursor+16 and its records from cursor+20.
// The cursor moves to the end of each item before the next is read.
func decodeNested(data []byte, start int, c *domain.Chunk) error {
	count, err := u32(data, start+8)
	if err != nil {
		return err
	}

	cursor := start + 12
	items := make(domain.NestedList, 0, maxRecords(data, cursor, count))
	for i := uint32(0); i < count; i++ {
		n, err := u32(data, cursor+16)
		if err != nil {
			return err
		}
		sub, err := ReadChunks(data, cursor+20, n)
		if err != nil {
			return err
		}
		items = append(items, sub)
		cursor = endOf(sub, cursor+20)
	}

	c.EndOffset = cursor
	c.Value = items
	return nil
}
