package codec

import (
	"bytes"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

// Magic is the 4-byte prefix of every save file.
var Magic = []byte("CIV7")

// groupLayout locates one top-level group relative to the end of the
// previous group (the file start for the first group).
type groupLayout struct {
	countAt int // 32-bit record count
	startAt int // first record
}

// rootLayout was derived from sample files; no rule relating the five
// pairs is known, so they are kept literally.
var rootLayout = [domain.GroupCount]groupLayout{
	{countAt: 8, startAt: 12},
	{countAt: 8, startAt: 12},
	{countAt: 4, startAt: 8},
	{countAt: 16, startAt: 20},
	{countAt: 0, startAt: 4},
}

// DecodeRaw decodes a whole save file into its five record groups. It
// performs no semantic interpretation.
func DecodeRaw(data []byte) (*domain.RawChunkData, error) {
	if !bytes.HasPrefix(data, Magic) {
		return nil, &DecodeError{Offset: 0, Err: domain.ErrNotASaveFile}
	}

	var groups [domain.GroupCount][]domain.Chunk
	base := 0
	for i, l := range rootLayout {
		count, err := u32(data, base+l.countAt)
		if err != nil {
			return nil, err
		}
		chunks, err := ReadChunks(data, base+l.startAt, count)
		if err != nil {
			return nil, err
		}
		groups[i] = chunks
		base = endOf(chunks, base+l.startAt)
	}

	return &domain.RawChunkData{
		Group1: groups[0],
		Group2: groups[1],
		Group3: groups[2],
		Group4: groups[3],
		Group5: groups[4],
	}, nil
}

// IsSaveFile reports whether data starts with the save file magic.
func IsSaveFile(data []byte) bool {
	return bytes.HasPrefix(data, Magic)
}
