package codec

import "github.com/yndnr/civ7save-go/internal/core/domain"

// ReadChunks decodes count consecutive records starting at offset. Record
// k+1 starts exactly where record k ends. Either all count records decode
// or an error is returned with no partial result.
func ReadChunks(data []byte, offset int, count uint32) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, 0, maxRecords(data, offset, count))
	next := offset
	for i := uint32(0); i < count; i++ {
		c, err := DecodeChunk(data, next)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
		next = c.EndOffset
	}
	return chunks, nil
}

// endOf returns the end offset of the last chunk, or empty when there are
// no chunks.
func endOf(chunks []domain.Chunk, empty int) int {
	if len(chunks) == 0 {
		return empty
	}
	return chunks[len(chunks)-1].EndOffset
}
