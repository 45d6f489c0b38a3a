package service

import (
	"unsafe"

	"github.com/yndnr/civ7save-go/internal/core/domain"
)

const (
	chunkSize   = int64(unsafe.Sizeof(domain.Chunk{}))
	sliceHeader = int64(unsafe.Sizeof([]byte(nil)))
	// boxed is the heap cell behind a Value interface: a string or slice
	// header, or a padded Number.
	boxed = sliceHeader
)

// decodedCost estimates the heap held by a decoded tree. It is the cache
// cost of a ParsedSave, so cache.max_cost bounds memory rather than input
// bytes. The extracted players only point into the tree and are ignored.
func decodedCost(raw *domain.RawChunkData) int64 {
	var n int64
	for _, g := range raw.Groups() {
		n += chunksCost(g)
	}
	return n
}

func chunksCost(chunks []domain.Chunk) int64 {
	n := int64(len(chunks)) * chunkSize
	for _, c := range chunks {
		n += valueCost(c.Value)
	}
	return n
}

func valueCost(v domain.Value) int64 {
	switch v := v.(type) {
	case domain.Number:
		return boxed
	case domain.Text:
		return boxed + int64(len(v))
	case domain.Bytes:
		return boxed + int64(len(v))
	case domain.ChunkList:
		return boxed + chunksCost(v)
	case domain.NestedList:
		n := boxed + int64(len(v))*sliceHeader
		for _, inner := range v {
			n += chunksCost(inner)
		}
		return n
	}
	return 0
}
