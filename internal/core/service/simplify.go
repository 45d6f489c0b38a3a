package service

import "github.com/yndnr/civ7save-go/internal/core/domain"

// Simplify projects chunks onto marker/value pairs.
//
// Text and number records are always kept. A ChunkArray is kept when at
// least one of its simplified children is a number or non-empty. A
// NestedArray is kept when at least one of its simplified items is
// non-empty. Records of any other type are dropped.
//
// The result never aliases chunks and is never nil.
func Simplify(chunks []domain.Chunk) []domain.Node {
	out := make([]domain.Node, 0, len(chunks))
	for _, c := range chunks {
		switch c.Type {
		case domain.ChunkUtf8String, domain.ChunkUtf16String, domain.ChunkNumber32:
			out = append(out, domain.Node{Marker: c.Marker, Value: c.Value})

		case domain.ChunkArray:
			children := Simplify(c.Children())
			if anyReadable(children) {
				out = append(out, domain.Node{Marker: c.Marker, Value: children})
			}

		case domain.ChunkNestedArray:
			list, _ := c.Value.(domain.NestedList)
			items := make([][]domain.Node, len(list))
			keep := false
			for i, item := range list {
				items[i] = Simplify(item)
				keep = keep || len(items[i]) > 0
			}
			if keep {
				out = append(out, domain.Node{Marker: c.Marker, Value: items})
			}
		}
	}
	return out
}

func anyReadable(nodes []domain.Node) bool {
	for _, n := range nodes {
		switch v := n.Value.(type) {
		case domain.Number:
			return true
		case domain.Text:
			if v != "" {
				return true
			}
		case []domain.Node:
			if len(v) > 0 {
				return true
			}
		case [][]domain.Node:
			if len(v) > 0 {
				return true
			}
		}
	}
	return false
}
