package service

import "github.com/yndnr/civ7save-go/internal/core/domain"

// Extract builds the semantic view of a decoded save. Turn and age are the
// first matching records of group 1. Each ChunkArray of group 3 holding a
// non-empty leader and a non-empty civilization yields one player, in
// group order; other arrays are skipped.
//
// The returned ParsedSave points into raw and shares its chunks.
func Extract(raw *domain.RawChunkData) *domain.ParsedSave {
	s := &domain.ParsedSave{
		Players: []domain.Player{},
		Raw:     raw,
	}

	for i := range raw.Group1 {
		c := &raw.Group1[i]
		switch {
		case s.Turn == nil && c.Marker == domain.MarkerGameTurn:
			s.Turn = c
		case s.Age == nil && c.Marker == domain.MarkerGameAge:
			s.Age = c
		}
		if s.Turn != nil && s.Age != nil {
			break
		}
	}

	for _, c := range raw.Group3 {
		if c.Type != domain.ChunkArray {
			continue
		}
		if p, ok := playerOf(c.Children()); ok {
			s.Players = append(s.Players, p)
		}
	}

	return s
}

func playerOf(children []domain.Chunk) (domain.Player, bool) {
	var (
		p                domain.Player
		leader, civFound bool
	)
	for _, c := range children {
		if c.Empty() {
			continue
		}
		switch {
		case !leader && c.Marker == domain.MarkerPlayerLeader:
			p.Leader, leader = c, true
		case !civFound && c.Marker == domain.MarkerPlayerCiv:
			p.Civ, civFound = c, true
		}
	}
	return p, leader && civFound
}
