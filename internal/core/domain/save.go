package domain

// GroupCount is the number of top-level record groups in a save file.
const GroupCount = 5

// RawChunkData is the undecorated decode of a whole save: five contiguous,
// non-overlapping runs of records, in file order.
type RawChunkData struct {
	Group1 []Chunk `json:"group1" yaml:"group1"`
	Group2 []Chunk `json:"group2" yaml:"group2"`
	Group3 []Chunk `json:"group3" yaml:"group3"`
	Group4 []Chunk `json:"group4" yaml:"group4"`
	Group5 []Chunk `json:"group5" yaml:"group5"`
}

// Groups returns the five groups in file order.
func (r *RawChunkData) Groups() [GroupCount][]Chunk {
	return [GroupCount][]Chunk{r.Group1, r.Group2, r.Group3, r.Group4, r.Group5}
}

// Group returns group n, counting from 1. It returns nil for n out of range.
func (r *RawChunkData) Group(n int) []Chunk {
	if n < 1 || n > GroupCount {
		return nil
	}
	return r.Groups()[n-1]
}

// All returns every top-level record of all groups, in file order.
func (r *RawChunkData) All() []Chunk {
	groups := r.Groups()
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]Chunk, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Player pairs the leader and civilization records of one player. Both come
// from the same ChunkArray in group 3.
type Player struct {
	Leader Chunk `json:"leader" yaml:"leader"`
	Civ    Chunk `json:"civ" yaml:"civ"`
}

// LeaderName returns the leader's text value, or "".
func (p Player) LeaderName() string {
	return textOf(p.Leader)
}

// CivName returns the civilization's text value, or "".
func (p Player) CivName() string {
	return textOf(p.Civ)
}

// ParsedSave is the read-only semantic view over a RawChunkData. Turn and
// Age are nil when the save does not carry them.
type ParsedSave struct {
	Turn    *Chunk        `json:"turn,omitempty" yaml:"turn,omitempty"`
	Age     *Chunk        `json:"age,omitempty" yaml:"age,omitempty"`
	Players []Player      `json:"players" yaml:"players"`
	Raw     *RawChunkData `json:"-" yaml:"-"`
}

// TurnNumber returns the turn counter if present and numeric.
func (s *ParsedSave) TurnNumber() (uint32, bool) {
	if s.Turn == nil {
		return 0, false
	}
	n, ok := s.Turn.Value.(Number)
	return uint32(n), ok
}

// AgeName returns the age text if present.
func (s *ParsedSave) AgeName() (string, bool) {
	if s.Age == nil {
		return "", false
	}
	t, ok := s.Age.Value.(Text)
	return string(t), ok
}

func textOf(c Chunk) string {
	if t, ok := c.Value.(Text); ok {
		return string(t)
	}
	return ""
}

// Node is one entry of a simplified tree: a marker and its value with
// offsets and type tags dropped. Value holds one of Number, Text, []Node or
// [][]Node.
type Node struct {
	Marker Marker `json:"marker" yaml:"marker"`
	Value  any    `json:"value" yaml:"value"`
}

// Summary is the compact, serialisable digest of one save.
type Summary struct {
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint"`
	Size        int             `json:"size" yaml:"size"`
	Turn        *uint32         `json:"turn,omitempty" yaml:"turn,omitempty"`
	Age         string          `json:"age,omitempty" yaml:"age,omitempty"`
	Players     []PlayerSummary `json:"players" yaml:"players"`
}

// PlayerSummary names one player's leader and civilization.
type PlayerSummary struct {
	Leader string `json:"leader" yaml:"leader"`
	Civ    string `json:"civ" yaml:"civ"`
}

// Summarize reduces s to a Summary. Fingerprint and Size describe the
// input buffer and are supplied by the caller.
func (s *ParsedSave) Summarize(fingerprint string, size int) *Summary {
	sum := &Summary{
		Fingerprint: fingerprint,
		Size:        size,
		Players:     make([]PlayerSummary, len(s.Players)),
	}
	if turn, ok := s.TurnNumber(); ok {
		sum.Turn = &turn
	}
	sum.Age, _ = s.AgeName()
	for i, p := range s.Players {
		sum.Players[i] = PlayerSummary{Leader: p.LeaderName(), Civ: p.CivName()}
	}
	return sum
}
