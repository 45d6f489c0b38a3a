package codectest

import "github.com/yndnr/civ7save-go/internal/core/domain"

// PlayerFixture is one expected player of a scenario save.
type PlayerFixture struct {
	Civ    string
	Leader string
}

// Scenario describes a synthetic save and the facts it encodes.
type Scenario struct {
	Turn    uint32
	Age     string
	Utf16   bool
	Players []PlayerFixture
}

var leaders = []string{
	"LEADER_HARRIET_TUBMAN",
	"LEADER_JOSE_RIZAL",
	"LEADER_AUGUSTUS",
	"LEADER_HATSHEPSUT",
	"LEADER_CONFUCIUS",
	"LEADER_ASHOKA_WORLD_RENOUNCER",
}

func players(civs ...string) []PlayerFixture {
	out := make([]PlayerFixture, len(civs))
	for i, c := range civs {
		out[i] = PlayerFixture{Civ: c, Leader: leaders[i]}
	}
	return out
}

// Antiquity is an antiquity-age save at turn 51.
var Antiquity = Scenario{
	Turn: 51,
	Age:  "AGE_ANTIQUITY",
	Players: players(
		"CIVILIZATION_AKSUM",
		"CIVILIZATION_KHMER",
		"CIVILIZATION_ROME",
		"CIVILIZATION_EGYPT",
		"CIVILIZATION_HAN",
		"CIVILIZATION_MAURYA",
	),
}

// Exploration is the same players after the age transition, with the age
// stored as UTF-16.
var Exploration = Scenario{
	Turn:  1,
	Age:   "AGE_EXPLORATION",
	Utf16: true,
	Players: players(
		"CIVILIZATION_ABBASID",
		"CIVILIZATION_MAJAPAHIT",
		"CIVILIZATION_SPAIN",
		"CIVILIZATION_SONGHAI",
		"CIVILIZATION_MING",
		"CIVILIZATION_CHOLA",
	),
}

var (
	fillerA = domain.Marker{0x01, 0x00, 0x00, 0xa0}
	fillerB = domain.Marker{0x02, 0x00, 0x00, 0xb0}
	fillerC = domain.Marker{0x03, 0x00, 0x00, 0xc0}
)

// Bytes encodes the scenario as a complete save file. Besides the facts it
// carries, every group holds opaque records and group 3 holds arrays that
// do not describe a player, so decoders have something to skip.
func (s Scenario) Bytes() []byte {
	var age []byte
	if s.Utf16 {
		age = Utf16(domain.MarkerGameAge, s.Age)
	} else {
		age = Utf8(domain.MarkerGameAge, s.Age)
	}

	group1 := [][]byte{
		Fixed(fillerA, domain.ChunkUnknown1, [12]byte{1}),
		Number(domain.MarkerGameTurn, s.Turn),
		Words(fillerB, 1, 2, 3),
		age,
		// a later turn record must not win over the first one
		Number(domain.MarkerGameTurn, s.Turn+1000),
	}

	group3 := [][]byte{
		Array(fillerC, Blob(fillerA, []byte{0xff})),
	}
	for i, p := range s.Players {
		group3 = append(group3, Array(fillerC,
			Number(fillerA, uint32(i)),
			Utf8(domain.MarkerPlayerLeader, p.Leader),
			Quads(fillerB, domain.ChunkUnknown11, 0, uint64(i)),
			Utf8(domain.MarkerPlayerCiv, p.Civ),
		))
		// an observer slot: leader but no civ
		if i == 2 {
			group3 = append(group3, Array(fillerC,
				Utf8(domain.MarkerPlayerLeader, "LEADER_OBSERVER"),
				Utf8(domain.MarkerPlayerCiv, ""),
			))
		}
	}

	return File([domain.GroupCount][][]byte{
		group1,
		{Blob(fillerA, []byte("group two")), Fixed(fillerB, domain.ChunkUnknown12, [12]byte{})},
		group3,
		{Nested(fillerB, [][]byte{Number(fillerA, 7)}, nil)},
		{Quads(fillerC, domain.ChunkUnknown17, 0)},
	})
}
