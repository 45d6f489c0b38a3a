package domain

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Marker is the 4-byte identity tag at the start of every record. The bytes
// carry no meaning by themselves; meaning comes from KnownMarkers.
type Marker [4]byte

// Markers with an established meaning.
var (
	MarkerGameTurn     = Marker{0x9d, 0x2c, 0xe6, 0xbd}
	MarkerGameAge      = Marker{0x84, 0x84, 0xc6, 0xd0}
	MarkerPlayerLeader = Marker{0x5f, 0x5f, 0x4a, 0x1b}
	MarkerPlayerCiv    = Marker{0x2f, 0x5c, 0x57, 0xd8}
)

// KnownMarkers maps markers to their names.
var KnownMarkers = map[Marker]string{
	MarkerGameTurn:     "GAME_TURN",
	MarkerGameAge:      "GAME_AGE",
	MarkerPlayerLeader: "PLAYER_LEADER",
	MarkerPlayerCiv:    "PLAYER_CIV",
}

// ParseMarker parses 8 hex digits, optionally prefixed with 0x and
// optionally separated by spaces ("9d2ce6bd", "9d 2c e6 bd").
func ParseMarker(s string) (Marker, error) {
	var m Marker
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.ToLower(s), "0x"), " ", "")
	if len(clean) != hex.EncodedLen(len(m)) {
		return m, fmt.Errorf("domain: marker %q: want %d hex digits", s, hex.EncodedLen(len(m)))
	}
	if _, err := hex.Decode(m[:], []byte(clean)); err != nil {
		return m, fmt.Errorf("domain: marker %q: %w", s, err)
	}
	return m, nil
}

// String returns the marker as lowercase hex.
func (m Marker) String() string {
	return hex.EncodeToString(m[:])
}

// Name returns the known name of the marker, or "".
func (m Marker) Name() string {
	return KnownMarkers[m]
}

// MarshalText renders the marker as hex.
func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses the hex form produced by MarshalText.
func (m *Marker) UnmarshalText(text []byte) error {
	parsed, err := ParseMarker(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarkerInfo is one row of the known marker table.
type MarkerInfo struct {
	Name   string `json:"name" yaml:"name"`
	Marker Marker `json:"marker" yaml:"marker"`
}

// KnownMarkerList returns the known markers sorted by name.
func KnownMarkerList() []MarkerInfo {
	out := make([]MarkerInfo, 0, len(KnownMarkers))
	for m, name := range KnownMarkers {
		out = append(out, MarkerInfo{Name: name, Marker: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
