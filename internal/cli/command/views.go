package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/civ7save-go/internal/cli/output"
	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/storage"
)

// FileSummary is the result of summarising one file.
type FileSummary struct {
	File    string          `json:"file" yaml:"file"`
	ID      string          `json:"id,omitempty" yaml:"id,omitempty"`
	Summary *domain.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error   string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type summaryList []FileSummary

// Table has one row per player.
func (l summaryList) Table(wide bool) *output.Table {
	t := output.NewTable("FILE", "TURN", "AGE", "LEADER", "CIV")
	if wide {
		t.Headers = append(t.Headers, "ID", "FINGERPRINT", "SIZE", "ERROR")
	}

	for _, fs := range l {
		if fs.Summary == nil {
			row := []string{fs.File, "", "", "", ""}
			if wide {
				row = append(row, "", "", "", fs.Error)
			} else {
				row[4] = "error: " + fs.Error
			}
			t.AddRow(row...)
			continue
		}

		sum := fs.Summary
		players := sum.Players
		if len(players) == 0 {
			players = []domain.PlayerSummary{{}}
		}
		for _, p := range players {
			row := []string{fs.File, turnString(sum.Turn), sum.Age, p.Leader, p.Civ}
			if wide {
				row = append(row, fs.ID, sum.Fingerprint, output.FormatBytes(int64(sum.Size)), "")
			}
			t.AddRow(row...)
		}
	}
	return t
}

func turnString(turn *uint32) string {
	if turn == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*turn), 10)
}

type markerTable []domain.MarkerInfo

func (m markerTable) Table(bool) *output.Table {
	t := output.NewTable("NAME", "MARKER")
	for _, info := range m {
		t.AddRow(info.Name, info.Marker.String())
	}
	return t
}

// rawTree renders a RawChunkData as one row per record, nested records
// indented under their parent.
type rawTree domain.RawChunkData

func (r *rawTree) Table(wide bool) *output.Table {
	t := output.NewTable("GROUP", "OFFSET", "TYPE", "MARKER", "NAME", "VALUE")
	if wide {
		t.Headers = append(t.Headers, "END")
	}

	var add func(group int, chunks []domain.Chunk, depth int)
	add = func(group int, chunks []domain.Chunk, depth int) {
		for _, c := range chunks {
			row := []string{
				strconv.Itoa(group),
				strconv.Itoa(c.Offset),
				c.Type.String(),
				strings.Repeat("  ", depth) + c.Marker.String(),
				c.Marker.Name(),
				valueString(c.Value),
			}
			if wide {
				row = append(row, strconv.Itoa(c.EndOffset))
			}
			t.AddRow(row...)

			switch v := c.Value.(type) {
			case domain.ChunkList:
				add(group, v, depth+1)
			case domain.NestedList:
				for _, item := range v {
					add(group, item, depth+1)
				}
			}
		}
	}

	for i, g := range (*domain.RawChunkData)(r).Groups() {
		add(i+1, g, 0)
	}
	return t
}

func valueString(v domain.Value) string {
	switch v := v.(type) {
	case domain.Number:
		return strconv.FormatUint(uint64(v), 10)
	case domain.Text:
		return strconv.Quote(string(v))
	case domain.Bytes:
		return fmt.Sprintf("<%d bytes>", len(v))
	case domain.ChunkList:
		return fmt.Sprintf("[%d]", len(v))
	case domain.NestedList:
		return fmt.Sprintf("[%d items]", len(v))
	}
	return ""
}

type recordList []*storage.SaveRecord

func (l recordList) Table(wide bool) *output.Table {
	t := output.NewTable("ID", "NAME", "TURN", "AGE", "PLAYERS", "INDEXED")
	if wide {
		t.Headers = append(t.Headers, "FINGERPRINT", "SIZE")
	}
	for _, rec := range l {
		row := []string{
			rec.ID,
			rec.Name,
			turnString(rec.Turn),
			rec.Age,
			strconv.Itoa(len(rec.Players)),
			rec.IndexedAt.Local().Format(time.DateTime),
		}
		if wide {
			row = append(row, rec.Fingerprint, output.FormatBytes(int64(rec.Size)))
		}
		t.AddRow(row...)
	}
	return t
}

// recordDetail is a single record as field/value rows.
type recordDetail storage.SaveRecord

func (r *recordDetail) Table(bool) *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	t.AddRow("ID", r.ID)
	t.AddRow("NAME", r.Name)
	t.AddRow("INDEXED", r.IndexedAt.Local().Format(time.RFC3339))
	t.AddRow("FINGERPRINT", r.Fingerprint)
	t.AddRow("SIZE", output.FormatBytes(int64(r.Size)))
	t.AddRow("TURN", turnString(r.Turn))
	t.AddRow("AGE", r.Age)
	for i, p := range r.Players {
		t.AddRow(fmt.Sprintf("PLAYER %d", i+1), p.Leader+" / "+p.Civ)
	}
	return t
}
