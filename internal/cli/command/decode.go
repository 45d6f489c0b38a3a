package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/civ7save-go/internal/core/domain"
	"github.com/yndnr/civ7save-go/internal/storage"
)

// DecodeCommand prints the simplified tree of a save.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Print the simplified marker/value tree of a save",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "group",
				Aliases: []string{"g"},
				Usage:   "Only print group `N` (1-5)",
			},
		},
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	path, err := oneArg(c, "FILE")
	if err != nil {
		return err
	}
	group := c.Int("group")
	if c.IsSet("group") && (group < 1 || group > domain.GroupCount) {
		return fmt.Errorf("--group must be between 1 and %d", domain.GroupCount)
	}

	e := getEnv(c)
	raw, err := decodeFile(c.Context, e, path)
	if err != nil {
		return err
	}

	chunks := raw.All()
	if group > 0 {
		chunks = raw.Group(group)
	}
	return render(c, e.saves.Simplify(chunks))
}

// RawCommand prints every record of a save with offsets and types.
func RawCommand() *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "Print the full chunk tree with offsets and types",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := oneArg(c, "FILE")
			if err != nil {
				return err
			}
			raw, err := decodeFile(c.Context, getEnv(c), path)
			if err != nil {
				return err
			}
			return render(c, (*rawTree)(raw))
		},
	}
}

// SummaryCommand prints turn, age and players of one or more saves.
func SummaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Aliases:   []string{"sum"},
		Usage:     "Print turn, age and players of saves",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("summary: at least one FILE is required")
			}
			e := getEnv(c)

			var results summaryList
			failed := 0
			for _, path := range c.Args().Slice() {
				fs := summarizeFile(c.Context, e, nil, path)
				if fs.Error != "" {
					failed++
				}
				results = append(results, fs)
			}
			if err := render(c, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("summary: %d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
}

// MarkersCommand prints the known marker table.
func MarkersCommand() *cli.Command {
	return &cli.Command{
		Name:  "markers",
		Usage: "List the markers with known meaning",
		Action: func(c *cli.Context) error {
			return render(c, markerTable(domain.KnownMarkerList()))
		},
	}
}

func oneArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one %s argument", c.Command.Name, name)
	}
	return c.Args().First(), nil
}

func readSave(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decodeFile(ctx context.Context, e *env, path string) (*domain.RawChunkData, error) {
	data, err := readSave(path)
	if err != nil {
		return nil, err
	}
	raw, err := e.saves.DecodeRaw(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// summarizeFile never fails; errors are reported in the result. When idx
// is not nil the summary is also indexed.
func summarizeFile(ctx context.Context, e *env, idx *storage.SaveIndex, path string) FileSummary {
	fs := FileSummary{File: path}

	data, err := readSave(path)
	if err != nil {
		fs.Error = err.Error()
		return fs
	}
	sum, err := e.saves.Summarize(ctx, data)
	if err != nil {
		fs.Error = err.Error()
		e.log.Debug("summarize failed", "file", path, "error", err)
		return fs
	}
	fs.Summary = sum

	if idx != nil {
		rec, created, err := idx.Put(ctx, filepath.Base(path), sum)
		if err != nil {
			fs.Error = err.Error()
			return fs
		}
		fs.ID = rec.ID
		e.log.Debug("indexed save", "file", path, "id", rec.ID, "created", created)
	}
	return fs
}
