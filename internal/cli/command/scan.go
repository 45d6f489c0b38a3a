package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/civ7save-go/internal/cli/output"
	"github.com/yndnr/civ7save-go/internal/storage"
)

// SaveExt is the extension of Civilization VII save files.
const SaveExt = ".Civ7Save"

// ScanCommand summarises every save in a directory.
func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Summarise every " + SaveExt + " file in a directory",
		ArgsUsage: "[DIR]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files decoded in parallel",
				Value:   runtime.NumCPU(),
			},
			&cli.BoolFlag{
				Name:  "index",
				Usage: "Record the summaries in the save index",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not show progress",
			},
		},
		Action: scanAction,
	}
}

func scanAction(c *cli.Context) error {
	e := getEnv(c)
	dir, err := saveDir(c, e)
	if err != nil {
		return err
	}

	files, err := saveFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("scan: no %s files in %s", SaveExt, dir)
	}

	var idx *storage.SaveIndex
	if c.Bool("index") {
		index, closeIndex, err := openIndex(e)
		if err != nil {
			return err
		}
		defer closeIndex()
		idx = index
	}

	jobs := c.Int("jobs")
	if jobs < 1 {
		jobs = 1
	}

	var progress io.Writer = io.Discard
	if !c.Bool("quiet") {
		progress = errWriter(c)
	}
	bar := output.NewProgressBar(progress, "Scanning", len(files))

	results := make(summaryList, len(files))
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = summarizeFile(ctx, e, idx, path)
			bar.Increment(results[i].Error != "")
			return nil
		})
	}
	err = g.Wait()
	bar.Finish()
	if err != nil {
		return err
	}

	if err := render(c, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("scan: %d of %d files failed", failed, len(results))
	}
	return nil
}

func saveDir(c *cli.Context, e *env) (string, error) {
	switch {
	case c.NArg() > 1:
		return "", fmt.Errorf("%s: expected at most one DIR argument", c.Command.Name)
	case c.NArg() == 1:
		return c.Args().First(), nil
	case e.cfg.SavesDir != "":
		return e.cfg.SavesDir, nil
	}
	return "", errors.New(c.Command.Name + ": DIR is required (or set saves_dir in the config)")
}

// saveFiles lists the save files directly inside dir, sorted by name.
func saveFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && isSaveFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isSaveFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SaveExt)
}
