package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/civ7save-go/internal/infra/confloader"
	"github.com/yndnr/civ7save-go/internal/infra/shutdown"
	"github.com/yndnr/civ7save-go/internal/storage"
)

// WatchCommand summarises saves as the game writes them.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Summarise each save written to a directory until interrupted",
		ArgsUsage: "[DIR]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "index",
				Usage: "Record the summaries in the save index",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "How long a file must be quiet before it is read",
				Value: 500 * time.Millisecond,
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	e := getEnv(c)
	dir, err := saveDir(c, e)
	if err != nil {
		return err
	}

	w, err := confloader.NewWatcher(
		confloader.WithWatcherLogger(e.log),
		confloader.WithFilter(isSaveFile),
		confloader.WithDebounce(c.Duration("debounce")),
	)
	if err != nil {
		return err
	}
	if err := w.WatchDir(dir); err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// hooks run in reverse order: the watcher stops before the index closes
	sh := shutdown.NewHandler(5*time.Second, e.log)

	var idx *storage.SaveIndex
	if c.Bool("index") {
		index, closeIndex, err := openIndex(e)
		if err != nil {
			w.Stop()
			return err
		}
		sh.OnShutdown("index", func(context.Context) error { return closeIndex() })
		idx = index
	}
	sh.OnShutdown("watcher", func(context.Context) error { return w.Stop() })

	var mu sync.Mutex
	w.OnChange(func(path string) {
		fs := summarizeFile(c.Context, e, idx, path)

		mu.Lock()
		defer mu.Unlock()
		if err := render(c, summaryList{fs}); err != nil {
			e.log.Error("render failed", "file", path, "error", err)
		}
	})
	w.StartAsync()

	fmt.Fprintf(errWriter(c), "watching %s for %s files\n", dir, SaveExt)
	return sh.Wait(c.Context)
}
