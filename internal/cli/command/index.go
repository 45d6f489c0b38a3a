package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/civ7save-go/internal/storage"
)

// IndexCommand browses the save index.
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Browse the save index",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List indexed saves, oldest first",
				Action:  indexList,
			},
			{
				Name:      "show",
				Usage:     "Show one indexed save",
				ArgsUsage: "ID",
				Action:    indexShow,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "Remove a save from the index",
				ArgsUsage: "ID",
				Action:    indexRemove,
			},
		},
	}
}

// openIndex opens the on-disk index named by the config. The returned
// func closes it.
func openIndex(e *env) (*storage.SaveIndex, func() error, error) {
	kv, err := storage.NewBadgerEngine(storage.DefaultKVConfig(e.cfg.IndexDir), e.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open index %s: %w", e.cfg.IndexDir, err)
	}
	return storage.NewSaveIndex(kv, nil), kv.Close, nil
}

func indexList(c *cli.Context) error {
	idx, closeIndex, err := openIndex(getEnv(c))
	if err != nil {
		return err
	}
	defer closeIndex()

	records, err := idx.List(c.Context)
	if err != nil {
		return err
	}
	return render(c, recordList(records))
}

func indexShow(c *cli.Context) error {
	id, err := oneArg(c, "ID")
	if err != nil {
		return err
	}
	idx, closeIndex, err := openIndex(getEnv(c))
	if err != nil {
		return err
	}
	defer closeIndex()

	rec, err := idx.Get(c.Context, id)
	if err != nil {
		return err
	}
	return render(c, (*recordDetail)(rec))
}

func indexRemove(c *cli.Context) error {
	id, err := oneArg(c, "ID")
	if err != nil {
		return err
	}
	idx, closeIndex, err := openIndex(getEnv(c))
	if err != nil {
		return err
	}
	defer closeIndex()

	if err := idx.Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(outWriter(c), "removed %s\n", id)
	return nil
}
