package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/civ7save-go/internal/cli/config"
	"github.com/yndnr/civ7save-go/internal/cli/output"
	"github.com/yndnr/civ7save-go/internal/core/service"
	"github.com/yndnr/civ7save-go/internal/infra/buildinfo"
	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

const envKey = "env"

// env is the state shared by every command, built once in App's Before.
type env struct {
	cfg    *config.CLIConfig
	log    logger.Logger
	saves  *service.SaveService
	format output.Format
	wide   bool
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "civ7save",
		Usage:    "Inspect Civilization VII save files",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			DecodeCommand(),
			RawCommand(),
			SummaryCommand(),
			MarkersCommand(),
			ScanCommand(),
			WatchCommand(),
			IndexCommand(),
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if e, ok := c.App.Metadata[envKey].(*env); ok {
				e.saves.Close()
			}
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml (default from config, else table)",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	if !logger.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: "text",
		Output: errWriter(c),
	})
	if err != nil {
		return err
	}

	// one-shot commands never decode the same buffer twice
	saves, err := service.NewSaveService(service.SaveServiceConfig{}, log, nil)
	if err != nil {
		return err
	}

	c.App.Metadata[envKey] = &env{
		cfg:    cfg,
		log:    log,
		saves:  saves,
		format: format,
		wide:   c.Bool("wide"),
	}
	return nil
}

func getEnv(c *cli.Context) *env {
	return c.App.Metadata[envKey].(*env)
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// render writes data to stdout in the selected format.
func render(c *cli.Context, data any) error {
	e := getEnv(c)
	return output.NewFormatter(e.format, e.wide).Format(outWriter(c), data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
