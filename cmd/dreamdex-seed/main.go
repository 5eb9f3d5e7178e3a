// Command dreamdex-seed loads dream symbols into the configured store and
// validates keyword files.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dreamdex/internal/app"
	"github.com/kailas-cloud/dreamdex/internal/config"
	"github.com/kailas-cloud/dreamdex/internal/domain/keyword"
	logpkg "github.com/kailas-cloud/dreamdex/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dreamdex-seed",
		Usage: "Seed and validate dreamdex data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment whose config/<env>.yaml is used",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit config file (overrides --env)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Upsert symbols from a YAML file into the configured store",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the symbols YAML file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate the file without writing",
					},
				},
			},
			{
				Name:   "keywords",
				Usage:  "Validate a keyword expansion file",
				Action: keywordsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the keywords YAML file",
						Required: true,
					},
				},
			},
		},
	}
}

func loadCommand(c *cli.Context) error {
	symbols, err := loadSymbols(c.String("file"))
	if err != nil {
		return err
	}
	if c.Bool("dry-run") {
		fmt.Fprintf(c.App.Writer, "%d symbols valid\n", len(symbols))
		return nil
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := logpkg.NewLogger(envName(c), c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logpkg.Sync(logger) }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Symbols.UpsertMany(ctx, symbols); err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}
	logger.Info("symbols loaded",
		zap.Int("count", len(symbols)),
		zap.String("driver", cfg.Database.Driver),
	)

	fmt.Fprintf(c.App.Writer, "%d symbols loaded into %s\n", len(symbols), cfg.Database.Driver)
	return nil
}

func keywordsCommand(c *cli.Context) error {
	f, err := keyword.LoadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("invalid keyword file: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "%d phrases, %d names\n", f.Table.Len(), len(f.Names))
	return nil
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFile(path) //nolint:wrapcheck // already descriptive
	}
	return config.Load(envName(c)) //nolint:wrapcheck // already descriptive
}

// envName picks the logger flavour; unknown envs fall back to local.
func envName(c *cli.Context) string {
	switch env := c.String("env"); env {
	case "prod", "dev", "docker":
		return env
	default:
		return "local"
	}
}
