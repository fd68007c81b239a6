// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli implements the appmod command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	cli "github.com/urfave/cli/v3"

	cliadapter "github.com/janderssonse/appmod/internal/adapters/cli"
	"github.com/janderssonse/appmod/internal/adapters/network"
	"github.com/janderssonse/appmod/internal/application"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/config"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/logging"
	"github.com/janderssonse/appmod/internal/tui"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/janderssonse/appmod/internal/cli.Version=...".
var Version = "dev"

// CLI holds the command tree and the global flag values shared by every command.
type CLI struct {
	app    *cli.Command
	out    io.Writer
	errOut io.Writer
	lookup func(string) (string, bool)

	configPath string
	source     string
	logLevel   string
	format     string
	verbose    bool
	json       bool
	quiet      bool
	plain      bool

	cfg    *config.Config
	logger *log.Logger
}

// NewCLI creates the appmod command line writing to stdout and stderr.
func NewCLI() *CLI {
	return newCLI(os.Stdout, os.Stderr, nil)
}

func newCLI(out, errOut io.Writer, lookup func(string) (string, bool)) *CLI {
	app := &CLI{
		out:    out,
		errOut: errOut,
		lookup: lookup,
	}

	app.app = &cli.Command{
		Name:      "appmod",
		Usage:     "Browse a catalog of modded apps and games",
		Version:   Version,
		Suggest:   true,
		Writer:    out,
		ErrWriter: errOut,
		Description: `Lists, filters and shows apps from a JSON catalog, in the terminal or on the web.

COMMANDS:
  tui                         Interactive list and detail screens
  list --query chess          Filter the catalog
  show <slug>                 Show one app
  download <slug>             Run the download countdown and print the links
  serve --open                Serve the catalog as a website

CONFIGURATION:
  $XDG_CONFIG_HOME/appmod/config.toml, .env and APPMOD_* variables.
  Run 'appmod config' to print the effective settings.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "config file (default $XDG_CONFIG_HOME/appmod/config.toml)",
				Destination: &app.configPath,
			},
			&cli.StringFlag{
				Name:        "source",
				Aliases:     []string{"s"},
				Usage:       "catalog file path or http(s) URL",
				Destination: &app.source,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level: debug, info, warn, error",
				Destination: &app.logLevel,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "debug logging and detailed errors",
				Destination: &app.verbose,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format: text, json, plain",
				Destination: &app.format,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
		},
		Before:   app.initConfig,
		Action:   app.defaultAction,
		Commands: app.createAllCommands(),
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// createAllCommands returns every subcommand.
func (app *CLI) createAllCommands() []*cli.Command {
	return []*cli.Command{
		app.createTUICommand(),
		app.createListCommand(),
		app.createFacetsCommand(),
		app.createShowCommand(),
		app.createDownloadCommand(),
		app.createServeCommand(),
		app.createConfigCommand(),
		app.createVersionCommand(),
	}
}

// defaultAction launches the TUI on a terminal and prints help otherwise.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return domain.NewExitError(domain.ExitUsageError,
			fmt.Sprintf("'%s' is not a command. Run 'appmod --help' to see available commands.", cmd.Args().First()), nil)
	}

	if !tui.IsTerminal() {
		return cli.ShowRootCommandHelp(cmd)
	}

	return app.handleTUIAction(ctx, cmd)
}

// initConfig loads the configuration, applies flag overrides and builds the
// stderr logger.
func (app *CLI) initConfig(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.format != "" {
		format, err := cliadapter.ParseOutputFormat(app.format)
		if err != nil {
			return ctx, domain.NewExitError(domain.ExitUsageError, err.Error()+" (use text, json or plain)", err)
		}

		app.json = app.json || format == cliadapter.JSONFormat
		app.plain = app.plain || format == cliadapter.PlainFormat
	}

	if app.json && app.plain {
		return ctx, domain.NewExitError(domain.ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	cfg, err := config.Load(config.LoadOptions{Path: app.configPath, Lookup: app.lookup})
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "Failed to load configuration: "+err.Error(), err)
	}

	if app.source != "" {
		cfg.Catalog.Source = app.source
	}

	switch {
	case app.logLevel != "":
		cfg.Log.Level = app.logLevel
	case app.verbose:
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "Invalid configuration: "+err.Error(), err)
	}

	logger, err := logging.New(app.errOut, cfg.Log.Level)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, err.Error(), err)
	}

	app.cfg = cfg
	app.logger = logger

	return ctx, nil
}

// output returns the adapter matching the global format flags.
func (app *CLI) output() *cliadapter.OutputAdapter {
	return cliadapter.NewOutputAdapterWithWriter(app.out, cliadapter.FormatFromFlags(app.json, app.plain), app.quiet)
}

// catalogSource builds the configured file or HTTP source.
func (app *CLI) catalogSource() domain.CatalogSource {
	client := network.NewHTTPClient(app.cfg.Catalog.FetchTimeout.Duration)

	return catalog.NewSource(app.cfg.Catalog.Source, client)
}

func (app *CLI) browseService() *application.BrowseService {
	return application.NewBrowseService(app.catalogSource(), app.logger, catalog.WithShuffle(app.cfg.Listing.Shuffle))
}

// failure maps err to an exit error with a user-facing message.
func (app *CLI) failure(err error, slug string) error {
	return domain.NewExitError(domain.ExitCodeFor(err), domain.FormatErrorMessage(err, slug, app.verbose), err)
}
