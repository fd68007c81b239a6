// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/toqueteos/webbrowser"
	cli "github.com/urfave/cli/v3"

	cliadapter "github.com/janderssonse/appmod/internal/adapters/cli"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/config"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/download"
	"github.com/janderssonse/appmod/internal/logging"
	"github.com/janderssonse/appmod/internal/stringutil"
	"github.com/janderssonse/appmod/internal/tui"
	"github.com/janderssonse/appmod/internal/tui/models"
	"github.com/janderssonse/appmod/internal/web"
)

const (
	titleColumnWidth = 32
	markdownWidth    = 80
)

// ErrMissingSlug is returned when a command needs an app slug and got none.
var ErrMissingSlug = errors.New("missing app slug")

// detailOutput is the JSON shape of 'appmod show'.
type detailOutput struct {
	Headline string             `json:"headline"`
	Info     []domain.InfoField `json:"info"`
	App      *domain.AppDetail  `json:"app"`
}

// downloadOutput is the JSON shape of 'appmod download'.
type downloadOutput struct {
	Slug  string          `json:"slug"`
	Links []download.Link `json:"links"`
}

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive list and detail screens",
		Description: `Browse the catalog in the terminal.

Navigation:
- Use arrow keys or j/k to move, Enter to open an app
- / searches, c and t pick a category or type, x clears filters
- d starts the download on the detail screen, Esc goes back
- Press q or Ctrl+C to quit

Logs are written to $XDG_STATE_HOME/appmod/appmod.log.`,
		Action: app.handleTUIAction,
	}
}

// handleTUIAction runs the TUI with a file logger so the alternate screen stays clean.
func (app *CLI) handleTUIAction(ctx context.Context, _ *cli.Command) error {
	path := app.cfg.Log.File
	if path == "" {
		path = config.DefaultLogPath()
	}

	logger, closer, err := logging.OpenFile(path, app.cfg.Log.Level)
	if err != nil {
		app.logger.Warn("file logging disabled", "path", path, "err", err)

		logger = logging.Discard()
	} else {
		defer func() { _ = closer.Close() }()
	}

	src := app.catalogSource()
	deps := models.Deps{
		Catalog:      catalog.NewStore(src, catalog.WithShuffle(app.cfg.Listing.Shuffle)),
		Details:      detail.NewStore(src),
		Presentation: detail.NewPresentation(app.cfg.Server.SiteTitle, app.cfg.Server.DefaultIcon),
		Logger:       logger,
		Interval:     app.cfg.Download.Interval.Duration,
		Step:         app.cfg.Download.Step,
	}

	if public := strings.TrimRight(app.cfg.Server.PublicURL, "/"); public != "" {
		base := public + app.cfg.Server.BasePath + "/apps/"
		deps.DetailURL = func(slug string) string { return base + slug }
	}

	if err := tui.LaunchInteractive(ctx, deps); err != nil {
		if app.verbose {
			return domain.NewExitError(domain.ExitGeneralError, fmt.Sprintf("Failed to launch TUI: %v", err), err)
		}

		return domain.NewExitError(domain.ExitGeneralError, "Failed to launch interactive interface (terminal required)", err)
	}

	return nil
}

func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog apps, optionally filtered",
		Description: `Prints the apps matching every given filter.

The query matches title and descriptions case-insensitively.
Category and type must match exactly.

EXAMPLES:
  appmod list --query chess
  appmod list --category Arcade --type game
  appmod --json list`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"Q"}, Usage: "free-text search"},
			&cli.StringFlag{Name: "category", Usage: "exact category"},
			&cli.StringFlag{Name: "type", Usage: "exact type"},
		},
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	criteria := catalog.Criteria{
		Query:    cmd.String("query"),
		Category: cmd.String("category"),
		Type:     cmd.String("type"),
	}

	result, err := app.browseService().List(ctx, criteria)
	if err != nil {
		return app.failure(err, "")
	}

	output := app.output()
	if output.IsJSON() {
		return output.Success("", result)
	}

	if len(result.Apps) == 0 {
		return output.Info("No apps match the current filters.")
	}

	rows := make([][]string, 0, len(result.Apps))
	for _, a := range result.Apps {
		rows = append(rows, []string{
			a.Slug,
			stringutil.Truncate(a.Title, titleColumnWidth),
			a.Category,
			a.Type,
			a.Version,
			a.Date,
		})
	}

	if err := output.Table([]string{"SLUG", "TITLE", "CATEGORY", "TYPE", "VERSION", "DATE"}, rows); err != nil {
		return err
	}

	return output.Info(fmt.Sprintf("\n%d of %d apps", len(result.Apps), result.Total))
}

func (app *CLI) createFacetsCommand() *cli.Command {
	return &cli.Command{
		Name:   "facets",
		Usage:  "Show the categories and types usable as filters",
		Action: app.runFacets,
	}
}

func (app *CLI) runFacets(ctx context.Context, _ *cli.Command) error {
	result, err := app.browseService().Facets(ctx)
	if err != nil {
		return app.failure(err, "")
	}

	output := app.output()
	if output.IsJSON() {
		return output.Success("", result)
	}

	sections := []struct {
		title  string
		values []string
	}{
		{"Categories", result.Categories},
		{"Types", result.Types},
	}

	for i, section := range sections {
		if i > 0 {
			_ = output.Info("")
		}

		_ = output.Heading(section.title)

		for _, v := range section.values {
			_, _ = fmt.Fprintln(output.Writer(), v)
		}
	}

	return nil
}

func (app *CLI) createShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one app by slug",
		ArgsUsage: "<slug>",
		Action:    app.runShow,
	}
}

func (app *CLI) runShow(ctx context.Context, cmd *cli.Command) error {
	slug, err := slugArg(cmd)
	if err != nil {
		return err
	}

	a, err := app.browseService().Show(ctx, slug)
	if err != nil {
		return app.failure(err, slug)
	}

	output := app.output()
	if output.IsJSON() {
		return output.Success("", detailOutput{Headline: a.Headline(), Info: a.InfoGrid(), App: a})
	}

	heading(output, a.Headline())
	_ = output.Info("")

	if err := output.Fields(a.InfoGrid()); err != nil {
		return err
	}

	if output.IsQuiet() {
		return nil
	}

	w := output.Writer()

	if a.ShortDescription != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", a.ShortDescription)
	}

	if len(a.Images) > 0 {
		_, _ = fmt.Fprintln(w)
		heading(output, "Screenshots")

		for _, img := range a.Images {
			_, _ = fmt.Fprintln(w, img)
		}
	}

	if a.LongDescription != "" {
		body := a.LongDescription
		if !app.plain {
			body = models.RenderMarkdown(body, markdownWidth)
		}

		_, _ = fmt.Fprintf(w, "\n%s\n", body)
	}

	return nil
}

func (app *CLI) createDownloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "Run the download countdown for an app and print its links",
		ArgsUsage: "<slug>",
		Description: `Advances a progress bar from 0 to 100 in steps of download.step every
download.interval, then prints the labelled download links.
Ctrl+C cancels the countdown.`,
		Action: app.runDownload,
	}
}

func (app *CLI) runDownload(ctx context.Context, cmd *cli.Command) error {
	slug, err := slugArg(cmd)
	if err != nil {
		return err
	}

	a, err := app.browseService().Show(ctx, slug)
	if err != nil {
		return app.failure(err, slug)
	}

	output := app.output()

	var barOut io.Writer = app.errOut
	if output.IsJSON() || output.IsQuiet() {
		barOut = io.Discard
	}

	bar := progressbar.NewOptions(download.MaxProgress,
		progressbar.OptionSetWriter(barOut),
		progressbar.OptionSetDescription("Downloading "+a.Title),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(barOut) }),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	sim := download.NewSimulator(a.Download, app.cfg.Download.Step)
	runner := download.NewRunner(sim, app.cfg.Download.Interval.Duration, func(s download.State) {
		_ = bar.Set(s.Progress)
	})
	defer runner.Stop()

	runner.Start(ctx)
	<-runner.Done()

	state := runner.State()
	if state.Phase != download.PhaseReady {
		app.logger.Info("download cancelled", "slug", slug, "progress", state.Progress)

		return domain.NewExitError(domain.ExitInterrupt, "Download cancelled",
			fmt.Errorf("%w: %w", domain.ErrDownloadNotReady, ctx.Err()))
	}

	_ = bar.Finish()

	app.logger.Debug("download ready", "slug", slug, "links", len(state.Links))

	if output.IsJSON() {
		return output.Success("", downloadOutput{Slug: slug, Links: state.Links})
	}

	if len(state.Links) == 0 {
		return output.Info("No download links for this app")
	}

	heading(output, "Download links are ready")

	fields := make([]domain.InfoField, len(state.Links))
	for i, link := range state.Links {
		fields[i] = domain.InfoField{Label: link.Label, Value: link.URL}
	}

	return output.Fields(fields)
}

func (app *CLI) createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog as a website",
		Description: `Starts the web front end under the configured base path.

Only one server may run per listen address.

EXAMPLES:
  appmod serve
  appmod serve --listen :9000 --base-path / --open`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen address (default from config)"},
			&cli.StringFlag{Name: "base-path", Usage: "route prefix (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "open the site in the default browser"},
		},
		Action: app.runServe,
	}
}

func (app *CLI) runServe(ctx context.Context, cmd *cli.Command) error {
	if err := app.applyServeFlags(cmd); err != nil {
		return err
	}

	listen := app.cfg.Server.Listen

	lock := flock.New(config.LockPath(listen))

	locked, err := lock.TryLock()
	if err != nil {
		return domain.NewExitError(domain.ExitSystemError, "Failed to acquire server lock: "+err.Error(), err)
	}

	if !locked {
		return domain.NewExitError(domain.ExitGeneralError,
			fmt.Sprintf("Another appmod server is already running on %s", listen), nil)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			app.logger.Warn("failed to release server lock", "err", err)
		}
	}()

	srv, err := app.newServer()
	if err != nil {
		return domain.NewExitError(domain.ExitGeneralError, "Failed to create server: "+err.Error(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", listen)
	if err != nil {
		return domain.NewExitError(domain.ExitSystemError, fmt.Sprintf("Failed to listen on %s: %v", listen, err), err)
	}

	site := "http://" + ln.Addr().String() + app.cfg.Server.BasePath + "/"
	_ = app.output().Info("Serving " + site)

	if cmd.Bool("open") {
		if err := webbrowser.Open(site); err != nil {
			app.logger.Warn("could not open browser", "url", site, "err", err)
		}
	}

	if err := srv.Serve(ctx, ln); err != nil {
		return domain.NewExitError(domain.ExitGeneralError, err.Error(), err)
	}

	return nil
}

// applyServeFlags overlays --listen and --base-path on the loaded config.
func (app *CLI) applyServeFlags(cmd *cli.Command) error {
	if listen := cmd.String("listen"); listen != "" {
		app.cfg.Server.Listen = listen
	}

	if !cmd.IsSet("base-path") {
		return nil
	}

	previous := app.cfg.Server.BasePath
	app.cfg.Server.BasePath = cmd.String("base-path")

	if err := app.cfg.Validate(); err != nil {
		return domain.NewExitError(domain.ExitUsageError, err.Error(), err)
	}

	// The stock icon lives under the base path and moves with it.
	if app.cfg.Server.DefaultIcon == previous+"/static/favicon.svg" {
		app.cfg.Server.DefaultIcon = ""
	}

	return nil
}

func (app *CLI) newServer() (*web.Server, error) {
	cfg := app.cfg
	src := app.catalogSource()

	registry := download.NewRegistry(download.RegistryConfig{
		Interval:   cfg.Download.Interval.Duration,
		Step:       cfg.Download.Step,
		TTL:        cfg.Server.SessionTTL.Duration,
		StartEvery: cfg.Server.StartRate.Duration,
		StartBurst: cfg.Server.StartBurst,
	})

	opts := web.Options{
		BasePath:    cfg.Server.BasePath,
		PublicURL:   strings.TrimRight(cfg.Server.PublicURL, "/"),
		SiteTitle:   cfg.Server.SiteTitle,
		DefaultIcon: cfg.Server.DefaultIcon,
	}

	if !catalog.IsRemote(cfg.Catalog.Source) {
		opts.DataFile = cfg.Catalog.Source
	}

	return web.NewServer(
		opts,
		catalog.NewStore(src, catalog.WithShuffle(cfg.Listing.Shuffle)),
		detail.NewStore(src),
		registry,
		app.logger,
	)
}

func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Action: func(_ context.Context, _ *cli.Command) error {
			output := app.output()
			if output.IsJSON() {
				return output.Success("", app.cfg)
			}

			data, err := app.cfg.Encode()
			if err != nil {
				return domain.NewExitError(domain.ExitConfigError, err.Error(), err)
			}

			_, _ = output.Writer().Write(data)

			return nil
		},
	}
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			return app.output().Success("appmod "+Version, map[string]string{"version": Version})
		},
	}
}

// heading prints a section title, styled only in text format.
func heading(output *cliadapter.OutputAdapter, title string) {
	if output.IsPlain() {
		_ = output.Info(title)

		return
	}

	_ = output.Heading(title)
}

// slugArg returns the first positional argument.
func slugArg(cmd *cli.Command) (string, error) {
	slug := strings.TrimSpace(cmd.Args().First())
	if slug == "" {
		return "", domain.NewExitError(domain.ExitUsageError,
			fmt.Sprintf("Usage: appmod %s <slug>", cmd.Name), ErrMissingSlug)
	}

	return slug, nil
}
