// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielhkuo/flowhub/cliparse"
	"github.com/danielhkuo/flowhub/clock"
	"github.com/danielhkuo/flowhub/db"
	"github.com/danielhkuo/flowhub/export"
	"github.com/danielhkuo/flowhub/grouping"
	"github.com/danielhkuo/flowhub/labels"
	"github.com/danielhkuo/flowhub/locale"
	"github.com/danielhkuo/flowhub/middleware"
	"github.com/danielhkuo/flowhub/raffle"
	"github.com/danielhkuo/flowhub/session"
	"github.com/danielhkuo/flowhub/shuffle"
)

type options struct {
	logger      *zap.Logger
	raffleClock clock.Clock
	labels      grouping.LabelGenerator
	sink        export.Sink

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

type Option func(*options)

// WithLogger replaces the logger built from the verbose flag.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRaffleClock sets the clock that paces the raffle spin.
func WithRaffleClock(c clock.Clock) Option {
	return func(o *options) { o.raffleClock = c }
}

// WithLabelGenerator replaces the Gemini generator.
func WithLabelGenerator(gen grouping.LabelGenerator) Option {
	return func(o *options) { o.labels = gen }
}

// WithSink replaces the export destination chosen from flags.
func WithSink(sink export.Sink) Option {
	return func(o *options) { o.sink = sink }
}

func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
		o.errOut = errOut
	}
}

// App is the state shared by one CLI invocation. It is filled in by setup,
// after flags are parsed and before any command runs.
type App struct {
	opts options

	cfg     cliparse.Config
	logger  *zap.Logger
	printer *locale.Printer
	conn    *sql.DB
	session *session.Session
	spinOut io.Writer
}

// Execute runs the flowhub command line with args.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	root, app := newRoot(opts...)
	root.SetArgs(args)
	defer app.Close()
	return root.ExecuteContext(ctx)
}

func newRoot(opts ...Option) (*cobra.Command, *App) {
	app := &App{}
	for _, opt := range opts {
		opt(&app.opts)
	}

	root := &cobra.Command{
		Use:   "flowhub",
		Short: "Roster, lucky draw and team grouping for HR events",
		Long: `flowhub keeps an event roster and runs a lucky draw or splits the
roster into randomly composed teams.

Import a roster first, then draw winners or build groups:

  flowhub import staff.csv
  flowhub draw --count 3
  flowhub group --size 4 --theme "Space exploration"`,
		SilenceUsage:      true,
		PersistentPreRunE: app.setup,
	}
	cliparse.RegisterFlags(root.PersistentFlags())

	if app.opts.in != nil {
		root.SetIn(app.opts.in)
	}
	if app.opts.out != nil {
		root.SetOut(app.opts.out)
	}
	if app.opts.errOut != nil {
		root.SetErr(app.opts.errOut)
	}

	root.AddCommand(
		app.importCmd(),
		app.listCmd(),
		app.dedupeCmd(),
		app.clearCmd(),
		app.drawCmd(),
		app.groupCmd(),
	)
	return root, app
}

// Logger is valid once setup has run.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

func (a *App) setup(cmd *cobra.Command, args []string) error {
	cfg, err := cliparse.FromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = a.opts.logger
	if a.logger == nil {
		if a.logger, err = middleware.NewLogger(cfg.Verbose); err != nil {
			return err
		}
	}
	a.printer = locale.Default().Printer(cfg.Locale)
	a.spinOut = cmd.ErrOrStderr()

	ctx := cmd.Context()
	a.conn, err = db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	kv, err := db.NewKV(a.conn, cfg.DatabaseType)
	if err != nil {
		return err
	}

	src, seed, err := shuffle.FromSeed(cfg.Seed)
	if err != nil {
		return err
	}
	a.logger.Debug("configuration ready",
		zap.String("database_type", cfg.DatabaseType),
		zap.String("locale", a.printer.Locale()),
		zap.Int64("seed", seed),
	)

	raffleOpts := []raffle.Option{
		raffle.WithSource(src),
		raffle.WithObserver(a.showSpin),
		raffle.WithLogger(a.logger.Named("raffle")),
	}
	if a.opts.raffleClock != nil {
		raffleOpts = append(raffleOpts, raffle.WithClock(a.opts.raffleClock))
	}

	groupingOpts := []grouping.Option{
		grouping.WithSource(shuffle.New(seed + 1)),
		grouping.WithPlaceholder(a.printer.GroupPlaceholder),
		grouping.WithLabelTimeout(cfg.LabelTimeout),
		grouping.WithLogger(a.logger.Named("grouping")),
	}
	if gen := a.labelGenerator(ctx); gen != nil {
		groupingOpts = append(groupingOpts, grouping.WithLabelGenerator(gen))
	}

	a.session = session.Open(ctx,
		db.NewRosterStore(kv),
		raffle.New(nil, raffleOpts...),
		grouping.New(groupingOpts...),
		a.logger.Named("session"),
	)
	return nil
}

// labelGenerator returns nil when no generator is available; groups then
// get placeholder names.
func (a *App) labelGenerator(ctx context.Context) grouping.LabelGenerator {
	if a.opts.labels != nil {
		return a.opts.labels
	}
	if a.cfg.GeminiAPIKey == "" {
		return nil
	}
	gen, err := labels.NewGemini(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel, a.printer, a.logger.Named("labels"))
	if err != nil {
		a.logger.Warn("label generator unavailable, using placeholders", zap.Error(err))
		return nil
	}
	return gen
}

func (a *App) showSpin(name string) {
	if a.spinOut != nil {
		fmt.Fprintf(a.spinOut, "\r\033[K> %s", name)
	}
}

func (a *App) clearSpin() {
	if a.spinOut != nil {
		fmt.Fprint(a.spinOut, "\r\033[K")
	}
}

// Close releases the database and flushes the logger.
func (a *App) Close() {
	if a.conn != nil {
		if err := a.conn.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
		a.conn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
