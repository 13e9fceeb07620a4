package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/splashseq/internal/cli"
	"github.com/agbru/splashseq/internal/clock"
	"github.com/agbru/splashseq/internal/config"
	apperrors "github.com/agbru/splashseq/internal/errors"
	"github.com/agbru/splashseq/internal/haptics"
	"github.com/agbru/splashseq/internal/logging"
	"github.com/agbru/splashseq/internal/metrics"
	"github.com/agbru/splashseq/internal/sequence"
	"github.com/agbru/splashseq/internal/server"
	"github.com/agbru/splashseq/internal/tui"
	"github.com/agbru/splashseq/internal/ui"
)

// Application represents one invocation of the splash program.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	programName string
	tracer      trace.Tracer
	clock       clock.Clock
	listener    net.Listener
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) AppOption {
	return func(a *Application) { a.tracer = t }
}

// WithClock drives the sequence with c instead of the wall clock.
func WithClock(c clock.Clock) AppOption {
	return func(a *Application) { a.clock = c }
}

// WithListener makes the headless mode serve on ln instead of listening on
// the --serve address.
func WithListener(ln net.Listener) AppOption {
	return func(a *Application) { a.listener = ln }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, programName: "splash"}
	for _, opt := range opts {
		opt(app)
	}
	if app.tracer == nil {
		app.tracer = defaultTracer()
	}
	if app.clock == nil {
		app.clock = clock.Real{}
	}

	var cmdArgs []string
	if len(args) > 0 {
		app.programName = filepath.Base(args[0])
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(app.programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)
	logger, closeLog, err := a.openLogger()
	if err != nil {
		return apperrors.ExitCodeFor(err, a.ErrWriter)
	}
	defer closeLog()

	if a.Config.PrintTimeline {
		return a.runPrintTimeline(out)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch {
	case a.Config.Serve != "":
		return a.runServe(ctx, out, logger)
	case a.Config.Plain:
		return a.runPlain(ctx, out, logger)
	default:
		return a.runTUI(ctx, out, logger)
	}
}

// openLogger builds the logger of the selected mode. The terminal renderer
// owns the screen, so without --log-file it logs nowhere.
func (a *Application) openLogger() (logging.Logger, func(), error) {
	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("cannot open log file: %v", err)
		}
		return logging.NewLogger(f, a.programName), func() { _ = f.Close() }, nil
	}
	if a.interactive() {
		return logging.NewNop(), func() {}, nil
	}
	return logging.NewLogger(a.ErrWriter, a.programName), func() {}, nil
}

func (a *Application) interactive() bool {
	return !a.Config.Plain && a.Config.Serve == "" && !a.Config.PrintTimeline
}

func (a *Application) haptics(out io.Writer, logger logging.Logger) haptics.Haptics {
	if a.Config.NoHaptics {
		return haptics.Nop{}
	}
	return haptics.NewBell(out, logger)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.programName, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runPrintTimeline(out io.Writer) int {
	err := cli.PrintTimeline(out, a.Config.SequenceConfig(), a.Config.ToContent())
	return apperrors.ExitCodeFor(err, a.ErrWriter)
}

// runPlain plays the sequence once as printed lines.
func (a *Application) runPlain(ctx context.Context, out io.Writer, logger logging.Logger) int {
	tracer := startRunTracer(ctx, a.tracer, "plain", 0)
	defer tracer.End()

	err := cli.RunPlain(ctx, a.Config.SequenceConfig(), a.Config.ToContent(), out, a.clock, logger,
		haptics.Observer(a.haptics(out, logger)), tracer)
	if err != nil && !apperrors.IsContextError(err) {
		err = apperrors.RenderError{Renderer: "plain", Cause: err}
	}
	return apperrors.ExitCodeFor(err, a.ErrWriter)
}

// runTUI launches the device frame renderer. Every replay gets its own
// trace span.
func (a *Application) runTUI(ctx context.Context, out io.Writer, logger logging.Logger) int {
	h := a.haptics(out, logger)
	var current *runTracer
	code := tui.Run(ctx, tui.Options{
		Config:  a.Config.SequenceConfig(),
		Content: a.Config.ToContent(),
		Hold:    a.Config.Hold,
		Logger:  logger,
		Clock:   a.clock,
		Observe: func(generation uint64) []sequence.Observer {
			if current != nil {
				current.End()
			}
			current = startRunTracer(ctx, a.tracer, "tui", generation)
			return []sequence.Observer{haptics.Observer(h), current}
		},
	})
	if current != nil {
		current.End()
	}
	return code
}

// runServe plays the sequence headless and serves its directives until
// ctx is canceled.
func (a *Application) runServe(ctx context.Context, out io.Writer, logger logging.Logger) int {
	cfg := a.Config.SequenceConfig()
	security := server.DefaultSecurityConfig()
	hub := server.NewHub(a.Config.ToContent(), security.MaxStreamClients)

	httpMetrics := server.NewMetrics()
	seqMetrics := metrics.NewSequenceMetrics()
	if err := seqMetrics.Register(httpMetrics.Registry()); err != nil {
		return apperrors.ExitCodeFor(err, a.ErrWriter)
	}
	srv := server.New(a.Config.Serve, hub, cfg, logger,
		server.WithMetrics(httpMetrics),
		server.WithSecurity(security))

	tracer := startRunTracer(ctx, a.tracer, "serve", 0)
	ctrl := sequence.NewController(cfg,
		sequence.WithClock(a.clock),
		sequence.WithLogger(logger),
		sequence.WithObserver(sequence.Observers{hub, seqMetrics, tracer}),
	)

	addr := a.Config.Serve
	if a.listener != nil {
		addr = a.listener.Addr().String()
	}
	fmt.Fprintf(out, "Serving splash directives on http://%s/directives\n", addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.listener != nil {
			return srv.Serve(gctx, a.listener)
		}
		return srv.Run(gctx)
	})
	g.Go(func() error {
		ctrl.Activate()
		<-gctx.Done()
		ctrl.Deactivate()
		tracer.End()
		return nil
	})

	err := g.Wait()
	if err != nil {
		err = apperrors.RenderError{Renderer: "server", Cause: err}
	}
	return apperrors.ExitCodeFor(err, a.ErrWriter)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
