// sonowidget is a floating Sonos controller for the terminal.
//
// It polls a node-sonos-http-api bridge and draws a draggable, clickable
// panel in the alternate screen.
//
// Usage:
//
//	sonowidget [flags]
//
// Flags:
//
//	-config string   Path to a TOML or YAML config file
//	-verbose         Enable debug logging
//	-demo            Run against a built-in demo bridge
//	-version         Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/genricoloni/sonowidget/internal/bridge"
	"github.com/genricoloni/sonowidget/internal/config"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/engine"
	"github.com/genricoloni/sonowidget/internal/fakebridge"
	"github.com/genricoloni/sonowidget/internal/fetcher"
	"github.com/genricoloni/sonowidget/internal/launcher"
	"github.com/genricoloni/sonowidget/internal/notify"
	"github.com/genricoloni/sonowidget/internal/poller"
	"github.com/genricoloni/sonowidget/internal/processor"
	"github.com/genricoloni/sonowidget/internal/store"
	"github.com/genricoloni/sonowidget/internal/ui"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// cliOptions are the command line flags the graph depends on
type cliOptions struct {
	ConfigPath string
	Verbose    bool
	Demo       bool
}

// AppOptions is the application graph without the command line options
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		newConfig,
		bridge.NewClient,
		func(c *bridge.Client) domain.Bridge { return c },
		func(c *bridge.Client) poller.JSONFetcher { return c },
		newNotifier,
		newPoller,
		newStore,
		fx.Annotate(launcher.NewLauncher, fx.As(new(domain.Launcher))),
		fx.Annotate(fetcher.NewArtworkFetcher, fx.As(new(domain.ArtFetcher))),
		fx.Annotate(processor.NewHalfBlockThumbnailer, fx.As(new(domain.Thumbnailer))),
		fx.Annotate(processor.NewArtCache, fx.As(new(ui.ArtLoader))),
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

func main() {
	var opts cliOptions
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML or YAML config file")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&opts.Demo, "demo", false, "Run against a built-in demo bridge")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sonowidget %s\n", version)
		os.Exit(0)
	}

	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Supply(opts),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sonowidget: %v\n", err)
		os.Exit(1)
	}

	// Wait for a signal or for the UI to quit
	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "sonowidget: shutdown: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes JSON logs to the state directory since the terminal
// belongs to the UI
func newLogger(opts cliOptions) (*zap.Logger, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// newConfig loads the configuration. In demo mode it also starts the demo
// bridge and points the configuration at it.
func newConfig(lc fx.Lifecycle, logger *zap.Logger, opts cliOptions) (domain.Config, error) {
	cfgOpts := config.Options{Path: opts.ConfigPath}

	if opts.Demo {
		srv, err := fakebridge.NewServer(logger.Named("demo"))
		if err != nil {
			return nil, fmt.Errorf("failed to start demo bridge: %w", err)
		}
		cfgOpts.BridgeURL = srv.URL()
		lc.Append(fx.Hook{OnStart: srv.Start, OnStop: srv.Stop})
		logger.Info("Demo mode", zap.String("url", srv.URL()))
	}

	return config.NewAppConfig(logger, cfgOpts)
}

func newNotifier(lc fx.Lifecycle, logger *zap.Logger) domain.Notifier {
	n := notify.NewDesktopNotifier(logger.Named("notify"))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return n.Close()
		},
	})
	return n
}

func newPoller(logger *zap.Logger, cfg domain.Config, fetch poller.JSONFetcher, n domain.Notifier) domain.SnapshotSource {
	return poller.NewPoller(logger.Named("poller"), cfg, fetch, n)
}

func newStore(lc fx.Lifecycle, logger *zap.Logger, cfg domain.Config) (domain.PositionStore, error) {
	s, err := store.NewStore(logger.Named("store"), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, e *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Sonowidget started", zap.String("version", version))
			return e.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return e.Stop(ctx)
		},
	})
}
