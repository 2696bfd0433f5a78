package engine

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/ui"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine runs the widget: it feeds poll results into the terminal UI and
// persists the panel position when the UI goes away.
type Engine struct {
	logger     *zap.Logger
	cfg        domain.Config
	source     domain.SnapshotSource
	bridge     domain.Bridge
	launcher   domain.Launcher
	positions  domain.PositionStore
	art        ui.ArtLoader
	shutdowner fx.Shutdowner
	options    []tea.ProgramOption

	mu       sync.Mutex
	program  *tea.Program
	cancel   context.CancelFunc
	done     chan struct{}
	position domain.Position
}

// NewEngine creates the engine. art may be nil to disable artwork.
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	source domain.SnapshotSource,
	bridge domain.Bridge,
	launcher domain.Launcher,
	positions domain.PositionStore,
	art ui.ArtLoader,
	shutdowner fx.Shutdowner,
) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		source:     source,
		bridge:     bridge,
		launcher:   launcher,
		positions:  positions,
		art:        art,
		shutdowner: shutdowner,
		options:    []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()},
	}
}

// Start restores the panel position, begins polling and opens the UI.
// It returns immediately; the UI runs until quit or Stop.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	pos, err := e.positions.LoadPosition(ctx)
	if err != nil {
		e.logger.Warn("Could not load panel position, using default", zap.Error(err))
		pos = domain.DefaultPosition
	}

	// The start context only lives for the duration of the fx start hook
	runCtx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := e.source.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Error("Poller exited", zap.Error(err))
		}
	}()

	model := ui.New(ui.Deps{
		Logger:     e.logger.Named("ui"),
		Bridge:     e.bridge,
		Launcher:   e.launcher,
		Positions:  e.positions,
		Art:        e.art,
		Events:     e.source.Events(),
		VolumeStep: e.cfg.GetVolumeStep(),
	}, pos)

	program := tea.NewProgram(model, e.options...)
	done := make(chan struct{})

	e.mu.Lock()
	e.program = program
	e.cancel = cancel
	e.done = done
	e.position = pos
	e.mu.Unlock()

	go e.run(program, done)

	e.logger.Info("Engine started",
		zap.String("bridge", e.cfg.GetBridgeURL()),
		zap.Int("top", pos.Top),
		zap.Int("right", pos.Right))
	return nil
}

// run drives the program and asks fx to shut down once the user quits
func (e *Engine) run(program *tea.Program, done chan struct{}) {
	defer close(done)

	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		e.logger.Error("UI exited with error", zap.Error(err))
	}

	if m, ok := final.(ui.Model); ok {
		e.mu.Lock()
		e.position = m.Position()
		e.mu.Unlock()
	}

	if err := e.shutdowner.Shutdown(); err != nil {
		e.logger.Debug("Shutdown already in progress", zap.Error(err))
	}
}

// Stop closes the UI, halts polling and saves the last panel position
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	e.mu.Lock()
	program, cancel, done := e.program, e.cancel, e.done
	e.mu.Unlock()

	if program == nil {
		return nil
	}

	program.Quit()
	select {
	case <-done:
	case <-ctx.Done():
		program.Kill()
		e.logger.Warn("UI did not exit in time")
	}

	var errs error
	errs = multierr.Append(errs, e.source.Stop(ctx))
	cancel()

	e.mu.Lock()
	pos := e.position
	e.mu.Unlock()

	if err := e.positions.SavePosition(ctx, pos); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		e.logger.Info("Panel position saved", zap.Int("top", pos.Top), zap.Int("right", pos.Right))
	}

	return errs
}
