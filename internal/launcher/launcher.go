package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/genricoloni/sonowidget/internal/domain"
	"go.uber.org/zap"
)

// bridgeBinary is the node-sonos-http-api launcher looked up on PATH
const bridgeBinary = "node-sonos-http-api"

// ErrNoCommand is returned when neither a configured nor a default start command exists
var ErrNoCommand = errors.New("no start command configured for this platform")

// ShellLauncher starts the bridge through the platform shell
type ShellLauncher struct {
	logger  *zap.Logger
	command string
}

// NewLauncher creates a launcher for the configured start command.
// An empty command falls back to the platform default at launch time.
func NewLauncher(logger *zap.Logger, cfg domain.Config) *ShellLauncher {
	return &ShellLauncher{
		logger:  logger,
		command: cfg.GetStartCommand(),
	}
}

// Launch starts the command detached and returns once it is running.
// The bridge keeps running after the widget exits.
func (l *ShellLauncher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	command := l.command
	if command == "" {
		command = defaultCommand()
	}
	if command == "" {
		return ErrNoCommand
	}

	cmd := shellCommand(command)
	l.logger.Info("Starting bridge", zap.String("command", command))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start bridge with %q: %w", command, err)
	}

	// Reap the child so it does not linger as a zombie
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("Start command exited", zap.String("command", command), zap.Error(err))
		}
	}()

	return nil
}

// commandExists checks if a binary exists in PATH
func commandExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
