//go:build !linux
// +build !linux

package notify

import (
	"go.uber.org/zap"
)

// DesktopNotifier stub for non-Linux platforms
type DesktopNotifier struct {
	logger *zap.Logger
}

// NewDesktopNotifier creates a notifier that only logs
func NewDesktopNotifier(logger *zap.Logger) *DesktopNotifier {
	return &DesktopNotifier{logger: logger}
}

// Notify is a no-op on non-Linux platforms
func (n *DesktopNotifier) Notify(summary, body string) error {
	n.logger.Debug("Desktop notifications unsupported", zap.String("summary", summary))
	return nil
}

// Close is a no-op on non-Linux platforms
func (n *DesktopNotifier) Close() error {
	return nil
}
