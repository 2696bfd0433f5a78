//go:build linux
// +build linux

package notify

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DesktopNotifier sends freedesktop notifications over the session bus.
// The connection is opened on first use so a missing bus only fails Notify.
type DesktopNotifier struct {
	logger *zap.Logger
	dial   func() (DBusClient, error)

	mu     sync.Mutex
	conn   DBusClient
	lastID uint32
}

// NewDesktopNotifier creates a notifier for the session bus
func NewDesktopNotifier(logger *zap.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		logger: logger,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
	}
}

// Notify shows summary and body, replacing the previous notification
func (n *DesktopNotifier) Notify(summary, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		conn, err := n.dial()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		n.conn = conn
	}

	id, err := n.conn.Notify(n.lastID, summary, body)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	n.lastID = id

	n.logger.Debug("Notification sent", zap.String("summary", summary), zap.Uint32("id", id))
	return nil
}

// Close releases the bus connection if one was opened
func (n *DesktopNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
