package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"
	appName             = "sonowidget"
	appIcon             = "audio-speakers"
	// expireTimeout of -1 lets the notification server decide
	expireTimeout = int32(-1)
)

// DBusClient defines the interface for the notification D-Bus calls.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/sonowidget/internal/notify DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// Notify shows a desktop notification, replacing replacesID when non-zero.
	// It returns the id assigned by the notification server.
	Notify(replacesID uint32, summary, body string) (uint32, error)
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient creates a real D-Bus client connected to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// Notify calls org.freedesktop.Notifications.Notify
func (c *StdDBusClient) Notify(replacesID uint32, summary, body string) (uint32, error) {
	obj := c.conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))

	var id uint32
	err := obj.Call(notificationsMethod, 0,
		appName,
		replacesID,
		appIcon,
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeout,
	).Store(&id)
	return id, err
}
