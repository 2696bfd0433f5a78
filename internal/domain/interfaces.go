package domain

import (
	"context"
	"time"
)

// Command is a single bridge action addressed to a room.
// Action is the already-encoded path suffix, e.g. "play" or "join/Kitchen".
type Command struct {
	Room   string
	Action string
}

// Outcome names what happened to a best-effort command
type Outcome int

const (
	// OutcomeSent means the bridge accepted the request at the transport level
	OutcomeSent Outcome = iota
	// OutcomeIgnored means the request failed and the failure was swallowed
	OutcomeIgnored
	// OutcomeSkipped means there was no room to address, nothing was sent
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "skipped"
	}
}

// CommandResult reports the outcome of a Command
type CommandResult struct {
	// ID correlates the command with its log lines
	ID      string
	Command Command
	Outcome Outcome
	Err     error
}

// Bridge issues commands against the node-sonos-http-api bridge
//
//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/sonowidget/internal/domain Bridge,Launcher,PositionStore
type Bridge interface {
	// Do sends a command. It never returns an error: failures are reported
	// through the result's Outcome.
	Do(ctx context.Context, cmd Command) CommandResult

	// Search queries the configured music service for albums.
	// It returns an empty slice on any failure.
	Search(ctx context.Context, query string) []SearchResult
}

// SnapshotSource produces poll results on a fixed interval
type SnapshotSource interface {
	// Start begins polling. It blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop halts polling and closes the Events channel
	Stop(ctx context.Context) error

	// Events returns a read-only channel of poll results
	Events() <-chan PollResult
}

// PositionStore persists the panel position across sessions
type PositionStore interface {
	LoadPosition(ctx context.Context) (Position, error)
	SavePosition(ctx context.Context, pos Position) error
}

// Launcher starts the bridge on the host
type Launcher interface {
	Launch(ctx context.Context) error
}

// ArtFetcher retrieves album artwork
type ArtFetcher interface {
	// Fetch downloads image data from a URL
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Thumbnailer turns image bytes into a terminal rendering of width x height cells
type Thumbnailer interface {
	Thumbnail(ctx context.Context, imageData []byte, width, height int) (string, error)
}

// Notifier surfaces connectivity changes on the desktop
type Notifier interface {
	Notify(summary, body string) error
}

// Config defines the interface for application configuration
type Config interface {
	GetBridgeURL() string
	GetPollInterval() time.Duration
	// GetConnectTimeout bounds dialing the bridge
	GetConnectTimeout() time.Duration
	// GetRequestTimeout bounds one poll request from dial to last byte
	GetRequestTimeout() time.Duration
	GetSearchService() string
	GetVolumeStep() int
	GetStartCommand() string
	GetStateDir() string
	NotifyEnabled() bool
	ArtEnabled() bool
}
