package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/sonowidget/internal/domain"
	"go.uber.org/zap"
)

const (
	eventBuffer     = 10
	warningInterval = 5 * time.Second
)

var (
	offlineResult    = []byte(`{"error":"offline"}`)
	noSpeakersResult = []byte(`{"error":"no-speakers"}`)
	emptyList        = json.RawMessage(`[]`)
)

// ErrStopped is returned when Start is called on a poller that was already stopped
var ErrStopped = errors.New("poller already stopped")

// JSONFetcher reads raw JSON from a bridge path
type JSONFetcher interface {
	FetchJSON(ctx context.Context, path string, timeout time.Duration) ([]byte, error)
}

// Poller periodically snapshots the bridge into the poll output contract
type Poller struct {
	logger   *zap.Logger
	cfg      domain.Config
	fetcher  JSONFetcher
	notifier domain.Notifier
	events   chan domain.PollResult

	mu              sync.Mutex
	running         bool
	stopped         bool
	cancel          context.CancelFunc
	wg              sync.WaitGroup // Tracks the polling goroutine
	lastDropWarning time.Time

	// connectivity as of the previous tick
	seen   bool
	online bool
}

// NewPoller creates a poller. notifier may be nil.
func NewPoller(logger *zap.Logger, cfg domain.Config, fetcher JSONFetcher, notifier domain.Notifier) *Poller {
	return &Poller{
		logger:   logger,
		cfg:      cfg,
		fetcher:  fetcher,
		notifier: notifier,
		events:   make(chan domain.PollResult, eventBuffer),
	}
}

// Start polls immediately and then on every interval tick.
// It blocks until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrStopped
	}
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true

	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	interval := p.cfg.GetPollInterval()
	p.logger.Info("Poller started", zap.Duration("interval", interval))

	go p.loop(pollCtx, interval)

	<-pollCtx.Done()
	p.logger.Info("Poller stopped")
	return pollCtx.Err()
}

// Stop halts polling, waits for the in-flight tick and closes the Events channel
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.running = false
	p.stopped = true
	p.mu.Unlock()

	// The producer must be gone before the channel is closed
	p.wg.Wait()
	close(p.events)

	p.logger.Info("Poller shutdown complete")
	return nil
}

// Events returns a read-only channel of poll results
func (p *Poller) Events() <-chan domain.PollResult {
	return p.events
}

func (p *Poller) loop(ctx context.Context, interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res := p.Poll(ctx)
		if ctx.Err() != nil {
			return
		}
		p.emit(res)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll runs a single tick against the bridge and returns the combined blob.
// Zones decide connectivity; favorites and playlists fall back to empty lists.
func (p *Poller) Poll(ctx context.Context) domain.PollResult {
	raw, online := p.snapshot(ctx)
	if ctx.Err() == nil {
		p.trackConnectivity(online)
	}
	return domain.PollResult{Raw: raw, At: time.Now()}
}

func (p *Poller) snapshot(ctx context.Context) ([]byte, bool) {
	zones, err := p.fetcher.FetchJSON(ctx, "/zones", p.cfg.GetRequestTimeout())
	if err != nil {
		p.logger.Debug("Zones fetch failed", zap.Error(err))
		return offlineResult, false
	}

	zones = bytes.TrimSpace(zones)
	if len(zones) == 0 || isEmptyList(zones) {
		return noSpeakersResult, true
	}
	if !json.Valid(zones) {
		// Passed through unchanged so the parser reports it as starting up
		p.logger.Debug("Zones response is not JSON", zap.Int("bytes", len(zones)))
		return zones, true
	}

	out, err := json.Marshal(struct {
		Zones     json.RawMessage `json:"zones"`
		Favorites json.RawMessage `json:"favorites"`
		Playlists json.RawMessage `json:"playlists"`
	}{
		Zones:     zones,
		Favorites: p.fetchList(ctx, "/favorites/detailed"),
		Playlists: p.fetchList(ctx, "/playlists"),
	})
	if err != nil {
		p.logger.Warn("Failed to assemble poll result", zap.Error(err))
		return zones, true
	}
	return out, true
}

// fetchList returns the JSON array at path, or [] on any failure
func (p *Poller) fetchList(ctx context.Context, path string) json.RawMessage {
	body, err := p.fetcher.FetchJSON(ctx, path, p.cfg.GetRequestTimeout())
	if err != nil {
		p.logger.Debug("List fetch failed", zap.String("path", path), zap.Error(err))
		return emptyList
	}
	// Error objects such as {"status":"error"} must not reach the list fields
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil || list == nil {
		p.logger.Debug("List response is not an array", zap.String("path", path))
		return emptyList
	}
	return bytes.TrimSpace(body)
}

func isEmptyList(data []byte) bool {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return false
	}
	return len(list) == 0
}

// emit sends without blocking. When the buffer is full the oldest result is
// discarded so the consumer always catches up to the latest state.
func (p *Poller) emit(res domain.PollResult) {
	for {
		select {
		case p.events <- res:
			return
		default:
		}

		select {
		case <-p.events:
			p.logChannelFullWarning()
		default:
		}
	}
}

// logChannelFullWarning is rate limited to one line per warningInterval
func (p *Poller) logChannelFullWarning() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastDropWarning) >= warningInterval {
		p.logger.Warn("Events channel full, dropping oldest poll result")
		p.lastDropWarning = now
	}
}

func (p *Poller) trackConnectivity(online bool) {
	p.mu.Lock()
	changed := p.seen && p.online != online
	p.seen = true
	p.online = online
	p.mu.Unlock()

	if !changed {
		return
	}

	if online {
		p.logger.Info("Bridge is reachable again")
	} else {
		p.logger.Warn("Bridge went offline")
	}

	if p.notifier == nil || !p.cfg.NotifyEnabled() {
		return
	}

	summary, body := "Sonos online", "Connected to "+p.cfg.GetBridgeURL()
	if !online {
		summary, body = "Sonos offline", "Cannot reach "+p.cfg.GetBridgeURL()
	}
	if err := p.notifier.Notify(summary, body); err != nil {
		p.logger.Warn("Failed to send notification", zap.Error(err))
	}
}
