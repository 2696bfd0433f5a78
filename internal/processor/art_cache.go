package processor

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/render"
	"go.uber.org/zap"
)

const (
	defaultCacheSize = 64
	loadTimeout      = 15 * time.Second
)

// ArtLoadedMsg reports that a URL finished loading, successfully or not
type ArtLoadedMsg struct {
	URL string
	OK  bool
}

type artEntry struct {
	thumb string
	ok    bool
}

// ArtCache keeps rendered thumbnails keyed by artwork URL.
// Failures are cached as misses so a broken URL is not refetched every poll.
type ArtCache struct {
	logger  *zap.Logger
	fetcher domain.ArtFetcher
	thumbs  domain.Thumbnailer
	enabled bool
	limit   int

	mu      sync.Mutex
	entries map[string]artEntry
	order   []string
	pending map[string]struct{}
}

// NewArtCache creates a cache that fetches and renders artwork on demand
func NewArtCache(logger *zap.Logger, cfg domain.Config, fetcher domain.ArtFetcher, thumbs domain.Thumbnailer) *ArtCache {
	return &ArtCache{
		logger:  logger,
		fetcher: fetcher,
		thumbs:  thumbs,
		enabled: cfg.ArtEnabled(),
		limit:   defaultCacheSize,
		entries: make(map[string]artEntry),
		pending: make(map[string]struct{}),
	}
}

var _ render.ArtSource = (*ArtCache)(nil)

// Lookup returns the thumbnail for url if it loaded successfully
func (c *ArtCache) Lookup(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[url]
	if !ok || !e.ok {
		return "", false
	}
	return e.thumb, true
}

// Load returns a command that fetches and renders url.
// It returns nil when art is disabled or url is already cached or loading.
func (c *ArtCache) Load(url string) tea.Cmd {
	if !c.enabled || url == "" {
		return nil
	}

	c.mu.Lock()
	_, cached := c.entries[url]
	_, loading := c.pending[url]
	if cached || loading {
		c.mu.Unlock()
		return nil
	}
	c.pending[url] = struct{}{}
	c.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return ArtLoadedMsg{URL: url, OK: c.load(ctx, url)}
	}
}

func (c *ArtCache) load(ctx context.Context, url string) bool {
	entry := artEntry{}

	data, err := c.fetcher.Fetch(ctx, url)
	if err == nil {
		entry.thumb, err = c.thumbs.Thumbnail(ctx, data, render.ArtWidth, render.ArtHeight)
	}
	if err != nil {
		c.logger.Debug("Artwork unavailable", zap.String("url", url), zap.Error(err))
	} else {
		entry.ok = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, url)
	c.store(url, entry)
	return entry.ok
}

// store inserts an entry, evicting the oldest when the cache is full.
// Callers must hold mu.
func (c *ArtCache) store(url string, e artEntry) {
	if _, exists := c.entries[url]; !exists {
		c.order = append(c.order, url)
	}
	c.entries[url] = e

	for len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of cached entries, misses included
func (c *ArtCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
