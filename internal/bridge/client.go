package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/snapshot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	_maxBodySize   = 4 * 1024 * 1024 // 4 MB
	commandTimeout = 5 * time.Second
	searchTimeout  = 10 * time.Second
	minQueryLength = 2
)

// ErrUnreachable marks a transport-level failure talking to the bridge
var ErrUnreachable = errors.New("bridge unreachable")

// Client talks to node-sonos-http-api over plain HTTP GETs
type Client struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
	service string
}

// NewClient creates a bridge client for the configured base URL
func NewClient(logger *zap.Logger, cfg domain.Config) *Client {
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(cfg.GetBridgeURL(), "/"),
		service: cfg.GetSearchService(),
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: cfg.GetConnectTimeout(),
				}).DialContext,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
}

// Do fires a GET to {base}/{room}/{action}. The response body is discarded
// and failures are logged and reported as OutcomeIgnored, never returned.
func (c *Client) Do(ctx context.Context, cmd domain.Command) domain.CommandResult {
	res := domain.CommandResult{ID: uuid.NewString(), Command: cmd}

	if cmd.Room == "" {
		res.Outcome = domain.OutcomeSkipped
		c.logger.Debug("Command skipped, no room", zap.String("id", res.ID), zap.String("action", cmd.Action))
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	target := c.baseURL + "/" + url.PathEscape(cmd.Room) + "/" + cmd.Action
	if _, err := c.get(ctx, target); err != nil {
		res.Outcome = domain.OutcomeIgnored
		res.Err = err
		c.logger.Warn("Command failed",
			zap.String("id", res.ID),
			zap.String("room", cmd.Room),
			zap.String("action", cmd.Action),
			zap.Error(err))
		return res
	}

	res.Outcome = domain.OutcomeSent
	c.logger.Debug("Command sent",
		zap.String("id", res.ID),
		zap.String("room", cmd.Room),
		zap.String("action", cmd.Action))
	return res
}

// Search queries /search/{service}/album/{query}. Queries shorter than two
// characters and every failure yield an empty slice.
func (c *Client) Search(ctx context.Context, query string) []domain.SearchResult {
	if utf8.RuneCountInString(query) < minQueryLength {
		return []domain.SearchResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	target := fmt.Sprintf("%s/search/%s/album/%s", c.baseURL, url.PathEscape(c.service), url.PathEscape(query))
	body, err := c.get(ctx, target)
	if err != nil {
		c.logger.Warn("Search failed", zap.String("query", query), zap.Error(err))
		return []domain.SearchResult{}
	}

	results := snapshot.ParseSearchResults(body)
	c.logger.Debug("Search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results
}

// FetchJSON GETs a bridge path and returns the raw body. Only transport
// failures are errors (wrapping ErrUnreachable); status codes and the body
// are left for the caller to judge.
func (c *Client) FetchJSON(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.get(ctx, c.baseURL+path)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "sonowidget/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return data, nil
}
