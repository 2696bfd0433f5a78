// Package fetcher downloads album artwork referenced by zone and favorite
// records. Only absolute http(s) URLs are fetched.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxArtworkBytes = 10 << 20
	artworkTimeout  = 10 * time.Second
	userAgent       = "sonowidget/1.0"
)

var (
	// ErrUnsupportedURL marks artwork URLs that are not absolute http(s) URLs.
	// Relative albumArtUri values point at a speaker and cannot be resolved here.
	ErrUnsupportedURL = errors.New("unsupported artwork url")
	// ErrUnexpectedStatus marks any answer other than 200 OK
	ErrUnexpectedStatus = errors.New("unexpected artwork status")
	// ErrNotImage marks a response whose media type is not image/*
	ErrNotImage = errors.New("artwork is not an image")
	// ErrTooLarge marks artwork above the size limit
	ErrTooLarge = errors.New("artwork too large")
)

// ArtworkFetcher downloads cover images for the art cache
type ArtworkFetcher struct {
	logger   *zap.Logger
	client   *http.Client
	maxBytes int64
}

// NewArtworkFetcher creates a fetcher with a bounded download size and time
func NewArtworkFetcher(logger *zap.Logger) *ArtworkFetcher {
	return &ArtworkFetcher{
		logger:   logger,
		client:   &http.Client{Timeout: artworkTimeout},
		maxBytes: maxArtworkBytes,
	}
}

// Fetch returns the image bytes behind rawURL
func (f *ArtworkFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := artworkURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artwork request to %s failed: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, u.Host)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, resp.Header.Get("Content-Type"))
	}

	// One byte past the limit tells a full-size image from an oversized one
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}

	f.logger.Debug("Artwork fetched",
		zap.String("host", u.Host),
		zap.String("type", mediaType),
		zap.Int("bytes", len(data)))
	return data, nil
}

func artworkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	return u, nil
}
