package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestArtworkFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		status      int
		maxBytes    int64
		cancelled   bool
		wantErr     error
		wantLen     int
	}{
		{
			name:        "Cover Image",
			contentType: "image/jpeg",
			body:        []byte("jpeg-bytes"),
			status:      http.StatusOK,
			wantLen:     10,
		},
		{
			name:        "Media Type Parameters",
			contentType: "image/png; charset=binary",
			body:        []byte("png"),
			status:      http.StatusOK,
			wantLen:     3,
		},
		{
			name:        "Exactly At Limit",
			contentType: "image/png",
			body:        bytes.Repeat([]byte("a"), 16),
			status:      http.StatusOK,
			maxBytes:    16,
			wantLen:     16,
		},
		{
			name:        "Over Limit",
			contentType: "image/png",
			body:        bytes.Repeat([]byte("a"), 17),
			status:      http.StatusOK,
			maxBytes:    16,
			wantErr:     ErrTooLarge,
		},
		{
			name:        "Speaker Art Proxy Down",
			contentType: "text/html",
			body:        []byte("<html>bad gateway</html>"),
			status:      http.StatusBadGateway,
			wantErr:     ErrUnexpectedStatus,
		},
		{
			name:        "Missing Cover",
			contentType: "image/jpeg",
			status:      http.StatusNotFound,
			wantErr:     ErrUnexpectedStatus,
		},
		{
			name:        "HTML Instead Of Image",
			contentType: "text/html",
			body:        []byte("<html></html>"),
			status:      http.StatusOK,
			wantErr:     ErrNotImage,
		},
		{
			name:    "No Content Type",
			body:    []byte("??"),
			status:  http.StatusOK,
			wantErr: ErrNotImage,
		},
		{
			name:      "Cancelled",
			status:    http.StatusOK,
			cancelled: true,
			wantErr:   context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				} else {
					w.Header()["Content-Type"] = nil
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if tt.cancelled {
				cancel()
			}

			f := NewArtworkFetcher(zap.NewNop())
			if tt.maxBytes > 0 {
				f.maxBytes = tt.maxBytes
			}
			data, err := f.Fetch(ctx, server.URL+"/cover.jpg")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) != tt.wantLen {
				t.Errorf("expected %d bytes, got %d", tt.wantLen, len(data))
			}
		})
	}
}

func TestArtworkFetcher_RejectsUnresolvableURLs(t *testing.T) {
	f := NewArtworkFetcher(zap.NewNop())

	for _, raw := range []string{
		"/getaa?s=1&u=x-sonos-spotify",
		"",
		"file:///etc/passwd",
		"http://",
		"x-sonos-http:track.mp3",
	} {
		if _, err := f.Fetch(context.Background(), raw); !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("Fetch(%q): expected ErrUnsupportedURL, got %v", raw, err)
		}
	}
}

func TestArtworkFetcher_RequestHeaders(t *testing.T) {
	var agent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent, accept = r.UserAgent(), r.Header.Get("Accept")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	}))
	defer server.Close()

	if _, err := NewArtworkFetcher(zap.NewNop()).Fetch(context.Background(), " "+server.URL+"/art.png "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent != userAgent {
		t.Errorf("expected %q user agent, got %q", userAgent, agent)
	}
	if accept != "image/*" {
		t.Errorf("expected image/* accept header, got %q", accept)
	}
}
