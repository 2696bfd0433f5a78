package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/sonowidget/internal/domain"
	"go.uber.org/zap"
)

type testConfig struct {
	url     string
	service string
}

func (c testConfig) GetBridgeURL() string             { return c.url }
func (c testConfig) GetPollInterval() time.Duration   { return 3 * time.Second }
func (c testConfig) GetConnectTimeout() time.Duration { return time.Second }
func (c testConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetSearchService() string         { return c.service }
func (c testConfig) GetVolumeStep() int               { return 5 }
func (c testConfig) GetStartCommand() string          { return "" }
func (c testConfig) GetStateDir() string              { return "" }
func (c testConfig) NotifyEnabled() bool              { return false }
func (c testConfig) ArtEnabled() bool                 { return false }

// recorder captures the escaped request paths seen by a test server
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.paths = append(r.paths, req.URL.EscapedPath())
		r.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

func TestClient_Do(t *testing.T) {
	tests := []struct {
		name         string
		cmd          domain.Command
		status       int
		expectedPath string
		expected     domain.Outcome
	}{
		{
			name:         "Play",
			cmd:          Play("Kitchen"),
			status:       http.StatusOK,
			expectedPath: "/Kitchen/play",
			expected:     domain.OutcomeSent,
		},
		{
			name:         "Room With Space Is Escaped",
			cmd:          Pause("Living Room"),
			status:       http.StatusOK,
			expectedPath: "/Living%20Room/pause",
			expected:     domain.OutcomeSent,
		},
		{
			name:         "Volume Step",
			cmd:          VolumeUp("Office", 5),
			status:       http.StatusOK,
			expectedPath: "/Office/volume/+5",
			expected:     domain.OutcomeSent,
		},
		{
			name:         "Join Escapes Coordinator",
			cmd:          JoinGroup("Kitchen", "Living Room"),
			status:       http.StatusOK,
			expectedPath: "/Kitchen/join/Living%20Room",
			expected:     domain.OutcomeSent,
		},
		{
			name:         "Favorite Escapes Name",
			cmd:          PlayFavorite("Kitchen", "Jazz & Blues"),
			status:       http.StatusOK,
			expectedPath: "/Kitchen/favorite/Jazz%20&%20Blues",
			expected:     domain.OutcomeSent,
		},
		{
			name:         "Server Error Still Counts As Sent",
			cmd:          Next("Kitchen"),
			status:       http.StatusInternalServerError,
			expectedPath: "/Kitchen/next",
			expected:     domain.OutcomeSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			server := httptest.NewServer(rec.handler(tt.status, `{"status":"success"}`))
			defer server.Close()

			client := NewClient(zap.NewNop(), testConfig{url: server.URL + "/", service: "spotify"})
			res := client.Do(context.Background(), tt.cmd)

			if res.Outcome != tt.expected {
				t.Errorf("outcome: expected %v, got %v (err: %v)", tt.expected, res.Outcome, res.Err)
			}
			if res.ID == "" {
				t.Error("expected a command ID")
			}
			if got := rec.last(); got != tt.expectedPath {
				t.Errorf("path: expected %s, got %s", tt.expectedPath, got)
			}
		})
	}
}

func TestClient_Do_EmptyRoomIsSkipped(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(http.StatusOK, ""))
	defer server.Close()

	client := NewClient(zap.NewNop(), testConfig{url: server.URL})
	res := client.Do(context.Background(), Play(""))

	if res.Outcome != domain.OutcomeSkipped {
		t.Errorf("expected skipped, got %v", res.Outcome)
	}
	if rec.last() != "" {
		t.Errorf("no request should be sent, got %s", rec.last())
	}
}

func TestClient_Do_UnreachableIsIgnored(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(zap.NewNop(), testConfig{url: url})
	res := client.Do(context.Background(), Play("Kitchen"))

	if res.Outcome != domain.OutcomeIgnored {
		t.Fatalf("expected ignored, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", res.Err)
	}
}

func TestClient_Search(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		status        int
		body          string
		expectedPath  string
		expectedCount int
	}{
		{
			name:          "Short Query Sends Nothing",
			query:         "a",
			expectedCount: 0,
		},
		{
			name:          "Single Multibyte Rune Sends Nothing",
			query:         "é",
			expectedCount: 0,
		},
		{
			name:          "Two Runes Are Searched",
			query:         "éa",
			status:        http.StatusOK,
			body:          `[{"title":"Éalbum"}]`,
			expectedPath:  "/search/spotify/album/%C3%A9a",
			expectedCount: 1,
		},
		{
			name:          "Results Parsed",
			query:         "radio head",
			status:        http.StatusOK,
			body:          `[{"title":"OK Computer","artist":"Radiohead","uri":"x"},{"name":"Kid A"}]`,
			expectedPath:  "/search/spotify/album/radio%20head",
			expectedCount: 2,
		},
		{
			name:          "Malformed Body",
			query:         "abc",
			status:        http.StatusOK,
			body:          `{"error":"not configured"}`,
			expectedPath:  "/search/spotify/album/abc",
			expectedCount: 0,
		},
		{
			name:          "Server Error",
			query:         "abc",
			status:        http.StatusInternalServerError,
			body:          `oops`,
			expectedPath:  "/search/spotify/album/abc",
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			server := httptest.NewServer(rec.handler(tt.status, tt.body))
			defer server.Close()

			client := NewClient(zap.NewNop(), testConfig{url: server.URL, service: "spotify"})
			results := client.Search(context.Background(), tt.query)

			if results == nil {
				t.Fatal("results must never be nil")
			}
			if len(results) != tt.expectedCount {
				t.Errorf("expected %d results, got %d", tt.expectedCount, len(results))
			}
			if got := rec.last(); got != tt.expectedPath {
				t.Errorf("path: expected %q, got %q", tt.expectedPath, got)
			}
		})
	}
}

func TestClient_FetchJSON(t *testing.T) {
	rec := &recorder{}
	server := httptest.NewServer(rec.handler(http.StatusOK, `[]`))
	defer server.Close()

	client := NewClient(zap.NewNop(), testConfig{url: server.URL})
	body, err := client.FetchJSON(context.Background(), "/zones", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("expected [] body, got %q", body)
	}
	if rec.last() != "/zones" {
		t.Errorf("expected /zones, got %s", rec.last())
	}
}

func TestClient_FetchJSON_SlowBridge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(zap.NewNop(), testConfig{url: server.URL})

	// The connect timeout bounds dialing only, not the whole response
	body, err := client.FetchJSON(context.Background(), "/zones", 5*time.Second)
	if err != nil {
		t.Fatalf("slow answer should still arrive: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("expected [] body, got %q", body)
	}

	_, err = client.FetchJSON(context.Background(), "/zones", 200*time.Millisecond)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected request deadline to surface as unreachable, got %v", err)
	}
}

func TestPlayPause(t *testing.T) {
	if got := PlayPause("Kitchen", true); got.Action != ActionPause {
		t.Errorf("playing zone should pause, got %s", got.Action)
	}
	if got := PlayPause("Kitchen", false); got.Action != ActionPlay {
		t.Errorf("idle zone should play, got %s", got.Action)
	}
}
