package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SONOWIDGET_BRIDGE_URL",
		"SONOWIDGET_POLL_INTERVAL",
		"SONOWIDGET_CONNECT_TIMEOUT",
		"SONOWIDGET_REQUEST_TIMEOUT",
		"SONOWIDGET_SEARCH_SERVICE",
		"SONOWIDGET_VOLUME_STEP",
		"SONOWIDGET_START_COMMAND",
		"SONOWIDGET_STATE_DIR",
		"SONOWIDGET_NOTIFY",
		"SONOWIDGET_ART",
	} {
		t.Setenv(key, "")
	}
	// Keep .env lookups away from the package directory
	t.Chdir(t.TempDir())
}

func TestNewAppConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewAppConfig(zap.NewNop(), Options{Path: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBridgeURL() != defaultBridgeURL {
		t.Errorf("bridge URL: expected %s, got %s", defaultBridgeURL, cfg.GetBridgeURL())
	}
	if cfg.GetPollInterval() != 3*time.Second {
		t.Errorf("poll interval: expected 3s, got %v", cfg.GetPollInterval())
	}
	if cfg.GetConnectTimeout() != time.Second || cfg.GetRequestTimeout() != 5*time.Second {
		t.Errorf("timeouts: expected 1s/5s, got %v/%v", cfg.GetConnectTimeout(), cfg.GetRequestTimeout())
	}
	if cfg.GetSearchService() != "spotify" {
		t.Errorf("search service: expected spotify, got %s", cfg.GetSearchService())
	}
	if cfg.GetVolumeStep() != 5 {
		t.Errorf("volume step: expected 5, got %d", cfg.GetVolumeStep())
	}
	if !cfg.ArtEnabled() {
		t.Error("art should be enabled by default")
	}
	if cfg.NotifyEnabled() {
		t.Error("notify should be disabled by default")
	}
}

func TestNewAppConfig_Files(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{
			name:     "TOML",
			filename: "config.toml",
			content: `bridge_url = "http://nas:5005/"
poll_interval = "5s"
connect_timeout = "2s"
request_timeout = "8s"
search_service = "apple"
volume_step = 10
notify = true
art = false
`,
		},
		{
			name:     "YAML",
			filename: "config.yaml",
			content: `bridge_url: http://nas:5005/
poll_interval: "5000"
connect_timeout: "2000"
request_timeout: 8s
search_service: apple
volume_step: 10
notify: true
art: false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), tt.filename)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := NewAppConfig(zap.NewNop(), Options{Path: path})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.GetBridgeURL() != "http://nas:5005" {
				t.Errorf("expected trailing slash trimmed, got %s", cfg.GetBridgeURL())
			}
			if cfg.GetPollInterval() != 5*time.Second {
				t.Errorf("expected 5s, got %v", cfg.GetPollInterval())
			}
			if cfg.GetConnectTimeout() != 2*time.Second || cfg.GetRequestTimeout() != 8*time.Second {
				t.Errorf("expected 2s/8s timeouts, got %v/%v", cfg.GetConnectTimeout(), cfg.GetRequestTimeout())
			}
			if cfg.GetSearchService() != "apple" {
				t.Errorf("expected apple, got %s", cfg.GetSearchService())
			}
			if cfg.GetVolumeStep() != 10 {
				t.Errorf("expected 10, got %d", cfg.GetVolumeStep())
			}
			if !cfg.NotifyEnabled() || cfg.ArtEnabled() {
				t.Errorf("expected notify=true art=false, got %v %v", cfg.NotifyEnabled(), cfg.ArtEnabled())
			}
		})
	}
}

func TestNewAppConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`bridge_url = "http://file:5005"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SONOWIDGET_BRIDGE_URL", "http://env:5005")
	t.Setenv("SONOWIDGET_POLL_INTERVAL", "100ms")

	cfg, err := NewAppConfig(zap.NewNop(), Options{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetBridgeURL() != "http://env:5005" {
		t.Errorf("expected env to win, got %s", cfg.GetBridgeURL())
	}
	if cfg.GetPollInterval() != minPollInterval {
		t.Errorf("expected poll interval clamped to %v, got %v", minPollInterval, cfg.GetPollInterval())
	}
}

func TestNewAppConfig_RequestTimeoutCoversConnect(t *testing.T) {
	clearEnv(t)
	t.Setenv("SONOWIDGET_CONNECT_TIMEOUT", "3s")
	t.Setenv("SONOWIDGET_REQUEST_TIMEOUT", "500")

	cfg, err := NewAppConfig(zap.NewNop(), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetConnectTimeout() != 3*time.Second {
		t.Errorf("expected 3s connect timeout, got %v", cfg.GetConnectTimeout())
	}
	if cfg.GetRequestTimeout() != 3*time.Second {
		t.Errorf("expected request timeout raised to 3s, got %v", cfg.GetRequestTimeout())
	}
}

func TestNewAppConfig_OptionOverridesEverything(t *testing.T) {
	clearEnv(t)
	t.Setenv("SONOWIDGET_BRIDGE_URL", "http://env:5005")

	cfg, err := NewAppConfig(zap.NewNop(), Options{BridgeURL: "http://127.0.0.1:4321"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetBridgeURL() != "http://127.0.0.1:4321" {
		t.Errorf("expected demo override, got %s", cfg.GetBridgeURL())
	}
}

func TestNewAppConfig_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := NewAppConfig(zap.NewNop(), Options{Path: filepath.Join(t.TempDir(), "nope.toml")})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"3000", 3 * time.Second, true},
		{"2s", 2 * time.Second, true},
		{"", 0, false},
		{"-1s", 0, false},
		{"soon", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseInterval(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseInterval(%q): expected (%v, %v), got (%v, %v)", tt.input, tt.want, tt.ok, got, ok)
		}
	}
}
