package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultBridgeURL     = "http://localhost:5005"
	defaultPollInterval  = 3000 * time.Millisecond
	defaultConnect       = time.Second
	defaultRequest       = 5 * time.Second
	defaultSearchService = "spotify"
	defaultVolumeStep    = 5
	defaultStateDir      = "~/.local/state/sonowidget"
	defaultConfigFile    = "~/.config/sonowidget/config.toml"
	minPollInterval      = 500 * time.Millisecond
)

// Options carries command line overrides into the configuration
type Options struct {
	// Path to a TOML or YAML config file; empty means the default location
	Path string
	// BridgeURL overrides every other source when set (used by demo mode)
	BridgeURL string
}

// fileConfig mirrors the on-disk config file
type fileConfig struct {
	BridgeURL      string `toml:"bridge_url" yaml:"bridge_url"`
	PollInterval   string `toml:"poll_interval" yaml:"poll_interval"`
	ConnectTimeout string `toml:"connect_timeout" yaml:"connect_timeout"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout"`
	SearchService  string `toml:"search_service" yaml:"search_service"`
	VolumeStep     int    `toml:"volume_step" yaml:"volume_step"`
	StartCommand   string `toml:"start_command" yaml:"start_command"`
	StateDir       string `toml:"state_dir" yaml:"state_dir"`
	Notify         *bool  `toml:"notify" yaml:"notify"`
	Art            *bool  `toml:"art" yaml:"art"`
}

// AppConfig holds application configuration
type AppConfig struct {
	logger         *zap.Logger
	bridgeURL      string
	pollInterval   time.Duration
	connectTimeout time.Duration
	requestTimeout time.Duration
	searchService  string
	volumeStep     int
	startCommand   string
	stateDir       string
	notify         bool
	art            bool
}

// NewAppConfig builds the configuration from defaults, the optional config
// file, a .env file and the environment, in increasing precedence.
func NewAppConfig(logger *zap.Logger, opts Options) (*AppConfig, error) {
	cfg := &AppConfig{
		logger:         logger,
		bridgeURL:      defaultBridgeURL,
		pollInterval:   defaultPollInterval,
		connectTimeout: defaultConnect,
		requestTimeout: defaultRequest,
		searchService:  defaultSearchService,
		volumeStep:     defaultVolumeStep,
		stateDir:       defaultStateDir,
		art:            true,
	}

	path := opts.Path
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	path = expandHome(path)

	fc, err := readFile(path)
	switch {
	case err == nil:
		cfg.applyFile(fc)
		logger.Debug("Config file loaded", zap.String("path", path))
	case os.IsNotExist(err) && !explicit:
		logger.Debug("No config file, using defaults", zap.String("path", path))
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	cfg.applyEnv()

	if opts.BridgeURL != "" {
		cfg.bridgeURL = opts.BridgeURL
	}

	cfg.bridgeURL = strings.TrimRight(cfg.bridgeURL, "/")
	cfg.stateDir = expandHome(os.ExpandEnv(cfg.stateDir))
	if cfg.pollInterval < minPollInterval {
		cfg.pollInterval = minPollInterval
	}
	if cfg.volumeStep <= 0 {
		cfg.volumeStep = defaultVolumeStep
	}
	if cfg.requestTimeout < cfg.connectTimeout {
		cfg.requestTimeout = cfg.connectTimeout
	}

	logger.Info("Configuration loaded",
		zap.String("bridgeURL", cfg.bridgeURL),
		zap.Duration("pollInterval", cfg.pollInterval),
		zap.Duration("connectTimeout", cfg.connectTimeout),
		zap.Duration("requestTimeout", cfg.requestTimeout),
		zap.String("searchService", cfg.searchService),
		zap.String("stateDir", cfg.stateDir),
		zap.Bool("notify", cfg.notify),
		zap.Bool("art", cfg.art))

	return cfg, nil
}

// readFile decodes a TOML or YAML config file depending on its extension
func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		_, err = toml.Decode(string(data), &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("failed to decode: %w", err)
	}
	return fc, nil
}

func (c *AppConfig) applyFile(fc fileConfig) {
	if fc.BridgeURL != "" {
		c.bridgeURL = fc.BridgeURL
	}
	if d, ok := parseInterval(fc.PollInterval); ok {
		c.pollInterval = d
	}
	if d, ok := parseInterval(fc.ConnectTimeout); ok {
		c.connectTimeout = d
	}
	if d, ok := parseInterval(fc.RequestTimeout); ok {
		c.requestTimeout = d
	}
	if fc.SearchService != "" {
		c.searchService = fc.SearchService
	}
	if fc.VolumeStep > 0 {
		c.volumeStep = fc.VolumeStep
	}
	if fc.StartCommand != "" {
		c.startCommand = fc.StartCommand
	}
	if fc.StateDir != "" {
		c.stateDir = fc.StateDir
	}
	if fc.Notify != nil {
		c.notify = *fc.Notify
	}
	if fc.Art != nil {
		c.art = *fc.Art
	}
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("SONOWIDGET_BRIDGE_URL"); v != "" {
		c.bridgeURL = v
	}
	if d, ok := parseInterval(os.Getenv("SONOWIDGET_POLL_INTERVAL")); ok {
		c.pollInterval = d
	}
	if d, ok := parseInterval(os.Getenv("SONOWIDGET_CONNECT_TIMEOUT")); ok {
		c.connectTimeout = d
	}
	if d, ok := parseInterval(os.Getenv("SONOWIDGET_REQUEST_TIMEOUT")); ok {
		c.requestTimeout = d
	}
	if v := os.Getenv("SONOWIDGET_SEARCH_SERVICE"); v != "" {
		c.searchService = v
	}
	if v, err := strconv.Atoi(os.Getenv("SONOWIDGET_VOLUME_STEP")); err == nil && v > 0 {
		c.volumeStep = v
	}
	if v := os.Getenv("SONOWIDGET_START_COMMAND"); v != "" {
		c.startCommand = v
	}
	if v := os.Getenv("SONOWIDGET_STATE_DIR"); v != "" {
		c.stateDir = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SONOWIDGET_NOTIFY")); err == nil {
		c.notify = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SONOWIDGET_ART")); err == nil {
		c.art = v
	}
}

// parseInterval accepts Go durations ("3s") and bare milliseconds ("3000")
func parseInterval(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, ms > 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LogPath returns where the log file goes. It only consults the environment
// because the logger is built before the config file is read.
func LogPath() string {
	dir := os.Getenv("SONOWIDGET_STATE_DIR")
	if dir == "" {
		dir = defaultStateDir
	}
	return filepath.Join(expandHome(os.ExpandEnv(dir)), "sonowidget.log")
}

// GetBridgeURL returns the base URL of node-sonos-http-api
func (c *AppConfig) GetBridgeURL() string {
	return c.bridgeURL
}

// GetPollInterval returns the delay between two polls
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetConnectTimeout returns how long dialing the bridge may take
func (c *AppConfig) GetConnectTimeout() time.Duration {
	return c.connectTimeout
}

// GetRequestTimeout returns the deadline for a single poll request
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return c.requestTimeout
}

// GetSearchService returns the music service used by search
func (c *AppConfig) GetSearchService() string {
	return c.searchService
}

// GetVolumeStep returns the volume delta for one up/down press
func (c *AppConfig) GetVolumeStep() int {
	return c.volumeStep
}

// GetStartCommand returns the shell command that starts the bridge
func (c *AppConfig) GetStartCommand() string {
	return c.startCommand
}

// GetStateDir returns the directory for the database and log file
func (c *AppConfig) GetStateDir() string {
	return c.stateDir
}

// NotifyEnabled reports whether desktop notifications are on
func (c *AppConfig) NotifyEnabled() bool {
	return c.notify
}

// ArtEnabled reports whether album art thumbnails are drawn
func (c *AppConfig) ArtEnabled() bool {
	return c.art
}
