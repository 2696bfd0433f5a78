package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/genricoloni/sonowidget/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	// PositionKey is the key the panel position is stored under
	PositionKey = "sonos-widget-position"
	dbFilename  = "sonowidget.db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT
);`

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("key not found")

// Store is a small SQLite backed key/value store for UI preferences
type Store struct {
	logger *zap.Logger
	db     *sql.DB
}

// Open opens (creating if needed) the database at path
func Open(logger *zap.Logger, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000&mode=rwc", path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One widget process, one writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debug("Position store opened", zap.String("path", path))
	return &Store{logger: logger, db: db}, nil
}

// NewStore opens the store inside the configured state directory
func NewStore(logger *zap.Logger, cfg domain.Config) (*Store, error) {
	return Open(logger, filepath.Join(cfg.GetStateDir(), dbFilename))
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// LoadPosition returns the persisted panel position. A missing or unreadable
// value yields the default position and no error.
func (s *Store) LoadPosition(ctx context.Context) (domain.Position, error) {
	raw, err := s.Get(ctx, PositionKey)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultPosition, nil
	}
	if err != nil {
		return domain.DefaultPosition, err
	}

	var pos domain.Position
	if err := json.Unmarshal([]byte(raw), &pos); err != nil || pos.Top < 0 || pos.Right < 0 {
		s.logger.Warn("Ignoring unreadable stored position", zap.String("value", raw))
		return domain.DefaultPosition, nil
	}
	return pos, nil
}

// SavePosition persists pos as {"top":…,"right":…}
func (s *Store) SavePosition(ctx context.Context, pos domain.Position) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	if err := s.Set(ctx, PositionKey, string(data)); err != nil {
		return err
	}
	s.logger.Debug("Position saved", zap.Int("top", pos.Top), zap.Int("right", pos.Right))
	return nil
}
