package store

import (
	"context"
	"database/sql"
	errs "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps the snapshot as a JSON payload in a key/value table.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key      TEXT PRIMARY KEY,
	payload  BLOB NOT NULL,
	version  INTEGER NOT NULL,
	saved_at TEXT NOT NULL
)`

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("missing sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create sqlite dir")
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create kv table")
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st engine.GameState) error {
	now := s.now()
	b, err := encode(st, now)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kv(key, payload, version, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, version = excluded.version, saved_at = excluded.saved_at`,
		Key, b, snapshotVersion, now.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "upsert snapshot")
}

func (s *SQLiteStore) Load(ctx context.Context) (engine.GameState, error) {
	var payload []byte
	if err := s.db.GetContext(ctx, &payload, `SELECT payload FROM kv WHERE key = ?`, Key); err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return engine.GameState{}, ErrNoSnapshot
		}
		return engine.GameState{}, errors.Wrap(err, "select snapshot")
	}
	return decode(payload, s.now())
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, Key)
	return errors.Wrap(err, "delete snapshot")
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
