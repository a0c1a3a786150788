package store

import (
	"context"
	errs "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/DaanHessen/agency-terminal/internal/util"
	"github.com/pkg/errors"
)

// Key names the single persisted snapshot in every backend.
const Key = "agencyGameState"

var (
	// ErrNoSnapshot is returned by Load when nothing usable is stored. Decode
	// failures wrap their cause and still match with errors.Is.
	ErrNoSnapshot = errs.New("no snapshot")
	ErrNoChange   = errs.New("no change")
)

// Store persists one GameState snapshot.
type Store interface {
	Save(ctx context.Context, st engine.GameState) error
	Load(ctx context.Context) (engine.GameState, error)
	Close() error
}

// Deleter is implemented by stores that can drop the snapshot.
type Deleter interface {
	Reset(ctx context.Context) error
}

// Open picks a backend from cfg.DSN: empty or "file:<dir>" for the JSON file
// store, "sqlite:<path>" for SQLite, "postgres://" for Postgres. A bare value
// is treated as a directory.
func Open(ctx context.Context, cfg util.Config) (Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch {
	case dsn == "":
		return NewFileStore(cfg.DataDir)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"):
		return NewFileStore(strings.TrimPrefix(dsn, "file:"))
	default:
		return NewFileStore(dsn)
	}
}

// LoadOrNew loads the snapshot, falling back to a fresh state when it is
// missing or unreadable.
func LoadOrNew(ctx context.Context, s Store, now time.Time, logger *slog.Logger) engine.GameState {
	if logger == nil {
		logger = slog.Default()
	}
	st, err := s.Load(ctx)
	switch {
	case err == nil:
		return st
	case err == ErrNoSnapshot:
		logger.Info("no saved game, starting fresh", "component", "store")
	default:
		logger.Warn("saved game unreadable, starting fresh", "component", "store", "error", err)
	}
	return engine.NewGameState(now)
}

// Reset drops the snapshot when the backend supports it.
func Reset(ctx context.Context, s Store) error {
	d, ok := s.(Deleter)
	if !ok {
		return errors.New("store does not support reset")
	}
	return d.Reset(ctx)
}

// snapshotError marks an unreadable snapshot as ErrNoSnapshot while keeping the cause.
type snapshotError struct{ cause error }

func (e *snapshotError) Error() string        { return "no snapshot: " + e.cause.Error() }
func (e *snapshotError) Unwrap() error        { return e.cause }
func (e *snapshotError) Is(target error) bool { return target == ErrNoSnapshot }

func unreadable(err error, msg string) error {
	return &snapshotError{cause: errors.Wrap(err, msg)}
}
