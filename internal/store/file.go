package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/DaanHessen/agency-terminal/internal/util"
	"github.com/pkg/errors"
)

// FileStore keeps the snapshot in <dir>/agencyGameState.json. Writes go to a
// temp file first and are renamed into place.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("missing data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return &FileStore{path: filepath.Join(dir, Key+".json"), now: time.Now}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(_ context.Context, st engine.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := encode(st, s.now())
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(s.path, b, 0o644)
}

func (s *FileStore) Load(_ context.Context) (engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return engine.GameState{}, ErrNoSnapshot
		}
		return engine.GameState{}, errors.Wrap(err, "read snapshot")
	}
	return decode(b, s.now())
}

func (s *FileStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove snapshot")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
