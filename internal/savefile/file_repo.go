package savefile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileRepo keeps each save as its own file in one directory.
type FileRepo struct {
	mu  sync.RWMutex
	dir string

	// Now stamps quarantined saves.
	Now func() time.Time
}

func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{dir: dir, Now: time.Now}, nil
}

func (r *FileRepo) Dir() string { return r.dir }

func (r *FileRepo) path(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	return filepath.Join(r.dir, name), nil
}

func (r *FileRepo) Load(ctx context.Context, name string) ([]byte, error) {
	_ = ctx
	p, err := r.path(name)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// Store replaces the save through a temp file and rename, so a crash never
// leaves half a save behind.
func (r *FileRepo) Store(ctx context.Context, name string, blob []byte) error {
	_ = ctx
	p, err := r.path(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(r.dir, "."+name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func (r *FileRepo) Exists(ctx context.Context, name string) (bool, error) {
	_ = ctx
	p, err := r.path(name)
	if err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (r *FileRepo) Quarantine(ctx context.Context, name string) (string, error) {
	_ = ctx
	p, err := r.path(name)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	dst := uniqueName(QuarantineName(r.Now()), func(n string) bool {
		_, err := os.Stat(filepath.Join(r.dir, n))
		return err == nil
	})
	if err := os.Rename(p, filepath.Join(r.dir, dst)); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", name, err)
	}
	return dst, nil
}
