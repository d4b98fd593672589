package savefile

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// Now stamps quarantined saves.
	Now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		blobs: make(map[string][]byte),
		Now:   time.Now,
	}
}

func (r *MemoryRepo) Load(ctx context.Context, name string) ([]byte, error) {
	_ = ctx
	if err := validName(name); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (r *MemoryRepo) Store(ctx context.Context, name string, blob []byte) error {
	_ = ctx
	if err := validName(name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blobs[name] = append([]byte(nil), blob...)
	return nil
}

func (r *MemoryRepo) Exists(ctx context.Context, name string) (bool, error) {
	_ = ctx
	if err := validName(name); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.blobs[name]
	return ok, nil
}

func (r *MemoryRepo) Quarantine(ctx context.Context, name string) (string, error) {
	_ = ctx
	if err := validName(name); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blobs[name]
	if !ok {
		return "", ErrNotFound
	}
	dst := uniqueName(QuarantineName(r.Now()), func(n string) bool {
		_, taken := r.blobs[n]
		return taken
	})
	r.blobs[dst] = b
	delete(r.blobs, name)
	return dst, nil
}
