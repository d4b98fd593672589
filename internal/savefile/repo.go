package savefile

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("save not found")
	ErrInvalidName = errors.New("invalid save name")
)

// DefaultName is where the game keeps its single save slot.
const DefaultName = "saved_game.dd"

// Ext is the extension of save blobs, quarantined ones included.
const Ext = ".dd"

// Repository stores opaque save blobs by name.
type Repository interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Store(ctx context.Context, name string, blob []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	// Quarantine moves a blob that failed to load aside under a timestamped
	// name, so a fresh game can take the slot without losing it.
	Quarantine(ctx context.Context, name string) (string, error)
}

// QuarantineName is the YYYYMMDD-HHMMSS.dd name a corrupt save is moved to.
func QuarantineName(t time.Time) string {
	return t.Format("20060102-150405") + Ext
}

func validName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}

// uniqueName picks base, or base with a -N suffix when taken.
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	stem := strings.TrimSuffix(base, Ext)
	for i := 1; ; i++ {
		n := stem + "-" + strconv.Itoa(i) + Ext
		if !taken(n) {
			return n
		}
	}
}
