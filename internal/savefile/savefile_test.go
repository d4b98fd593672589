package savefile

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newFileRepoForTest(t *testing.T) *FileRepo {
	t.Helper()
	r, err := NewFileRepo(filepath.Join(t.TempDir(), "saves"))
	require.NoError(t, err)
	r.Now = func() time.Time { return fixedNow }
	return r
}

func newMemoryRepoForTest() *MemoryRepo {
	r := NewMemoryRepo()
	r.Now = func() time.Time { return fixedNow }
	return r
}

func TestRepositories(t *testing.T) {
	repos := map[string]func(t *testing.T) Repository{
		"memory": func(*testing.T) Repository { return newMemoryRepoForTest() },
		"file":   func(t *testing.T) Repository { return newFileRepoForTest(t) },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing save", func(t *testing.T) {
				r := newRepo(t)
				_, err := r.Load(ctx, DefaultName)
				assert.ErrorIs(t, err, ErrNotFound)

				ok, err := r.Exists(ctx, DefaultName)
				require.NoError(t, err)
				assert.False(t, ok)

				_, err = r.Quarantine(ctx, DefaultName)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("store overwrites", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Store(ctx, DefaultName, []byte("first")))
				require.NoError(t, r.Store(ctx, DefaultName, []byte("second")))

				b, err := r.Load(ctx, DefaultName)
				require.NoError(t, err)
				assert.Equal(t, "second", string(b))

				ok, err := r.Exists(ctx, DefaultName)
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("quarantine frees the slot", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Store(ctx, DefaultName, []byte("corrupt")))

				moved, err := r.Quarantine(ctx, DefaultName)
				require.NoError(t, err)
				assert.Equal(t, "20260314-092653.dd", moved)

				ok, err := r.Exists(ctx, DefaultName)
				require.NoError(t, err)
				assert.False(t, ok)

				b, err := r.Load(ctx, moved)
				require.NoError(t, err)
				assert.Equal(t, "corrupt", string(b))

				require.NoError(t, r.Store(ctx, DefaultName, []byte("again")))
				second, err := r.Quarantine(ctx, DefaultName)
				require.NoError(t, err)
				assert.Equal(t, "20260314-092653-1.dd", second)
			})

			t.Run("names stay inside the store", func(t *testing.T) {
				r := newRepo(t)
				for _, bad := range []string{"", "..", "../escape.dd", "a/b.dd"} {
					assert.ErrorIs(t, r.Store(ctx, bad, []byte("x")), ErrInvalidName, bad)
				}
			})
		})
	}
}

func TestMemoryRepo_CopiesBlobs(t *testing.T) {
	ctx := context.Background()
	r := newMemoryRepoForTest()
	blob := []byte("abc")
	require.NoError(t, r.Store(ctx, DefaultName, blob))
	blob[0] = 'x'

	got, err := r.Load(ctx, DefaultName)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileRepo_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	r := newFileRepoForTest(t)
	require.NoError(t, r.Store(ctx, DefaultName, []byte("{}")))

	entries, err := os.ReadDir(r.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultName, entries[0].Name())
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newFileRepoForTest(t)
	require.NoError(t, r.Store(ctx, DefaultName, []byte(`{"version":1}`)))
	require.NoError(t, r.Store(ctx, "old.dd", []byte(`{"version":0}`)))
	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "notes.txt"), []byte("skip"), 0o644))

	archive := filepath.Join(t.TempDir(), "backups", "saves.tar.gz")
	packed, err := Backup(r.Dir(), archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.dd", DefaultName}, packed)

	out := filepath.Join(t.TempDir(), "restored")
	restored, err := Restore(archive, out)
	require.NoError(t, err)
	assert.ElementsMatch(t, packed, restored)

	b, err := os.ReadFile(filepath.Join(out, DefaultName))
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(b))
	_, err = os.Stat(filepath.Join(out, "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.dd",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	_, err = Restore(archive, filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, ErrInvalidName)
}
