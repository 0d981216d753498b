package symbols

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store := NewDiskStore(afero.NewMemMapFs())
	path := "/cache/app.pdb/ABC123/app.sym"

	require.False(t, store.Exists(path))

	require.NoError(t, store.EnsureDir(path))
	data := []byte("MODULE windows x86_64 ABC123 app.pdb\nFUNC 1000 10 0 main\n")
	require.NoError(t, store.WriteFile(path, data))

	require.True(t, store.Exists(path))

	got, err := store.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, data, got)

	require.NoError(t, store.Remove(path))
	require.False(t, store.Exists(path))
}

func TestDiskStoreEnsureDirIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(nil)
	path := filepath.Join(dir, "app.pdb", "ABC123", "app.sym")

	require.NoError(t, store.EnsureDir(path))
	require.NoError(t, store.EnsureDir(path))

	require.NoError(t, store.WriteFile(path, []byte("data")))
	require.NoError(t, store.EnsureDir(path))

	got, err := store.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("data"), got)
}

func TestDiskStoreExistsIsFilesOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewDiskStore(fs)

	require.NoError(t, fs.MkdirAll("/cache/app.pdb", 0o755))
	require.False(t, store.Exists("/cache/app.pdb"))
}

func TestDiskStoreWriteTruncates(t *testing.T) {
	store := NewDiskStore(afero.NewMemMapFs())
	path := "/cache/app.sym"

	require.NoError(t, store.EnsureDir(path))
	require.NoError(t, store.WriteFile(path, []byte("first version, quite long")))
	require.NoError(t, store.WriteFile(path, []byte("second")))

	got, err := store.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)
}
