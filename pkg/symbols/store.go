package symbols

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grafana/dskit/runutil"
	"github.com/spf13/afero"
)

// Store is the local filesystem layer symbol files are cached in.
type Store interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// EnsureDir creates every missing parent directory of the file at
	// path. Parents that already exist are not an error.
	EnsureDir(path string) error
	WriteFile(path string, data []byte) error
	ReadFile(path string) ([]byte, error)
	Remove(path string) error
}

// DiskStore implements Store on an afero filesystem. Production use
// backs it with the OS filesystem; tests use an in-memory one.
type DiskStore struct {
	fs afero.Fs
}

func NewDiskStore(fs afero.Fs) *DiskStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DiskStore{fs: fs}
}

func (s *DiskStore) Exists(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *DiskStore) EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

func (s *DiskStore) WriteFile(path string, data []byte) (err error) {
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer runutil.CloseWithErrCapture(&err, f, "closing %s", path)

	_, err = f.Write(data)
	return err
}

func (s *DiskStore) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

func (s *DiskStore) Remove(path string) error {
	return s.fs.Remove(path)
}
