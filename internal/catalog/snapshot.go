package catalog

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/lunarhue/storefront/internal/domain/product"
)

// Snapshot persists the raw catalog payload gzip-compressed on disk so a
// restart within the cache TTL can warm the cache without a network call.
// The file modification time doubles as the fetch timestamp.
type Snapshot struct {
	path string
}

// NewSnapshot creates a snapshot handle. An empty path disables snapshotting;
// Write becomes a no-op and Load always misses.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Enabled reports whether a snapshot path is configured.
func (s *Snapshot) Enabled() bool {
	return s.path != ""
}

// Write stores the raw payload, atomically replacing any previous snapshot.
func (s *Snapshot) Write(raw []byte) error {
	if !s.Enabled() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}

	zw := pgzip.NewWriter(f)
	if _, err := zw.Write(raw); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "compress snapshot")
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "close gzip writer")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close snapshot file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}

// Load reads the snapshot back, returning the decoded products and the
// snapshot time. ok is false when no snapshot exists or it cannot be read.
func (s *Snapshot) Load() (products []product.Product, at time.Time, ok bool) {
	if !s.Enabled() {
		return nil, time.Time{}, false
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, time.Time{}, false
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, time.Time{}, false
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, time.Time{}, false
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, time.Time{}, false
	}

	products, err = DecodeProducts(raw)
	if err != nil {
		return nil, time.Time{}, false
	}
	return products, info.ModTime(), true
}
