// Package jsonfile stores record collections as JSON arrays on disk.
//
// Each collection lives in <dir>/<name>.json and is always read and written
// whole. Writes go to a temporary file that is renamed over the original, so
// readers never observe a partial file. Read-modify-write cycles on the same
// collection are serialized in-process; running several processes against one
// directory is not supported.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// Store owns a data directory and one lock per collection.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open prepares dir for use, creating it when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", domain.ErrStorage, err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Ping checks that the data directory is still writable.
func (s *Store) Ping(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("%w: data dir not writable: %v", domain.ErrStorage, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Collection is a typed view over one named collection of a Store.
type Collection[T any] struct {
	store *Store
	name  string
}

// NewCollection binds name to records of type T.
func NewCollection[T any](store *Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// LoadAll reads the whole collection. A collection that was never written is
// empty.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readRecords[T](c.store.path(c.name), c.name)
}

// readRecords decodes a JSON array file. A missing or empty file is an empty
// collection.
func readRecords[T any](path, name string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, name, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStorage, name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// SaveAll replaces the collection with records.
func (c *Collection[T]) SaveAll(ctx context.Context, records []T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()
	return c.write(ctx, records)
}

// Update loads the collection, applies fn and writes the result back while
// holding the collection lock. If fn returns an error nothing is written and
// the error is returned unchanged.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := c.LoadAll(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.write(ctx, next)
}

func (c *Collection[T]) write(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorage, c.name, err)
	}

	tmp, err := os.CreateTemp(c.store.dir, c.name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, c.name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, c.name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrStorage, c.name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorage, c.name, err)
	}
	if err := os.Rename(tmpName, c.store.path(c.name)); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorage, c.name, err)
	}
	return nil
}
