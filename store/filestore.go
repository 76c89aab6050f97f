package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one <name>.json file per collection under a data directory.
// Revisions live in memory, which is enough for the single-process deployment
// this backend targets.
type FileStore struct {
	dir string

	mu   sync.Mutex
	revs map[string]int64
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{
		dir:  dir,
		revs: make(map[string]int64),
	}, nil
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.dir, name+".json")
}

func (fs *FileStore) LoadRaw(ctx context.Context, name string) ([]byte, int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.revs[name], nil
		}
		return nil, 0, ErrUnavailable
	}
	return data, fs.revs[name], nil
}

func (fs *FileStore) SaveRaw(ctx context.Context, name string, data []byte, rev int64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if rev != fs.revs[name] {
		return ErrStaleWrite
	}
	if err := os.WriteFile(fs.path(name), data, 0600); err != nil {
		return ErrUnavailable
	}
	fs.revs[name]++
	return nil
}
