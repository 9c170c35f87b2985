package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvBackend stores the record as a flat file under a base directory.
type DiskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvBackend prepares basePath and returns a backend rooted there.
func NewDiskvBackend(basePath string) (*DiskvBackend, error) {
	if basePath == "" {
		return nil, errors.New("prefs: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("prefs: ensure base path: %w", err)
	}
	return &DiskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:  basePath,
			Transform: flatTransform,
			TempDir:   filepath.Join(basePath, ".tmp"),
			// Other processes rewrite the record; every read goes to disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}, nil
}

// BasePath reports the directory holding the record.
func (b *DiskvBackend) BasePath() string {
	return b.basePath
}

// Read implements Backend.
func (b *DiskvBackend) Read(key string) ([]byte, error) {
	return b.d.Read(key)
}

// Write implements Backend.
func (b *DiskvBackend) Write(key string, val []byte) error {
	return b.d.Write(key, val)
}

func flatTransform(string) []string {
	return []string{}
}

// MemoryBackend keeps records for the lifetime of the process.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Read implements Backend.
func (m *MemoryBackend) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Write implements Backend.
func (m *MemoryBackend) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(val))
	copy(stored, val)
	m.data[key] = stored
	return nil
}
