// Package prefs persists user layout preferences as a single JSON record.
//
// Persistence is best effort: reads of a missing or corrupt record yield an
// empty record and failed writes are dropped after logging. No operation in
// this package returns an error to the caller of Get or Set.
package prefs

import (
	"encoding/json"
	"errors"
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/metric"
)

// StorageKey is the backend key the whole preference record is written under.
const StorageKey = "sidenav-preferences"

// Preferences maps a preference key to any JSON-serialisable value.
type Preferences map[string]any

// Keys returns the preference keys in sorted order.
func (p Preferences) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Backend is the durable byte store behind a Store.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
}

// Store reads and writes the preference record through a Backend.
type Store struct {
	backend  Backend
	basePath string
	log      *zap.Logger
	writes   metric.IncrementalCounter
}

// Option customises a Store.
type Option func(*Store)

// WithLogger routes best-effort failures to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = logging.OrNop(l) }
}

// WithWriteCounter counts Set calls by preference key.
func WithWriteCounter(c metric.IncrementalCounter) Option {
	return func(s *Store) { s.writes = c }
}

// New wraps an existing backend.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a Store persisted under cfg's base path. When the disk
// backend cannot be prepared the store falls back to session-only memory.
func Open(cfg Config, opts ...Option) *Store {
	s := New(nil, opts...)
	backend, err := NewDiskvBackend(cfg.BasePath())
	if err != nil {
		s.log.Warn("prefs: disk backend unavailable, keeping preferences in memory",
			zap.String("path", cfg.BasePath()), zap.Error(err))
		s.backend = NewMemoryBackend()
		return s
	}
	s.backend = backend
	s.basePath = backend.BasePath()
	return s
}

// Get returns the value stored for key. The boolean is false when the key is
// absent or the record could not be read.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.read()[key]
	return v, ok
}

// GetString returns the value for key when it is a string, else def.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// GetBool returns the value for key when it is a bool, else def.
func (s *Store) GetBool(key string, def bool) bool {
	if v, ok := s.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// All returns a copy of the whole record.
func (s *Store) All() Preferences {
	return s.read()
}

// Set merges key=value into the record and writes it back. A failed write is
// logged and otherwise ignored.
func (s *Store) Set(key string, value any) {
	record := s.read()
	record[key] = value

	data, err := json.Marshal(record)
	if err != nil {
		s.log.Debug("prefs: encode record", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.backend.Write(StorageKey, data); err != nil {
		s.log.Debug("prefs: write record", zap.String("key", key), zap.Error(err))
		return
	}
	if s.writes != nil {
		s.writes.Increment(key)
	}
}

func (s *Store) read() Preferences {
	if s.backend == nil {
		return Preferences{}
	}
	data, err := s.backend.Read(StorageKey)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("prefs: read record", zap.Error(err))
		}
		return Preferences{}
	}
	if len(data) == 0 {
		return Preferences{}
	}
	var record Preferences
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Debug("prefs: decode record", zap.Error(err))
		return Preferences{}
	}
	if record == nil {
		return Preferences{}
	}
	return record
}
