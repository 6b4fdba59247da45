// Package storage persists mind-map snapshots.
//
// A snapshot is the encoded JSON document of a whole session, stored under
// a single namespaced key ([DefaultKey]). Every backend implements [Store]:
//
//   - [FileStore]: one file per key below a directory (the default)
//   - [RedisStore]: one Redis string per key
//   - [MongoStore]: one document per key in a collection
//   - [SQLiteStore]: one row per key in a local database file
//   - [NullStore]: stores nothing, for sessions without persistence
//
// [Open] builds a backend from [Options]; [Instrument] wraps any store so
// that reads and writes are validated and reported to the observability
// hooks.
//
// A missing key is not an error: Get reports found=false and callers treat
// it as "no prior session".
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
)

// DefaultKey is the key holding the latest session snapshot.
const DefaultKey = "mindmap_v1"

// Store is a key/value store for snapshots.
type Store interface {
	// Get returns the data stored under key. found is false when the key
	// does not exist.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set replaces the data stored under key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string // file backend
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	// ConnectTimeout bounds the initial ping of network backends.
	ConnectTimeout time.Duration
}

// Open creates the backend named by opts.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	var (
		s   Store
		err error
	)
	backend := strings.ToLower(opts.Backend)
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		s, err = asStore(NewFileStore(opts.Dir))
	case BackendNone:
		s = NewNullStore()
	case BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
		s, err = asStore(NewRedisStore(ctx, opts.RedisAddr))
	case BackendMongo:
		ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
		s, err = asStore(NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase))
	case BackendSQLite:
		s, err = asStore(NewSQLiteStore(ctx, opts.SQLitePath))
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "open %s store", backend)
	}
	return s, nil
}

// asStore drops typed nil pointers so a failed constructor yields a nil
// interface.
func asStore[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// BackendName returns the name reported for s in hooks and logs.
func BackendName(s Store) string {
	switch s := s.(type) {
	case *instrumented:
		return s.backend
	case *FileStore:
		return BackendFile
	case *RedisStore:
		return BackendRedis
	case *MongoStore:
		return BackendMongo
	case *SQLiteStore:
		return BackendSQLite
	case *NullStore:
		return BackendNone
	}
	return fmt.Sprintf("%T", s)
}
