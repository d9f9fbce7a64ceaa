// Package store holds the client's persistent key-value state, most notably
// the session token written after a successful sign-up or sign-in.
package store

import (
	"errors"
	"fmt"
)

// Kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a string key-value store. Set overwrites any previous value.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open returns the store backend named by kind, rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(dir)
	case KindSQLite:
		return NewSQLiteStore(dir)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("store.Open: unknown store kind %q", kind)
	}
}
