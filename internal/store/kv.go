package store

import "errors"

// ErrCapacity is returned by a KeyValueStore when a write exceeds the
// backing store's capacity. The asset store reacts by trimming history and
// retrying; it never propagates this error.
var ErrCapacity = errors.New("storage capacity exceeded")

// KeyValueStore is the persistence collaborator: a small key-value byte
// store. Get returns (nil, nil) when the key does not exist. Set performs
// full-value replacement and may fail with ErrCapacity.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
