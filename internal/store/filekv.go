package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// FileKV is the on-device KeyValueStore: one zstd-compressed file per key
// under a state directory. A byte quota on compressed values models the
// capacity limits of a browser-profile store; writes over quota fail with
// ErrCapacity so the asset store can degrade instead of crashing.
type FileKV struct {
	dir        string
	quotaBytes int
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
}

// DefaultQuotaBytes is the per-value quota for compressed writes. Generous
// for text values; a history of 20 inline images can exceed it.
const DefaultQuotaBytes = 8 << 20

// NewFileKV creates the state directory if needed and returns a file-backed
// store. quotaBytes of 0 disables the quota.
func NewFileKV(dir string, quotaBytes int) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &FileKV{dir: dir, quotaBytes: quotaBytes, encoder: encoder, decoder: decoder}, nil
}

// Get reads and decompresses the value for key. Returns (nil, nil) when the
// key does not exist.
func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	value, err := f.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", key, err)
	}
	return value, nil
}

// Set compresses and writes the value for key, enforcing the quota on the
// compressed size.
func (f *FileKV) Set(key string, value []byte) error {
	compressed := f.encoder.EncodeAll(value, nil)
	if f.quotaBytes > 0 && len(compressed) > f.quotaBytes {
		log.Debug().
			Str("key", key).
			Int("compressed_bytes", len(compressed)).
			Int("quota_bytes", f.quotaBytes).
			Msg("Write exceeds store quota")
		return fmt.Errorf("%w: %s is %d bytes compressed (quota %d)", ErrCapacity, key, len(compressed), f.quotaBytes)
	}

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value for key. Removing an absent key is not an error.
func (f *FileKV) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".zst")
}

var _ KeyValueStore = (*FileKV)(nil)
