package disk

import (
	"encoding/base64"
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/peterbourgon/diskv/v3"
	"io/fs"
)

const defaultCacheSizeMax = 1024 * 1024 // 1 MiB

// Options configures the disk backend.
type Options struct {
	// BasePath is the directory all values are written to.
	BasePath string
	// CacheSizeMax is the size of the in-memory read cache in bytes (0 = 1 MiB).
	CacheSizeMax uint64
}

// Backend implements backend.Backend with one file per key.
type Backend struct {
	d *diskv.Diskv
}

// New creates a disk backend rooted at opts.BasePath.
// The directory is created on the first write.
func New(opts Options) (*Backend, error) {
	if opts.BasePath == "" {
		return nil, errors.New("disk: base path is required")
	}
	if opts.CacheSizeMax == 0 {
		opts.CacheSizeMax = defaultCacheSizeMax
	}

	d := diskv.New(diskv.Options{
		BasePath:     opts.BasePath,
		CacheSizeMax: opts.CacheSizeMax,
	})
	return &Backend{d: d}, nil
}

// BasePath returns the directory the backend writes to.
func (b *Backend) BasePath() string {
	return b.d.BasePath
}

// --------------------------------------------------------------------------
// Key encoding
// --------------------------------------------------------------------------

// Store keys may contain path separators, so file names are base64url encoded.

func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeKey(name string) (string, error) {
	key, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", fmt.Errorf("disk: invalid file name %q: %w", name, err)
	}
	return string(key), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.Backend)
// --------------------------------------------------------------------------

func (b *Backend) Set(key string, value []byte) error {
	if err := b.d.Write(encodeKey(key), value); err != nil {
		return fmt.Errorf("disk: set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Get(key string) ([]byte, bool, error) {
	value, err := b.d.Read(encodeKey(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("disk: get %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (b *Backend) Remove(key string) error {
	err := b.d.Erase(encodeKey(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disk: remove %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Clear() error {
	if err := b.d.EraseAll(); err != nil {
		return fmt.Errorf("disk: clear: %w", err)
	}
	return nil
}

func (b *Backend) Keys() ([]string, error) {
	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	for name := range b.d.Keys(cancel) {
		key, err := decodeKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (b *Backend) SupportsFeature(feature backend.Feature) bool {
	supported := backend.FeatureRequired | backend.FeatureKeys | backend.FeaturePersistent
	return supported&feature == feature
}
