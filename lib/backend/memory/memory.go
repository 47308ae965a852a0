package memory

import (
	"errors"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"sync"
)

var (
	// ErrQuotaExceeded is returned by Set if the write would exceed Options.MaxBytes.
	ErrQuotaExceeded = errors.New("memory: quota exceeded")
	// ErrDisabled is returned by every operation of a disabled backend.
	ErrDisabled = errors.New("memory: storage is disabled")
)

// Options configures the memory backend.
type Options struct {
	// MaxBytes limits the summed size of all keys and values (0 = unlimited).
	MaxBytes int
	// Disabled makes every operation fail, like browser storage that was turned off.
	Disabled bool
}

// Backend implements backend.Backend with a map guarded by a RWMutex
type Backend struct {
	mu       sync.RWMutex
	data     map[string][]byte
	size     int
	maxBytes int
	disabled bool
}

// New creates an empty memory backend.
// Values are not persisted and are lost when the process exits.
func New(opts Options) *Backend {
	return &Backend{
		data:     make(map[string][]byte),
		maxBytes: opts.MaxBytes,
		disabled: opts.Disabled,
	}
}

// SetDisabled turns the backend off or on at runtime.
func (m *Backend) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

// Size returns the summed size of all keys and values in bytes.
func (m *Backend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.Backend)
// --------------------------------------------------------------------------

func (m *Backend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrDisabled
	}

	newSize := m.size + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		newSize -= len(key) + len(old)
	}
	if m.maxBytes > 0 && newSize > m.maxBytes {
		return ErrQuotaExceeded
	}

	m.data[key] = clone(value)
	m.size = newSize
	return nil
}

func (m *Backend) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disabled {
		return nil, false, ErrDisabled
	}

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return clone(value), true, nil
}

func (m *Backend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrDisabled
	}

	if old, ok := m.data[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

func (m *Backend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrDisabled
	}

	m.data = make(map[string][]byte)
	m.size = 0
	return nil
}

func (m *Backend) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disabled {
		return nil, ErrDisabled
	}

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *Backend) SupportsFeature(feature backend.Feature) bool {
	supported := backend.FeatureRequired | backend.FeatureKeys
	return supported&feature == feature
}

// clone copies b so callers can not modify stored values
func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
