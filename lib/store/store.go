package store

import (
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/registry"
	"github.com/ValentinKolb/nsKV/lib/transform"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"sync"
)

var Logger = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Option customizes Store construction.
type Option[T any] func(*options[T])

type options[T any] struct {
	transformer    transform.Transformer[T]
	transformerSet bool
	candidates     []backend.Candidate
	names          *backend.Names
	registry       *registry.Registry
}

// WithTransformer sets the transformer used to convert values.
// If not provided, transform.Default[T]() is used, which only exists for []byte and string.
func WithTransformer[T any](t transform.Transformer[T]) Option[T] {
	return func(o *options[T]) {
		o.transformer = t
		o.transformerSet = true
	}
}

// WithBackends sets the ordered list of backend candidates.
// If not provided, the single candidate backend.ByName(backend.DefaultName) is used.
func WithBackends[T any](candidates ...backend.Candidate) Option[T] {
	return func(o *options[T]) {
		o.candidates = candidates
	}
}

// WithNames sets the registry used to resolve backend names.
// If not provided, backend.DefaultNames() is used.
func WithNames[T any](names *backend.Names) Option[T] {
	return func(o *options[T]) {
		if names != nil {
			o.names = names
		}
	}
}

// WithRegistry sets the key registry.
// If not provided, the process-wide registry.Default() is used.
func WithRegistry[T any](r *registry.Registry) Option[T] {
	return func(o *options[T]) {
		if r != nil {
			o.registry = r
		}
	}
}

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

// Store owns a declared set of keys and stores their values on a backend.
// Values of type T are converted with the store's transformer on the way in and out.
//
// Thread-safety: All methods are thread-safe. Get, Set and Remove run concurrently,
// DeclareKeys and SetBackend are exclusive.
type Store[T any] struct {
	mu          sync.RWMutex
	owner       registry.Owner
	registry    *registry.Registry
	selector    *backend.Selector
	keys        []string
	declared    map[string]struct{}
	active      backend.Selection
	transformer transform.Transformer[T]
}

// New creates a store owning keys.
//
// The transformer is validated first, then the keys are declared in the key
// registry and finally the first usable backend candidate is selected. If any
// step fails no keys stay declared.
//
// Usage:
//
//	users, err := store.New[User]([]string{"user", "auth"},
//		store.WithTransformer(transform.JSON[User]()),
//		store.WithBackends[User](backend.Candidates("local", "session")...),
//	)
func New[T any](keys []string, opts ...Option[T]) (*Store[T], error) {
	o := options[T]{
		candidates: []backend.Candidate{backend.ByName(backend.DefaultName)},
		names:      backend.DefaultNames(),
		registry:   registry.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.transformerSet {
		t, ok := transform.Default[T]()
		if !ok {
			var zero T
			return nil, NewError(RetCTransformerCapability, fmt.Sprintf("no default transformer for %T, use WithTransformer", zero))
		}
		o.transformer = t
	}
	if err := transform.Check(o.transformer); err != nil {
		return nil, wrapError(RetCTransformerCapability, err, "invalid transformer")
	}

	s := &Store[T]{
		owner:       registry.Owner(uuid.NewString()),
		registry:    o.registry,
		selector:    backend.NewSelector(o.names),
		declared:    make(map[string]struct{}),
		transformer: o.transformer,
	}

	if _, err := s.DeclareKeys(keys...); err != nil {
		return nil, err
	}

	if err := s.SetBackend(o.candidates...); err != nil {
		_, _ = s.DeclareKeys()
		return nil, err
	}

	Logger.Debugf("created store %s with keys %v on backend %s", s.owner, s.keys, s.active.Name)
	return s, nil
}

// Owner returns the identity the store uses in the key registry.
func (s *Store[T]) Owner() registry.Owner {
	return s.owner
}

// Keys returns the declared keys in declaration order.
// The returned slice is a copy, modifying it does not affect the store.
func (s *Store[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.keys...)
}

// BackendName returns the name of the active backend.
func (s *Store[T]) BackendName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Name
}

// Backend returns the active backend.
func (s *Store[T]) Backend() backend.Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Backend
}

// --------------------------------------------------------------------------
// Value Operations
// --------------------------------------------------------------------------

// Get returns the value for a declared key.
// The boolean return value indicates whether the backend holds a value for the key;
// if it does not, the transformer is not called and the zero value is returned.
func (s *Store[T]) Get(key string) (T, bool, error) {
	var zero T
	countOp("get")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkDeclared(key); err != nil {
		countErr("get")
		return zero, false, err
	}

	raw, loaded, err := s.active.Backend.Get(key)
	if err != nil {
		countErr("get")
		return zero, false, err
	}
	if !loaded {
		return zero, false, nil
	}

	value, err := s.transformer.Parse(raw)
	if err != nil {
		countErr("get")
		return zero, false, err
	}
	return value, true, nil
}

// Set stores the value for a declared key and returns the value unchanged.
func (s *Store[T]) Set(key string, value T) (T, error) {
	var zero T
	countOp("set")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkDeclared(key); err != nil {
		countErr("set")
		return zero, err
	}

	raw, err := s.transformer.Stringify(value)
	if err != nil {
		countErr("set")
		return zero, err
	}

	if err := s.active.Backend.Set(key, raw); err != nil {
		countErr("set")
		return zero, err
	}
	return value, nil
}

// Remove deletes the value for a declared key.
// The backend's result is returned unmodified.
func (s *Store[T]) Remove(key string) error {
	countOp("remove")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkDeclared(key); err != nil {
		countErr("remove")
		return err
	}

	err := s.active.Backend.Remove(key)
	if err != nil {
		countErr("remove")
	}
	return err
}

// Snapshot returns the values of all declared keys that hold a value.
func (s *Store[T]) Snapshot() (map[string]T, error) {
	keys := s.Keys()
	values := make(map[string]T, len(keys))
	for _, key := range keys {
		value, ok, err := s.Get(key)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", key, err)
		}
		if ok {
			values[key] = value
		}
	}
	return values, nil
}

// checkDeclared returns an UndeclaredKey error if key is not owned by the store.
// The caller must hold s.mu.
func (s *Store[T]) checkDeclared(key string) error {
	if _, ok := s.declared[key]; !ok {
		return NewError(RetCUndeclaredKey, fmt.Sprintf("key %q is not declared by this store", key))
	}
	return nil
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

func countOp(op string) {
	metrics.GetOrCreateCounter(`nskv_store_ops_total{op="` + op + `"}`).Inc()
}

func countErr(op string) {
	metrics.GetOrCreateCounter(`nskv_store_errors_total{op="` + op + `"}`).Inc()
}
