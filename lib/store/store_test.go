package store

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/backend/memory"
	"github.com/ValentinKolb/nsKV/lib/registry"
	"github.com/ValentinKolb/nsKV/lib/transform"
	"reflect"
	"sync"
	"testing"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// flakyBackend wraps a memory backend and fails operations for selected keys
type flakyBackend struct {
	*memory.Backend
	failGet    map[string]bool
	failRemove map[string]bool
	failSet    map[string]bool
}

var errFlaky = errors.New("flaky backend")

func newFlaky() *flakyBackend {
	return &flakyBackend{
		Backend:    memory.New(memory.Options{}),
		failGet:    map[string]bool{},
		failRemove: map[string]bool{},
		failSet:    map[string]bool{},
	}
}

func (f *flakyBackend) Get(key string) ([]byte, bool, error) {
	if f.failGet[key] {
		return nil, false, errFlaky
	}
	return f.Backend.Get(key)
}

func (f *flakyBackend) Remove(key string) error {
	if f.failRemove[key] {
		return errFlaky
	}
	return f.Backend.Remove(key)
}

func (f *flakyBackend) Set(key string, value []byte) error {
	if f.failSet[key] {
		return errFlaky
	}
	return f.Backend.Set(key, value)
}

// env bundles an isolated key registry and backend name registry
type env struct {
	reg   *registry.Registry
	names *backend.Names
}

func newEnv() *env {
	return &env{reg: registry.New(), names: backend.NewNames()}
}

func (e *env) register(name string, b backend.Backend) backend.Backend {
	e.names.Register(name, b)
	return b
}

func newUserStore(t *testing.T, e *env, keys []string, backends ...string) *Store[user] {
	t.Helper()
	s, err := New[user](keys,
		WithTransformer(transform.JSON[user]()),
		WithBackends[user](backend.Candidates(backends...)...),
		WithNames[user](e.names),
		WithRegistry[user](e.reg),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestStoreScenario(t *testing.T) {
	e := newEnv()
	e.register("primary", memory.New(memory.Options{Disabled: true}))
	secondary := e.register("secondary", memory.New(memory.Options{}))

	s := newUserStore(t, e, []string{"user", "auth"}, "primary", "secondary")

	if s.BackendName() != "secondary" {
		t.Fatalf("expected backend secondary, got %s", s.BackendName())
	}
	if s.Backend() != secondary {
		t.Fatalf("expected secondary backend instance")
	}

	tom := user{ID: 10, Name: "Tom"}
	got, err := s.Set("user", tom)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got != tom {
		t.Errorf("Set returned %+v, expected %+v", got, tom)
	}

	value, ok, err := s.Get("user")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != tom {
		t.Errorf("Get returned %+v, expected %+v", value, tom)
	}

	if _, err := New[user]([]string{"user"},
		WithTransformer(transform.JSON[user]()),
		WithBackends[user](backend.ByName("secondary")),
		WithNames[user](e.names),
		WithRegistry[user](e.reg),
	); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected DuplicateKey, got %v", err)
	}

	if _, _, err := s.Get("other"); !errors.Is(err, ErrUndeclaredKey) {
		t.Errorf("expected UndeclaredKey, got %v", err)
	}
}

func TestUndeclaredKeyNeverReachesBackend(t *testing.T) {
	e := newEnv()
	b := memory.New(memory.Options{})
	e.register("local", b)
	s := newUserStore(t, e, []string{"user"}, "local")

	// written by someone else, the store does not own "other"
	existing := []byte(`{"id":42,"name":"Eve"}`)
	if err := b.Set("other", existing); err != nil {
		t.Fatalf("seeding backend failed: %v", err)
	}
	size := b.Size()

	if _, err := s.Set("other", user{ID: 1}); !errors.Is(err, ErrUndeclaredKey) {
		t.Errorf("Set: expected UndeclaredKey, got %v", err)
	}
	if got, ok, _ := b.Get("other"); !ok || !bytes.Equal(got, existing) {
		t.Errorf("Set: expected %s to be unchanged, got %s ok=%v", existing, got, ok)
	}

	if err := s.Remove("other"); !errors.Is(err, ErrUndeclaredKey) {
		t.Errorf("Remove: expected UndeclaredKey, got %v", err)
	}
	if got, ok, _ := b.Get("other"); !ok || !bytes.Equal(got, existing) {
		t.Errorf("Remove: expected %s to be unchanged, got %s ok=%v", existing, got, ok)
	}

	if b.Size() != size {
		t.Errorf("expected backend size %d, got %d", size, b.Size())
	}
}

func TestGetAbsentSkipsParse(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))

	parsed := 0
	s, err := New[string]([]string{"k"},
		WithTransformer[string](transform.Funcs[string]{
			ParseFunc: func(raw []byte) (string, error) {
				parsed++
				return string(raw), nil
			},
			StringifyFunc: func(value string) ([]byte, error) {
				return []byte(value), nil
			},
		}),
		WithNames[string](e.names),
		WithRegistry[string](e.reg),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	value, ok, err := s.Get("k")
	if err != nil || ok || value != "" {
		t.Fatalf("expected absent value, got %q ok=%v err=%v", value, ok, err)
	}
	if parsed != 0 {
		t.Errorf("parse was called %d times for an absent value", parsed)
	}

	if _, err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Errorf("expected value to be removed")
	}
}

func TestDefaultTransformers(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))

	s, err := New[[]byte]([]string{"raw"}, WithNames[[]byte](e.names), WithRegistry[[]byte](e.reg))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.BackendName() != backend.DefaultName {
		t.Errorf("expected default backend %s, got %s", backend.DefaultName, s.BackendName())
	}
	if _, err := s.Set("raw", []byte{0, 1, 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := s.Get("raw")
	if err != nil || !ok || !reflect.DeepEqual(value, []byte{0, 1, 2}) {
		t.Errorf("unexpected Get result %v ok=%v err=%v", value, ok, err)
	}
}

func TestTransformerErrors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option[user]
	}{
		{"no default for struct", nil},
		{"nil transformer", []Option[user]{WithTransformer[user](nil)}},
		{"missing parse", []Option[user]{WithTransformer[user](transform.Funcs[user]{
			StringifyFunc: func(user) ([]byte, error) { return nil, nil },
		})}},
		{"missing stringify", []Option[user]{WithTransformer[user](transform.Funcs[user]{
			ParseFunc: func([]byte) (user, error) { return user{}, nil },
		})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			e.register("local", memory.New(memory.Options{}))
			opts := append([]Option[user]{WithNames[user](e.names), WithRegistry[user](e.reg)}, tt.opts...)

			_, err := New[user]([]string{"user"}, opts...)
			if !errors.Is(err, ErrTransformerCapability) {
				t.Fatalf("expected TransformerCapability, got %v", err)
			}
			if e.reg.Len() != 0 {
				t.Errorf("expected no declared keys, got %d", e.reg.Len())
			}
		})
	}
}

func TestTransformFailuresPropagate(t *testing.T) {
	e := newEnv()
	b := memory.New(memory.Options{})
	e.register("local", b)

	errParse := errors.New("parse failed")
	errStringify := errors.New("stringify failed")
	s, err := New[int]([]string{"n"},
		WithTransformer[int](transform.Funcs[int]{
			ParseFunc:     func([]byte) (int, error) { return 0, errParse },
			StringifyFunc: func(int) ([]byte, error) { return nil, errStringify },
		}),
		WithNames[int](e.names),
		WithRegistry[int](e.reg),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.Set("n", 1); err != errStringify {
		t.Errorf("expected stringify error unmodified, got %v", err)
	}
	_ = b.Set("n", []byte("1"))
	if _, _, err := s.Get("n"); err != errParse {
		t.Errorf("expected parse error unmodified, got %v", err)
	}
}

func TestNoUsableBackend(t *testing.T) {
	e := newEnv()
	e.register("broken", memory.New(memory.Options{Disabled: true}))

	_, err := New[string]([]string{"a", "b"},
		WithBackends[string](backend.Candidates("broken", "missing")...),
		WithNames[string](e.names),
		WithRegistry[string](e.reg),
	)
	if !errors.Is(err, ErrNoUsableBackend) {
		t.Fatalf("expected NoUsableBackend, got %v", err)
	}
	if !errors.Is(err, backend.ErrNoUsableBackend) {
		t.Errorf("expected backend.ErrNoUsableBackend in chain, got %v", err)
	}
	if e.reg.Len() != 0 {
		t.Errorf("expected keys to be released, got %d declared", e.reg.Len())
	}
}

func TestSnapshot(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))
	s := newUserStore(t, e, []string{"a", "b", "c"}, "local")

	_, _ = s.Set("a", user{ID: 1})
	_, _ = s.Set("c", user{ID: 3})

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	expected := map[string]user{"a": {ID: 1}, "c": {ID: 3}}
	if !reflect.DeepEqual(snap, expected) {
		t.Errorf("expected %v, got %v", expected, snap)
	}
}

func TestConcurrentAccess(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))

	keys := make([]string, 8)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	s := newUserStore(t, e, keys, "local")

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := s.Set(key, user{ID: i, Name: key}); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
				if _, _, err := s.Get(key); err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
			}
		}(i, key)
	}
	wg.Wait()

	for i, key := range keys {
		value, ok, err := s.Get(key)
		if err != nil || !ok || value.ID != i {
			t.Errorf("unexpected value for %s: %+v ok=%v err=%v", key, value, ok, err)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	err := NewError(RetCUndeclaredKey, "key \"x\" is not declared")
	if !errors.Is(err, ErrUndeclaredKey) {
		t.Errorf("expected error to match its sentinel")
	}
	if errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected error not to match another code")
	}
	if err.Error() != `nskv (code UndeclaredKey): key "x" is not declared` {
		t.Errorf("unexpected message %q", err.Error())
	}

	cause := errors.New("cause")
	wrapped := wrapError(RetCInternalError, cause, "op %s", "get")
	if !errors.Is(wrapped, cause) {
		t.Errorf("expected cause in chain")
	}
	if RetCode(99).String() != "Unknown" {
		t.Errorf("expected unknown code name")
	}
}
