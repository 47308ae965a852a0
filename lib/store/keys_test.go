package store

import (
	"errors"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/backend/memory"
	"reflect"
	"testing"
)

func TestKeysFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected []string
		invalid  bool
	}{
		{"nil", nil, nil, false},
		{"single string", "user", []string{"user"}, false},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}, false},
		{"any slice", []any{"a", "b"}, []string{"a", "b"}, false},
		{"any slice with number", []any{"a", 1}, nil, true},
		{"number", 42, nil, true},
		{"map", map[string]string{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := KeysFrom(tt.input)
			if tt.invalid {
				if !errors.Is(err, ErrInvalidKeyType) {
					t.Fatalf("expected InvalidKeyType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(keys, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, keys)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"user", "a/b", "ключ", " "}
	invalid := []string{"", string([]byte{0xff, 0xfe}), backend.ProbeKeyPrefix + "x"}

	for _, key := range valid {
		if err := ValidateKey(key); err != nil {
			t.Errorf("expected %q to be valid, got %v", key, err)
		}
	}
	for _, key := range invalid {
		if err := ValidateKey(key); !errors.Is(err, ErrInvalidKeyType) {
			t.Errorf("expected %q to be invalid, got %v", key, err)
		}
	}
}

func TestDeclareKeys(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))
	s := newUserStore(t, e, []string{"a", "b", "a"}, "local")

	t.Run("Deduplicate", func(t *testing.T) {
		if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"a", "b"}) {
			t.Errorf("expected [a b], got %v", keys)
		}
		if e.reg.Len() != 2 {
			t.Errorf("expected 2 declared keys, got %d", e.reg.Len())
		}
	})

	t.Run("Replace", func(t *testing.T) {
		keys, err := s.DeclareKeys("b", "c")
		if err != nil {
			t.Fatalf("DeclareKeys failed: %v", err)
		}
		if !reflect.DeepEqual(keys, []string{"b", "c"}) {
			t.Errorf("expected [b c], got %v", keys)
		}
		if owner, ok := e.reg.OwnerOf("a"); ok {
			t.Errorf("expected a to be released, owned by %s", owner)
		}
		if _, err := s.Set("a", user{}); !errors.Is(err, ErrUndeclaredKey) {
			t.Errorf("expected UndeclaredKey for released key, got %v", err)
		}
		if _, err := s.Set("c", user{ID: 3}); err != nil {
			t.Errorf("Set on new key failed: %v", err)
		}
	})

	t.Run("ReleasedKeyIsAvailable", func(t *testing.T) {
		other := newUserStore(t, e, []string{"a"}, "local")
		if other.Keys()[0] != "a" {
			t.Errorf("expected other store to own a")
		}
	})

	t.Run("DuplicateLeavesKeysUnchanged", func(t *testing.T) {
		_, err := s.DeclareKeys("c", "d", "a")
		if !errors.Is(err, ErrDuplicateKey) {
			t.Fatalf("expected DuplicateKey, got %v", err)
		}
		if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"b", "c"}) {
			t.Errorf("expected [b c], got %v", keys)
		}
		if _, ok := e.reg.OwnerOf("d"); ok {
			t.Errorf("expected d to be released after failure")
		}
		if owner, _ := e.reg.OwnerOf("b"); owner != s.Owner() {
			t.Errorf("expected b to be reclaimed, owned by %q", owner)
		}
	})

	t.Run("InvalidKey", func(t *testing.T) {
		if _, err := s.DeclareKeys("ok", ""); !errors.Is(err, ErrInvalidKeyType) {
			t.Errorf("expected InvalidKeyType, got %v", err)
		}
		if keys := s.Keys(); !reflect.DeepEqual(keys, []string{"b", "c"}) {
			t.Errorf("expected [b c], got %v", keys)
		}
	})

	t.Run("ReleaseAll", func(t *testing.T) {
		keys, err := s.DeclareKeys()
		if err != nil {
			t.Fatalf("DeclareKeys failed: %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("expected no keys, got %v", keys)
		}
		if e.reg.Len() != 1 {
			t.Errorf("expected only the other store's key, got %d", e.reg.Len())
		}
	})
}

func TestDeclareKeysIdempotent(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))
	s := newUserStore(t, e, []string{"a", "b"}, "local")
	_, _ = s.Set("a", user{ID: 1})

	keys, err := s.DeclareKeys("a", "b")
	if err != nil {
		t.Fatalf("DeclareKeys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) || !reflect.DeepEqual(s.Keys(), []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v (store %v)", keys, s.Keys())
	}
	if e.reg.Len() != 2 {
		t.Errorf("expected 2 declared keys, got %d", e.reg.Len())
	}
	for _, key := range []string{"a", "b"} {
		if owner, _ := e.reg.OwnerOf(key); owner != s.Owner() {
			t.Errorf("%s: expected owner %s, got %s", key, s.Owner(), owner)
		}
	}
	if value, ok, _ := s.Get("a"); !ok || value.ID != 1 {
		t.Errorf("expected value of a to be kept, got %+v ok=%v", value, ok)
	}
}

func TestDeclareKeysAfterRegistryReset(t *testing.T) {
	e := newEnv()
	e.register("local", memory.New(memory.Options{}))
	s := newUserStore(t, e, []string{"a"}, "local")

	e.reg.Reset()
	if _, err := s.DeclareKeys("a", "b"); err != nil {
		t.Fatalf("DeclareKeys failed: %v", err)
	}
	if owner, _ := e.reg.OwnerOf("a"); owner != s.Owner() {
		t.Errorf("expected a to be declared again")
	}
}
