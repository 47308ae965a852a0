package store

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/registry"
	"unicode/utf8"
)

// KeysFrom converts a dynamically typed key list into a string slice.
// Accepted inputs are nil, string, []string and []any holding only strings.
// Anything else results in an InvalidKeyType error.
func KeysFrom(v any) ([]string, error) {
	switch keys := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{keys}, nil
	case []string:
		return keys, nil
	case []any:
		out := make([]string, 0, len(keys))
		for i, k := range keys {
			s, ok := k.(string)
			if !ok {
				return nil, NewError(RetCInvalidKeyType, fmt.Sprintf("key at index %d has type %T, expected string", i, k))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, NewError(RetCInvalidKeyType, fmt.Sprintf("keys of type %T are not supported", v))
	}
}

// ValidateKey returns an InvalidKeyType error if key can not be declared.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return NewError(RetCInvalidKeyType, "key must not be empty")
	case !utf8.ValidString(key):
		return NewError(RetCInvalidKeyType, fmt.Sprintf("key %q is not valid utf-8", key))
	case backend.IsProbeKey(key):
		return NewError(RetCInvalidKeyType, fmt.Sprintf("key %q uses the reserved prefix %q", key, backend.ProbeKeyPrefix))
	}
	return nil
}

// normalizeKeys validates keys and drops duplicates, keeping the first occurrence.
func normalizeKeys(keys []string) ([]string, error) {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out, nil
}

// DeclareKeys replaces the store's key set with keys and returns the new key list.
//
// Keys owned by the store but missing from keys are released first, then every
// key is claimed in the registry. If a key is owned by another store a DuplicateKey
// error is returned: keys claimed during the call are released again, the released
// keys are reclaimed and the key list stays unchanged.
// Calling DeclareKeys without arguments releases all keys.
func (s *Store[T]) DeclareKeys(keys ...string) ([]string, error) {
	normalized, err := normalizeKeys(keys)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]struct{}, len(normalized))
	for _, key := range normalized {
		next[key] = struct{}{}
	}

	var released []string
	for _, key := range s.keys {
		if _, ok := next[key]; !ok {
			released = append(released, key)
		}
	}
	s.registry.Release(released...)

	var claimed []string
	for _, key := range normalized {
		if err := s.registry.Declare(key, s.owner); err != nil {
			s.registry.Release(claimed...)
			s.reclaim(released)
			if errors.Is(err, registry.ErrDuplicateKey) {
				return nil, wrapError(RetCDuplicateKey, err, "can not declare key %q", key)
			}
			return nil, wrapError(RetCInternalError, err, "can not declare key %q", key)
		}
		if _, owned := s.declared[key]; !owned {
			claimed = append(claimed, key)
		}
	}

	s.keys = normalized
	s.declared = next
	Logger.Debugf("store %s declared keys %v (released %v)", s.owner, normalized, released)
	return append([]string(nil), normalized...), nil
}

// reclaim declares released keys again after a failed DeclareKeys call.
// Keys taken by another store in the meantime are dropped from the key list.
// The caller must hold s.mu.
func (s *Store[T]) reclaim(released []string) {
	var lost []string
	for _, key := range released {
		if err := s.registry.Declare(key, s.owner); err != nil {
			lost = append(lost, key)
		}
	}
	if len(lost) == 0 {
		return
	}

	Logger.Warningf("store %s lost keys %v while restoring its key list", s.owner, lost)
	keep := s.keys[:0:0]
	for _, key := range s.keys {
		drop := false
		for _, l := range lost {
			if key == l {
				drop = true
				break
			}
		}
		if !drop {
			keep = append(keep, key)
		} else {
			delete(s.declared, key)
		}
	}
	s.keys = keep
}
