package registry

import (
	"errors"
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrDuplicateKey is returned by Declare if the key is owned by a different owner.
var ErrDuplicateKey = errors.New("registry: key already declared by another store")

// Owner identifies the store that currently owns a key.
type Owner string

// Registry tracks which owner currently holds each key name.
//
// Thread-safety: All methods are thread-safe and can be called concurrently.
type Registry struct {
	owners *xsync.MapOf[string, Owner]
}

var defaultRegistry = New()

// New creates an empty registry.
// Most callers want the process-wide registry returned by Default.
func New() *Registry {
	return &Registry{
		owners: xsync.NewMapOf[string, Owner](),
	}
}

// Default returns the process-wide registry shared by all stores that
// were not given an explicit registry.
func Default() *Registry {
	return defaultRegistry
}

// --------------------------------------------------------------------------
// Ownership Operations
// --------------------------------------------------------------------------

// CanDeclare returns true iff no owner currently holds key.
func (r *Registry) CanDeclare(key string) bool {
	_, ok := r.owners.Load(key)
	return !ok
}

// Declare claims key for owner.
// Claiming a key the owner already holds is a no-op. If the key is held by a
// different owner, an error wrapping ErrDuplicateKey is returned.
func (r *Registry) Declare(key string, owner Owner) error {
	actual, loaded := r.owners.LoadOrStore(key, owner)
	if loaded && actual != owner {
		return fmt.Errorf("%w: key %q is owned by %s", ErrDuplicateKey, key, actual)
	}
	return nil
}

// Release unconditionally removes the given keys, regardless of their owner.
func (r *Registry) Release(keys ...string) {
	for _, key := range keys {
		r.owners.Delete(key)
	}
}

// OwnerOf returns the current owner of key.
func (r *Registry) OwnerOf(key string) (Owner, bool) {
	return r.owners.Load(key)
}

// Len returns the number of declared keys.
func (r *Registry) Len() int {
	return r.owners.Size()
}

// Reset removes every entry from the registry.
//
// This is destructive: stores created before the reset keep believing they own
// their keys while other stores may now claim them. Use it in tests only.
func (r *Registry) Reset() {
	r.owners.Clear()
}
