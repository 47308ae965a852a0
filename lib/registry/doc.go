// Package registry implements the process-wide key ownership registry.
//
// Every store declares the keys it intends to use. The registry guarantees that
// at any time a key name is owned by at most one store, so independent consumers
// sharing the same backend can never overwrite each other's values.
//
// Ownership ends when the owning store re-declares a key set that no longer
// contains the key (Release). Reset clears the whole registry and only exists
// for tests.
//
// Usage Example:
//
//	r := registry.Default()
//	if err := r.Declare("user", registry.Owner("store-a")); err != nil {
//		// errors.Is(err, registry.ErrDuplicateKey)
//	}
//	r.Release("user")
package registry
