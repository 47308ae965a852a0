package backend

import (
	"errors"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrMissingCapability is returned by Validate if a backend lacks a required operation.
	ErrMissingCapability = errors.New("backend: missing capability")
	// ErrProbeFailed is returned by Validate if the functional write/read/remove probe fails.
	ErrProbeFailed = errors.New("backend: probe failed")
	// ErrNoUsableBackend is returned by Select if no candidate passed validation.
	ErrNoUsableBackend = errors.New("backend: no usable backend")
	// ErrUnknownBackend is returned if a backend name is not registered.
	ErrUnknownBackend = errors.New("backend: unknown backend name")
)

// --------------------------------------------------------------------------
// Feature Flags
// --------------------------------------------------------------------------

// Feature represents backend capabilities as bit flags
type Feature uint64

const (
	FeatureSet        Feature = 1 << iota // Support for Set operations
	FeatureGet                            // Support for Get operations
	FeatureRemove                         // Support for Remove operations
	FeatureClear                          // Support for Clear operations
	FeatureKeys                           // Support for listing keys (Lister)
	FeaturePersistent                     // Values survive a process restart
)

// FeatureRequired is the set of features every backend must support to pass validation.
const FeatureRequired = FeatureSet | FeatureGet | FeatureRemove | FeatureClear

// requiredFeatures lists FeatureRequired flag by flag, for error messages
var requiredFeatures = []Feature{FeatureSet, FeatureGet, FeatureRemove, FeatureClear}

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureRemove:
		return "Remove"
	case FeatureClear:
		return "Clear"
	case FeatureKeys:
		return "Keys"
	case FeaturePersistent:
		return "Persistent"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Backend Interface
// --------------------------------------------------------------------------

// Backend is the capability contract every storage backend must satisfy.
// Backends are borrowed by stores, never owned: a store will not close them.
type Backend interface {
	// Set inserts or updates the raw value for a key.
	// It may fail if the backend is full or unavailable.
	Set(key string, value []byte) (err error)
	// Get returns the raw value for a key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)
	// Remove deletes the value for a key. Removing a missing key is not an error.
	Remove(key string) (err error)
	// Clear deletes every value held by the backend.
	// Stores never call it during normal operation, but it must be available.
	Clear() (err error)
}

// FeatureReporter is implemented by backends that can report which features they support.
// Backends that do not implement it are assumed to support FeatureRequired.
type FeatureReporter interface {
	// SupportsFeature checks if the backend supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	// Keys returns every key currently held by the backend, in no particular order.
	Keys() (keys []string, err error)
}

// Supports reports whether b supports feature.
// Backends that do not implement FeatureReporter only report FeatureRequired
// (plus FeatureKeys if they implement Lister).
func Supports(b Backend, feature Feature) bool {
	if r, ok := b.(FeatureReporter); ok {
		return r.SupportsFeature(feature)
	}
	supported := FeatureRequired
	if _, ok := b.(Lister); ok {
		supported |= FeatureKeys
	}
	return supported&feature == feature
}
