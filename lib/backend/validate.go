package backend

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProbeKeyPrefix is the prefix of the disposable keys written by Validate.
// Stores refuse to declare keys with this prefix.
const ProbeKeyPrefix = "__nskv_probe__"

// IsProbeKey reports whether key is reserved for backend probes.
func IsProbeKey(key string) bool {
	return strings.HasPrefix(key, ProbeKeyPrefix)
}

// Validate checks that b can be used as an active backend.
//
//  1. Structural check: b must not be nil and must support every feature in
//     FeatureRequired. Failing this returns an error wrapping ErrMissingCapability.
//  2. Functional probe: a real write, read and remove of a disposable key. This
//     detects backends that are disabled or full. Any error, a panic or a
//     read-back mismatch returns an error wrapping ErrProbeFailed.
func Validate(b Backend) error {
	if b == nil {
		return fmt.Errorf("%w: backend is nil", ErrMissingCapability)
	}
	if r, ok := b.(FeatureReporter); ok {
		if err := checkFeatures(r); err != nil {
			return err
		}
	}
	return probe(b)
}

// checkFeatures asks r once for FeatureRequired and names the missing flags
// only if that fails. A panicking reporter counts as missing every feature.
func checkFeatures(r FeatureReporter) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: feature report panicked: %v", ErrMissingCapability, rec)
		}
	}()

	if r.SupportsFeature(FeatureRequired) {
		return nil
	}

	var missing []string
	for _, f := range requiredFeatures {
		if !r.SupportsFeature(f) {
			missing = append(missing, f.String())
		}
	}
	if len(missing) == 0 {
		return fmt.Errorf("%w: required features are not supported together", ErrMissingCapability)
	}
	return fmt.Errorf("%w: %s not supported", ErrMissingCapability, strings.Join(missing, ", "))
}

// probe writes, reads and removes a key derived from the current time.
func probe(b Backend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: backend panicked: %v", ErrProbeFailed, r)
		}
	}()

	key := ProbeKeyPrefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	value := []byte(key)

	if err := b.Set(key, value); err != nil {
		return fmt.Errorf("%w: set: %w", ErrProbeFailed, err)
	}

	got, loaded, err := b.Get(key)
	if err != nil || !loaded || !bytes.Equal(got, value) {
		// best effort, the probe already failed
		_ = b.Remove(key)
		if err != nil {
			return fmt.Errorf("%w: get: %w", ErrProbeFailed, err)
		}
		return fmt.Errorf("%w: value written to %s was not read back", ErrProbeFailed, key)
	}

	if err := b.Remove(key); err != nil {
		return fmt.Errorf("%w: remove: %w", ErrProbeFailed, err)
	}
	return nil
}
