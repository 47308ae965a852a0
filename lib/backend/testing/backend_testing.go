package testing

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/ValentinKolb/nsKV/lib/backend"
)

// BackendFactory is a function that creates a new, empty backend instance
type BackendFactory func(t *testing.T) backend.Backend

// RunBackendTests runs a comprehensive test suite for a backend.Backend implementation.
func RunBackendTests(t *testing.T, name string, factory BackendFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, factory(t))
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory(t))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory(t))
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(t))
		})

		t.Run("Validate", func(t *testing.T) {
			testValidate(t, factory(t))
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the backend supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, b backend.Backend, feature backend.Feature) {
	if !backend.Supports(b, feature) {
		t.Skip()
	}
}

func mustSet(t testing.TB, b backend.Backend, key string, value []byte) {
	t.Helper()
	if err := b.Set(key, value); err != nil {
		t.Fatalf("Set(%s) failed: %v", key, err)
	}
}

func mustGet(t testing.TB, b backend.Backend, key string) ([]byte, bool) {
	t.Helper()
	value, loaded, err := b.Get(key)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", key, err)
	}
	return value, loaded
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, b backend.Backend) {
	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	mustSet(t, b, testKey, testValue1)

	result, exists := mustGet(t, b, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	mustSet(t, b, testKey, testValue2)

	result, exists = mustGet(t, b, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	retrievedValue, _ := mustGet(t, b, testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := mustGet(t, b, testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testGetMissing(t *testing.T, b backend.Backend) {
	value, exists := mustGet(t, b, "nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}
	if len(value) != 0 {
		t.Errorf("Expected no value for nonexistent key, got %q", value)
	}
}

func testRemove(t *testing.T, b backend.Backend) {
	mustSet(t, b, "remove-key", []byte("value"))

	if err := b.Remove("remove-key"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, exists := mustGet(t, b, "remove-key"); exists {
		t.Errorf("Expected key to be gone after Remove")
	}

	if err := b.Remove("remove-key"); err != nil {
		t.Errorf("Removing a missing key should not fail, got %v", err)
	}
}

func testClear(t *testing.T, b backend.Backend) {
	for i := 0; i < 10; i++ {
		mustSet(t, b, fmt.Sprintf("clear-%d", i), []byte("value"))
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, exists := mustGet(t, b, fmt.Sprintf("clear-%d", i)); exists {
			t.Errorf("Expected clear-%d to be gone after Clear", i)
		}
	}

	// the backend must still be usable
	mustSet(t, b, "after-clear", []byte("value"))
	if _, exists := mustGet(t, b, "after-clear"); !exists {
		t.Errorf("Expected backend to accept writes after Clear")
	}
}

func testKeys(t *testing.T, b backend.Backend) {
	requireFeature(t, b, backend.FeatureKeys)

	lister, ok := b.(backend.Lister)
	if !ok {
		t.Fatalf("Backend reports FeatureKeys but does not implement backend.Lister")
	}

	expected := []string{"a", "b/c", "user:1", "ünïcödé"}
	for _, key := range expected {
		mustSet(t, b, key, []byte(key))
	}

	keys, err := lister.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	sort.Strings(keys)

	if len(keys) != len(expected) {
		t.Fatalf("Expected keys %v, got %v", expected, keys)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("Expected key %q at position %d, got %q", expected[i], i, keys[i])
		}
	}
}

func testEdgeCases(t *testing.T, b backend.Backend) {
	// empty value
	mustSet(t, b, "empty-value", []byte{})
	value, exists := mustGet(t, b, "empty-value")
	if !exists {
		t.Errorf("Expected key with empty value to exist")
	}
	if len(value) != 0 {
		t.Errorf("Expected empty value, got %q", value)
	}

	// binary value
	binaryValue := []byte{0, 1, 2, 0xff, 0xfe, 0}
	mustSet(t, b, "binary-value", binaryValue)
	value, _ = mustGet(t, b, "binary-value")
	if !bytes.Equal(value, binaryValue) {
		t.Errorf("Expected binary value %v, got %v", binaryValue, value)
	}

	// keys with separators and unicode
	for _, key := range []string{"with space", "with/slash", "with:colon", "日本語", "..", "a.b"} {
		mustSet(t, b, key, []byte(key))
		value, exists = mustGet(t, b, key)
		if !exists || string(value) != key {
			t.Errorf("Expected key %q to round trip, got %q (exists=%v)", key, value, exists)
		}
	}

	// large value
	large := bytes.Repeat([]byte("x"), 256*1024)
	mustSet(t, b, "large-value", large)
	value, _ = mustGet(t, b, "large-value")
	if !bytes.Equal(value, large) {
		t.Errorf("Expected large value of %d bytes, got %d bytes", len(large), len(value))
	}
}

func testValidate(t *testing.T, b backend.Backend) {
	if err := backend.Validate(b); err != nil {
		t.Fatalf("Expected backend to pass validation, got %v", err)
	}

	// the probe must not leave anything behind
	if lister, ok := b.(backend.Lister); ok {
		keys, err := lister.Keys()
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		for _, key := range keys {
			if backend.IsProbeKey(key) {
				t.Errorf("Probe key %s was not removed", key)
			}
		}
	}
}

func testConcurrent(t *testing.T, b backend.Backend) {
	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("concurrent-%d", i)
			value := []byte(fmt.Sprintf("value-%d", i))
			if err := b.Set(key, value); err != nil {
				errs <- err
				return
			}
			got, loaded, err := b.Get(key)
			if err != nil {
				errs <- err
				return
			}
			if !loaded || !bytes.Equal(got, value) {
				errs <- fmt.Errorf("key %s: expected %s, got %s", key, value, got)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
