// Package testing provides a standardised conformance test suite for
// implementations of the backend.Backend interface.
//
// Example usage:
//
//	func Test(t *testing.T) {
//		backendtesting.RunBackendTests(t, "Memory", func(t *testing.T) backend.Backend {
//			return memory.New(memory.Options{})
//		})
//	}
package testing
