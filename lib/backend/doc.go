// Package backend defines the capability contract of storage backends and the
// protocol used to pick one of them.
//
// The package focuses on:
//   - A minimal Backend interface (Set, Get, Remove, Clear) any storage engine can satisfy
//   - Feature discovery through capability flags, as an optional FeatureReporter
//   - Validation of backends before they are used
//   - Selection of the first usable backend out of an ordered candidate list
//
// Key Components:
//
//   - Backend Interface: The raw key-value contract. Values are byte slices; the
//     store package is responsible for transforming typed values into bytes.
//     Clear is required for validation, but never called during normal operation.
//
//   - Feature Flags: Backends may implement FeatureReporter to advertise what they
//     support. Validation requires FeatureRequired (Set|Get|Remove|Clear).
//
//   - Validate: A structural check (capabilities) followed by a functional probe:
//     a real write, read and remove of a disposable key prefixed with
//     ProbeKeyPrefix. The probe detects engines that are disabled, full or that
//     silently drop writes. Panics raised by a backend during the probe are
//     recovered and reported as ErrProbeFailed.
//
//   - Names: The host-supplied mapping of symbolic names ("local", "session", ...)
//     to backend instances.
//
//   - Selector: Resolves candidates (names or instances) in order and returns the
//     first one passing Validate. Failures of individual candidates are logged and
//     counted, but only surface as ErrNoUsableBackend if every candidate failed.
//
// Implementations:
//
//	- memory: in-memory map with optional quota ("session")
//	- sqlite: persistent SQLite database ("local")
//	- disk: one file per key ("disk")
//	- rpc/client: a backend hosted by a remote nskv server ("remote")
//
// The testing package (github.com/ValentinKolb/nsKV/lib/backend/testing) provides
// a conformance test suite for Backend implementations.
package backend
