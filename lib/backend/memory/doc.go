// Package memory implements an in-memory backend.Backend.
//
// The backend keeps all values in a map and loses them when the process exits,
// which makes it the natural "session" backend. Two options mimic the failure
// modes of browser storage engines so the validation and fallback logic of the
// backend package can be exercised:
//
//   - MaxBytes: a quota on the summed size of keys and values. Writes that would
//     exceed it fail with ErrQuotaExceeded.
//   - Disabled: every operation fails with ErrDisabled.
//
// Thread Safety:
//
//	All operations are thread-safe.
package memory
