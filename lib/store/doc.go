// Package store provides a typed, namespaced key-value store on top of pluggable
// byte backends.
//
// A Store owns a declared set of keys. Ownership is tracked in a registry.Registry,
// so two stores sharing a registry can never declare the same key. Values are
// converted with a transform.Transformer on the way in and out, and persisted on the
// first backend candidate that passes validation (see backend.Selector).
//
// Key Components:
//
//   - Store: The core type. Get, Set and Remove only accept declared keys and
//     return an UndeclaredKey error for anything else. DeclareKeys replaces the
//     key set, SetBackend switches the backend and moves the stored values.
//
//   - Error System: A structured error reporting mechanism using typed return codes
//     and descriptive messages. Every code has a sentinel (ErrUndeclaredKey,
//     ErrDuplicateKey, ...) usable with errors.Is.
//
//   - Migration: SetBackend reads all declared values from the old backend, removes
//     them there and writes them to the new backend. A failure is reported as a
//     *MigrationError carrying the stage, the failing key and the values that are
//     stored in neither backend.
//
// Usage:
//
//	type User struct {
//		ID   int    `json:"id"`
//		Name string `json:"name"`
//	}
//
//	users, err := store.New[User]([]string{"user", "auth"},
//		store.WithTransformer(transform.JSON[User]()),
//		store.WithBackends[User](backend.Candidates("primary", "secondary")...),
//	)
//	if err != nil {
//		return err
//	}
//	_, err = users.Set("user", User{ID: 10, Name: "Tom"})
//	user, ok, err := users.Get("user")
package store
