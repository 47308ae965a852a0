// Package disk implements a persistent backend.Backend that stores every value
// in its own file, using github.com/peterbourgon/diskv.
//
// File names are the base64url encoding of the key, so keys may contain any
// character including path separators. Recently read values are kept in a
// bounded in-memory cache.
package disk
