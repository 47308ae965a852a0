// Package sqlite implements a persistent backend.Backend using the pure-Go
// SQLite driver modernc.org/sqlite.
//
// All values live in a single table (nskv_entries) keyed by the store key.
// The database runs in WAL mode. It is the conventional "local" backend of the
// nskv command.
package sqlite
