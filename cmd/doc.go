// Package cmd implements the command-line interface of nsKV. It provides a
// hierarchical command structure for hosting backends and working with stores.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for store operations (get, set, del, dump, migrate, perf)
//   - serve: Commands for starting and configuring the backend host
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See nskv -help for a list of all commands.
package cmd
