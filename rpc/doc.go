// Package rpc lets stores use backends hosted by another process. It acts as
// the communication layer between a store's remote backend and the host that
// owns the real storage.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions (HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The remote backend, a backend implementation that forwards every
//     operation to a host.
//
//   - server: The backend host, which opens the configured backends and
//     answers requests for them by name.
package rpc
