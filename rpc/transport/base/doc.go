// Package base provides the socket transport shared by the tcp and unix
// transports. It implements the RPC client and server once and leaves only
// dialing and listening to protocol-specific connectors.
//
// Frame format (all integers big endian):
//
//	+-----------+-----------+-----------+--------------+---------+
//	| name len  | requestID | data len  | backend name | payload |
//	| 2 bytes   | 8 bytes   | 4 bytes   | N bytes      | M bytes |
//	+-----------+-----------+-----------+--------------+---------+
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Manages multiple connections per endpoint with round-robin
//     load balancing. Requests are multiplexed on a connection and correlated by
//     requestID, so a connection carries many requests at once.
//
//   - ServerTransport: Accepts connections and hands every frame to the registered
//     handler together with the backend name it addresses. Each connection gets a
//     bounded worker pool and reuses read buffers through a sync.Pool.
//
// Broken connections fail all pending requests on them and are re-dialed once.
// Send retries with exponential backoff on the next connection.
package base
