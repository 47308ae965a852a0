// Package transport defines the interfaces for RPC communication between remote
// backends and the backend host. It provides a common contract that all transport
// implementations must fulfill, enabling protocol-agnostic communication.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and routes them to the handler together with the name of
//     the addressed backend.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// Implementations live in the subpackages http, tcp and unix. The socket
// transports (tcp, unix) share their connection handling through base.
package transport
