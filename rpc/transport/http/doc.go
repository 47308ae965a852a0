// Package http implements an HTTP-based transport layer for the nsKV RPC protocol.
// It provides concrete implementations of the transport interfaces defined in the
// parent package.
//
// Routes:
//
//	POST /{backend}   body and response are serialized common.Message values
//	GET  /metrics     Prometheus text format (VictoriaMetrics/metrics)
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport, managing the endpoint
//     list, request routing and retries. It uses round-robin selection across
//     multiple server endpoints.
//
//   - HttpServerTransport: Implements IRPCServerTransport, routing incoming
//     requests to the registered handler based on the backend name in the URL path.
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter.
package http
