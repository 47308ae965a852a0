// Package tcp implements the TCP socket transport for remote backends. It
// plugs TCP connectors into the base package, which provides connection
// pooling, request multiplexing and buffer reuse.
//
// Client connections disable Nagle's algorithm and enable keep-alive. The
// server reads requests into pooled 512 KB buffers.
package tcp
