// Package unix implements a transport for remote backends over Unix domain
// sockets, for hosts running on the same machine as their clients. It reuses
// the connection handling of the base package.
//
// The server listens on the socket path given as endpoint and removes a stale
// socket file before binding. Read buffers are 64 KB.
package unix
