// Package common provides core data structures and utilities shared by the
// RPC client and server of nsKV. It defines the message protocol, the
// configuration structures and the logging setup.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, used for both
//     requests and responses. Factory functions create the request and response
//     messages for every backend operation.
//
//   - MessageType: Enumeration of all supported operations (set, get, remove,
//     clear, keys, features) plus the error and success control messages.
//
//   - ServerConfig: Configuration of a backend host, listing the hosted backends
//     by name and type together with the endpoint and log level.
//
//   - ClientConfig: Configuration for remote backends, controlling endpoints,
//     timeouts and retry behavior.
//
//   - Logger: Custom logger factory for the dragonboat logger facade used by all
//     nsKV packages, providing consistent formatting across the application.
package common
