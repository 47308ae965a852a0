// Package server implements the RPC server of nsKV, which hosts named backends
// (memory, sqlite, disk) so that remote backends in other processes can use them.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a backend.
//
//   - NewBackendServerAdapter: Factory function creating an adapter that translates
//     RPC requests to backend.Backend method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Backends: []common.ServerBackend{
//	    {Name: "session", Type: common.BackendTypeMemory},
//	    {Name: "local", Type: common.BackendTypeSQLite, Path: "data/local.db"},
//	  },
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  http.NewHttpServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//	defer s.Close()
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server is thread-safe and can handle concurrent requests. Each request is
//	processed independently, concurrency control is left to the hosted backends.
//	Serve is not thread-safe and should be called only once.
package server
