// Package client implements the remote backend of nsKV: a backend.Backend that
// forwards every operation over RPC to a backend hosted by an `nskv serve` process.
//
// Key Components:
//
//   - NewRemoteBackend: Factory function that creates a RemoteBackend for a named
//     backend on the host. The RemoteBackend implements backend.Backend,
//     backend.FeatureReporter and backend.Lister, so it can be registered under a
//     name and used as a candidate like any local backend.
//
//   - ErrRemote: Wrapped by all errors reported by the host, e.g. a quota error of
//     a hosted memory backend.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:     []string{"http://localhost:8080"},
//	  TimeoutSecond: 5,
//	  RetryCount:    3,
//	}
//
//	// Create the remote backend for the host's "local" backend
//	remote, _ := client.NewRemoteBackend("local", config, http.NewHttpClientTransport(), serializer.NewBinarySerializer())
//
//	// Use it as store candidate
//	backend.DefaultNames().Register("remote", remote)
//	s, _ := store.New[string]([]string{"theme"}, store.WithBackends[string](backend.ByName("remote")))
//
// Thread Safety:
//
//	RemoteBackend is thread-safe and can be used concurrently from multiple
//	goroutines without additional synchronization.
package client
