package client

import (
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/serializer"
	"github.com/ValentinKolb/nsKV/rpc/transport"
)

// NewRemoteBackend creates a backend forwarding all operations to the backend
// with the given name on a remote host.
// The function takes a backend name, a config, a transport and a serializer as parameters
//
// Usage:
//
//	remote, err := client.NewRemoteBackend(
//		"local",
//		common.ClientConfig{Endpoints: []string{"http://localhost:8080"}, TimeoutSecond: 5, RetryCount: 3},
//		http.NewHttpClientTransport(),
//		serializer.NewBinarySerializer(),
//	)
//	backend.DefaultNames().Register("remote", remote)
func NewRemoteBackend(
	backendName string,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RemoteBackend, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new remote backend
	r := RemoteBackend{
		rpcClientAdapter{
			backendName: backendName,
			config:      config,
			transport:   transport,
			serializer:  serializer,
		},
	}

	Logger.Debugf("created remote backend %s on %v", backendName, config.Endpoints)
	return &r, nil
}

// RemoteBackend implements backend.Backend, backend.FeatureReporter and backend.Lister via RPC.
type RemoteBackend struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.Backend)
// --------------------------------------------------------------------------

func (r *RemoteBackend) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := r.invoke(common.NewSetRequest(key, value))
	return err
}

func (r *RemoteBackend) Get(key string) ([]byte, bool, error) {
	resp, err := r.invoke(common.NewGetRequest(key))
	if err != nil {
		return nil, false, err
	}
	if !resp.Ok {
		return nil, false, nil
	}
	if resp.Value == nil {
		return []byte{}, true, nil
	}
	return resp.Value, true, nil
}

func (r *RemoteBackend) Remove(key string) error {
	_, err := r.invoke(common.NewRemoveRequest(key))
	return err
}

func (r *RemoteBackend) Clear() error {
	_, err := r.invoke(common.NewClearRequest())
	return err
}

func (r *RemoteBackend) Keys() ([]string, error) {
	resp, err := r.invoke(common.NewKeysRequest())
	if err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

// SupportsFeature asks the host which features the remote backend supports.
// If the host can not be reached, no feature is reported.
func (r *RemoteBackend) SupportsFeature(feature backend.Feature) bool {
	resp, err := r.invoke(common.NewFeaturesRequest())
	if err != nil {
		Logger.Warningf("can not query features of %s: %v", r.backendName, err)
		return false
	}
	return backend.Feature(resp.Features)&feature == feature
}

// Close closes the underlying transport
func (r *RemoteBackend) Close() error {
	return r.transport.Close()
}
