package server

import (
	"errors"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/backend/memory"
	backendtesting "github.com/ValentinKolb/nsKV/lib/backend/testing"
	"github.com/ValentinKolb/nsKV/lib/store"
	"github.com/ValentinKolb/nsKV/lib/registry"
	"github.com/ValentinKolb/nsKV/lib/transform"
	"github.com/ValentinKolb/nsKV/rpc/client"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/serializer"
	rpchttp "github.com/ValentinKolb/nsKV/rpc/transport/http"
	"github.com/ValentinKolb/nsKV/rpc/transport/tcp"
	"net"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() serializer.IRPCSerializer{
	"JSON":   serializer.NewJSONSerializer,
	"GOB":    serializer.NewGOBSerializer,
	"Binary": serializer.NewBinarySerializer,
}

// startServer starts an RPC server with the given backends on an httptest server
func startServer(t *testing.T, ser serializer.IRPCSerializer, backends map[string]backend.Backend) string {
	t.Helper()

	tr := rpchttp.NewHttpServerTransport()
	s := NewRPCServer(common.ServerConfig{LogLevel: "info"}, tr, ser)
	for name, b := range backends {
		s.Register(name, b)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	ts := httptest.NewServer(tr.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func newRemote(t *testing.T, url, name string, ser serializer.IRPCSerializer) *client.RemoteBackend {
	t.Helper()
	remote, err := client.NewRemoteBackend(name,
		common.ClientConfig{Endpoints: []string{url}, TimeoutSecond: 5, RetryCount: 1},
		rpchttp.NewHttpClientTransport(),
		ser,
	)
	if err != nil {
		t.Fatalf("NewRemoteBackend failed: %v", err)
	}
	t.Cleanup(func() { _ = remote.Close() })
	return remote
}

func TestRemoteBackend(t *testing.T) {
	for name, factory := range testSerializers {
		backendtesting.RunBackendTests(t, name, func(t *testing.T) backend.Backend {
			url := startServer(t, factory(), map[string]backend.Backend{
				"local": memory.New(memory.Options{}),
			})
			return newRemote(t, url, "local", factory())
		})
	}
}

func TestRemoteBackendTCP(t *testing.T) {
	backendtesting.RunBackendTests(t, "Binary", func(t *testing.T) backend.Backend {
		ser := serializer.NewBinarySerializer()

		tr := tcp.NewTCPServerTransport()
		s := NewRPCServer(common.ServerConfig{}, tr, ser)
		s.Register("local", memory.New(memory.Options{}))
		if err := s.Init(); err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen failed: %v", err)
		}
		go func() {
			_ = tr.Serve(listener)
		}()
		t.Cleanup(func() { _ = tr.Close() })

		remote, err := client.NewRemoteBackend("local",
			common.ClientConfig{Endpoints: []string{listener.Addr().String()}, TimeoutSecond: 5},
			tcp.NewTCPClientTransport(),
			ser,
		)
		if err != nil {
			t.Fatalf("NewRemoteBackend failed: %v", err)
		}
		t.Cleanup(func() { _ = remote.Close() })
		return remote
	})
}

func TestRemoteErrors(t *testing.T) {
	ser := serializer.NewBinarySerializer()
	url := startServer(t, ser, map[string]backend.Backend{
		"small": memory.New(memory.Options{MaxBytes: 8}),
		"off":   memory.New(memory.Options{Disabled: true}),
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		remote := newRemote(t, url, "missing", ser)
		if _, _, err := remote.Get("k"); !errors.Is(err, client.ErrRemote) {
			t.Errorf("Expected remote error, got %v", err)
		}
		if backend.Validate(remote) == nil {
			t.Errorf("Expected validation of unknown backend to fail")
		}
	})

	t.Run("HostError", func(t *testing.T) {
		remote := newRemote(t, url, "small", ser)
		if err := remote.Set("k", []byte("way too long for the quota")); !errors.Is(err, client.ErrRemote) {
			t.Errorf("Expected remote error, got %v", err)
		}
	})

	t.Run("DisabledHostBackend", func(t *testing.T) {
		remote := newRemote(t, url, "off", ser)
		if err := backend.Validate(remote); !errors.Is(err, backend.ErrProbeFailed) {
			t.Errorf("Expected probe failure, got %v", err)
		}
	})
}

func TestStoreOnRemoteBackend(t *testing.T) {
	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	ser := serializer.NewBinarySerializer()
	url := startServer(t, ser, map[string]backend.Backend{
		"local": memory.New(memory.Options{}),
	})

	names := backend.NewNames()
	names.Register("primary", memory.New(memory.Options{Disabled: true}))
	names.Register("remote", newRemote(t, url, "local", ser))

	s, err := store.New[user]([]string{"user", "auth"},
		store.WithTransformer(transform.JSON[user]()),
		store.WithBackends[user](backend.Candidates("primary", "remote")...),
		store.WithNames[user](names),
		store.WithRegistry[user](registry.New()),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.BackendName() != "remote" {
		t.Fatalf("Expected remote backend, got %s", s.BackendName())
	}

	if _, err := s.Set("user", user{ID: 10, Name: "Tom"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := s.Get("user")
	if err != nil || !ok || value.Name != "Tom" {
		t.Errorf("Unexpected value %+v ok=%v err=%v", value, ok, err)
	}
}

func TestInitFromConfig(t *testing.T) {
	dir := t.TempDir()
	config := common.ServerConfig{
		LogLevel: "info",
		Backends: []common.ServerBackend{
			{Name: "session", Type: common.BackendTypeMemory},
			{Name: "local", Type: common.BackendTypeSQLite, Path: filepath.Join(dir, "local.db")},
			{Name: "disk", Type: common.BackendTypeDisk, Path: filepath.Join(dir, "disk")},
		},
	}

	s := NewRPCServer(config, rpchttp.NewHttpServerTransport(), serializer.NewJSONSerializer())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer s.Close()

	for _, cfg := range config.Backends {
		hosted, ok := s.backends.Load(cfg.Name)
		if !ok {
			t.Errorf("Expected backend %s to be hosted", cfg.Name)
			continue
		}
		if err := backend.Validate(hosted.Backend); err != nil {
			t.Errorf("Backend %s failed validation: %v", cfg.Name, err)
		}
	}
}

func TestInitFailureClosesOpenedBackends(t *testing.T) {
	dir := t.TempDir()
	config := common.ServerConfig{
		Backends: []common.ServerBackend{
			{Name: "local", Type: common.BackendTypeSQLite, Path: filepath.Join(dir, "local.db")},
			{Name: "broken", Type: "redis"},
		},
	}

	s := NewRPCServer(config, rpchttp.NewHttpServerTransport(), serializer.NewJSONSerializer())
	if err := s.Init(); err == nil {
		t.Fatal("Expected Init to fail for an invalid backend type")
	}

	hosted, ok := s.backends.Load("local")
	if !ok {
		t.Fatal("Expected local to have been opened before the failure")
	}
	if _, _, err := hosted.Backend.Get("k"); err == nil {
		t.Error("Expected the sqlite backend to be closed after the failed Init")
	}
}

func TestOpenBackendErrors(t *testing.T) {
	tests := []common.ServerBackend{
		{Name: "x", Type: "redis"},
		{Name: "x", Type: common.BackendTypeSQLite},
		{Name: "x", Type: common.BackendTypeDisk},
	}
	for _, cfg := range tests {
		if _, err := OpenBackend(cfg); err == nil {
			t.Errorf("Expected error for %+v", cfg)
		}
	}

	s := NewRPCServer(common.ServerConfig{Backends: []common.ServerBackend{
		{Name: "dup", Type: common.BackendTypeMemory},
		{Name: "dup", Type: common.BackendTypeMemory},
	}}, rpchttp.NewHttpServerTransport(), serializer.NewJSONSerializer())
	if err := s.Init(); err == nil {
		t.Errorf("Expected error for duplicate backend names")
	}
}

func TestHandleUnsupportedMessage(t *testing.T) {
	ser := serializer.NewJSONSerializer()
	s := NewRPCServer(common.ServerConfig{}, rpchttp.NewHttpServerTransport(), ser)
	s.Register("local", memory.New(memory.Options{}))

	req, _ := ser.Serialize(common.Message{MsgType: common.MsgTSuccess})
	var resp common.Message
	if err := ser.Deserialize(s.Handle("local", req), &resp); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Errorf("Expected error response, got %+v", resp)
	}

	if err := ser.Deserialize(s.Handle("local", []byte("not json")), &resp); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if resp.MsgType != common.MsgTError {
		t.Errorf("Expected error response for garbage input, got %+v", resp)
	}
}
