package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/backend/disk"
	"github.com/ValentinKolb/nsKV/lib/backend/memory"
	"github.com/ValentinKolb/nsKV/lib/backend/sqlite"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/serializer"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"os/signal"
	"runtime"
	"syscall"
)

var Logger = logger.GetLogger("rpc")

// hostedBackend is a backend served by the RPC server together with the
// adapter that handles requests for it
type hostedBackend struct {
	Backend backend.Backend
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		backends:   xsync.NewMapOf[string, hostedBackend](),
	}
}

// RPCServer hosts named backends and serves them via a transport.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	backends   *xsync.MapOf[string, hostedBackend]
}

// Register hosts b under name, replacing any backend with the same name.
func (s *RPCServer) Register(name string, b backend.Backend) {
	s.backends.Store(name, hostedBackend{
		Backend: b,
		Adapter: NewBackendServerAdapter(),
	})
}

// Handle processes a single serialized request for the named backend.
// It is registered as the transport handler by Serve.
func (s *RPCServer) Handle(backendName string, req []byte) []byte {
	var msg common.Message
	var respMsg common.Message

	// Get appropriate backend
	hosted, ok := s.backends.Load(backendName)

	// Case backend does not exist -> error
	if !ok {
		respMsg = common.Message{
			MsgType: common.MsgTError,
			Err:     fmt.Sprintf("backend %q not found", backendName),
		}
	} else {
		// Decode the request
		err := s.serializer.Deserialize(req, &msg)

		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to deserialize request: %s", err),
			}
		} else {
			// Let the adapter handle the request
			respMsg = *hosted.Adapter.Handle(&msg, hosted.Backend)
		}
	}

	// Return result
	val, err := s.serializer.Serialize(respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// Init opens all backends listed in the configuration and registers the
// transport handler. Serve calls it, it is exported for embedding the server.
func (s *RPCServer) Init() error {
	for _, cfg := range s.config.Backends {
		if _, exists := s.backends.Load(cfg.Name); exists {
			return s.abortInit(fmt.Errorf("duplicate backend name %q", cfg.Name))
		}

		b, err := OpenBackend(cfg)
		if err != nil {
			return s.abortInit(fmt.Errorf("failed to open backend %q: %w", cfg.Name, err))
		}

		s.Register(cfg.Name, b)
		Logger.Infof("created %s backend %s", cfg.Type, cfg.Name)
	}

	Logger.Infof("nsKV setup completed successfully")

	// Configure the transport layer
	s.transport.RegisterHandler(s.Handle)

	return nil
}

// abortInit closes the backends opened so far and returns err
func (s *RPCServer) abortInit(err error) error {
	if closeErr := s.Close(); closeErr != nil {
		Logger.Errorf("failed to close backends after init error: %v", closeErr)
	}
	return err
}

// Serve starts the RPC server
// This function will also initialize the backends and start the transport layer
func (s *RPCServer) Serve() error {
	// Init logger
	common.InitLoggers(s.config.LogLevel)

	if err := s.Init(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// Close closes all hosted backends that hold resources (e.g. sqlite databases).
func (s *RPCServer) Close() error {
	var errs []error
	s.backends.Range(func(name string, hosted hostedBackend) bool {
		if closer, ok := hosted.Backend.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// OpenBackend creates the backend described by cfg.
func OpenBackend(cfg common.ServerBackend) (backend.Backend, error) {
	switch cfg.Type {
	case common.BackendTypeMemory:
		return memory.New(memory.Options{MaxBytes: cfg.MaxBytes}), nil
	case common.BackendTypeSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend needs a path")
		}
		return sqlite.Open(cfg.Path)
	case common.BackendTypeDisk:
		return disk.New(disk.Options{BasePath: cfg.Path})
	default:
		return nil, fmt.Errorf("invalid backend type: %q", cfg.Type)
	}
}
