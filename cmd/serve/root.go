package serve

import (
	"fmt"
	cmdUtil "github.com/ValentinKolb/nsKV/cmd/util"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/server"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/ValentinKolb/nsKV/rpc/transport/http"
	"github.com/ValentinKolb/nsKV/rpc/transport/tcp"
	"github.com/ValentinKolb/nsKV/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the nsKV backend host",
		Long:    `Start a server hosting named backends for remote stores. The configuration can be set via command line flags or environment variables. The format of the environment variables is NSKV_<flag> (e.g. NSKV_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "backends"
	ServeCmd.PersistentFlags().String(key, "session=memory,local=sqlite:data/local.db", cmdUtil.WrapString("Comma-separated list of backends to host. Format: NAME=TYPE[:PATH] where TYPE is one of: memory, sqlite, disk. sqlite needs a database file, disk a base directory"))

	key = "memory-max-bytes"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Quota of every hosted memory backend in bytes (0 = unlimited)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, or a socket path for the unix transport)"))

	key = "workers-per-connection"
	ServeCmd.PersistentFlags().Int(key, 8, cmdUtil.WrapString("Maximum number of requests processed concurrently per connection (tcp and unix transport only)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// ParseBackends parses a backend list in the format NAME=TYPE[:PATH],...
func ParseBackends(list string, memoryMaxBytes int) ([]common.ServerBackend, error) {
	var backends []common.ServerBackend
	for _, entry := range cmdUtil.SplitList(list) {
		name, spec, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid backend format: %s (expected NAME=TYPE[:PATH])", entry)
		}

		backendType, path, _ := strings.Cut(strings.TrimSpace(spec), ":")
		b := common.ServerBackend{
			Name: name,
			Type: common.BackendType(backendType),
			Path: path,
		}

		switch b.Type {
		case common.BackendTypeMemory:
			b.MaxBytes = memoryMaxBytes
		case common.BackendTypeSQLite, common.BackendTypeDisk:
			if b.Path == "" {
				return nil, fmt.Errorf("backend %s of type %s needs a path", name, b.Type)
			}
		default:
			return nil, fmt.Errorf("invalid backend type: %s (expected one of: memory, sqlite, disk)", backendType)
		}

		backends = append(backends, b)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	return backends, nil
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	backends, err := ParseBackends(viper.GetString("backends"), viper.GetInt("memory-max-bytes"))
	if err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Backends = backends
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.WorkersPerConnection = viper.GetInt("workers-per-connection")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the nsKV server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)
	defer func() {
		if err := serv.Close(); err != nil {
			server.Logger.Errorf("failed to close backends: %v", err)
		}
	}()

	return serv.Serve()
}
