package util

import (
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/lib/backend/disk"
	"github.com/ValentinKolb/nsKV/lib/backend/memory"
	"github.com/ValentinKolb/nsKV/lib/backend/sqlite"
	"github.com/ValentinKolb/nsKV/rpc/client"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/serializer"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/ValentinKolb/nsKV/rpc/transport/http"
	"github.com/ValentinKolb/nsKV/rpc/transport/tcp"
	"github.com/ValentinKolb/nsKV/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SplitList splits a comma separated list and drops empty entries
func SplitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// InitConfig loads .env files and configures viper to read NSKV_* environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("nskv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupBackendFlags adds the flags configuring the backends of a client process
func SetupBackendFlags(cmd *cobra.Command) {
	key := "sqlite-path"
	cmd.PersistentFlags().String(key, "nskv.db", WrapString("Database file of the sqlite backend, registered as 'local'. Empty disables it"))

	key = "disk-path"
	cmd.PersistentFlags().String(key, "nskv-data", WrapString("Base directory of the disk backend, registered as 'disk'. Empty disables it"))

	key = "memory-max-bytes"
	cmd.PersistentFlags().Int(key, 0, WrapString("Quota of the in-memory backend registered as 'session' (0 = unlimited)"))

	key = "remote-endpoints"
	cmd.PersistentFlags().String(key, "", WrapString("Comma-separated endpoints of an nskv server. If set, the remote backend is registered as 'remote'"))

	key = "remote-backend"
	cmd.PersistentFlags().String(key, backend.DefaultName, WrapString("Name of the backend on the nskv server used by the remote backend"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the remote backend"))

	key = "transport-retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry a request of the remote backend"))

	key = "transport-connections"
	cmd.PersistentFlags().Int(key, 1, WrapString("Connections per endpoint of the remote backend (tcp and unix transport only)"))
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		TimeoutSecond: viper.GetInt("timeout"),
		RetryCount:    viper.GetInt("transport-retries"),
		Endpoints:     SplitList(viper.GetString("remote-endpoints")),

		ConnectionsPerEndpoint: viper.GetInt("transport-connections"),
	}
}

// GetSerializer creates the serializer named by the serializer flag
func GetSerializer() (serializer.IRPCSerializer, error) {
	return serializer.ForName(viper.GetString("serializer"))
}

// GetTransport creates transport based on configuration
func GetTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpClientTransport(), nil
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// --------------------------------------------------------------------------
// Backends
// --------------------------------------------------------------------------

// RegisterBackends creates the backends configured via viper and registers them in names:
//
//	session  in-memory backend
//	local    sqlite backend (if sqlite-path is set)
//	disk     disk backend (if disk-path is set)
//	remote   remote backend (if remote-endpoints is set)
//
// The returned function closes all backends holding resources.
func RegisterBackends(names *backend.Names) (func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	names.Register("session", memory.New(memory.Options{MaxBytes: viper.GetInt("memory-max-bytes")}))

	if path := viper.GetString("sqlite-path"); path != "" {
		b, err := sqlite.Open(path)
		if err != nil {
			return closeAll, fmt.Errorf("sqlite backend: %w", err)
		}
		closers = append(closers, b)
		names.Register(backend.DefaultName, b)
	}

	if path := viper.GetString("disk-path"); path != "" {
		b, err := disk.New(disk.Options{BasePath: path})
		if err != nil {
			return closeAll, fmt.Errorf("disk backend: %w", err)
		}
		names.Register("disk", b)
	}

	if config := GetClientConfig(); len(config.Endpoints) > 0 {
		s, err := GetSerializer()
		if err != nil {
			return closeAll, err
		}
		t, err := GetTransport()
		if err != nil {
			return closeAll, err
		}
		b, err := client.NewRemoteBackend(viper.GetString("remote-backend"), *config, t, s)
		if err != nil {
			return closeAll, fmt.Errorf("remote backend: %w", err)
		}
		closers = append(closers, b)
		names.Register("remote", b)
	}

	return closeAll, nil
}
