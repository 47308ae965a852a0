package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type BackendType string

const (
	BackendTypeMemory BackendType = "memory"
	BackendTypeSQLite BackendType = "sqlite"
	BackendTypeDisk   BackendType = "disk"
)

// ServerBackend describes one backend hosted by the server.
type ServerBackend struct {
	// Name is the name clients use to address the backend
	Name string
	// Type selects the storage engine
	Type BackendType
	// Path is the database file (sqlite) or base directory (disk)
	Path string
	// MaxBytes limits the size of a memory backend, 0 means unlimited
	MaxBytes int
}

// String returns a short description like "memory" or "sqlite (data/local.db)"
func (b ServerBackend) String() string {
	switch {
	case b.Path != "":
		return fmt.Sprintf("%s (%s)", b.Type, b.Path)
	case b.MaxBytes > 0:
		return fmt.Sprintf("%s (max %d bytes)", b.Type, b.MaxBytes)
	default:
		return string(b.Type)
	}
}

// ServerConfig holds all configuration parameters for the backend host.
type ServerConfig struct {
	// Backends hosted by the server
	Backends []ServerBackend

	// remote backend parameters
	TimeoutSecond int64

	// Listen address (host:port for http and tcp, socket path for unix)
	Endpoint string

	// Maximum number of requests processed concurrently per connection (tcp, unix)
	WorkersPerConnection int

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	if c.WorkersPerConnection > 0 {
		addField("Workers/Connection", strconv.Itoa(c.WorkersPerConnection))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Backends
	addSection("Backends")
	for _, b := range c.Backends {
		addField(b.Name, b.String())
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints     []string
	TimeoutSecond int
	RetryCount    int
	// ConnectionsPerEndpoint is used by the socket transports (tcp, unix), default 1
	ConnectionsPerEndpoint int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	if c.ConnectionsPerEndpoint > 0 {
		addField("Connections/Endpoint", strconv.Itoa(c.ConnectionsPerEndpoint))
	}

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
