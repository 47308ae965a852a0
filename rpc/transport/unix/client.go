package unix

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/ValentinKolb/nsKV/rpc/transport/base"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"
)

const dialTimeout = 2 * time.Second

// clientConnector dials the socket file of a host started with "nskv serve --transport unix"
type clientConnector struct{}

// socketPath accepts plain paths and unix:// URLs
func socketPath(endpoint string) string {
	return strings.TrimPrefix(endpoint, "unix://")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	path := socketPath(endpoint)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no host socket at %s (is the host running?)", path)
	}
	return net.DialTimeout("unix", path, dialTimeout)
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixClientTransport creates a client transport for hosts on the same machine
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
