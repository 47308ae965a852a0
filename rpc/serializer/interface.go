package serializer

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"strings"
)

// ErrUnknownSerializer is returned by ForName for names without a serializer.
var ErrUnknownSerializer = errors.New("serializer: unknown serializer")

// IRPCSerializer converts backend protocol messages to bytes and back.
// Client and host must use serializers with the same Name.
type IRPCSerializer interface {
	// Serialize encodes msg
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. Fields not present in b are reset,
	// so a Message can be reused across calls.
	Deserialize(b []byte, msg *common.Message) error
	// Name is the name used by ForName, e.g. "binary"
	Name() string
}

// factories maps every serializer name to its constructor
var factories = map[string]func() IRPCSerializer{
	"binary": NewBinarySerializer,
	"json":   NewJSONSerializer,
	"gob":    NewGOBSerializer,
}

// Names lists the known serializer names.
func Names() []string {
	return []string{"binary", "json", "gob"}
}

// ForName returns the serializer registered under name (case-insensitive).
func ForName(name string) (IRPCSerializer, error) {
	factory, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected one of: %s)", ErrUnknownSerializer, name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}
