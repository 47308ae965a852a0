package serializer

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/nsKV/rpc/common"
)

// NewJSONSerializer creates a serializer writing messages as JSON objects.
// Message types are written as their names ("get", "keys", ...).
func NewJSONSerializer() IRPCSerializer {
	return jsonSerializerImpl{}
}

type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (jsonSerializerImpl) Name() string { return "json" }

func (jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	// json.Unmarshal keeps fields missing in b
	var decoded common.Message
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("json: decode message: %w", err)
	}
	*msg = decoded
	return nil
}
