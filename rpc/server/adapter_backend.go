package server

import (
	"fmt"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"github.com/ValentinKolb/nsKV/rpc/common"
)

// allFeatures lists every feature a backend can report
var allFeatures = []backend.Feature{
	backend.FeatureSet,
	backend.FeatureGet,
	backend.FeatureRemove,
	backend.FeatureClear,
	backend.FeatureKeys,
	backend.FeaturePersistent,
}

func NewBackendServerAdapter() IRPCServerAdapter {
	return &backendServerAdapterImpl{}
}

type backendServerAdapterImpl struct{}

func (adapter *backendServerAdapterImpl) Handle(req *common.Message, b backend.Backend) *common.Message {
	// Check for nil backend
	if b == nil {
		return common.NewErrorResponse("handler: backend is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTSet:
		value := req.Value
		if value == nil {
			value = []byte{}
		}
		err := b.Set(req.Key, value)
		return common.NewSetResponse(err)
	case common.MsgTGet:
		val, ok, err := b.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTRemove:
		err := b.Remove(req.Key)
		return common.NewRemoveResponse(err)
	case common.MsgTClear:
		err := b.Clear()
		return common.NewClearResponse(err)
	case common.MsgTKeys:
		lister, ok := b.(backend.Lister)
		if !ok || !backend.Supports(b, backend.FeatureKeys) {
			return common.NewKeysResponse(nil, fmt.Errorf("%w: keys", backend.ErrMissingCapability))
		}
		keys, err := lister.Keys()
		if keys == nil && err == nil {
			keys = []string{}
		}
		return common.NewKeysResponse(keys, err)
	case common.MsgTFeatures:
		var mask backend.Feature
		for _, f := range allFeatures {
			if backend.Supports(b, f) {
				mask |= f
			}
		}
		return common.NewFeaturesResponse(uint64(mask))
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC BackendAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
