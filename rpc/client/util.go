package client

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/serializer"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// ErrRemote is wrapped by every error reported by the backend host
var ErrRemote = errors.New("rpc: remote error")

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	backendName string
	config      common.ClientConfig
	transport   transport.IRPCClientTransport
	serializer  serializer.IRPCSerializer
}

// invoke sends req to the addressed backend, see invokeRPCRequest
func (a *rpcClientAdapter) invoke(req *common.Message) (*common.Message, error) {
	return invokeRPCRequest(a.backendName, req, a.transport, a.serializer)
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a backend name, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(backendName string, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the handler
	respBytes, err := transport.Send(backendName, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	err = serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: invalid response: %w", req.MsgType, err)
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, fmt.Errorf("%w: %s %s: %s", ErrRemote, backendName, req.MsgType, resp.Err)
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("rpc %s: unexpected message type: %s, expected %s", backendName, resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}
