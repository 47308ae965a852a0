package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
// The backend a request targets is not part of the message, the transport routes it.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key   string `json:"key,omitempty"`   // Used for: Set, Get, Remove
	Value []byte `json:"value,omitempty"` // Used for: Set (request), Get (response)

	// Response only fields
	Ok       bool     `json:"ok,omitempty"`       // Used for: Get responses
	Keys     []string `json:"keys,omitempty"`     // Used for: Keys responses
	Features uint64   `json:"features,omitempty"` // Used for: Features responses
	Err      string   `json:"err,omitempty"`      // Empty if no error, otherwise contains the error message

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Unused, can be used for additional Adapters
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTSet}, err)
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTGet,
		Ok:      ok,
		Value:   value,
	}, err)
}

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(key string) *Message {
	return &Message{
		MsgType: MsgTRemove,
		Key:     key,
	}
}

// NewRemoveResponse creates a new Remove response
func NewRemoveResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTRemove}, err)
}

// NewClearRequest creates a new Clear request
func NewClearRequest() *Message {
	return &Message{MsgType: MsgTClear}
}

// NewClearResponse creates a new Clear response
func NewClearResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTClear}, err)
}

// NewKeysRequest creates a new Keys request
func NewKeysRequest() *Message {
	return &Message{MsgType: MsgTKeys}
}

// NewKeysResponse creates a new Keys response
func NewKeysResponse(keys []string, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTKeys,
		Keys:    keys,
	}, err)
}

// NewFeaturesRequest creates a new Features request
func NewFeaturesRequest() *Message {
	return &Message{MsgType: MsgTFeatures}
}

// NewFeaturesResponse creates a new Features response
func NewFeaturesResponse(features uint64) *Message {
	return &Message{
		MsgType:  MsgTFeatures,
		Features: features,
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

func withErr(msg *Message, err error) *Message {
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSet:
		return "set"
	case MsgTGet:
		return "get"
	case MsgTRemove:
		return "remove"
	case MsgTClear:
		return "clear"
	case MsgTKeys:
		return "keys"
	case MsgTFeatures:
		return "features"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "set":
		*t = MsgTSet
	case "get":
		*t = MsgTGet
	case "remove":
		*t = MsgTRemove
	case "clear":
		*t = MsgTClear
	case "keys":
		*t = MsgTKeys
	case "features":
		*t = MsgTFeatures
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Backend operations

	MsgTSet      // Set a key-value pair
	MsgTGet      // Get a value by key
	MsgTRemove   // Remove a key-value pair
	MsgTClear    // Remove all key-value pairs
	MsgTKeys     // List all keys
	MsgTFeatures // Report the supported backend features
)
