// Package serializer encodes the backend protocol messages (common.Message)
// exchanged between a remote backend and the backend host.
//
// A message carries one backend operation or its answer: the message type
// (set, get, remove, clear, keys, features, success, error), the Key and raw
// Value of a single entry, the Ok flag of a get, the Keys of a listing, the
// Features bit mask of a capability query and an Err text. It does not name
// the backend, the transport carries the backend name next to the payload.
//
// Implementations, selected by name via ForName:
//
//   - binary: one type byte, one presence byte with a flag per optional field,
//     then the present fields length-prefixed in a fixed order. Absent fields
//     cost nothing, so a get request is the key plus two bytes.
//
//   - json: a JSON object with the message type written as its name. Useful
//     when inspecting traffic, e.g. with curl against the HTTP transport.
//
//   - gob: Go's self-describing gob stream. Needs no schema on either side but
//     repeats the type description in every message.
//
// Deserialize resets fields that are absent in the input, so a Message value
// can be reused. All serializers are stateless and safe for concurrent use.
//
// Usage:
//
//	s, err := serializer.ForName("binary")
//	data, err := s.Serialize(*common.NewGetRequest("theme"))
//	// ... send data, receive resp ...
//	var msg common.Message
//	err = s.Deserialize(resp, &msg)
package serializer
