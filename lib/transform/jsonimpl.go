package transform

import (
	"encoding/json"
)

// JSON creates a transformer that stores values as JSON documents.
func JSON[T any]() Transformer[T] {
	return jsonTransformerImpl[T]{}
}

// jsonTransformerImpl implements the Transformer interface using json encoding
type jsonTransformerImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transform.Transformer)
// --------------------------------------------------------------------------

func (j jsonTransformerImpl[T]) Parse(raw []byte) (T, error) {
	var value T
	err := json.Unmarshal(raw, &value)
	return value, err
}

func (j jsonTransformerImpl[T]) Stringify(value T) ([]byte, error) {
	return json.Marshal(value)
}
