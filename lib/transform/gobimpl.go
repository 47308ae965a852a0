package transform

import (
	"bytes"
	"encoding/gob"
)

// Gob creates a transformer using Go's binary gob format.
// Values written this way can only be read back by Go programs.
func Gob[T any]() Transformer[T] {
	return gobTransformerImpl[T]{}
}

// gobTransformerImpl implements the Transformer interface using gob encoding
type gobTransformerImpl[T any] struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transform.Transformer)
// --------------------------------------------------------------------------

func (g gobTransformerImpl[T]) Parse(raw []byte) (T, error) {
	var value T
	dec := gob.NewDecoder(bytes.NewReader(raw))
	err := dec.Decode(&value)
	return value, err
}

func (g gobTransformerImpl[T]) Stringify(value T) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
