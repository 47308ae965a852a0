package transform

import (
	"errors"
	"fmt"
)

// ErrMissingMethod is returned by Check if a transformer cannot parse or stringify.
var ErrMissingMethod = errors.New("transform: transformer lacks parse or stringify")

// Transformer converts values to the raw representation stored in a backend and back.
// Implementations must be safe for concurrent use.
type Transformer[T any] interface {
	// Parse converts a raw backend value into a value of type T.
	// Errors for malformed input are returned unchanged to the caller of the store.
	Parse(raw []byte) (value T, err error)
	// Stringify converts a value into its raw backend representation.
	Stringify(value T) (raw []byte, err error)
}

// validator is implemented by transformers that can be incomplete (e.g. Funcs).
type validator interface {
	Validate() error
}

// Check verifies that t can be used to transform values.
// It returns an error wrapping ErrMissingMethod for a nil transformer
// or for a transformer that reports itself as incomplete.
func Check[T any](t Transformer[T]) error {
	if t == nil {
		return fmt.Errorf("%w: transformer is nil", ErrMissingMethod)
	}
	if v, ok := t.(validator); ok {
		return v.Validate()
	}
	return nil
}

// --------------------------------------------------------------------------
// Ad-hoc transformers
// --------------------------------------------------------------------------

// Funcs builds a transformer from a parse/stringify function pair.
type Funcs[T any] struct {
	ParseFunc     func(raw []byte) (T, error)
	StringifyFunc func(value T) ([]byte, error)
}

func (f Funcs[T]) Parse(raw []byte) (T, error) {
	if f.ParseFunc == nil {
		var zero T
		return zero, fmt.Errorf("%w: parse is nil", ErrMissingMethod)
	}
	return f.ParseFunc(raw)
}

func (f Funcs[T]) Stringify(value T) ([]byte, error) {
	if f.StringifyFunc == nil {
		return nil, fmt.Errorf("%w: stringify is nil", ErrMissingMethod)
	}
	return f.StringifyFunc(value)
}

// Validate reports whether both functions are set.
func (f Funcs[T]) Validate() error {
	switch {
	case f.ParseFunc == nil && f.StringifyFunc == nil:
		return fmt.Errorf("%w: parse and stringify are nil", ErrMissingMethod)
	case f.ParseFunc == nil:
		return fmt.Errorf("%w: parse is nil", ErrMissingMethod)
	case f.StringifyFunc == nil:
		return fmt.Errorf("%w: stringify is nil", ErrMissingMethod)
	}
	return nil
}
