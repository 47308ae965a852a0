package transform

import (
	"fmt"
	"github.com/klauspost/compress/zstd"
	"sync"
)

// shared coders, EncodeAll and DecodeAll are safe for concurrent use
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil)
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// Zstd wraps inner with a zstd compression stage.
// Stringify compresses the output of inner, Parse decompresses before calling inner.
func Zstd[T any](inner Transformer[T]) Transformer[T] {
	return zstdTransformerImpl[T]{inner: inner}
}

type zstdTransformerImpl[T any] struct {
	inner Transformer[T]
}

// Validate delegates to the wrapped transformer.
func (z zstdTransformerImpl[T]) Validate() error {
	return Check(z.inner)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transform.Transformer)
// --------------------------------------------------------------------------

func (z zstdTransformerImpl[T]) Parse(raw []byte) (T, error) {
	var zero T
	dec, err := zstdDecoder()
	if err != nil {
		return zero, err
	}
	plain, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return zero, fmt.Errorf("zstd: %w", err)
	}
	return z.inner.Parse(plain)
}

func (z zstdTransformerImpl[T]) Stringify(value T) ([]byte, error) {
	plain, err := z.inner.Stringify(value)
	if err != nil {
		return nil, err
	}
	enc, err := zstdEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(plain, nil), nil
}
