// Package transform provides the value pipeline applied to every value that
// crosses the boundary between a store and its backend.
//
// A Transformer is a Parse/Stringify pair. Stores call Stringify before writing
// to a backend and Parse after reading from it. The raw representation is
// always a byte slice.
//
// Implementations:
//
//   - Identity / IdentityString: pass-through for []byte and string values.
//     These are the defaults picked by Default and are stateless singletons,
//     so no consumer can tamper with the transformer shared by other stores.
//
//   - JSON: encodes values with encoding/json. Human-readable and the usual
//     choice for structured values.
//
//   - Gob: encodes values with encoding/gob. Only readable by Go programs.
//
//   - Zstd: a compression stage wrapping any other transformer, e.g.
//     transform.Zstd(transform.JSON[User]()).
//
//   - Funcs: an ad-hoc pair of functions. Check reports a Funcs value with a
//     missing function as incomplete (ErrMissingMethod).
//
// Thread Safety:
//
//	All transformers in this package are stateless and safe for concurrent use.
package transform
