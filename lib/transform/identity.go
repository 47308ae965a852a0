package transform

// The identity transformers carry no state and are only reachable through
// Identity, IdentityString and Default, so a consumer cannot swap their
// methods to intercept values written by another store.
type identityBytes struct{}

type identityString struct{}

// Identity returns the identity transformer for raw byte values.
func Identity() Transformer[[]byte] {
	return identityBytes{}
}

// IdentityString returns the identity transformer for string values.
func IdentityString() Transformer[string] {
	return identityString{}
}

// Default returns the identity transformer for T if T is []byte or string.
// The boolean is false for every other type, which then needs an explicit transformer.
func Default[T any]() (Transformer[T], bool) {
	var zero T
	switch any(zero).(type) {
	case []byte:
		t, ok := any(identityBytes{}).(Transformer[T])
		return t, ok
	case string:
		t, ok := any(identityString{}).(Transformer[T])
		return t, ok
	default:
		return nil, false
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transform.Transformer)
// --------------------------------------------------------------------------

func (identityBytes) Parse(raw []byte) ([]byte, error) {
	return raw, nil
}

func (identityBytes) Stringify(value []byte) ([]byte, error) {
	return value, nil
}

func (identityString) Parse(raw []byte) (string, error) {
	return string(raw), nil
}

func (identityString) Stringify(value string) ([]byte, error) {
	return []byte(value), nil
}
