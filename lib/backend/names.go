package backend

import (
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

// DefaultName is the backend name used by stores that were not given any candidates.
const DefaultName = "local"

// --------------------------------------------------------------------------
// Named Backend Registry
// --------------------------------------------------------------------------

// Names maps symbolic backend names (e.g. "local", "session") to backend instances.
// The mapping is supplied by the host environment.
//
// Thread-safety: All methods are thread-safe and can be called concurrently.
type Names struct {
	backends *xsync.MapOf[string, Backend]
}

var defaultNames = NewNames()

// NewNames creates an empty name registry.
func NewNames() *Names {
	return &Names{
		backends: xsync.NewMapOf[string, Backend](),
	}
}

// DefaultNames returns the process-wide name registry used by selectors
// that were not given an explicit one.
func DefaultNames() *Names {
	return defaultNames
}

// Register makes b available under name, replacing any previous registration.
func (n *Names) Register(name string, b Backend) {
	n.backends.Store(name, b)
}

// Unregister removes the backend registered under name.
func (n *Names) Unregister(name string) {
	n.backends.Delete(name)
}

// Lookup returns the backend registered under name.
func (n *Names) Lookup(name string) (Backend, error) {
	b, ok := n.backends.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// List returns all registered names in lexical order.
func (n *Names) List() []string {
	names := make([]string, 0, n.backends.Size())
	n.backends.Range(func(name string, _ Backend) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// --------------------------------------------------------------------------
// Candidates
// --------------------------------------------------------------------------

// Candidate is a backend offered to a Selector, either by name or as an instance.
// If Backend is set it is used directly and Name is only informational.
type Candidate struct {
	Name    string
	Backend Backend
}

// ByName creates a candidate that is resolved through the selector's name registry.
func ByName(name string) Candidate {
	return Candidate{Name: name}
}

// Use creates a candidate for a backend instance. The name is used in logs and errors.
func Use(name string, b Backend) Candidate {
	return Candidate{Name: name, Backend: b}
}

// Candidates creates one ByName candidate per name, preserving order.
func Candidates(names ...string) []Candidate {
	candidates := make([]Candidate, len(names))
	for i, name := range names {
		candidates[i] = ByName(name)
	}
	return candidates
}

// String returns the candidate's name, or its type for anonymous instances.
func (c Candidate) String() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Backend != nil {
		return fmt.Sprintf("%T", c.Backend)
	}
	return "<empty>"
}
