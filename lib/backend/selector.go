package backend

import (
	"errors"
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("backend")

// Selection is the backend chosen by a Selector.
type Selection struct {
	Name    string
	Backend Backend
}

// Selector picks the first usable backend out of an ordered list of candidates.
type Selector struct {
	names *Names
}

// NewSelector creates a selector resolving candidate names through names.
// If names is nil, DefaultNames() is used.
func NewSelector(names *Names) *Selector {
	if names == nil {
		names = DefaultNames()
	}
	return &Selector{names: names}
}

// Names returns the name registry used by the selector.
func (s *Selector) Names() *Names {
	return s.names
}

// Resolve turns a candidate into a backend instance without validating it.
func (s *Selector) Resolve(c Candidate) (Selection, error) {
	if c.Backend != nil {
		return Selection{Name: c.String(), Backend: c.Backend}, nil
	}
	b, err := s.names.Lookup(c.Name)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Name: c.Name, Backend: b}, nil
}

// Select returns the first candidate that resolves and passes Validate.
//
// Failures of individual candidates are not returned, they only cause the next
// candidate to be tried. If no candidate is usable the returned error wraps
// ErrNoUsableBackend together with the failure of every candidate.
func (s *Selector) Select(candidates ...Candidate) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, fmt.Errorf("%w: no candidates given", ErrNoUsableBackend)
	}

	var errs []error
	for _, c := range candidates {
		sel, err := s.Resolve(c)
		if err == nil {
			err = Validate(sel.Backend)
		}
		if err != nil {
			Logger.Debugf("backend %s is unusable: %v", c, err)
			metrics.GetOrCreateCounter(fmt.Sprintf(`nskv_backend_probe_failures_total{backend=%q}`, c.String())).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}

		metrics.GetOrCreateCounter(fmt.Sprintf(`nskv_backend_selected_total{backend=%q}`, sel.Name)).Inc()
		Logger.Debugf("selected backend %s", sel.Name)
		return sel, nil
	}

	return Selection{}, fmt.Errorf("%w: %w", ErrNoUsableBackend, errors.Join(errs...))
}
