package store

import (
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/nsKV/lib/backend"
	"reflect"
	"time"
)

// --------------------------------------------------------------------------
// Migration Error
// --------------------------------------------------------------------------

// MigrationStage names the phase of a backend switch.
type MigrationStage string

const (
	StageRead   MigrationStage = "read"   // reading values from the old backend
	StageRemove MigrationStage = "remove" // removing values from the old backend
	StageWrite  MigrationStage = "write"  // writing values to the new backend
)

// Entry is a raw key value pair captured during a migration.
type Entry struct {
	Key   string
	Value []byte
}

// MigrationError is returned by SetBackend if moving the values fails.
// Pending holds the values that are stored in neither backend, callers can use
// them to recover manually.
// MigrationError matches ErrMigrationFailed with errors.Is.
type MigrationError struct {
	Stage   MigrationStage
	Key     string
	From    string
	To      string
	Pending []Entry
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("nskv: migration from %s to %s failed at %s of key %q (%d values pending): %v",
		e.From, e.To, e.Stage, e.Key, len(e.Pending), e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

func (e *MigrationError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == RetCMigrationFailed
}

// --------------------------------------------------------------------------
// Backend Switch
// --------------------------------------------------------------------------

// SetBackend selects the first usable candidate and moves all declared values to it.
//
// If no candidate is usable a NoUsableBackend error is returned and the store
// keeps its current backend. Selecting the active backend again is a no-op.
//
// Otherwise every declared key is read from the old backend, then removed from it,
// the new backend becomes active and the captured values are written to it. Keys
// without a value in the old backend are left untouched in the new one. Values are
// copied as raw bytes, they are not parsed on the way.
// If a step fails a *MigrationError is returned, no rollback is attempted.
func (s *Store[T]) SetBackend(candidates ...backend.Candidate) error {
	sel, err := s.selector.Select(candidates...)
	if err != nil {
		return wrapError(RetCNoUsableBackend, err, "can not select a backend")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.Backend == nil {
		s.active = sel
		Logger.Infof("store %s uses backend %s", s.owner, sel.Name)
		return nil
	}

	if sameBackend(s.active.Backend, sel.Backend) {
		s.active.Name = sel.Name
		return nil
	}

	return s.migrate(sel)
}

// migrate moves the declared values from the active backend to the given one.
// The caller must hold s.mu.
func (s *Store[T]) migrate(to backend.Selection) error {
	start := time.Now()
	from := s.active

	fail := func(stage MigrationStage, key string, pending []Entry, err error) error {
		Logger.Errorf("store %s: migration from %s to %s failed at %s of key %q: %v", s.owner, from.Name, to.Name, stage, key, err)
		return &MigrationError{
			Stage:   stage,
			Key:     key,
			From:    from.Name,
			To:      to.Name,
			Pending: append([]Entry(nil), pending...),
			Err:     err,
		}
	}

	// read phase
	entries := make([]Entry, 0, len(s.keys))
	for _, key := range s.keys {
		raw, loaded, err := from.Backend.Get(key)
		if err != nil {
			return fail(StageRead, key, nil, err)
		}
		if loaded {
			entries = append(entries, Entry{Key: key, Value: raw})
		}
	}

	// remove phase
	for i, e := range entries {
		if err := from.Backend.Remove(e.Key); err != nil {
			return fail(StageRemove, e.Key, entries[:i], err)
		}
	}

	s.active = to

	// write phase
	for i, e := range entries {
		if err := to.Backend.Set(e.Key, e.Value); err != nil {
			return fail(StageWrite, e.Key, entries[i:], err)
		}
	}

	metrics.GetOrCreateHistogram("nskv_migration_duration_seconds").UpdateDuration(start)
	metrics.GetOrCreateCounter("nskv_migrated_keys_total").Add(len(entries))
	Logger.Infof("store %s migrated %d values from %s to %s", s.owner, len(entries), from.Name, to.Name)
	return nil
}

// sameBackend reports whether a and b are the same backend instance.
// Backends with non comparable dynamic types are never equal.
func sameBackend(a, b backend.Backend) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
