package memory

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/nsKV/lib/backend"
	backendtesting "github.com/ValentinKolb/nsKV/lib/backend/testing"
)

func Test(t *testing.T) {
	backendtesting.RunBackendTests(t, "Memory", func(t *testing.T) backend.Backend {
		return New(Options{})
	})
}

func TestQuota(t *testing.T) {
	m := New(Options{MaxBytes: 10})

	if err := m.Set("k", []byte("12345")); err != nil {
		t.Fatalf("Expected write within quota to succeed, got %v", err)
	}
	if m.Size() != 6 {
		t.Errorf("Expected size 6, got %d", m.Size())
	}

	if err := m.Set("k2", []byte("12345")); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}

	// overwriting an existing key only counts the difference
	if err := m.Set("k", []byte("123456789")); err != nil {
		t.Errorf("Expected overwrite within quota to succeed, got %v", err)
	}

	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if m.Size() != 0 {
		t.Errorf("Expected size 0 after Remove, got %d", m.Size())
	}
}

func TestFullBackendFailsValidation(t *testing.T) {
	m := New(Options{MaxBytes: 1})

	if err := backend.Validate(m); !errors.Is(err, backend.ErrProbeFailed) {
		t.Errorf("Expected ErrProbeFailed for a full backend, got %v", err)
	}
}

func TestDisabled(t *testing.T) {
	m := New(Options{Disabled: true})

	if err := m.Set("k", []byte("v")); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled from Set, got %v", err)
	}
	if _, _, err := m.Get("k"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled from Get, got %v", err)
	}
	if err := backend.Validate(m); !errors.Is(err, backend.ErrProbeFailed) {
		t.Errorf("Expected ErrProbeFailed for a disabled backend, got %v", err)
	}

	m.SetDisabled(false)
	if err := backend.Validate(m); err != nil {
		t.Errorf("Expected re-enabled backend to validate, got %v", err)
	}
}
