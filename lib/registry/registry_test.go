package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDeclare(t *testing.T) {
	r := New()

	if !r.CanDeclare("user") {
		t.Fatalf("Expected empty registry to allow declaring user")
	}

	if err := r.Declare("user", "a"); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	if r.CanDeclare("user") {
		t.Errorf("Expected user to be owned after Declare")
	}

	// declaring again with the same owner is a no-op
	if err := r.Declare("user", "a"); err != nil {
		t.Errorf("Expected re-declaration by the same owner to succeed, got %v", err)
	}

	err := r.Declare("user", "b")
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	owner, ok := r.OwnerOf("user")
	if !ok || owner != "a" {
		t.Errorf("Expected owner a, got %q (ok=%v)", owner, ok)
	}
}

func TestRelease(t *testing.T) {
	r := New()
	_ = r.Declare("user", "a")
	_ = r.Declare("auth", "a")

	r.Release("user", "missing")

	if !r.CanDeclare("user") {
		t.Errorf("Expected user to be free after Release")
	}
	if r.CanDeclare("auth") {
		t.Errorf("Expected auth to still be owned")
	}

	if err := r.Declare("user", "b"); err != nil {
		t.Errorf("Expected b to claim released key, got %v", err)
	}
}

func TestReset(t *testing.T) {
	r := New()
	for i := 0; i < 10; i++ {
		_ = r.Declare(fmt.Sprintf("key-%d", i), "a")
	}
	if r.Len() != 10 {
		t.Fatalf("Expected 10 keys, got %d", r.Len())
	}

	r.Reset()

	if r.Len() != 0 {
		t.Errorf("Expected empty registry after Reset, got %d keys", r.Len())
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Errorf("Expected Default to return the same registry")
	}
}

func TestConcurrentDeclare(t *testing.T) {
	r := New()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.Declare("contended", Owner(fmt.Sprintf("owner-%d", i))); err == nil {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Expected exactly one owner to win the key, got %d", winners.Load())
	}
}
