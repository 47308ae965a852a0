package disk

import (
	"testing"

	"github.com/ValentinKolb/nsKV/lib/backend"
	backendtesting "github.com/ValentinKolb/nsKV/lib/backend/testing"
)

func Test(t *testing.T) {
	backendtesting.RunBackendTests(t, "Disk", func(t *testing.T) backend.Backend {
		b, err := New(Options{BasePath: t.TempDir()})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return b
	})
}

func TestRequiresBasePath(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Errorf("Expected an error without a base path")
	}
}

func TestKeyEncoding(t *testing.T) {
	for _, key := range []string{"user", "a/b/c", "..", "日本語", "with space"} {
		decoded, err := decodeKey(encodeKey(key))
		if err != nil || decoded != key {
			t.Errorf("Expected %q to round trip, got %q (%v)", key, decoded, err)
		}
	}
}
