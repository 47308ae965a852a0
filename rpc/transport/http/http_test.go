package http

import (
	"github.com/ValentinKolb/nsKV/rpc/common"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler func(backendName string, req []byte) []byte) *httptest.Server {
	t.Helper()
	srv := NewHttpServerTransport()
	srv.RegisterHandler(handler)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRoundTrip(t *testing.T) {
	ts := newTestServer(t, func(backendName string, req []byte) []byte {
		return []byte(backendName + ":" + string(req))
	})

	client := NewHttpClientTransport()
	if err := client.Connect(common.ClientConfig{Endpoints: []string{ts.URL}, TimeoutSecond: 5, RetryCount: 2}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	tests := []struct {
		backend  string
		req      string
		expected string
	}{
		{"local", "ping", "local:ping"},
		{"session", "", "session:"},
		{"with space", "x", "with space:x"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			resp, err := client.Send(tt.backend, []byte(tt.req))
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if string(resp) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, resp)
			}
		})
	}
}

func TestEndpointWithoutScheme(t *testing.T) {
	ts := newTestServer(t, func(backendName string, req []byte) []byte { return req })

	client := NewHttpClientTransport()
	if err := client.Connect(common.ClientConfig{Endpoints: []string{strings.TrimPrefix(ts.URL, "http://")}, TimeoutSecond: 5}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	resp, err := client.Send("local", []byte("echo"))
	if err != nil || string(resp) != "echo" {
		t.Errorf("Expected echo, got %q err=%v", resp, err)
	}
}

func TestClientErrors(t *testing.T) {
	client := NewHttpClientTransport()
	if _, err := client.Send("local", nil); err == nil {
		t.Errorf("Expected error for unconnected transport")
	}
	if err := client.Connect(common.ClientConfig{}); err == nil {
		t.Errorf("Expected error without endpoints")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer ts.Close()

	if err := client.Connect(common.ClientConfig{Endpoints: []string{ts.URL}, TimeoutSecond: 5}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, err := client.Send("local", nil); err == nil {
		t.Errorf("Expected error for non 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, func(string, []byte) []byte { return nil })

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("Expected process metrics in output")
	}
}
