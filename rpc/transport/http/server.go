package http

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/nsKV/rpc/common"
	"github.com/ValentinKolb/nsKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net/http"
	"time"
)

var Logger = logger.GetLogger("transport/rpc")

// NewHttpServerTransport creates a server transport serving
//
//	POST /{backend}  RPC request for the named backend
//	GET  /metrics    metrics in the Prometheus text format
func NewHttpServerTransport() *HttpServerTransport {
	return &HttpServerTransport{}
}

// HttpServerTransport implements transport.IRPCServerTransport over HTTP.
type HttpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig
}

var _ transport.IRPCServerTransport = (*HttpServerTransport)(nil)

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *HttpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *HttpServerTransport) Listen(config common.ServerConfig) error {
	t.config = config

	Logger.Infof("Starting HTTP server on %s", t.config.Endpoint)

	// Set up the server with the address and handler
	return http.ListenAndServe(t.config.Endpoint, t.Handler())
}

// Handler returns the http.Handler serving the RPC and metrics routes.
// Listen uses it, tests can mount it on an httptest.Server.
func (t *HttpServerTransport) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register handler
	if t.config.LogLevel == "debug" {
		mux.HandleFunc("POST /{backend}", loggerMiddleware(t.handleRequest))
	} else {
		mux.HandleFunc("POST /{backend}", t.handleRequest)
	}
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	return mux
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleRequest handles incoming HTTP requests and writes the response to the writer
func (t *HttpServerTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	// Parse backend name from request
	backendName := r.PathValue("backend")
	if backendName == "" {
		http.Error(w, "Invalid backend name", http.StatusBadRequest)
		return
	}

	// Check if a handler is registered
	if t.handler == nil {
		http.Error(w, "No handler registered", http.StatusServiceUnavailable)
		return
	}

	// Read request body
	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()

	// Check if body could be read
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	// Send the handler
	resp := t.handler(backendName, body)

	// Write response
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err = w.Write(resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
	}
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, duration)
	}
}
