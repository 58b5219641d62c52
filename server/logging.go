package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sambeau/nujelmode/pkg/nujel/logging"
)

// requestLogger is middleware that logs one line per HTTP request
type requestLogger struct {
	handler http.Handler
	output  io.Writer
	format  string // "json" or "text"
	now     func() time.Time

	mu sync.Mutex
}

// RequestLogEntry is a single request log line in JSON format
type RequestLogEntry struct {
	Timestamp  string `json:"timestamp"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	Bytes      int64  `json:"bytes"`
	Cache      string `json:"cache,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// responseCapture records the status and size of a response
type responseCapture struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rc *responseCapture) WriteHeader(code int) {
	if rc.status == 0 {
		rc.status = code
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if rc.status == 0 {
		rc.status = http.StatusOK
	}
	n, err := rc.ResponseWriter.Write(b)
	rc.bytes += int64(n)
	return n, err
}

// Flush lets streaming handlers flush through the capture.
func (rc *responseCapture) Flush() {
	if f, ok := rc.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func newRequestLogger(handler http.Handler, output io.Writer, format string) *requestLogger {
	if format == "" {
		format = logging.FormatText
	}
	return &requestLogger{
		handler: handler,
		output:  output,
		format:  format,
		now:     time.Now,
	}
}

func (rl *requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := rl.now()
	rc := &responseCapture{ResponseWriter: w}
	rl.handler.ServeHTTP(rc, r)
	if rc.status == 0 {
		rc.status = http.StatusOK
	}

	clientIP := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		clientIP = xff
	}

	entry := RequestLogEntry{
		Timestamp:  start.Format(time.RFC3339),
		Method:     r.Method,
		Path:       r.URL.Path,
		Status:     rc.status,
		Bytes:      rc.bytes,
		Cache:      w.Header().Get(cacheHeader),
		DurationMs: rl.now().Sub(start).Milliseconds(),
		ClientIP:   clientIP,
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.format == logging.FormatJSON {
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(rl.output, "%s\n", data)
		return
	}
	fmt.Fprintf(rl.output, "%s %s %s %d %dB %dms", entry.Timestamp, entry.Method, entry.Path, entry.Status, entry.Bytes, entry.DurationMs)
	if entry.Cache != "" {
		fmt.Fprintf(rl.output, " cache=%s", entry.Cache)
	}
	fmt.Fprintln(rl.output)
}
