package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sambeau/nujelmode/config"
)

func htmlHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	})
}

func TestCompressionHandler(t *testing.T) {
	large := strings.Repeat("<span class=\"cm-builtin\">def</span>\n", 100)

	tests := []struct {
		name     string
		cfg      config.CompressionConfig
		body     string
		encoding string
		wantGzip bool
	}{
		{"disabled", config.CompressionConfig{Enabled: false, Level: "default", MinSize: 0}, large, "gzip", false},
		{"level none", config.CompressionConfig{Enabled: true, Level: "none", MinSize: 0}, large, "gzip", false},
		{"below min size", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 1024}, "<p>small</p>", "gzip", false},
		{"client without gzip", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 0}, large, "", false},
		{"fastest", config.CompressionConfig{Enabled: true, Level: "fastest", MinSize: 1024}, large, "gzip", true},
		{"default", config.CompressionConfig{Enabled: true, Level: "default", MinSize: 1024}, large, "gzip", true},
		{"best", config.CompressionConfig{Enabled: true, Level: "best", MinSize: 1024}, large, "gzip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := newCompressionHandler(htmlHandler(tt.body), tt.cfg)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.encoding != "" {
				req.Header.Set("Accept-Encoding", tt.encoding)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			gzipped := rec.Header().Get("Content-Encoding") == "gzip"
			if gzipped != tt.wantGzip {
				t.Fatalf("Content-Encoding gzip = %v, want %v", gzipped, tt.wantGzip)
			}
			if !gzipped {
				if rec.Body.String() != tt.body {
					t.Errorf("expected uncompressed body, got %q", rec.Body.String())
				}
				return
			}
			zr, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("failed to create gzip reader: %v", err)
			}
			defer zr.Close()
			data, err := io.ReadAll(zr)
			if err != nil {
				t.Fatalf("failed to decompress: %v", err)
			}
			if string(data) != tt.body {
				t.Error("decompressed content doesn't match original")
			}
		})
	}
}

func TestCompressionLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		ok    bool
	}{
		{"none", 0, false},
		{"fastest", gzip.BestSpeed, true},
		{"best", gzip.BestCompression, true},
		{"default", gzip.DefaultCompression, true},
		{"", gzip.DefaultCompression, true},
	}
	for _, tt := range tests {
		level, ok := compressionLevel(tt.name)
		if level != tt.level || ok != tt.ok {
			t.Errorf("compressionLevel(%q) = %d, %v; want %d, %v", tt.name, level, ok, tt.level, tt.ok)
		}
	}
}
