package server

import (
	"compress/gzip"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/sambeau/nujelmode/config"
)

// compressionLevel maps a configured level name to a gzip level.
// The second result is false for "none".
func compressionLevel(name string) (int, bool) {
	switch name {
	case "none":
		return 0, false
	case "fastest":
		return gzip.BestSpeed, true
	case "best":
		return gzip.BestCompression, true
	default:
		return gzip.DefaultCompression, true
	}
}

// newCompressionHandler wraps h with gzip compression for clients that accept it.
// Returns h unchanged when compression is disabled or the level is "none".
func newCompressionHandler(h http.Handler, cfg config.CompressionConfig) http.Handler {
	if !cfg.Enabled {
		return h
	}
	level, ok := compressionLevel(cfg.Level)
	if !ok {
		return h
	}

	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(cfg.MinSize),
		gzhttp.CompressionLevel(level),
	)
	if err != nil {
		return h
	}
	return wrapper(h)
}
