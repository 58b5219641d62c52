// Package server previews Nujel sources and Markdown notes over HTTP,
// reloading the browser when files change.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sambeau/nujelmode/config"
	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/logging"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

// Server is a preview server instance.
type Server struct {
	config  *config.Config
	root    string
	log     logging.Logger
	reqLog  io.Writer
	mux     *http.ServeMux
	server  *http.Server
	builder *Builder
	cache   *renderCache
	store   *Store
	watcher *Watcher
}

// New creates a preview server for cfg. Request logs go to reqLog; a nil
// reqLog disables them.
func New(cfg *config.Config, tok *mode.Tokenizer, log logging.Logger, reqLog io.Writer) (*Server, error) {
	if log == nil {
		log = logging.Null()
	}
	theme, err := highlight.LookupTheme(cfg.Render.Theme)
	if err != nil {
		return nil, err
	}
	root := cfg.Server.Root
	if root == "" {
		root = "."
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	s := &Server{
		config:  cfg,
		root:    root,
		log:     log,
		reqLog:  reqLog,
		mux:     http.NewServeMux(),
		builder: NewBuilder(highlight.New(tok, cfg.TabSize), theme, cfg.Render.LineNumbers),
		cache:   newRenderCache(),
	}

	if cfg.Store.Driver != "" {
		store, err := OpenStore(context.Background(), cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		s.store = store
		log.Infof("render store: %s", cfg.Store.Driver)
	}

	if cfg.Server.LiveReload {
		s.mux.Handle(liveReloadPath, &liveReloadHandler{seq: s.seq})
	}
	s.mux.HandleFunc("/", s.serveFile)
	return s, nil
}

// Root returns the absolute directory being served.
func (s *Server) Root() string { return s.root }

func (s *Server) seq() uint64 {
	if s.watcher == nil {
		return 0
	}
	return s.watcher.Seq()
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.config.Server.LiveReload {
		handler = injectLiveReload(handler)
	}
	handler = newCompressionHandler(handler, s.config.Server.Compression)
	if s.reqLog != nil && !s.config.Logging.Quiet && s.config.Logging.Level != "error" {
		handler = newRequestLogger(handler, s.reqLog, s.config.Logging.Format)
	}
	return handler
}

// fileChanged drops cached renderings of a changed file.
func (s *Server) fileChanged(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	s.cache.Invalidate(abs)
}

// Watch starts the file watcher that drives live reload.
func (s *Server) Watch(ctx context.Context) error {
	w, err := NewWatcher(s.log, s.fileChanged)
	if err != nil {
		return err
	}
	if err := w.Add(s.root); err != nil {
		w.Close()
		return err
	}
	if s.config.Path != "" {
		if err := w.Add(s.config.Path); err != nil {
			s.log.Warnf("failed to watch config %s: %v", s.config.Path, err)
		}
	}
	s.watcher = w
	w.Start(ctx)
	s.log.Infof("watching %s", s.root)
	return nil
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.config.Server.LiveReload {
		if err := s.Watch(ctx); err != nil {
			s.log.Errorf("failed to start watcher: %v", err)
		}
	}

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until the context is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving %s on http://%s", s.root, ln.Addr())
		errCh <- s.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.log.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.server.Shutdown(shutdownCtx)
		s.Close()
		return err
	case err := <-errCh:
		s.Close()
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
}

// Close releases the watcher and the render store.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.store != nil {
		err := s.store.Close()
		s.store = nil
		return err
	}
	return nil
}
