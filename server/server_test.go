package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sambeau/nujelmode/config"
	"github.com/sambeau/nujelmode/pkg/nujel/logging"
)

const helloSource = "(def x 5)\n(display \"hi\")\n"

const notesSource = "# Notes\n\n```nujel\n(car l)\n```\n"

// newTestServer creates a server over a temp directory holding a few sources.
func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hello.nuj":     helloSource,
		"notes.md":      notesSource,
		"plain.txt":     "just text",
		".secret.nuj":   "(def hidden 1)",
		"sub/inner.nuj": "(car x)",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Defaults()
	cfg.Server.Root = dir
	cfg.Server.LiveReload = false
	cfg.Server.Compression.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := New(cfg, nil, logging.Null(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv, dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeSource(t *testing.T) {
	srv, dir := newTestServer(t, nil)
	h := srv.Handler()

	rec := get(t, h, "/hello.nuj")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>hello.nuj</title>",
		`<span class="cm-builtin">def</span>`,
		`<span class="cm-string">&quot;hi&quot;</span>`,
		".nujel.cm-s-ayu-dark",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if got := rec.Header().Get(cacheHeader); got != "miss" {
		t.Errorf("first request: expected cache miss, got %q", got)
	}

	if got := get(t, h, "/hello.nuj").Header().Get(cacheHeader); got != "hit" {
		t.Errorf("second request: expected cache hit, got %q", got)
	}

	// new content is rendered again
	if err := os.WriteFile(filepath.Join(dir, "hello.nuj"), []byte("(car l)\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rec = get(t, h, "/hello.nuj")
	if got := rec.Header().Get(cacheHeader); got != "miss" {
		t.Errorf("after edit: expected cache miss, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), `<span class="cm-builtin">car</span>`) {
		t.Error("after edit: page should show the new source")
	}
}

func TestServeMarkdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := get(t, srv.Handler(), "/notes.md").Body.String()
	if !strings.Contains(body, `<h1 id="notes">Notes</h1>`) {
		t.Errorf("missing heading:\n%s", body)
	}
	if !strings.Contains(body, `<span class="cm-builtin">car</span>`) {
		t.Errorf("fence not highlighted:\n%s", body)
	}
}

func TestServeRawAndStatic(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	if body := get(t, h, "/hello.nuj?raw").Body.String(); body != helloSource {
		t.Errorf("raw: expected source, got %q", body)
	}
	if body := get(t, h, "/plain.txt").Body.String(); body != "just text" {
		t.Errorf("static: got %q", body)
	}
}

func TestServeIndex(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	body := get(t, h, "/").Body.String()
	for _, want := range []string{
		`<a class="source" href="hello.nuj">hello.nuj</a>`,
		`<a class="source" href="notes.md">notes.md</a>`,
		`<a href="plain.txt">plain.txt</a>`,
		`<a href="sub/">sub/</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, ".secret") {
		t.Error("index should hide dot files")
	}
	if strings.Contains(body, `href="../"`) {
		t.Error("root index should not link to its parent")
	}

	rec := get(t, h, "/sub")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/sub/" {
		t.Errorf("expected redirect to /sub/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if body := get(t, h, "/sub/").Body.String(); !strings.Contains(body, "inner.nuj") || !strings.Contains(body, `href="../"`) {
		t.Errorf("unexpected sub index:\n%s", body)
	}
}

func TestServeErrors(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"missing file", "GET", "/nope.nuj", http.StatusNotFound},
		{"hidden file", "GET", "/.secret.nuj", http.StatusNotFound},
		{"post", "POST", "/hello.nuj", http.StatusMethodNotAllowed},
		{"head", "HEAD", "/hello.nuj", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestServeTraversal(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	// the mux cleans the path and redirects inside the root
	rec := get(t, h, "/../../etc/passwd")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/etc/passwd" {
		t.Fatalf("expected redirect to /etc/passwd, got %q", loc)
	}
	if rec := get(t, h, loc); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after redirect, got %d", rec.Code)
	}

	// serveFile itself never leaves the root
	req := httptest.NewRequest("GET", "/", nil)
	req.URL.Path = "/../../etc/passwd"
	rec = httptest.NewRecorder()
	srv.serveFile(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from serveFile, got %d", rec.Code)
	}
}

func TestLiveReloadEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) { cfg.Server.LiveReload = true })
	h := srv.Handler()

	rec := get(t, h, liveReloadPath)
	if rec.Body.String() != `{"seq":0}` {
		t.Errorf("expected seq 0 without a watcher, got %s", rec.Body.String())
	}

	body := get(t, h, "/hello.nuj").Body.String()
	script := strings.Index(body, "fetch('/__livereload')")
	end := strings.Index(body, "</body>")
	if script < 0 || end < 0 || script > end {
		t.Errorf("reload script should be injected before </body>:\n%s", body)
	}

	if body := get(t, h, "/plain.txt").Body.String(); body != "just text" {
		t.Errorf("non-HTML responses should be untouched, got %q", body)
	}
}

func TestCompressedResponse(t *testing.T) {
	srv, dir := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Compression = config.CompressionConfig{Enabled: true, Level: "best", MinSize: 64}
	})
	big := strings.Repeat("(display \"hello world\")\n", 200)
	if err := os.WriteFile(filepath.Join(dir, "big.nuj"), []byte(big), 0644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/big.nuj", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, headers: %v", rec.Header())
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<span class="cm-builtin">display</span>`) {
		t.Error("decompressed body should be the highlighted page")
	}
}

func TestRequestLogging(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.nuj"), []byte("(a)"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.Server.Root = dir
	cfg.Server.LiveReload = false

	var reqLog bytes.Buffer
	srv, err := New(cfg, nil, nil, &reqLog)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	get(t, srv.Handler(), "/a.nuj")
	if line := reqLog.String(); !strings.Contains(line, "GET /a.nuj 200") || !strings.Contains(line, "cache=miss") {
		t.Errorf("unexpected request log: %q", line)
	}

	reqLog.Reset()
	cfg.Logging.Quiet = true
	get(t, srv.Handler(), "/a.nuj")
	if reqLog.Len() != 0 {
		t.Errorf("quiet logging should suppress request logs, got %q", reqLog.String())
	}
}

func TestStoreBackedRendering(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "renders.db")
	mutate := func(cfg *config.Config) {
		cfg.Store = config.StoreConfig{Driver: "sqlite", DSN: dsn}
	}

	srv, dir := newTestServer(t, mutate)
	if got := get(t, srv.Handler(), "/hello.nuj").Header().Get(cacheHeader); got != "miss" {
		t.Fatalf("expected miss, got %q", got)
	}
	srv.Close()

	// a fresh server finds the page in the store
	cfg := config.Defaults()
	cfg.Server.Root = dir
	cfg.Server.LiveReload = false
	mutate(cfg)
	srv2, err := New(cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer srv2.Close()
	h := srv2.Handler()
	if got := get(t, h, "/hello.nuj").Header().Get(cacheHeader); got != "store" {
		t.Errorf("expected store hit, got %q", got)
	}
	if got := get(t, h, "/hello.nuj").Header().Get(cacheHeader); got != "hit" {
		t.Errorf("expected memory hit after store hit, got %q", got)
	}

	// editing replaces the stored rendering
	if err := os.WriteFile(filepath.Join(dir, "hello.nuj"), []byte("(b)"), 0644); err != nil {
		t.Fatal(err)
	}
	get(t, h, "/hello.nuj")
	n, err := srv2.store.Count(testContext(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected stale rendering pruned, store holds %d", n)
	}
}

func TestNewErrors(t *testing.T) {
	cfg := config.Defaults()
	cfg.Render.Theme = "neon"
	if _, err := New(cfg, nil, nil, nil); err == nil {
		t.Error("expected error for unknown theme")
	}

	cfg = config.Defaults()
	cfg.Store.Driver = "oracle"
	if _, err := New(cfg, nil, nil, nil); err == nil {
		t.Error("expected error for unsupported store driver")
	}
}

func TestAddr(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9000
	srv, err := New(cfg, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if srv.Addr() != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %q", srv.Addr())
	}
}
