package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(testContext(t), "sqlite", filepath.Join(t.TempDir(), "db", "renders.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreGetPut(t *testing.T) {
	s := openTestStore(t)
	ctx := testContext(t)

	if _, ok, err := s.Get(ctx, "a.nuj", "h1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, "a.nuj", "h1", []byte("<pre>one</pre>")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	html, ok, err := s.Get(ctx, "a.nuj", "h1")
	if err != nil || !ok || string(html) != "<pre>one</pre>" {
		t.Fatalf("expected stored page, got %q ok=%v err=%v", html, ok, err)
	}

	// same key replaces
	if err := s.Put(ctx, "a.nuj", "h1", []byte("<pre>again</pre>")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	html, _, _ = s.Get(ctx, "a.nuj", "h1")
	if string(html) != "<pre>again</pre>" {
		t.Errorf("expected replaced page, got %q", html)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestStorePrune(t *testing.T) {
	s := openTestStore(t)
	ctx := testContext(t)

	for _, put := range []struct{ path, hash string }{
		{"a.nuj", "h1"}, {"a.nuj", "h2"}, {"a.nuj", "h3"}, {"b.nuj", "h1"},
	} {
		if err := s.Put(ctx, put.path, put.hash, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(ctx, "a.nuj", "h3")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}
	if _, ok, _ := s.Get(ctx, "a.nuj", "h3"); !ok {
		t.Error("kept rendering should survive")
	}
	if _, ok, _ := s.Get(ctx, "b.nuj", "h1"); !ok {
		t.Error("other paths should be untouched")
	}

	if n, _ := s.Prune(ctx, "b.nuj", ""); n != 1 {
		t.Errorf("empty keep should delete every rendering, got %d", n)
	}
}

func TestStorePersists(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "renders.db")
	s, err := OpenStore(testContext(t), "sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(testContext(t), "a.nuj", "h", []byte("page")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenStore(testContext(t), "sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok, _ := s.Get(testContext(t), "a.nuj", "h"); !ok {
		t.Error("rendering should survive reopening")
	}
}

func TestStoreMemory(t *testing.T) {
	s, err := OpenStore(testContext(t), "sqlite", "")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Put(testContext(t), "a.nuj", "h", []byte("page")); err != nil {
		t.Fatal(err)
	}
	if s.Driver() != "sqlite" {
		t.Errorf("unexpected driver %q", s.Driver())
	}
}

func TestOpenStoreUnsupported(t *testing.T) {
	_, err := OpenStore(testContext(t), "oracle", "x")
	e, ok := err.(*errors.Error)
	if !ok || e.Code != "STORE-0001" {
		t.Fatalf("expected STORE-0001, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	q := `DELETE FROM t WHERE a = ? AND b <> ?`
	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite", q},
		{"mysql", q},
		{"postgres", `DELETE FROM t WHERE a = $1 AND b <> $2`},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s := &Store{driver: tt.driver}
			if got := s.rebind(q); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

// testContext returns a context canceled when the test finishes
// (equivalent of testing.T.Context, which needs Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
