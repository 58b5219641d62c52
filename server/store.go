package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure Go, no CGO required

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
)

// Store persists rendered pages keyed by source path and content hash, so a
// restarted server does not re-render unchanged files.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	driver string
}

// driverNames maps configured store drivers to database/sql driver names.
var driverNames = map[string]string{
	"sqlite":   "sqlite",
	"postgres": "postgres",
	"mysql":    "mysql",
}

// OpenStore connects to the render store and creates its table if needed.
func OpenStore(ctx context.Context, driver, dsn string) (*Store, error) {
	name, ok := driverNames[driver]
	if !ok {
		return nil, errors.New("STORE-0001", map[string]any{"Driver": driver})
	}

	if driver == "sqlite" {
		if dsn == "" {
			dsn = ":memory:"
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, storeError("open", err)
			}
			if !strings.Contains(dsn, "?") {
				dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
			}
		}
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, storeError("open", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storeError("connect", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, storeError("create schema", err)
	}
	return s, nil
}

func storeError(op string, err error) *errors.Error {
	return errors.New("STORE-0002", map[string]any{"Operation": op, "GoError": err.Error()})
}

// Driver returns the configured driver name.
func (s *Store) Driver() string { return s.driver }

func (s *Store) createSchema(ctx context.Context) error {
	body := "TEXT"
	if s.driver == "mysql" {
		body = "LONGTEXT"
	}
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS nujel_renders (
			path VARCHAR(512) NOT NULL,
			hash CHAR(64) NOT NULL,
			html `+body+` NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (path, hash)
		)`)
	return err
}

// rebind rewrites ? placeholders for drivers that number them.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Get returns the stored page for path rendered from content with hash.
func (s *Store) Get(ctx context.Context, path, hash string) ([]byte, bool, error) {
	var html string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT html FROM nujel_renders WHERE path = ? AND hash = ?`),
		path, hash).Scan(&html)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeError("get", err)
	}
	return []byte(html), true, nil
}

// Put stores a rendered page, replacing an earlier one for the same content.
func (s *Store) Put(ctx context.Context, path, hash string, html []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("put", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		s.rebind(`DELETE FROM nujel_renders WHERE path = ? AND hash = ?`),
		path, hash); err != nil {
		return storeError("put", err)
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind(`INSERT INTO nujel_renders (path, hash, html, created_at) VALUES (?, ?, ?, ?)`),
		path, hash, string(html), time.Now().Unix()); err != nil {
		return storeError("put", err)
	}
	if err := tx.Commit(); err != nil {
		return storeError("put", err)
	}
	return nil
}

// Prune deletes renderings of path other than the one for keep and reports
// how many rows went. An empty keep deletes every rendering of path.
func (s *Store) Prune(ctx context.Context, path, keep string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM nujel_renders WHERE path = ? AND hash <> ?`),
		path, keep)
	if err != nil {
		return 0, storeError("prune", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError("prune", err)
	}
	return n, nil
}

// Count returns the number of stored renderings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nujel_renders`).Scan(&n); err != nil {
		return 0, storeError("count", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
