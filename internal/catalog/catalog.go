// Package catalog is the libSQL-backed local asset index. It backs the
// local-index provider and the catalog tools.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	_ "github.com/tursodatabase/go-libsql"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested asset does not exist.
var ErrNotFound = errors.New("catalog: asset not found")

// Config holds the catalog connection settings.
type Config struct {
	URL       string
	AuthToken string
}

// Catalog owns the database handle and a prepared-statement cache.
type Catalog struct {
	db  *sql.DB
	log *zap.Logger

	stmtMu sync.RWMutex
	stmts  map[string]*sql.Stmt
}

// New opens (or creates) the catalog database and applies the schema.
func New(cfg Config, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = "file:./xrai-catalog.db"
	}
	if !strings.HasPrefix(dbURL, "file:") && cfg.AuthToken != "" {
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			q.Set("authToken", cfg.AuthToken)
			u.RawQuery = q.Encode()
			dbURL = u.String()
		}
	}
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	c := &Catalog{db: db, log: log, stmts: make(map[string]*sql.Stmt)}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return c, nil
}

// initialize creates tables and indexes if they don't exist.
func (c *Catalog) initialize() error {
	tx, err := c.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for initialization: %w", err)
	}
	defer tx.Rollback()

	for _, statement := range schema() {
		if _, err := tx.Exec(statement); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return tx.Commit()
}

// Close releases prepared statements and the database handle.
func (c *Catalog) Close() error {
	c.stmtMu.Lock()
	for _, stmt := range c.stmts {
		_ = stmt.Close()
	}
	c.stmts = make(map[string]*sql.Stmt)
	c.stmtMu.Unlock()
	return c.db.Close()
}
