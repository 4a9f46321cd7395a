package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JT5D/xrai/internal/metrics"
)

// getStmt returns or prepares and caches a statement.
func (c *Catalog) getStmt(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	// fast path read
	c.stmtMu.RLock()
	if stmt, ok := c.stmts[sqlText]; ok {
		c.stmtMu.RUnlock()
		metrics.Default().IncCacheHit("stmt")
		return stmt, nil
	}
	c.stmtMu.RUnlock()
	metrics.Default().IncCacheMiss("stmt")

	stmt, err := c.db.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	c.stmtMu.Lock()
	c.stmts[sqlText] = stmt
	c.stmtMu.Unlock()
	return stmt, nil
}
