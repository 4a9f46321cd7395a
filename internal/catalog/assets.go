package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
)

// AddAssets upserts records and their relationships in one transaction.
// Records without an id get a generated one.
func (c *Catalog) AddAssets(ctx context.Context, records []asset.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Name == "" {
			r.Name = r.ID
		}
		if r.Weight <= 0 {
			r.Weight = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO assets (id, name, description, record_type, weight, url, model_ref)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Description, r.Type, r.Weight, r.URL, r.ModelRef,
		); err != nil {
			return fmt.Errorf("failed to upsert asset %q: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM asset_relationships WHERE source_id = ?`, r.ID); err != nil {
			return fmt.Errorf("failed to clear relationships for %q: %w", r.ID, err)
		}
		for _, rel := range r.Relationships {
			if rel.TargetID == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO asset_relationships (source_id, target_id, strength) VALUES (?, ?, ?)`,
				r.ID, rel.TargetID, rel.Strength,
			); err != nil {
				return fmt.Errorf("failed to insert relationship %q -> %q: %w", r.ID, rel.TargetID, err)
			}
		}
	}
	return tx.Commit()
}

// GetAsset fetches one record by id.
func (c *Catalog) GetAsset(ctx context.Context, id string) (asset.Record, error) {
	stmt, err := c.getStmt(ctx,
		`SELECT id, name, description, record_type, weight, url, model_ref FROM assets WHERE id = ?`)
	if err != nil {
		return asset.Record{}, err
	}
	r, err := scanAsset(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Record{}, ErrNotFound
	}
	if err != nil {
		return asset.Record{}, fmt.Errorf("failed to get asset %q: %w", id, err)
	}
	r.Relationships, err = c.relationshipsFor(ctx, r.ID)
	if err != nil {
		return asset.Record{}, err
	}
	return r, nil
}

// Search returns assets whose name or description contains the query,
// case-insensitively, most recent first.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]asset.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	stmt, err := c.getStmt(ctx,
		`SELECT id, name, description, record_type, weight, url, model_ref FROM assets
         WHERE name LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%'
         ORDER BY created_at DESC LIMIT ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, query, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}
	return c.collect(ctx, rows)
}

// List returns the most recently added assets.
func (c *Catalog) List(ctx context.Context, limit int) ([]asset.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	stmt, err := c.getStmt(ctx,
		`SELECT id, name, description, record_type, weight, url, model_ref FROM assets
         ORDER BY created_at DESC LIMIT ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return c.collect(ctx, rows)
}

// DeleteAssets removes assets and their outgoing relationships.
func (c *Catalog) DeleteAssets(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM asset_relationships WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
			return fmt.Errorf("failed to delete relationships for %q: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete asset %q: %w", id, err)
		}
	}
	return tx.Commit()
}

func (c *Catalog) collect(ctx context.Context, rows *sql.Rows) ([]asset.Record, error) {
	defer rows.Close()
	var records []asset.Record
	for rows.Next() {
		r, err := scanAsset(rows)
		if err != nil {
			c.log.Warn("failed to scan asset row", zap.Error(err))
			continue
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	for i := range records {
		rels, err := c.relationshipsFor(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Relationships = rels
	}
	return records, nil
}

func (c *Catalog) relationshipsFor(ctx context.Context, id string) ([]asset.Relationship, error) {
	stmt, err := c.getStmt(ctx,
		`SELECT target_id, strength FROM asset_relationships WHERE source_id = ? ORDER BY id`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships for %q: %w", id, err)
	}
	defer rows.Close()
	var rels []asset.Relationship
	for rows.Next() {
		var rel asset.Relationship
		if err := rows.Scan(&rel.TargetID, &rel.Strength); err != nil {
			return nil, fmt.Errorf("failed to scan relationship row: %w", err)
		}
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (asset.Record, error) {
	var r asset.Record
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Type, &r.Weight, &r.URL, &r.ModelRef)
	r.Source = asset.SourceLocalIndex
	return r, err
}
