package catalog

// schema returns the catalog DDL.
func schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS assets (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        record_type TEXT NOT NULL DEFAULT 'model',
        weight REAL NOT NULL DEFAULT 1,
        url TEXT NOT NULL DEFAULT '',
        model_ref TEXT NOT NULL DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`,

		`CREATE TABLE IF NOT EXISTS asset_relationships (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source_id TEXT NOT NULL,
        target_id TEXT NOT NULL,
        strength REAL NOT NULL DEFAULT 0.5,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (source_id) REFERENCES assets(id)
    )`,

		`CREATE INDEX IF NOT EXISTS idx_assets_name ON assets(name)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_created_at ON assets(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_rel_source ON asset_relationships(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rel_target ON asset_relationships(target_id)`,
	}
}
