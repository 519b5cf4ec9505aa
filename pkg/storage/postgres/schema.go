package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements bootstrap the catalog schema. Statements are idempotent
// so they run safely on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price DECIMAL(10, 2) NOT NULL,
		category VARCHAR(100) NOT NULL,
		description TEXT NOT NULL,
		owner_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	// Secondary indexes backing the ownership and category filters
	`CREATE INDEX IF NOT EXISTS idx_products_owner_id ON products(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
}

// Migrate creates the catalog tables and indexes if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}
	return nil
}
