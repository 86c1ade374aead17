package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// LoadAll reads all content type definitions from the database and populates
// the registry.
func LoadAll(ctx context.Context, db *sql.DB, reg *Registry) error {
	rows, err := db.QueryContext(ctx, "SELECT slug, definition FROM _content_types ORDER BY slug")
	if err != nil {
		return fmt.Errorf("load content types: %w", err)
	}
	defer rows.Close()

	var types []*ContentType
	for rows.Next() {
		var slug string
		var defJSON []byte
		if err := rows.Scan(&slug, &defJSON); err != nil {
			return fmt.Errorf("scan content type row: %w", err)
		}

		var ct ContentType
		if err := json.Unmarshal(defJSON, &ct); err != nil {
			log.Printf("WARN: skipping content type %s (invalid JSON): %v", slug, err)
			continue
		}
		types = append(types, &ct)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	reg.Load(types)
	log.Printf("Loaded %d content types into registry", len(types))
	return nil
}

// Reload is an alias for LoadAll, called after definitions change.
func Reload(ctx context.Context, db *sql.DB, reg *Registry) error {
	return LoadAll(ctx, db, reg)
}
