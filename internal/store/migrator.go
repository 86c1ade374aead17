package store

import (
	"context"
	"fmt"
	"strings"

	"ballot-backend/internal/metadata"
)

type Migrator struct {
	store *Store
}

func NewMigrator(store *Store) *Migrator {
	return &Migrator{store: store}
}

// MigrateAll ensures a table exists for every registered content type.
func (m *Migrator) MigrateAll(ctx context.Context, reg *metadata.Registry) error {
	for _, ct := range reg.AllContentTypes() {
		if err := m.Migrate(ctx, ct); err != nil {
			return fmt.Errorf("migrate %s: %w", ct.Slug, err)
		}
	}
	return nil
}

// Migrate ensures the table matches the content type metadata.
// Creates the table if it doesn't exist, or adds missing columns.
func (m *Migrator) Migrate(ctx context.Context, ct *metadata.ContentType) error {
	exists, err := m.store.Dialect.TableExists(ctx, m.store.DB, ct.Table)
	if err != nil {
		return fmt.Errorf("check table exists: %w", err)
	}

	if !exists {
		return m.createTable(ctx, ct)
	}
	return m.alterTable(ctx, ct)
}

func (m *Migrator) createTable(ctx context.Context, ct *metadata.ContentType) error {
	cols := []string{m.store.Dialect.IDColumnSQL()}
	for _, a := range ct.Attributes {
		cols = append(cols, m.columnDef(a))
	}

	sqlStr := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", ct.Table, strings.Join(cols, ",\n\t"))
	if _, err := m.store.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("create table %s: %w", ct.Table, err)
	}
	return nil
}

// alterTable adds columns for attributes missing from an existing table.
// Dropped attributes leave their columns in place.
func (m *Migrator) alterTable(ctx context.Context, ct *metadata.ContentType) error {
	existing, err := m.store.Dialect.GetColumns(ctx, m.store.DB, ct.Table)
	if err != nil {
		return fmt.Errorf("get columns for %s: %w", ct.Table, err)
	}

	for _, a := range ct.Attributes {
		if _, ok := existing[a.Name]; ok {
			continue
		}
		sqlStr := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", ct.Table, m.columnDef(a))
		if _, err := m.store.DB.ExecContext(ctx, sqlStr); err != nil {
			return fmt.Errorf("add column %s.%s: %w", ct.Table, a.Name, err)
		}
	}
	return nil
}

func (m *Migrator) columnDef(a metadata.Attribute) string {
	def := fmt.Sprintf("%s %s", a.Name, columnTypeFor(m.store.Dialect, a))
	if a.Unique {
		def += " UNIQUE"
	}
	return def
}
