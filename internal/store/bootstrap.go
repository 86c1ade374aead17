package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ballot-backend/internal/metadata"
)

// Bootstrap creates system tables, seeds the builtin content type
// definitions and a default admin user. Idempotent.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.SystemTablesSQL()); err != nil {
		return fmt.Errorf("create system tables: %w", err)
	}

	if err := s.seedContentTypes(ctx); err != nil {
		return fmt.Errorf("seed content types: %w", err)
	}

	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func (s *Store) seedContentTypes(ctx context.Context) error {
	existing := make(map[string]bool)
	rows, err := QueryRows(ctx, s.DB, "SELECT slug FROM _content_types")
	if err != nil {
		return err
	}
	for _, row := range rows {
		existing[fmt.Sprintf("%v", row["slug"])] = true
	}

	for _, ct := range metadata.Builtin() {
		if existing[ct.Slug] {
			continue
		}
		def, err := json.Marshal(ct)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", ct.Slug, err)
		}
		pb := s.Dialect.NewParamBuilder()
		sqlStr := fmt.Sprintf("INSERT INTO _content_types (slug, definition) VALUES (%s, %s)",
			pb.Add(ct.Slug), pb.Add(string(def)))
		if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
			return err
		}
		log.Printf("Seeded content type %s", ct.Slug)
	}
	return nil
}

func (s *Store) seedAdminUser(ctx context.Context) error {
	row, err := QueryRow(ctx, s.DB, "SELECT COUNT(*) AS n FROM _users")
	if err != nil {
		return err
	}
	if n, _ := ToID(row["n"]); n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("INSERT INTO _users (id, email, password_hash, roles) VALUES (%s, %s, %s, %s)",
		pb.Add(uuid.New().String()), pb.Add("admin@localhost"), pb.Add(string(hash)),
		pb.Add(s.Dialect.ArrayParam([]string{"admin"})))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return err
	}
	log.Println("Seeded default admin user (admin@localhost / admin) - change the password")
	return nil
}
