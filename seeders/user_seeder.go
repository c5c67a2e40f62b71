package seeders

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	email := "admin@inventory.local"

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		log.Println("  admin already exists, skipping")
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("  SEED_ADMIN_PASSWORD not set, using default")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO usuarios (fio, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, 'ADMIN', NOW(), NOW())`,
		"Administrador del Sistema", email, string(hash))
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

var technicians = []struct {
	fio   string
	email string
}{
	{"Carlos Mendez", "cmendez@inventory.local"},
	{"Lucia Herrera", "lherrera@inventory.local"},
}

func seedTechnicians(ctx context.Context, db *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("tecnico123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash technician password: %w", err)
	}

	for _, t := range technicians {
		_, err := db.Exec(ctx, `
			INSERT INTO usuarios (fio, email, password, role, created_at, updated_at)
			VALUES ($1, $2, $3, 'TECNICO', NOW(), NOW())
			ON CONFLICT (email) DO NOTHING`,
			t.fio, t.email, string(hash))
		if err != nil {
			return fmt.Errorf("insert technician %q: %w", t.email, err)
		}
	}
	return nil
}
