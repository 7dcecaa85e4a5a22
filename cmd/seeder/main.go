package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/klearport/customs-console/internal/config"
	"github.com/klearport/customs-console/internal/database"
)

// SeedUser is one account to create under the demo company
type SeedUser struct {
	Email string
	Name  string
	Role  string
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	companyName := flag.String("company", "Demo Forwarding Sdn Bhd", "Name of the demo company")
	companyCode := flag.String("code", "DEMO", "Unique code of the demo company")
	password := flag.String("password", "changeme123", "Password for all seeded accounts")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := []SeedUser{
		{Email: "officer@" + *companyCode + ".local", Name: "Demo Officer", Role: "officer"},
		{Email: "viewer@" + *companyCode + ".local", Name: "Demo Viewer", Role: "viewer"},
	}

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		log.Printf("Would create company %q (code %s)", *companyName, *companyCode)
		for _, u := range users {
			log.Printf("Would create user %s (%s)", u.Email, u.Role)
		}
		return
	}

	created, err := seed(db, *companyName, *companyCode, *password, users)
	if err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Printf("Seed complete: %d new user(s)", created)
}

// seed creates the demo company and its accounts in one transaction. Existing
// rows are left alone so the seeder is safe to re-run.
func seed(db *database.DB, companyName, companyCode, password string, users []SeedUser) (int, error) {
	ctx := context.Background()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Find or create the company
	var companyID int
	err = tx.QueryRow(ctx, `SELECT id FROM companies WHERE code = $1`, companyCode).Scan(&companyID)
	if err == pgx.ErrNoRows {
		err = tx.QueryRow(ctx, `
			INSERT INTO companies (name, code, active, created_at, updated_at)
			VALUES ($1, $2, true, NOW(), NOW())
			RETURNING id
		`, companyName, companyCode).Scan(&companyID)
		if err != nil {
			return 0, fmt.Errorf("failed to create company %s: %w", companyCode, err)
		}
		log.Printf("Created company %q (id %d)", companyName, companyID)
	} else if err != nil {
		return 0, fmt.Errorf("failed to check for company %s: %w", companyCode, err)
	} else {
		log.Printf("Company %q already exists (id %d)", companyName, companyID)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	for _, u := range users {
		var exists bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", u.Email,
		).Scan(&exists)
		if err != nil {
			return created, fmt.Errorf("failed to check for user %s: %w", u.Email, err)
		}
		if exists {
			log.Printf("User %s already exists, skipping", u.Email)
			continue
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO users (email, password_hash, name, company_id, role, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		`, u.Email, string(hashedPassword), u.Name, companyID, u.Role)
		if err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		log.Printf("Created user %s (%s)", u.Email, u.Role)
		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}
