package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"articlehub.org/internal/auth"
	"articlehub.org/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("HUB_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", "migrations", "Path to SQL migrations")
		seedsPath      = flag.String("seeds", "seeds", "Path to SQL seeds")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or HUB_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|status|bootstrap]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	case "bootstrap":
		// Schema, admin account, sample content: everything a fresh
		// deployment needs in one shot.
		if err = mgr.Up(ctx); err == nil {
			if err = bootstrapAdmin(ctx, db); err == nil {
				err = mgr.Seed(ctx)
			}
		}
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// bootstrapAdmin creates the initial ADMIN account. Idempotent: an existing
// email wins and the configured password is ignored.
func bootstrapAdmin(ctx context.Context, db *sql.DB) error {
	email := os.Getenv("HUB_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("HUB_ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("HUB_ADMIN_PASSWORD is required for bootstrap")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		insert into users (id, email, name, password, role)
		values ($1, $2, $3, $4, $5)
		on conflict (email) do nothing
	`, uuid.NewString(), email, "Admin User", hash, string(auth.RoleAdmin))
	if err != nil {
		return err
	}
	log.Printf("admin account ready: %s", email)
	return nil
}
