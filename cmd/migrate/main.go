// Package main applies the embedded schema migrations for the site store
// (applications and news tables). Usage: migrate [force <version>].
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gruzpro/site-platform/migrations"
)

func main() {
	// Migrations always need the read-write DSN; the read-only fallback
	// used elsewhere cannot alter schema.
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	store, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Ping(); err != nil {
		log.Fatalf("ping store: %v", err)
	}

	target, err := postgres.WithInstance(store, &postgres.Config{})
	if err != nil {
		log.Fatalf("postgres driver: %v", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("embedded source: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", target)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	// "migrate force <version>" recovers from a dirty schema version.
	if len(os.Args) >= 3 && os.Args[1] == "force" {
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("invalid version %q: %v", os.Args[2], err)
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("force version: %v", err)
		}
		fmt.Printf("schema version forced to %d\n", version)
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrate up: %v", err)
	}

	fmt.Println("site store schema is up to date")
}
