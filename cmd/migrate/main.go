package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/adityarane/GymBuddyBack/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}

	migrationsPath, err := findMigrationsDir()
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.New("file://"+migrationsPath, cfg.DBUrl)
	if err != nil {
		log.Fatal(err)
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatal(err)
		}
		log.Println("Migration down successful")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Schema version %d (dirty=%t)", version, dirty)
	default:
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal(err)
		}
		log.Println("Migration up successful")
	}
}

// findMigrationsDir walks up from the working directory until it finds a
// migrations directory, so the command works from the repo root or from
// cmd/migrate.
func findMigrationsDir() (string, error) {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return filepath.Abs(dir)
	}

	current, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", errors.New("migrations directory not found")
		}
		current = parent
	}
}
