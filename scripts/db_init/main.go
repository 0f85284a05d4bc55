// Command db_init creates the schema and the default administrator
// in the database named by DATABASE_URL, then exits.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	dbfs "github.com/garnizeh/zelar/db"
	"github.com/garnizeh/zelar/internal/config"
	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logger.New(cfg.Logging, os.Stderr)

	m, err := db.Open(ctx, db.OptionsFromConfig(cfg.Database), log)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer m.Close()

	if err := db.EnsureSchema(ctx, m, dbfs.Migrations); err != nil {
		return fmt.Errorf("schema error: %w", err)
	}
	return nil
}
