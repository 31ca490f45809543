// Command apikey issues an API key for one principal and prints it once.
// Only the key's hash is stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rpggio/attest/internal/auth"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/sqlite"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "apikey: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("apikey", flag.ContinueOnError)
	dbPath := fs.String("db", envOr("ATTEST_DB_PATH", "attest.db"), "sqlite database path")
	principal := fs.String("principal", "", "principal the key acts as")
	description := fs.String("description", "", "free-form note stored with the key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := access.ParsePrincipal(*principal)
	if err != nil {
		return fmt.Errorf("principal: %w", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	key, err := auth.NewKeyResolver(sqlite.NewAPIKeyRepository(db), logger).Issue(context.Background(), p, *description)
	if err != nil {
		return fmt.Errorf("issue key: %w", err)
	}
	_, err = fmt.Fprintln(out, key)
	return err
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
