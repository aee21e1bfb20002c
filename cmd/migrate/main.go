package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/doorline/leadcapture-api/internal/config"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate [-dir path] up|up-by-one|down|redo|reset|status|version|create <name>"

// invocation is a parsed command line
type invocation struct {
	dir     string
	command string
	name    string
}

var errUsage = errors.New(usage)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs reads the command line. An empty -dir falls back to defaultDir.
func parseArgs(args []string, defaultDir string) (invocation, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.String("dir", "", "directory holding the goose SQL migrations")
	if err := fs.Parse(args); err != nil {
		return invocation{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	inv := invocation{dir: *dir}
	if inv.dir == "" {
		inv.dir = defaultDir
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return invocation{}, errUsage
	}
	inv.command = rest[0]

	switch inv.command {
	case "up", "up-by-one", "down", "redo", "reset", "status", "version":
		if len(rest) > 1 {
			return invocation{}, fmt.Errorf("%s takes no arguments", inv.command)
		}
	case "create":
		if len(rest) != 2 || rest[1] == "" {
			return invocation{}, fmt.Errorf("create requires a migration name")
		}
		inv.name = rest[1]
	default:
		return invocation{}, fmt.Errorf("unknown command: %s", inv.command)
	}
	return inv, nil
}

func run(args []string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	inv, err := parseArgs(args, cfg.Database.MigrationsDir)
	if err != nil {
		return err
	}

	// create only writes a file and needs no connection
	if inv.command == "create" {
		if err := goose.Create(nil, inv.dir, inv.name, "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Fprintf(out, "Migration created in %s: %s\n", inv.dir, inv.name)
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	return apply(db, inv, out)
}

func apply(db *sql.DB, inv invocation, out io.Writer) error {
	switch inv.command {
	case "up":
		if err := goose.Up(db, inv.dir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Fprintln(out, "Migrations applied successfully")
	case "up-by-one":
		if err := goose.UpByOne(db, inv.dir); err != nil {
			return fmt.Errorf("failed to apply next migration: %w", err)
		}
		fmt.Fprintln(out, "Next migration applied")
	case "down":
		if err := goose.Down(db, inv.dir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		fmt.Fprintln(out, "Migration rolled back successfully")
	case "redo":
		if err := goose.Redo(db, inv.dir); err != nil {
			return fmt.Errorf("failed to redo migration: %w", err)
		}
		fmt.Fprintln(out, "Latest migration re-applied")
	case "reset":
		if err := goose.Reset(db, inv.dir); err != nil {
			return fmt.Errorf("failed to reset migrations: %w", err)
		}
		fmt.Fprintln(out, "All migrations rolled back")
	case "status":
		if err := goose.Status(db, inv.dir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
	case "version":
		if err := goose.Version(db, inv.dir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
	}
	return nil
}
