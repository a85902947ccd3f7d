package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/apexgym/backend/internal/infrastructure/config"
	"github.com/apexgym/backend/internal/infrastructure/logger"
	"github.com/apexgym/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up                 Apply all pending migrations
  down               Roll back all migrations
  steps <n>          Apply n migrations (negative rolls back)
  version            Print the current migration version
  force <version>    Force the schema version without running migrations
  create <name>      Create a new pair of migration files

Flags:
  -path    Path to migration files (default "migrations")
  -url     Database URL (defaults to the configured database)
`

func main() {
	var (
		migrationsPath = flag.String("path", "migrations", "path to migration files")
		databaseURL    = flag.String("url", "", "database URL, overrides configuration")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	command := args[0]

	// create does not need a database connection
	if command == "create" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "create requires a migration name")
			os.Exit(2)
		}
		mf, err := migration.CreateMigration(*migrationsPath, args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		fmt.Println(mf.UpPath)
		fmt.Println(mf.DownPath)
		return
	}

	url := *databaseURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal("Failed to load configuration", zap.Error(err))
		}
		if cfg.Database.IsSQLite() {
			log.Fatal("Versioned migrations require Postgres; SQLite uses auto migration at startup")
		}
		url = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Database.User, cfg.Database.Password,
			cfg.Database.Host, cfg.Database.Port,
			cfg.Database.DBName, cfg.Database.SSLMode)
	}

	migrator, err := migration.NewFromURL(url, *migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("Error closing migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "steps":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "steps requires a count")
			os.Exit(2)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid step count:", args[1])
			os.Exit(2)
		}
		if err := migrator.Steps(n); err != nil {
			log.Fatal("Migration steps failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			log.Fatal("Failed to read migration version", zap.Error(err))
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
	case "force":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "force requires a version")
			os.Exit(2)
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid version:", args[1])
			os.Exit(2)
		}
		if err := migrator.Force(v); err != nil {
			log.Fatal("Migration force failed", zap.Error(err))
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", command)
		flag.Usage()
		os.Exit(2)
	}
}
