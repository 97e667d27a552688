package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmercier/scenedex/internal/database"
)

func main() {
	var (
		dbType         = flag.String("db", "postgres", "Database type (postgres or sqlite)")
		host           = flag.String("host", "localhost", "Database host")
		port           = flag.Int("port", 5432, "Database port")
		user           = flag.String("user", "scenedex", "Database user")
		password       = flag.String("password", "scenedex_dev", "Database password")
		dbName         = flag.String("name", "scenedex", "Database name")
		sqlitePath     = flag.String("sqlite", "./scenedex.db", "SQLite database path")
		migrationsPath = flag.String("migrations", "./migrations", "Path to migrations directory")
		status         = flag.Bool("status", false, "Show migration status only")
	)
	flag.Parse()

	config := database.Config{
		Type:       *dbType,
		Host:       *host,
		Port:       *port,
		User:       *user,
		Password:   *password,
		Name:       *dbName,
		SQLitePath: *sqlitePath,
	}

	// Environment variables take precedence over flags.
	if env := os.Getenv("DB_TYPE"); env != "" {
		config.Type = env
	}
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Host = env
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Name = env
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		config.SQLitePath = env
	}

	db, err := database.NewDB(config)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if config.Type != "postgres" {
		fmt.Println("SQLite creates its schema on startup; no migrations to run.")
		return
	}

	migrator := database.NewMigrator(db.Conn(), config.Type)

	if *status {
		if err := migrator.Initialize(); err != nil {
			slog.Error("failed to initialize migrator", "error", err)
			os.Exit(1)
		}

		applied, err := migrator.GetAppliedMigrations()
		if err != nil {
			slog.Error("failed to get applied migrations", "error", err)
			os.Exit(1)
		}

		migrations, err := migrator.LoadMigrations(*migrationsPath)
		if err != nil {
			slog.Error("failed to load migrations", "error", err)
			os.Exit(1)
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		for _, m := range migrations {
			state := "pending"
			if applied[m.Version] {
				state = "applied"
			}
			fmt.Printf("%s - %s [%s]\n", m.Version, m.Name, state)
		}
		return
	}

	fmt.Printf("Running migrations from %s...\n", *migrationsPath)
	if err := db.RunMigrations(*migrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	fmt.Println("Migrations completed successfully!")
}
