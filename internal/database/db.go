package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn   *sql.DB
	dbType string
}

type Config struct {
	Type       string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SQLitePath string
}

func NewDB(config Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch config.Type {
	case "sqlite":
		conn, err = sql.Open("sqlite3", config.SQLitePath+"?_foreign_keys=on")
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.Name)
		conn, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, dbType: config.Type}

	// Only create tables for SQLite; PostgreSQL uses migrations.
	if config.Type == "sqlite" {
		if err := db.createTables(); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return db, nil
}

func (db *DB) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS scenes (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		title TEXT,
		synopsis TEXT,
		duration INTEGER,
		quality TEXT,
		site TEXT,
		studio TEXT,
		added_on TEXT,
		scene_date TEXT,
		personal_rating TEXT,
		cover TEXT,
		status TEXT
	);
	CREATE TABLE IF NOT EXISTS actresses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		biography TEXT,
		photo TEXT,
		typical_tags TEXT,
		average_rating REAL,
		last_viewed TEXT,
		comment TEXT,
		birth_date TEXT,
		nationality TEXT
	);
	CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS scene_actresses (
		scene_id TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
		actress_id TEXT NOT NULL REFERENCES actresses(id) ON DELETE CASCADE,
		PRIMARY KEY (scene_id, actress_id)
	);
	CREATE TABLE IF NOT EXISTS scene_tags (
		scene_id TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (scene_id, tag_id)
	);
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		scene_id TEXT NOT NULL UNIQUE REFERENCES scenes(id) ON DELETE CASCADE,
		added_on TEXT
	);
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		scene_id TEXT NOT NULL UNIQUE REFERENCES scenes(id) ON DELETE CASCADE,
		first_viewed TEXT,
		last_viewed TEXT,
		view_count INTEGER NOT NULL DEFAULT 1,
		session_rating REAL,
		session_comment TEXT
	);
	`

	_, err := db.conn.Exec(query)
	return err
}

// RunMigrations applies pending .sql migrations. SQLite tables are
// created directly, so this only does work for PostgreSQL.
func (db *DB) RunMigrations(migrationsPath string) error {
	migrator := NewMigrator(db.conn, db.dbType)
	return migrator.Run(migrationsPath)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Type() string {
	return db.dbType
}

// rebind converts "?" placeholders to "$n" for PostgreSQL. Repository
// queries are written with "?".
func (db *DB) rebind(query string) string {
	if db.dbType != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
