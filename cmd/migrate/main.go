package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/solarmap/internal/pkg/config"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|status>")
	}

	cfg, err := config.Load("solarmap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		log.Fatalf("schema_migrations: %v", err)
	}

	switch os.Args[1] {
	case "up":
		up(ctx, pool)
	case "down":
		down(ctx, pool)
	case "status":
		status(ctx, pool)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// upFiles lists NNN_name.sql files in dir in order; *.down.sql files are rollbacks.
func upFiles(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatalf("glob: %v", err)
	}
	var files []string
	for _, m := range matches {
		if !strings.HasSuffix(m, ".down.sql") {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func version(file string) string {
	return strings.TrimSuffix(filepath.Base(file), ".sql")
}

func applied(ctx context.Context, pool *pgxpool.Pool) map[string]bool {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		log.Fatalf("list applied: %v", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		log.Fatalf("list applied: %v", err)
	}
	out := make(map[string]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out
}

func exec(ctx context.Context, pool *pgxpool.Pool, file, record string, args ...any) {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("read %s: %v", file, err)
	}
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, record, args...)
		return err
	})
	if err != nil {
		log.Fatalf("exec %s: %v", file, err)
	}
	fmt.Printf("OK  %s\n", file)
}

func up(ctx context.Context, pool *pgxpool.Pool) {
	done := applied(ctx, pool)
	for _, f := range upFiles(migrationsDir) {
		if done[version(f)] {
			continue
		}
		exec(ctx, pool, f, `INSERT INTO schema_migrations (version) VALUES ($1)`, version(f))
	}
	log.Println("all migrations applied")
}

// down rolls back the most recent applied migration.
func down(ctx context.Context, pool *pgxpool.Pool) {
	last, ok, err := lastVersion(pool.QueryRow(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`))
	if err != nil {
		log.Fatalf("last migration: %v", err)
	}
	if !ok {
		log.Println("nothing to roll back")
		return
	}
	file := filepath.Join(migrationsDir, last+".down.sql")
	exec(ctx, pool, file, `DELETE FROM schema_migrations WHERE version = $1`, last)
}

// lastVersion scans the newest applied version; ok is false when none is applied.
func lastVersion(row pgx.Row) (string, bool, error) {
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func status(ctx context.Context, pool *pgxpool.Pool) {
	done := applied(ctx, pool)
	for _, f := range upFiles(migrationsDir) {
		state := "pending"
		if done[version(f)] {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, version(f))
	}
}
