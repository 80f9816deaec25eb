// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

// dhmigrate prints the embedded migration SQL for manual review, or
// applies it to a database with -apply.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

func main() {
	apply := flag.Bool("apply", false, "Apply migrations instead of printing them")
	dbPath := flag.String("db", "", "SQLite database path (default: DH_DB_PATH or ./data/dreamhouse.db)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "dhmigrate - Dream House database migrations\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Without -apply the migration SQL is written to stdout.\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*apply, *dbPath); err != nil {
		slog.Error("dhmigrate failed", "error", err)
		os.Exit(1)
	}
}

func run(apply bool, dbPath string) error {
	if !apply {
		return printMigrations(os.Stdout)
	}

	_ = godotenv.Load()
	if dbPath == "" {
		dbPath = os.Getenv("DH_DB_PATH")
	}
	if dbPath == "" {
		dbPath = "./data/dreamhouse.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("migrations applied", "path", dbPath)
	return nil
}

// printMigrations writes every embedded migration file to w in
// filename order, each preceded by a header comment.
func printMigrations(w *os.File) error {
	migrations := store.MigrationsFS()

	var names []string
	err := fs.WalkDir(migrations, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if _, err := fmt.Fprintf(w, "-- %s\n%s\n", filepath.Base(name), data); err != nil {
			return err
		}
	}
	return nil
}
