// Package client wires up the local database: it opens the SQLite file,
// applies embedded migrations, and hands out repository instances.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dzaky3022/wincal/internal/client/migrations"
	"github.com/dzaky3022/wincal/internal/client/repositories/metadata"
	"github.com/dzaky3022/wincal/internal/client/repositories/results"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	Results  *results.SQLiteRepository
	Metadata *metadata.SQLiteRepository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	repos := &Repositories{
		Results:  results.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}
	return repos, nil
}
