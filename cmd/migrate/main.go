// CLI tool to apply the embedded goose migrations.
// Usage: go run ./cmd/migrate up|down|status
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lg/nutrition-plan-go-api/db"
	"lg/nutrition-plan-go-api/internal/config"
	"lg/nutrition-plan-go-api/internal/logger"
)

// openDB returns a database/sql handle over a pgx pool, which is what goose
// expects, plus a cleanup func.
func openDB(ctx context.Context, dbURL string) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	closeDB := func() {
		_ = sqlDB.Close()
		pool.Close()
	}

	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}

	return sqlDB, closeDB, nil
}

func gooseCommand(cfg *config.Config, use, short string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, closeDB, err := openDB(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := run(sqlDB, db.MigrationsDir); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manages the database schema",
	}
	rootCmd.AddCommand(
		gooseCommand(cfg, "up", "Migrates the database to the latest version",
			func(d *sql.DB, dir string) error { return goose.Up(d, dir) }),
		gooseCommand(cfg, "down", "Rolls back the most recent migration",
			func(d *sql.DB, dir string) error { return goose.Down(d, dir) }),
		gooseCommand(cfg, "status", "Prints the status of every migration",
			func(d *sql.DB, dir string) error { return goose.Status(d, dir) }),
	)
	return rootCmd
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}
	logger.Setup(cfg.Environment)

	ctx := context.Background()
	err = newRootCommand(cfg).ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "migration failed", zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
