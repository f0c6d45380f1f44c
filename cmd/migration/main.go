package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strconv"

	"towerdb/cmd/migration/seed"
	"towerdb/config"
	"towerdb/internal/database"
	"towerdb/pkg/logger"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

const MIGRATION_DIALECT = "postgres"

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationSource = &migrate.EmbedFileSystemMigrationSource{
	FileSystem: migrationFiles,
	Root:       "migrations",
}

type command func(db database.DB, config config.Config, args []string, log logger.Logger) error

var commands = map[string]command{
	"up":     cmdUp,
	"down":   cmdDown,
	"status": cmdStatus,
	"seed":   cmdSeed,
}

func main() {
	log := logger.New("migrations").Function("main")

	name, args := "up", []string(nil)
	if len(os.Args) > 1 {
		name, args = os.Args[1], os.Args[2:]
	}
	cmd, ok := commands[name]
	if !ok {
		log.Er("unknown command", fmt.Errorf("%q is not one of up, down, status, seed", name))
		os.Exit(2)
	}

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to connect to database", err)
		os.Exit(1)
	}

	err = cmd(db, config, args, log)
	if closeErr := db.Close(); closeErr != nil {
		log.Er("failed to close database", closeErr)
	}
	if err != nil {
		log.Er("migration command failed", err, "command", name)
		os.Exit(1)
	}

	log.Info("Migration command complete", "command", name)
}

// cmdUp creates the tables through gorm, then applies the SQL files that add
// indexes and column changes on top.
func cmdUp(db database.DB, config config.Config, _ []string, log logger.Logger) error {
	log = log.Function("up")

	if err := db.MigrateModels(); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	n, err := execSQL(config, migrate.Up, 0)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}
	log.Info("Applied migrations", "count", n)
	return nil
}

// cmdDown rolls back the given number of SQL migrations, one by default.
func cmdDown(_ database.DB, config config.Config, args []string, log logger.Logger) error {
	log = log.Function("down")

	steps := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return log.Error("step count must be a positive integer", "steps", args[0])
		}
		steps = parsed
	}

	n, err := execSQL(config, migrate.Down, steps)
	if err != nil {
		return log.Err("failed to roll back migrations", err)
	}
	log.Info("Rolled back migrations", "count", n)
	return nil
}

func cmdStatus(_ database.DB, config config.Config, _ []string, log logger.Logger) error {
	log = log.Function("status")

	conn, err := sql.Open(MIGRATION_DIALECT, database.DSN(config))
	if err != nil {
		return log.Err("failed to open database", err)
	}
	defer conn.Close()

	known, err := migrationSource.FindMigrations()
	if err != nil {
		return log.Err("failed to read migration files", err)
	}
	records, err := migrate.GetMigrationRecords(conn, MIGRATION_DIALECT)
	if err != nil {
		return log.Err("failed to read applied migrations", err)
	}

	applied := make(map[string]bool, len(records))
	for _, record := range records {
		applied[record.Id] = true
		log.Info("applied", "id", record.Id, "at", record.AppliedAt)
	}
	for _, m := range known {
		if !applied[m.Id] {
			log.Info("pending", "id", m.Id)
		}
	}
	return nil
}

// cmdSeed rebuilds the schema from nothing and loads the fixture towers.
func cmdSeed(db database.DB, config config.Config, _ []string, log logger.Logger) error {
	log = log.Function("seed")

	if _, err := execSQL(config, migrate.Down, 0); err != nil {
		return log.Err("failed to roll back migrations", err)
	}
	if err := db.SQL.Migrator().DropTable(database.Models...); err != nil {
		return log.Err("failed to drop tables", err)
	}
	if err := db.FlushAllCaches(context.Background()); err != nil {
		log.Warn("failed to flush cache databases", "error", err)
	}

	if err := cmdUp(db, config, nil, log); err != nil {
		return err
	}

	if err := seed.Seed(db.SQL, log); err != nil {
		return log.Err("failed to seed database", err)
	}
	return nil
}

func execSQL(config config.Config, direction migrate.MigrationDirection, max int) (int, error) {
	conn, err := sql.Open(MIGRATION_DIALECT, database.DSN(config))
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	return migrate.ExecMax(conn, MIGRATION_DIALECT, migrationSource, direction, max)
}
