package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// migrationsDir is where goose looks for SQL migration files, relative to
// the working directory of the server process.
const migrationsDir = "migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf implements goose.Logger by forwarding messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger by forwarding messages to slog.Error.
// Exiting is left to the caller; goose only calls this on unrecoverable
// internal failures.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the given goose command ("up", "down", "status")
// against the application's database connection.
func (app *application) runMigrations(command string) error {
	goose.SetLogger(&slogGooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	app.logger.Info("executing migrations",
		"command", command,
		"dir", migrationsDir)

	var err error
	switch command {
	case "up":
		err = goose.Up(app.db, migrationsDir)
	case "down":
		err = goose.Down(app.db, migrationsDir)
	case "status":
		err = goose.Status(app.db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
