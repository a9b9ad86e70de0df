package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/New-Magic-Tech/interlude-backend/internal/config"
	"github.com/New-Magic-Tech/interlude-backend/internal/platform/logger"
	"github.com/New-Magic-Tech/interlude-backend/internal/platform/postgres"
	"github.com/New-Magic-Tech/interlude-backend/internal/service"
	"github.com/New-Magic-Tech/interlude-backend/internal/service/auth"
	"github.com/New-Magic-Tech/interlude-backend/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	tokens   auth.TokenIssuer
	hasher   auth.PasswordHasher
	accounts service.AccountService
}

// newApplication loads configuration and wires every dependency, leaves
// first: logger, database, store, auth primitives, then the account service.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	accounts := service.NewAccountService(
		userStore,
		hasher,
		tokens,
		time.Duration(cfg.Auth.RegistrationTokenTTLMinutes)*time.Minute,
		log,
	)

	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		userStore: userStore,
		tokens:    tokens,
		hasher:    hasher,
		accounts:  accounts,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
