package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/beanbocchi/portage/config"
	"github.com/beanbocchi/portage/internal/migrations"
	"github.com/beanbocchi/portage/internal/service"
	"github.com/beanbocchi/portage/internal/transport"
)

// NewConfig provides the application configuration
func NewConfig() *config.Config {
	return config.GetConfig()
}

func SetupLogger() {
	cfg := config.GetConfig().Log

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// Start wires the application together and launches the HTTP server.
func Start() error {
	SetupLogger()
	cfg := config.GetConfig()

	sqliteDB, err := sql.Open("sqlite", cfg.Sqlite.Path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrateUp(sqliteDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	svc, err := service.NewService(cfg, sqliteDB)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	e, err := transport.NewEcho(svc)
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("portage started", "addr", addr, "objectstore", cfg.Objectstore.Type)
	return nil
}

func migrateUp(sqliteDB *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(sqliteDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
