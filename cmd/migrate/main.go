package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bookwise/backend/internal/config"
	"bookwise/backend/migrations"
)

// Usage: migrate [up|down|force <version>]
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "bookwise-migrate"))

	cfg, err := config.Load()
	if err != nil {
		fatal(log, "config load failed", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		fatal(log, "open db", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		fatal(log, "ping db", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		fatal(log, "db driver", err)
	}
	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		fatal(log, "source driver", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		fatal(log, "create migrator", err)
	}
	defer func() { _, _ = m.Close() }()

	cmd := "up"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "force":
		if len(os.Args) < 3 {
			fatal(log, "force requires a version", nil)
		}
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fatal(log, "invalid version", err)
		}
		if err := m.Force(version); err != nil {
			fatal(log, "force version", err)
		}
		log.Info("forced version", slog.Int("version", version))
		return
	case "down":
		err = m.Down()
	case "up":
		err = m.Up()
	default:
		fatal(log, "unknown command "+strconv.Quote(cmd), nil)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatal(log, "migrate "+cmd, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Warn("read version failed", slog.Any("err", verr))
	}
	log.Info("migrations complete", slog.String("command", cmd), slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

func fatal(log *slog.Logger, msg string, err error) {
	if err != nil {
		log.Error(msg, slog.Any("err", err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
