package main

import (
	"io/fs"
	"os"
	"strings"

	"github.com/nimasrn/chit-ledger/internal/config"
	"github.com/nimasrn/chit-ledger/migrations"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/pg"
)

// main.go [--env=.env] [--dir=./migrations]
// Without --dir the migrations embedded in the binary are applied.
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	if config.Get().DBDriver != config.DriverPostgres {
		logger.Info("migrations only apply to postgres, sqlite schema is created on startup", "driver", config.Get().DBDriver)
		return
	}

	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	var fsys fs.FS = migrations.FS
	dir := migrations.Dir
	if d := argValue("--dir="); d != "" {
		fsys, dir = nil, d
	}
	if err := pg.Migrate(pgConf, fsys, dir); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func argValue(prefix string) string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, prefix) {
			return strings.TrimPrefix(v, prefix)
		}
	}
	return ""
}

func getEnvPath() string {
	path := argValue("--env=")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("env file not found, using process environment", "path", path)
		return ""
	}
	return path
}
