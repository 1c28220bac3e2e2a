package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/shop_erp/pkg/config"
	pkgdb "github.com/Skotchmaster/shop_erp/pkg/db"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

const StorageMemory = "memory"

type ServiceConfig struct {
	config.Config
}

// Load reads envFile into the environment when it exists, then the process
// environment and the optional config file, and checks required values.
func Load(envFile, cfgFile string) (ServiceConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Debug("env file not loaded, using process environment", "file", envFile, "error", err)
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("load config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return ServiceConfig{}, err
	}
	return ServiceConfig{Config: cfg}, nil
}

func validate(cfg config.Config) error {
	errs := []error{
		config.NonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET"),
		config.NonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET"),
	}

	switch cfg.Storage {
	case StorageMemory:
	case pkgdb.DriverPostgres, pkgdb.DriverMySQL, pkgdb.DriverSQLite:
		errs = append(errs, config.NonEmpty(cfg.DatabaseURL, "DATABASE_URL"))
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE %q", cfg.Storage))
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVER_PORT %d", cfg.ServerPort))
	}
	return errors.Join(errs...)
}
