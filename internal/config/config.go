// Package config loads service settings from the environment.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SPLITLEDGER"

type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type StoreConfig struct {
	DBPath      string        `envconfig:"DB_PATH" default:"./data/ledger.db"`
	OpTimeout   time.Duration `envconfig:"OP_TIMEOUT" default:"5s"`
	BusyTimeout time.Duration `envconfig:"BUSY_TIMEOUT" default:"5s"`
	ReadRetries uint64        `envconfig:"READ_RETRIES" default:"3"`
}

type JwtConfig struct {
	Secret string `envconfig:"SECRET" required:"true"`
}

type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// AppConfig is the full service configuration, read from
// SPLITLEDGER_<SECTION>_<NAME>, e.g. SPLITLEDGER_STORE_DB_PATH.
type AppConfig struct {
	HTTP  HTTPConfig  `envconfig:"HTTP"`
	Store StoreConfig `envconfig:"STORE"`
	Jwt   JwtConfig   `envconfig:"JWT"`
	Log   LogConfig   `envconfig:"LOG"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger *slog.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	logger.Info("App config loaded",
		"addr", cfg.HTTP.Addr,
		"db_path", cfg.Store.DBPath,
		"store_op_timeout", cfg.Store.OpTimeout,
		"log_level", cfg.Log.Level,
	)
	return &cfg, nil
}
