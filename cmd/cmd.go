package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jhchabran/polls/sqlstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel         string `json:"log_level"`
	LogFormat        string `json:"log_format"`
	DatabaseDriver   string `json:"database_driver"`
	DatabaseName     string `json:"database_name"`
	DatabaseUser     string `json:"database_user"`
	DatabaseHost     string `json:"database_host"`
	DatabasePassword string `json:"database_password"`
	DatabasePath     string `json:"database_path"`
	ServerSecret     string `json:"server_secret"`
	Addr             string `json:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "json",
		DatabaseDriver:   sqlstore.DriverPostgres,
		DatabaseName:     "polls",
		DatabaseUser:     "postgres",
		DatabasePassword: "postgres",
		DatabaseHost:     "127.0.0.1",
		DatabasePath:     "polls.db",
		Addr:             "localhost:8080",
	}
}

// Load reads config.json if present, then overrides its values with the environment, .env
// included.
func (c *Config) Load() error {
	return c.load("config.json", ".env")
}

func (c *Config) load(configPath string, envPath string) error {
	f, err := os.Open(configPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err == nil {
		defer f.Close()
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("cannot decode %s: %w", configPath, err)
		}
	}

	// variables already set in the environment win over the .env file
	err = godotenv.Load(envPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, o := range []struct {
		name string
		dst  *string
	}{
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_FORMAT", &c.LogFormat},
		{"DATABASE_DRIVER", &c.DatabaseDriver},
		{"DATABASE_NAME", &c.DatabaseName},
		{"DATABASE_USER", &c.DatabaseUser},
		{"DATABASE_HOST", &c.DatabaseHost},
		{"DATABASE_PASSWORD", &c.DatabasePassword},
		{"DATABASE_PATH", &c.DatabasePath},
		{"SERVER_SECRET", &c.ServerSecret},
		{"ADDR", &c.Addr},
	} {
		if v := os.Getenv(o.name); v != "" {
			*o.dst = v
		}
	}

	if c.ServerSecret == "" {
		return fmt.Errorf("missing config 'server secret'")
	}

	if c.DatabaseDriver != sqlstore.DriverPostgres && c.DatabaseDriver != sqlstore.DriverSQLite {
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}

	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseDriver == sqlstore.DriverSQLite {
		return c.DatabasePath
	}

	return fmt.Sprintf(
		"user=%v dbname=%v sslmode=disable password=%v host=%v",
		c.DatabaseUser,
		c.DatabaseName,
		c.DatabasePassword,
		c.DatabaseHost,
	)
}

func SetupLogger(cfg *Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("input", cfg.LogLevel).Msg("Cannot parse log level")
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "" || cfg.LogFormat == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
}
