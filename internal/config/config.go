// Package config resolves the server configuration from flags with
// environment-variable fallback. A .env file is honored when present.
package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved server configuration.
type Config struct {
	Port            int
	DatabasePath    string
	JanitorInterval time.Duration
	Verbose         bool
}

const (
	defaultPort            = 8080
	defaultJanitorInterval = 10 * time.Minute
)

// ParseFlags resolves the configuration from args, falling back to
// environment variables. An empty DatabasePath selects the in-memory store.
func ParseFlags(args []string) (Config, error) {
	// Missing .env files are fine; explicit env vars still apply.
	_ = godotenv.Load()

	var cfg Config
	var janitorMinutes int

	fs := flag.NewFlagSet("raffle", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", "", "SQLite database path (empty for in-memory state)")
	fs.IntVar(&janitorMinutes, "janitor", 0, "Minutes between inactive-session sweeps")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, errors.New("port must be between 1 and 65535")
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	}

	if janitorMinutes == 0 {
		if s := os.Getenv("JANITOR_MINUTES"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid JANITOR_MINUTES env variable")
			}
			janitorMinutes = n
		}
	}
	if janitorMinutes < 0 {
		return Config{}, errors.New("janitor interval must not be negative")
	}
	if janitorMinutes == 0 {
		cfg.JanitorInterval = defaultJanitorInterval
	} else {
		cfg.JanitorInterval = time.Duration(janitorMinutes) * time.Minute
	}

	return cfg, nil
}
