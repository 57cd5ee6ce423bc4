package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminPassword string
	NomineesFile  string
	DataDir       string
}

// ParseFlags validates flags and fills in defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("nominations", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// File locations
	fs.StringVar(&cfg.NomineesFile, "nominees", "", "Allowed-nominees text file")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Directory for mirror export files")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin elevation password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.NomineesFile == "" {
		cfg.NomineesFile = os.Getenv("NOMINEES_FILE")
		if cfg.NomineesFile == "" {
			cfg.NomineesFile = "allowed_nominees.txt"
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "."
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	return cfg, nil
}
