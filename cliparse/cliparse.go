package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Storage driver constants
const (
	DriverLocal    = "local"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        int
	Driver      string
	DatabaseURL string
	DataPath    string
	JWTSecret   string
	TokenTTL    time.Duration

	// Optional bootstrap admin, created on startup when no users exist
	AdminEmail    string
	AdminPassword string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttl string

	fs := flag.NewFlagSet("fabris", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.Driver, "t", "", "Storage driver (local or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "PostgreSQL URL (postgres driver)")
	fs.StringVar(&cfg.DataPath, "data", "", "Local store file path (local driver)")
	fs.StringVar(&ttl, "token-ttl", "", "Auth token lifetime, e.g. 168h")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "Bootstrap admin email (prefer env)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Bootstrap admin password (prefer env)")

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
			cfg.Port = 5000 // default
		}
	}

	if cfg.Driver == "" {
		cfg.Driver = os.Getenv("STORE_DRIVER")
		if cfg.Driver == "" {
			cfg.Driver = DriverLocal
		}
	}
	if cfg.Driver != DriverLocal && cfg.Driver != DriverPostgres {
		return Config{}, errors.New("storage driver must be local or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Driver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DataPath == "" {
		cfg.DataPath = os.Getenv("DATA_PATH")
		if cfg.DataPath == "" {
			cfg.DataPath = "fabris.db"
		}
	}

	if ttl == "" {
		ttl = os.Getenv("TOKEN_TTL")
		if ttl == "" {
			ttl = "168h" // 7 days
		}
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, errors.New("invalid token TTL")
	}
	cfg.TokenTTL = parsed

	// Secrets - JWT secret MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}

	return cfg, nil
}
