/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - Driver: Storage driver, "local" or "postgres" (default: local)
  - DatabaseURL: PostgreSQL connection string (required for postgres)
  - DataPath: Local store file (default: fabris.db)
  - JWTSecret: Token signing secret (required)
  - TokenTTL: Auth token lifetime (default: 168h)
  - AdminEmail / AdminPassword: optional bootstrap super admin, created on
    startup when the user collection is empty

# CLI Flags

	-p              Server port
	-t              Storage driver
	-d              PostgreSQL URL
	--data          Local store file path
	--token-ttl     Token lifetime
	--jwt-secret    JWT secret (prefer env)
	--admin-email   Bootstrap admin email (prefer env)
	--admin-password Bootstrap admin password (prefer env)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	STORE_DRIVER   → -t
	DATABASE_URL   → -d
	DATA_PATH      → --data
	TOKEN_TTL      → --token-ttl
	JWT_SECRET     → --jwt-secret
	ADMIN_EMAIL    → --admin-email
	ADMIN_PASSWORD → --admin-password

CLI flags take precedence over environment variables. main loads a .env
file first when one exists, so development secrets can live there.

# Validation

ParseFlags returns an error if required values are missing:

  - JWT_SECRET must be provided
  - DATABASE_URL must be provided when the driver is postgres
*/
package cliparse
