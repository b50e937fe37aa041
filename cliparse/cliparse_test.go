// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("JWT_SECRET", "env-secret")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.Driver != DriverLocal {
		t.Errorf("expected default driver local, got %s", cfg.Driver)
	}
	if cfg.DataPath != "fabris.db" {
		t.Errorf("expected default data path fabris.db, got %s", cfg.DataPath)
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Errorf("expected default TTL 168h, got %s", cfg.TokenTTL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("JWT_SECRET", "env-secret")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-jwt-secret", "cli-secret"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "cli-secret" {
		t.Errorf("CLI should override env: expected cli-secret, got %s", cfg.JWTSecret)
	}
}

func TestParseFlags_MissingJWTSecret(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when JWT_SECRET is missing")
	}
}

func TestParseFlags_PostgresRequiresURL(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "env-secret")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{"-t", "postgres"}); err == nil {
		t.Error("expected error when postgres driver has no DATABASE_URL")
	}

	cfg, err := ParseFlags([]string{"-t", "postgres", "-d", "postgres://test"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected postgres://test, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_InvalidDriver(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "env-secret")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{"-t", "redis"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestParseFlags_InvalidTTL(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "env-secret")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{"-token-ttl", "soon"}); err == nil {
		t.Error("expected error for invalid TTL")
	}
}
