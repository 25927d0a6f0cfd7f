package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.App.RoleCacheTTL != 5*time.Minute {
		t.Errorf("RoleCacheTTL = %v, want 5m", cfg.App.RoleCacheTTL)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
}

func TestParse_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ROLE_CACHE_TTL", "30s")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/x.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.App.RoleCacheTTL != 30*time.Second {
		t.Errorf("RoleCacheTTL = %v, want 30s", cfg.App.RoleCacheTTL)
	}
}

func TestParse_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Parse(); err == nil || !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Fatalf("expected DB_DRIVER error, got %v", err)
	}
}

func TestParse_AdminCredentialsTogether(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ADMIN_EMAIL", "owner@example.com")
	if _, err := Parse(); err == nil || !strings.Contains(err.Error(), "ADMIN_PASSWORD") {
		t.Fatalf("expected ADMIN_PASSWORD error, got %v", err)
	}
}

func TestParse_SessionSecretRequiredOutsideDev(t *testing.T) {
	for _, secret := range []string{"", "devsessionsecret"} {
		t.Setenv("SESSION_SECRET", secret)
		if _, err := Parse(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
			t.Errorf("secret %q: expected SESSION_SECRET error, got %v", secret, err)
		}
	}

	t.Setenv("DEV", "true")
	t.Setenv("SESSION_SECRET", "")
	if _, err := Parse(); err != nil {
		t.Errorf("dev mode without secret: %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "require"}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
