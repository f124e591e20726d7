package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREOPS_DATABASE_HOST", "db.internal")
	t.Setenv("STOREOPS_DATABASE_PORT", "6543")
	t.Setenv("STOREOPS_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("Database.Port = %d, want 6543", cfg.Database.Port)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want default 8080", cfg.Server.Port)
	}
	if cfg.Database.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", cfg.Database.ConnMaxLifetime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateRequiresSecret(t *testing.T) {
	if err := GetDefaults().Validate(); err == nil {
		t.Error("expected an error without a JWT secret")
	}
}

func TestConnectionString(t *testing.T) {
	d := GetDefaults().Database
	d.Password = "pw"
	want := "host=localhost port=5432 user=storeops password=pw dbname=storeops sslmode=disable"
	if got := d.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
