package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/github"
	"github.com/etnz/skinfolio/localstore"
)

// clearEnv unsets the environment variables read by LoadConfig.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvOwner, EnvRepo, EnvBranch, EnvToken, EnvAPIKey, EnvStoreDir} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
default_profile = "main"

[github]
owner = "alice"
repo = "skins"

[csfloat]
delay = "1s"
cache_ttl = "5m"

[profiles.main]
ledger = "main/transactions.csv"
`)
	t.Setenv(EnvToken, "secret")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if c.GitHub.Owner != "alice" || c.GitHub.Repo != "skins" || c.GitHub.Branch != "main" || c.GitHub.Token != "secret" {
		t.Errorf("LoadConfig() github = %+v", c.GitHub)
	}
	if c.CSFloat.Delay != time.Second || c.CSFloat.CacheTTL != 5*time.Minute || c.CSFloat.Backoff != 3*time.Second {
		t.Errorf("LoadConfig() csfloat = %+v", c.CSFloat)
	}

	p, err := c.Profile("")
	if err != nil {
		t.Fatalf("Profile() unexpected error: %v", err)
	}
	want := skinfolio.DefaultProfile()
	want.Name = "main"
	want.Ledger = "main/transactions.csv"
	if p != want {
		t.Errorf("Profile() = %+v, want %+v", p, want)
	}

	store, source, err := c.NewStore()
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	if s, ok := store.(*github.Store); !ok || s.ReadOnly() {
		t.Errorf("NewStore() = %T, want a writable github store", store)
	}
	if source != "github.com/alice/skins@main" {
		t.Errorf("NewStore() source = %q", source)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	c, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if _, _, err := c.NewStore(); !errors.Is(err, skinfolio.ErrNotConfigured) {
		t.Errorf("NewStore() error = %v, want ErrNotConfigured", err)
	}
	if c.NewOracle() != nil {
		t.Errorf("NewOracle() without an API key should be nil")
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(writeConfig(t, "[github\n")); err == nil {
		t.Errorf("LoadConfig() expected an error")
	}
}

func TestConfig_LocalStoreWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvStoreDir, dir)
	t.Setenv(EnvOwner, "alice")
	t.Setenv(EnvRepo, "skins")

	c, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	store, source, err := c.NewStore()
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	if _, ok := store.(*localstore.Store); !ok || source != dir {
		t.Errorf("NewStore() = %T, %q, want the local store", store, source)
	}
}

func TestConfig_Profile(t *testing.T) {
	c := NewConfig()
	if p, err := c.Profile("default"); err != nil || p != skinfolio.DefaultProfile() {
		t.Errorf("Profile(default) = %+v, %v", p, err)
	}
	if _, err := c.Profile("other"); !errors.Is(err, skinfolio.ErrNotConfigured) {
		t.Errorf("Profile(other) error = %v, want ErrNotConfigured", err)
	}
}

func TestConfig_NewOracle(t *testing.T) {
	c := NewConfig()
	c.CSFloat.APIKey = "key"
	if _, ok := c.NewOracle().(*skinfolio.CachedOracle); !ok {
		t.Errorf("NewOracle() = %T, want a cached oracle", c.NewOracle())
	}
}
