package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/csfloat"
	"github.com/etnz/skinfolio/github"
	"github.com/etnz/skinfolio/localstore"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultConfigFile is the configuration file read when -config is not set.
const DefaultConfigFile = "skinfolio.toml"

// Environment variables overriding the configuration file.
const (
	EnvOwner    = "GH_OWNER"
	EnvRepo     = "GH_REPO"
	EnvBranch   = "GH_BRANCH"
	EnvToken    = "GH_PAT"
	EnvAPIKey   = "CSFLOAT_API_KEY"
	EnvStoreDir = "SKINFOLIO_STORE_DIR"
)

// Config is the content of the configuration file, completed by the environment.
type Config struct {
	DefaultProfile string                   `toml:"default_profile"`
	GitHub         GitHubConfig             `toml:"github"`
	CSFloat        CSFloatConfig            `toml:"csfloat"`
	Store          StoreConfig              `toml:"store"`
	Profiles       map[string]ProfileConfig `toml:"profiles"`
}

// GitHubConfig locates the repository holding the portfolio files.
type GitHubConfig struct {
	Owner  string `toml:"owner"`
	Repo   string `toml:"repo"`
	Branch string `toml:"branch"`
	Token  string `toml:"-"` // from the environment only
}

// CSFloatConfig configures the price oracle.
type CSFloatConfig struct {
	BaseURL  string        `toml:"base_url"`
	APIKey   string        `toml:"-"` // from the environment only
	Delay    time.Duration `toml:"delay"`
	Backoff  time.Duration `toml:"backoff"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// StoreConfig selects a local directory instead of GitHub.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// ProfileConfig names the files of a portfolio. Empty fields take the default file names.
type ProfileConfig struct {
	Ledger   string `toml:"ledger"`
	History  string `toml:"history"`
	Finance  string `toml:"finance"`
	Holdings string `toml:"holdings"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		DefaultProfile: "default",
		GitHub:         GitHubConfig{Branch: "main"},
		CSFloat: CSFloatConfig{
			BaseURL:  csfloat.DefaultBaseURL,
			Delay:    300 * time.Millisecond,
			Backoff:  csfloat.DefaultBackoff,
			CacheTTL: 120 * time.Second,
		},
	}
}

// LoadConfig reads the configuration file at path, then applies the
// environment, including a .env file in the current directory when present.
// A missing configuration file is not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env file: %w", err)
	}

	c := NewConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read configuration %q: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("no configuration file")
	}
	c.applyEnv(os.Getenv)
	return c, nil
}

// applyEnv overrides the configuration with non empty environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.GitHub.Owner, EnvOwner)
	set(&c.GitHub.Repo, EnvRepo)
	set(&c.GitHub.Branch, EnvBranch)
	set(&c.GitHub.Token, EnvToken)
	set(&c.CSFloat.APIKey, EnvAPIKey)
	set(&c.Store.Dir, EnvStoreDir)
}

// Profile returns the files of the named profile, or of the default profile
// when name is empty.
func (c *Config) Profile(name string) (skinfolio.Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p := skinfolio.DefaultProfile()
	pc, ok := c.Profiles[name]
	if !ok {
		if name != p.Name {
			return p, fmt.Errorf("%w: unknown profile %q", skinfolio.ErrNotConfigured, name)
		}
		return p, nil
	}
	p.Name = name
	if pc.Ledger != "" {
		p.Ledger = pc.Ledger
	}
	if pc.History != "" {
		p.History = pc.History
	}
	if pc.Finance != "" {
		p.Finance = pc.Finance
	}
	if pc.Holdings != "" {
		p.Holdings = pc.Holdings
	}
	return p, nil
}

// NewStore returns the store holding the portfolio files and a description of
// its location. The local directory takes precedence over GitHub.
func (c *Config) NewStore() (skinfolio.LedgerStore, string, error) {
	switch {
	case c.Store.Dir != "":
		return localstore.New(c.Store.Dir), c.Store.Dir, nil
	case c.GitHub.Owner != "" && c.GitHub.Repo != "":
		s := github.New(c.GitHub.Owner, c.GitHub.Repo, c.GitHub.Branch, c.GitHub.Token)
		if s.ReadOnly() {
			log.Warn().Msgf("%s is not set, the repository is read-only", EnvToken)
		}
		return s, fmt.Sprintf("github.com/%s/%s@%s", s.Owner, s.Repo, s.Branch), nil
	default:
		return nil, "", fmt.Errorf("%w: set %s and %s, or a local store directory", skinfolio.ErrNotConfigured, EnvOwner, EnvRepo)
	}
}

// NewOracle returns the cached price oracle, or nil when no API key is configured.
func (c *Config) NewOracle() skinfolio.PriceOracle {
	if c.CSFloat.APIKey == "" {
		log.Debug().Msgf("%s is not set, live prices are unavailable", EnvAPIKey)
		return nil
	}
	client := csfloat.New(c.CSFloat.APIKey)
	if c.CSFloat.BaseURL != "" {
		client.BaseURL = c.CSFloat.BaseURL
	}
	client.Backoff = c.CSFloat.Backoff
	return skinfolio.NewCachedOracle(client, c.CSFloat.CacheTTL)
}

// Open returns the workspace of the named profile.
func (c *Config) Open(profile string) (*workspace, error) {
	p, err := c.Profile(profile)
	if err != nil {
		return nil, err
	}
	store, source, err := c.NewStore()
	if err != nil {
		return nil, err
	}
	session := skinfolio.NewSession(store, c.NewOracle(), p, skinfolio.WithDelay(c.CSFloat.Delay))
	return &workspace{config: c, session: session, source: source}, nil
}
