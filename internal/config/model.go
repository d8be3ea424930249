// internal/config/model.go
//
// Typed configuration model for the theme-tag server and CLI.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `ADEPT_`-prefixed environment overrides – highest precedence.
//
// Values that begin with `vault:` (only `database.global_password` today)
// are kept verbatim here and resolved by the caller through
// internal/vault, so the loader never needs network access.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Durations accept Go syntax ("30s", "5m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds preview-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

//
// Theme section
//

// Theme says where themes and public files live and how paths are rooted.
type Theme struct {
	Name      string        `koanf:"name"       validate:"required,excludesall=/\\"`
	BaseDir   string        `koanf:"base_dir"   validate:"required"`
	PublicDir string        `koanf:"public_dir" validate:"required"`
	RootURL   string        `koanf:"root_url"   validate:"omitempty,startswith=/"`
	IdleTTL   time.Duration `koanf:"idle_ttl"`
}

//
// Manifest section
//

// Manifest controls the in-memory cache of version-manifest reads.  A zero
// CacheTTL disables caching.
type Manifest struct {
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	CacheSize int           `koanf:"cache_size" validate:"gte=0"`
}

//
// Database section
//

// Database is optional.  When GlobalDSN is set, the theme for each host is
// read from the `site` table.  GlobalDSN may contain one %s verb, which is
// replaced by GlobalPassword so the secret stays out of the DSN template.
type Database struct {
	GlobalDSN      string `koanf:"global_dsn"`
	GlobalPassword string `koanf:"global_password"`
}

//
// Log section
//

type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Theme    Theme    `koanf:"theme"`
	Manifest Manifest `koanf:"manifest"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// applyDefaults fills zero values that YAML is allowed to omit.
func (c *Config) applyDefaults() {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Theme.BaseDir == "" {
		c.Theme.BaseDir = "themes"
	}
	if c.Theme.PublicDir == "" {
		c.Theme.PublicDir = "public"
	}
	if c.Theme.IdleTTL == 0 {
		c.Theme.IdleTTL = 30 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// resolvePaths makes relative directories absolute against root.
func (c *Config) resolvePaths(root string) {
	c.Paths.Root = root
	c.Theme.BaseDir = abs(root, c.Theme.BaseDir)
	c.Theme.PublicDir = abs(root, c.Theme.PublicDir)
}
