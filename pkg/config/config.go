package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/render/brand"
)

// AppName names the config and cache directories.
const AppName = "shadowboard"

// Built-in profile names.
const (
	ProfileDefault   = "default"
	ProfileAlternate = "alternate"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// CacheBackends lists the supported cache backends.
var CacheBackends = []string{CacheFile, CacheRedis, CacheMongo, CacheNone}

// Config is the decoded configuration file.
type Config struct {
	Profile  string             `toml:"profile"`
	Profiles map[string]Profile `toml:"profiles"`
	Cache    Cache              `toml:"cache"`
	Server   Server             `toml:"server"`

	// dir is the directory of the loaded file; relative logo paths
	// resolve against it.
	dir string
}

// Profile is one branding variant together with its feature flags.
type Profile struct {
	Title         string `toml:"title"`
	Organization  string `toml:"organization"`
	URL           string `toml:"url"`
	Logo          string `toml:"logo"`
	TiledPrinting bool   `toml:"tiled_printing"`
}

// Branding returns the profile's branding.
func (p Profile) Branding() brand.Branding {
	return brand.Branding{Title: p.Title, Organization: p.Organization, URL: p.URL, Logo: p.Logo}
}

// Cache configures the artifact cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	Addr     string   `toml:"addr"`
	URI      string   `toml:"uri"`
	Database string   `toml:"database"`
	TTL      Duration `toml:"ttl"`
}

// Server configures the HTTP server.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration decoded from strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Profile: ProfileDefault,
		Profiles: map[string]Profile{
			ProfileDefault: {
				Title:         "Shadowboard Template",
				Organization:  "Shadowboard",
				URL:           "shadowboard.app",
				Logo:          "logo.png",
				TiledPrinting: true,
			},
			ProfileAlternate: {
				Title:        "Shadowboard Template",
				Organization: "Shadowboard Foam Inserts",
				URL:          "shadowboardfoam.com",
				Logo:         "logo-alt.png",
			},
		},
		Cache: Cache{
			Backend:  CacheFile,
			Database: AppName,
			TTL:      Duration{24 * time.Hour},
		},
		Server: Server{Addr: "localhost:8080"},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/shadowboard/config.toml or ~/.config/shadowboard/config.toml.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory,
// $XDG_CACHE_HOME/shadowboard or ~/.cache/shadowboard.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config at path on top of [Default]. An empty path means
// the default location, where a missing file yields the defaults. A
// missing file at an explicit path is a NOT_FOUND error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, errors.New(errors.ErrCodeNotFound, "config file %s not found", path)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Decode merges TOML data into cfg and validates the result. Profiles in
// data replace built-in profiles of the same name.
func Decode(data []byte, cfg *Config) error {
	var file Config
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}

	if file.Profile != "" {
		cfg.Profile = file.Profile
	}
	for name, p := range file.Profiles {
		if cfg.Profiles == nil {
			cfg.Profiles = make(map[string]Profile)
		}
		cfg.Profiles[name] = p
	}
	mergeCache(&cfg.Cache, file.Cache, md.IsDefined("cache", "ttl"))
	if file.Server.Addr != "" {
		cfg.Server.Addr = file.Server.Addr
	}
	return cfg.Validate()
}

func mergeCache(dst *Cache, src Cache, ttlSet bool) {
	if src.Backend != "" {
		dst.Backend = src.Backend
	}
	if src.Dir != "" {
		dst.Dir = src.Dir
	}
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.URI != "" {
		dst.URI = src.URI
	}
	if src.Database != "" {
		dst.Database = src.Database
	}
	if ttlSet {
		dst.TTL = src.TTL
	}
}

// Validate checks profile names, the active profile and the cache backend.
func (c *Config) Validate() error {
	for name := range c.Profiles {
		if err := errors.ValidateProfileName(name); err != nil {
			return err
		}
	}
	if _, ok := c.Profiles[c.Profile]; !ok {
		return errors.New(errors.ErrCodeInvalidProfile, "unknown profile %q", c.Profile)
	}
	if !slices.Contains(CacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %v)", c.Cache.Backend, CacheBackends)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

// Active returns the profile selected by name, or the configured profile
// when name is empty. Relative logo paths are resolved against the config
// file directory.
func (c *Config) Active(name string) (string, Profile, error) {
	if name == "" {
		name = c.Profile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return "", Profile{}, errors.New(errors.ErrCodeInvalidProfile, "unknown profile %q (have %v)", name, c.ProfileNames())
	}
	if err := errors.ValidateLogoRef(p.Logo); err != nil {
		return "", Profile{}, err
	}
	if p.Logo != "" && c.dir != "" && !isURL(p.Logo) && !filepath.IsAbs(p.Logo) {
		p.Logo = filepath.Join(c.dir, p.Logo)
	}
	return name, p, nil
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CachePath returns the file cache directory: the configured one or the
// XDG default.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
