// Package config loads yourcommute settings.
//
// Values are resolved in increasing precedence:
//
//  1. built-in defaults ([Default])
//  2. the TOML file (~/.config/yourcommute/config.toml or --config)
//  3. .env files, then the process environment
//  4. command-line flags, applied by the CLI
//
// Example config.toml:
//
//	data_dir   = "/srv/yourcommute/data"
//	rollup_url = "https://example.org/data"
//	cache      = "redis"
//	redis_addr = "localhost:6379"
//	listen     = ":8080"
//	allowed_origins = ["https://commute.example.org"]
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// Cache backends accepted by the cache key.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Environment variables that override file values.
const (
	EnvDataDir   = "YOURCOMMUTE_DATA_DIR"
	EnvRollupURL = "YOURCOMMUTE_ROLLUP_URL"
	EnvRedisAddr = "YOURCOMMUTE_REDIS_ADDR"
	EnvMongoURI  = "YOURCOMMUTE_MONGO_URI"
	EnvPort      = "PORT"
)

// Rollup source kinds returned by Config.RollupSource.
const (
	SourceDir   = "dir"
	SourceHTTP  = "http"
	SourceMongo = "mongo"
)

// Config holds every setting of the CLI and server.
type Config struct {
	DataDir        string   `toml:"data_dir"`
	RollupURL      string   `toml:"rollup_url"`
	RollupDir      string   `toml:"rollup_dir"`
	Cache          string   `toml:"cache"`
	RedisAddr      string   `toml:"redis_addr"`
	MongoURI       string   `toml:"mongo_uri"`
	MongoDB        string   `toml:"mongo_db"`
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxPoints      int      `toml:"max_points"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:   "data",
		Cache:     CacheFile,
		RedisAddr: "localhost:6379",
		MongoDB:   "yourcommute",
		Listen:    ":8080",
	}
}

// DefaultPath returns ~/.config/yourcommute/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "yourcommute", "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides.
// An empty path reads DefaultPath; a missing default file is not an error,
// but a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	} else if explicit {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// LoadDotEnv loads .env and then .env.local from dir into the process
// environment. .env never replaces variables already set; .env.local does.
// Missing files are ignored.
func LoadDotEnv(dir string) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	_ = godotenv.Overload(filepath.Join(dir, ".env.local"))
}

// ApplyEnv overrides fields from non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvRollupURL); v != "" {
		c.RollupURL = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.RedisAddr = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.MongoURI = v
	}
	if v := getenv(EnvPort); v != "" {
		c.Listen = ":" + strings.TrimPrefix(v, ":")
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Cache {
	case CacheFile, CacheRedis, CacheMemory, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache must be one of file, redis, memory, none (got %q)", c.Cache)
	}
	if c.RollupURL != "" {
		if err := errors.ValidateURL(c.RollupURL); err != nil {
			return err
		}
	}
	if c.MaxPoints < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_points must not be negative")
	}
	if p := strings.TrimPrefix(c.Listen, ":"); p != c.Listen {
		if _, err := strconv.Atoi(p); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid listen port %q", c.Listen)
		}
	}
	return nil
}

// RollupSource reports where rollup files come from: MongoDB when a URI is
// set, else HTTP when a URL is set, else a directory.
func (c Config) RollupSource() string {
	switch {
	case c.MongoURI != "":
		return SourceMongo
	case c.RollupURL != "":
		return SourceHTTP
	default:
		return SourceDir
	}
}

// RollupPath returns the directory holding rollup files, which defaults to
// the data directory.
func (c Config) RollupPath() string {
	if c.RollupDir != "" {
		return c.RollupDir
	}
	return c.DataDir
}
