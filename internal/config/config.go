// Package config loads breachtrack settings from YAML, .env and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/breachtrack/internal/kv"
)

const appName = "breachtrack"

// Config holds all breachtrack configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // file, sqlite, redis, memory
	DataDir string      `yaml:"data_dir"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// CatalogConfig points at an optional YAML catalog replacing the built-in one.
type CatalogConfig struct {
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"` // TUI log file; defaults under the data dir
}

type UIConfig struct {
	SearchDebounce time.Duration `yaml:"search_debounce"`
	NoteDebounce   time.Duration `yaml:"note_debounce"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			DataDir: DefaultDataDir(),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: appName + ":",
			},
		},
		Catalog: CatalogConfig{Watch: true},
		Logging: LoggingConfig{Level: "warn"},
		UI: UIConfig{
			SearchDebounce: 300 * time.Millisecond,
			NoteDebounce:   500 * time.Millisecond,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/breachtrack/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appName, "config.yaml")
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/breachtrack, falling back to
// ~/.local/share/breachtrack.
func DefaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}

// LoadDotenv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("BREACHTRACK_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("BREACHTRACK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("BREACHTRACK_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("BREACHTRACK_REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("BREACHTRACK_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BREACHTRACK_REDIS_DB: %w", err)
		}
		c.Storage.Redis.DB = db
	}
	if v := os.Getenv("BREACHTRACK_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("BREACHTRACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

var validBackends = []string{kv.BackendFile, kv.BackendSQLite, kv.BackendRedis, kv.BackendMemory}

// Validate validates the configuration.
func (c *Config) Validate() error {
	b := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	ok := false
	for _, v := range validBackends {
		if b == v {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid storage backend: %q (valid: %v)", c.Storage.Backend, validBackends)
	}
	c.Storage.Backend = b
	if c.UI.SearchDebounce < 0 || c.UI.NoteDebounce < 0 {
		return fmt.Errorf("debounce delays must not be negative")
	}
	return nil
}

// KVOptions maps storage settings onto kv.Open.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend: c.Storage.Backend,
		Dir:     c.Storage.DataDir,
		Redis: kv.RedisOptions{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
	}
}

// LogFile is where the TUI writes its log.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.DataDir, appName+".log")
}
