package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig            `mapstructure:"log" yaml:"log"`
	Store   StoreConfig          `mapstructure:"store" yaml:"store"`
	Cache   CacheConfig          `mapstructure:"cache" yaml:"cache"`
	Worker  WorkerConfig         `mapstructure:"worker" yaml:"worker"`
	Catalog []domain.LibraryItem `mapstructure:"catalog" yaml:"catalog"`

	Port string `mapstructure:"port" yaml:"port"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	BlobDir    string `mapstructure:"blob_dir" yaml:"blob_dir"`
}

type CacheConfig struct {
	Name           string   `mapstructure:"name" yaml:"name"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type WorkerConfig struct {
	MailboxSize    int           `mapstructure:"mailbox_size" yaml:"mailbox_size"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	RestartDelay   time.Duration `mapstructure:"restart_delay" yaml:"restart_delay"`
}

const defaultPath = "config.yaml"

func Load(path string) (*Config, error) {

	if path == "" {
		path = defaultPath
	}

	readFile := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Docker images mount their config under /config
		if path != defaultPath {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, errEx := os.Stat("/config/config.yaml"); errEx == nil {
			path = "/config/config.yaml"
		} else {
			// No file at all: run on defaults and environment
			readFile = false
		}
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("log.path", "mediashelf.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.sqlite_path", "./data/mediashelf.db")
	v.SetDefault("store.blob_dir", "./data/blobs")
	v.SetDefault("cache.name", domain.DefaultCacheName)
	v.SetDefault("cache.allowed_origins", []string{"https://www.soundhelix.com"})
	v.SetDefault("worker.mailbox_size", 32)
	v.SetDefault("worker.max_concurrency", 4)
	v.SetDefault("worker.restart_delay", "2s")

	if readFile {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("MEDIASHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Cache.Name == "" {
		return errors.New("cache.name is required")
	}

	if len(c.Cache.AllowedOrigins) == 0 {
		return errors.New("at least one cache.allowed_origins entry must be configured")
	}

	for i, o := range c.Cache.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("cache.allowed_origins[%d]: %q is not an origin", i, o)
		}
		if u.Path != "" && u.Path != "/" {
			fmt.Printf("Warning: allowed origin %q has a path, only scheme and host are matched\n", o)
		}
	}

	if c.Worker.MailboxSize <= 0 {
		c.Worker.MailboxSize = 32
	}

	if c.Worker.MaxConcurrency <= 0 {
		c.Worker.MaxConcurrency = 4
	}

	if c.Worker.RestartDelay <= 0 {
		c.Worker.RestartDelay = 2 * time.Second
	}

	for i, item := range c.Catalog {
		if item.ID == "" {
			return fmt.Errorf("catalog[%d] requires a unique ID", i)
		}
	}

	return nil
}
