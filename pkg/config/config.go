package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	// DatabaseDebug logs queries run with a database.WithLogging context. The
	// API server marks every request context when this is set.
	DatabaseDebug      bool   `koanf:"database_debug"`
	DatabaseDriver     string `koanf:"database_driver"`
	DatabaseFilePath   string `koanf:"database_file_path"`
	DatabaseMaxRetries int    `koanf:"database_max_retries"`
	DatabaseURL        string `koanf:"database_url"`
	Hostname           string `koanf:"-"`
	ServerHost         string `koanf:"server_host"`
	ServerPort         int    `koanf:"server_port"`
}

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/catalog.yaml"
)

func defaultConfig() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseDriver:            DriverSQLite,
		DatabaseMaxRetries:        5,
		ServerHost:                "0.0.0.0",
		ServerPort:                3690,
	}
}

// New builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if it exists), then environment variables.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaultConfig()
	cfg.Hostname = hostname

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	known := knownKeys()
	err = k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config pointing at an in-memory SQLite database.
func NewForTest() *Config {
	cfg := defaultConfig()
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func (cfg *Config) validate() error {
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseFilePath == "" {
			return missingRequired("DatabaseFilePath")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return missingRequired("DatabaseURL")
		}
	default:
		return errors.Errorf("unsupported database_driver %q (expected %q or %q)", cfg.DatabaseDriver, DriverSQLite, DriverPostgres)
	}
	return nil
}

func missingRequired(field string) error {
	key := toSnakeCase(field)
	return errors.Errorf("missing required config: %s (or %s in config file)", strings.ToUpper(key), key)
}

// knownKeys lists every koanf key on Config so unrelated environment
// variables are ignored.
func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		keys[tag] = struct{}{}
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
