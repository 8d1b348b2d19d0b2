// Package config provides functionality for managing configuration options
// for the client and the stub server using command-line flags, an optional
// YAML file, a .env file and environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the public QKart API.
const DefaultEndpoint = "https://qkart.aquibsayyad.com/api/v1"

// Options holds the configuration values for the application.
type Options struct {
	// Endpoint is the base URL of the QKart API, including the /api/v1 prefix.
	Endpoint string `yaml:"endpoint"`

	// CAFile is an optional PEM bundle that replaces the system roots.
	CAFile string `yaml:"ca_file"`

	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// StorageDriver is "sqlite" or "postgres".
	StorageDriver string `yaml:"storage_driver"`

	// StorageDSN is the SQLite path or the PostgreSQL connection string.
	StorageDSN string `yaml:"storage_dsn"`

	// LogLevel is a zap level name. Empty means the binary's own default.
	LogLevel string `yaml:"log_level"`

	// DebounceWindow is the search quiescence window.
	DebounceWindow time.Duration `yaml:"debounce_window"`

	// Port defines the stub server's listening address (ip:port).
	Port string `yaml:"address"`

	// JWTSecret signs the stub server's tokens.
	JWTSecret string `yaml:"jwt_secret"`

	// Config is the path to the YAML config file.
	Config string `yaml:"-"`

	// EnvFile is the path to the .env file.
	EnvFile string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		Endpoint:       DefaultEndpoint,
		Timeout:        10 * time.Second,
		StorageDriver:  "sqlite",
		StorageDSN:     defaultStoragePath(),
		DebounceWindow: 500 * time.Millisecond,
		Port:           "localhost:8082",
		JWTSecret:      "qkart-dev-secret",
		Config:         "qkart.yaml",
		EnvFile:        ".env",
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "qkart.db"
	}
	return filepath.Join(dir, "qkart", "qkart.db")
}

// BindFlags registers the options shared by the client and the server on fs.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level")
	fs.StringVar(&o.Config, "config", o.Config, "path to config file")
}

// BindClientFlags registers the client options on fs.
func (o *Options) BindClientFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Endpoint, "endpoint", o.Endpoint, "QKart API base URL")
	fs.StringVar(&o.CAFile, "ca", o.CAFile, "path to an extra CA certificate")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "HTTP request timeout")
	fs.StringVar(&o.StorageDriver, "storage-driver", o.StorageDriver, "session store driver: sqlite | postgres")
	fs.StringVar(&o.StorageDSN, "storage-dsn", o.StorageDSN, "session store path or DSN")
	fs.DurationVar(&o.DebounceWindow, "debounce", o.DebounceWindow, "search debounce window")
}

// BindServerFlags registers the stub server options on fs.
func (o *Options) BindServerFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Port, "a", o.Port, "run on ip:port server")
	fs.StringVar(&o.JWTSecret, "jwt-secret", o.JWTSecret, "token signing secret")
	fs.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
}

// Parse parses the process flags, then applies the config file and the
// environment. It returns a pointer to the resolved Options.
func Parse() (*Options, error) {
	o := Default()
	o.BindFlags(flag.CommandLine)
	o.BindServerFlags(flag.CommandLine)
	flag.Parse()
	if err := o.Resolve(); err != nil {
		return nil, err
	}
	return o, nil
}

// Resolve layers the config file, the .env file and environment variables
// over the current values, in that order.
func (o *Options) Resolve() error {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		data, err := os.ReadFile(o.Config)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("error while reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error while loading env file: %w", err)
		}
	}

	return o.applyEnvOverrides()
}

func (o *Options) applyEnvOverrides() error {
	if v := os.Getenv("QKART_ENDPOINT"); v != "" {
		o.Endpoint = v
	}
	if v := os.Getenv("QKART_CA_FILE"); v != "" {
		o.CAFile = v
	}
	if v := os.Getenv("QKART_STORAGE_DRIVER"); v != "" {
		o.StorageDriver = v
	}
	if v := os.Getenv("QKART_STORAGE_DSN"); v != "" {
		o.StorageDSN = v
	}
	if v := os.Getenv("QKART_LOG_LEVEL"); v != "" {
		o.LogLevel = v
	}
	if v := os.Getenv("QKART_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QKART_DEBOUNCE: %w", err)
		}
		o.DebounceWindow = d
	}
	if v := os.Getenv("QKART_JWT_SECRET"); v != "" {
		o.JWTSecret = v
	}
	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Port = serverAddress
	}
	return nil
}
