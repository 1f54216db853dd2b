package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// AppName is the application name used for config file and env naming.
const AppName = "mcpsync"

// Config is the user-facing configuration. Everything has a working
// default; the file exists only to override.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// Debounce is the quiet period after a file change before the daemon
	// reacts to it.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// SuppressWindow is how long the daemon ignores events on a file after
	// writing it itself.
	SuppressWindow time.Duration `mapstructure:"suppress_window" yaml:"suppress_window"`

	// Force lets the daemon perform destructive writes without confirmation.
	Force bool `mapstructure:"force" yaml:"force"`

	// Apps overrides config file locations per application, keyed by
	// application name (case-insensitive).
	Apps map[string]AppOverride `mapstructure:"apps" yaml:"apps,omitempty"`
}

// AppOverride relocates one application's config file.
type AppOverride struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// PathOverrides flattens the per-app overrides into the name to path map
// the application table consumes.
func (c *Config) PathOverrides() map[string]string {
	if len(c.Apps) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Apps))
	for name, o := range c.Apps {
		if o.Path != "" {
			out[name] = o.Path
		}
	}
	return out
}

// Dir returns the mcpsync configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// newViper builds a fresh viper instance with defaults and env binding.
// Each Load gets its own instance; nothing here is process-global.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())

	v.SetEnvPrefix("MCPSYNC")
	v.AutomaticEnv()

	v.SetDefault("version", 1)
	v.SetDefault("debounce", 2*time.Second)
	v.SetDefault("suppress_window", time.Second)
	v.SetDefault("force", false)

	return v
}

// Load reads the configuration. If path is non-empty the file must exist;
// when empty, the default location is searched and a missing file falls
// back to defaults. The result is always validated.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path == "" && errors.As(err, &notFound):
			// Implicit load with no file present uses defaults.
		case path != "":
			return nil, errors.Wrapf(err, "reading config file %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}
	return &cfg, nil
}

// WriteDefault writes a starter config file at path, or the default
// location when path is empty. Refuses to overwrite an existing file.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return "", errors.Newf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}

	cfg := Config{
		Version:        1,
		Debounce:       2 * time.Second,
		SuppressWindow: time.Second,
	}
	if err := fileutil.AtomicWriteYAML(path, &cfg); err != nil {
		return "", errors.Wrap(err, "writing config file")
	}
	return path, nil
}
