package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hoverfx/pkg/figure"
)

// Config is the CLI configuration file.
//
//	[defaults]
//	hovermode = "x unified"
//	hoverdistance = 30.0
//
//	[defaults.hoverlabel]
//	bgcolor = "#1f77b4"
//
//	[cache]
//	ttl = "24h"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	// Defaults fill hover settings a figure leaves unset.
	Defaults figure.Defaults `toml:"defaults"`
	Cache    CacheConfig     `toml:"cache"`
	Serve    ServeConfig     `toml:"serve"`
}

// CacheConfig configures the rendered-SVG cache.
type CacheConfig struct {
	Dir string   `toml:"dir"`
	TTL duration `toml:"ttl"`
}

// ServeConfig holds defaults for the serve command. The --addr flag takes
// precedence; without either the server listens on HOVERFX_PORT.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "90s" or "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{TTL: duration{24 * time.Hour}},
	}
}

// LoadConfig reads the config file at path on top of DefaultConfig. An
// empty path reads config.toml from the config directory, where a missing
// file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
