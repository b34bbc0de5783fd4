package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"vibeboxing/internal/client"
)

// Config holds CLI settings. Flags override the config file, which overrides
// the defaults.
type Config struct {
	Server  string        `koanf:"server"`
	Cache   string        `koanf:"cache"`
	Timeout time.Duration `koanf:"timeout"`
	Verbose bool          `koanf:"verbose"`
}

const defaultServer = "http://localhost:8080"

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vibeboxing", "config.yaml")
}

// registerFlags adds the global flags.
func registerFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default "+defaultConfigPath()+")")
	flags.String("server", defaultServer, "API base URL")
	flags.String("cache", "", "credentials file (default under the user config dir)")
	flags.Duration("timeout", client.DefaultTimeout, "request timeout")
	flags.BoolP("verbose", "v", false, "log client diagnostics to stderr")
}

// loadConfig reads the config file named by --config (or the default path
// when it exists) and overlays the flags.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if path == "" {
		path = defaultConfigPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Cache == "" {
		p, err := client.DefaultCredentialsPath()
		if err != nil {
			return nil, fmt.Errorf("locate credentials file: %w", err)
		}
		cfg.Cache = p
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = client.DefaultTimeout
	}
	return &cfg, nil
}
