package config

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "mcpi"

// DefaultClient is used when neither flags, the project, nor the user config name one.
const DefaultClient = "claude-code"

// Config represents the user configuration.
type Config struct {
	Version           int           `mapstructure:"version" yaml:"version"`
	DefaultClient     string        `mapstructure:"default_client" yaml:"default_client"`
	CatalogPath       string        `mapstructure:"catalog_path" yaml:"catalog_path"`
	InstallDir        string        `mapstructure:"install_dir" yaml:"install_dir"`
	BackupRetention   int           `mapstructure:"backup_retention" yaml:"backup_retention"`
	SubprocessTimeout time.Duration `mapstructure:"subprocess_timeout" yaml:"subprocess_timeout"`
	NetworkTimeout    time.Duration `mapstructure:"network_timeout" yaml:"network_timeout"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	viper.SetEnvPrefix("MCPI")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_client", DefaultClient)
	viper.SetDefault("catalog_path", paths.DefaultCatalogPath())
	viper.SetDefault("install_dir", paths.InstallDir())
	viper.SetDefault("backup_retention", 5)
	// Zero means no timeout for local subprocesses
	viper.SetDefault("subprocess_timeout", "0s")
	viper.SetDefault("network_timeout", "30s")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load with no file: defaults apply
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			if path != "" && isNotExist(err) {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	home := paths.Home()
	cfg.CatalogPath = paths.ExpandHome(cfg.CatalogPath, home)
	cfg.InstallDir = paths.ExpandHome(cfg.InstallDir, home)

	return &cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
