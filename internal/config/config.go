// Package config loads the application configuration from config.yaml and
// the environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig points at the local source files.
type DataConfig struct {
	CrocPath       string `yaml:"croc_path" mapstructure:"croc_path"`
	SharkPath      string `yaml:"shark_path" mapstructure:"shark_path"`
	SharkSheet     string `yaml:"shark_sheet" mapstructure:"shark_sheet"`
	PopulationPath string `yaml:"population_path" mapstructure:"population_path"`
	MinYear        int    `yaml:"min_year" mapstructure:"min_year"`
}

// MapConfig configures the rendered map page.
type MapConfig struct {
	Output  string `yaml:"output" mapstructure:"output"`
	IconDir string `yaml:"icon_dir" mapstructure:"icon_dir"`
	Title   string `yaml:"title" mapstructure:"title"`
}

// SourcesConfig holds the remote URLs the fetch command downloads.
type SourcesConfig struct {
	CrocURL       string `yaml:"croc_url" mapstructure:"croc_url"`
	SharkURL      string `yaml:"shark_url" mapstructure:"shark_url"`
	PopulationURL string `yaml:"population_url" mapstructure:"population_url"`
}

// FetchConfig configures download behavior.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INCIDENTMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.croc_path", "data/croc_attacks.csv")
	v.SetDefault("data.shark_path", "data/shark_attacks.xlsx")
	v.SetDefault("data.population_path", "data/population.zip")
	v.SetDefault("data.min_year", 2015)
	v.SetDefault("map.output", "croc_map.html")
	v.SetDefault("map.icon_dir", "icons")
	v.SetDefault("map.title", "Wildlife Attack Map")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
