package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is loaded once per
// run and read-only thereafter.
type Config struct {
	DealFilters         DealFiltersConfig         `yaml:"deal_filters" mapstructure:"deal_filters"`
	BuyerClassification BuyerClassificationConfig `yaml:"buyer_classification" mapstructure:"buyer_classification"`
	TechnologyKeywords  TechnologyKeywordsConfig  `yaml:"technology_keywords" mapstructure:"technology_keywords"`
	GeographicMapping   []GeographicRegion        `yaml:"geographic_mapping" mapstructure:"geographic_mapping"`
	Feeds               FeedsConfig               `yaml:"feeds" mapstructure:"feeds"`
	Output              OutputConfig              `yaml:"output" mapstructure:"output"`
	Log                 LogConfig                 `yaml:"log" mapstructure:"log"`
}

// DealFiltersConfig configures which extracted deals are kept.
type DealFiltersConfig struct {
	TurnoverRangeMillions TurnoverRange `yaml:"turnover_range_millions" mapstructure:"turnover_range_millions"`
	IncludeUndisclosed    bool          `yaml:"include_undisclosed" mapstructure:"include_undisclosed"`
	DaysLookback          int           `yaml:"days_lookback" mapstructure:"days_lookback"`
	Sectors               []string      `yaml:"sectors" mapstructure:"sectors"`
	ExcludedKeywords      []string      `yaml:"excluded_keywords" mapstructure:"excluded_keywords"`
}

// TurnoverRange bounds the disclosed deal value filter, in millions.
type TurnoverRange struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max"`
}

// BuyerClassificationConfig holds keywords signalling a private-equity buyer.
type BuyerClassificationConfig struct {
	PrivateEquityIndicators []string `yaml:"private_equity_indicators" mapstructure:"private_equity_indicators"`
}

// TechnologyKeywordsConfig holds the technology keyword vocabulary.
type TechnologyKeywordsConfig struct {
	Primary []string `yaml:"primary" mapstructure:"primary"`
}

// GeographicRegion maps a region label to the keywords that imply it.
// Regions are matched in list order, first match wins, so the mapping is
// a slice rather than a map.
type GeographicRegion struct {
	Region   string   `yaml:"region" mapstructure:"region"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// FeedsConfig configures feed ingestion.
type FeedsConfig struct {
	OPMLPath string `yaml:"opml_path" mapstructure:"opml_path"`
	CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// OutputConfig configures report output.
type OutputConfig struct {
	FilenamePattern string `yaml:"filename_pattern" mapstructure:"filename_pattern"`
	Location        string `yaml:"location" mapstructure:"location"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path reads
// the default ./config.yaml if present; a missing default file is not an
// error and yields the built-in defaults. An explicitly passed path that
// cannot be read is fatal.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("MATRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("deal_filters.turnover_range_millions.min", 5)
	v.SetDefault("deal_filters.turnover_range_millions.max", 50)
	v.SetDefault("deal_filters.include_undisclosed", true)
	v.SetDefault("deal_filters.days_lookback", 7)
	v.SetDefault("feeds.opml_path", "data/rss_feeds.opml")
	v.SetDefault("output.filename_pattern", "MA_Tracker_{date}.xlsx")
	v.SetDefault("output.location", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
		zap.L().Warn("config: file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects configurations no component can interpret.
func (c *Config) validate() error {
	r := c.DealFilters.TurnoverRangeMillions
	if r.Min < 0 || r.Max < 0 {
		return eris.Errorf("config: turnover range must be non-negative, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return eris.Errorf("config: turnover range min %v exceeds max %v", r.Min, r.Max)
	}
	if c.DealFilters.DaysLookback <= 0 {
		return eris.Errorf("config: days_lookback must be positive, got %d", c.DealFilters.DaysLookback)
	}
	return nil
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
