package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Region      RegionConfig      `yaml:"region" mapstructure:"region"`
	Dedupe      DedupeConfig      `yaml:"dedupe" mapstructure:"dedupe"`
	Proximity   ProximityConfig   `yaml:"proximity" mapstructure:"proximity"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	CityAliases map[string]string `yaml:"city_aliases" mapstructure:"city_aliases"`
}

// InputConfig locates the two source inventories.
type InputConfig struct {
	Managed    string `yaml:"managed" mapstructure:"managed"`
	External   string `yaml:"external" mapstructure:"external"`
	Encoding   string `yaml:"encoding" mapstructure:"encoding"`
	SchemaFile string `yaml:"schema_file" mapstructure:"schema_file"`
}

// RegionConfig is the operating bounding box. Bounds are inclusive.
type RegionConfig struct {
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
	MinLon float64 `yaml:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `yaml:"max_lon" mapstructure:"max_lon"`
}

// DedupeConfig configures the duplicate matcher.
type DedupeConfig struct {
	ThresholdMeters float64 `yaml:"threshold_meters" mapstructure:"threshold_meters"`
	Index           string  `yaml:"index" mapstructure:"index"`
	ProgressEvery   int     `yaml:"progress_every" mapstructure:"progress_every"`
}

// ProximityConfig configures the neighborhood aggregation.
type ProximityConfig struct {
	RadiusKM      float64 `yaml:"radius_km" mapstructure:"radius_km"`
	PreviewSize   int     `yaml:"preview_size" mapstructure:"preview_size"`
	PreviewOrder  string  `yaml:"preview_order" mapstructure:"preview_order"`
	Index         string  `yaml:"index" mapstructure:"index"`
	ProgressEvery int     `yaml:"progress_every" mapstructure:"progress_every"`
}

// OutputConfig selects report formats and their destination directory.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// ServerConfig configures the read-only map server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	StaticDir      string   `yaml:"static_dir" mapstructure:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Index strategies shared by the matcher and the aggregator.
const (
	IndexScan = "scan"
	IndexGrid = "grid"
)

// Preview orderings for the nearby list.
const (
	PreviewOrderPool     = "pool"
	PreviewOrderDistance = "distance"
)

// KnownFormats lists the report formats the output stage can write.
var KnownFormats = []string{"csv", "pricing", "xlsx", "json", "geojson", "sqlite"}

// DefaultCityAliases maps traditional-character city spellings to the form
// used in the rest of the dataset.
func DefaultCityAliases() map[string]string {
	return map[string]string{
		"臺北市": "台北市",
		"臺中市": "台中市",
		"臺南市": "台南市",
		"臺東縣": "台東縣",
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.managed", "managed.csv")
	v.SetDefault("input.external", "external.csv")
	v.SetDefault("input.encoding", "utf-8")
	v.SetDefault("input.schema_file", "")
	v.SetDefault("region.min_lat", 21.5)
	v.SetDefault("region.max_lat", 25.5)
	v.SetDefault("region.min_lon", 119.5)
	v.SetDefault("region.max_lon", 122.5)
	v.SetDefault("dedupe.threshold_meters", 50.0)
	v.SetDefault("dedupe.index", IndexScan)
	v.SetDefault("dedupe.progress_every", 100)
	v.SetDefault("proximity.radius_km", 3.0)
	v.SetDefault("proximity.preview_size", 5)
	v.SetDefault("proximity.preview_order", PreviewOrderPool)
	v.SetDefault("proximity.index", IndexScan)
	v.SetDefault("proximity.progress_every", 50)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.formats", []string{"csv"})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
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
	if len(cfg.CityAliases) == 0 {
		cfg.CityAliases = DefaultCityAliases()
	}

	return &cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	r := c.Region
	if r.MinLat > r.MaxLat {
		errs = append(errs, "region.min_lat must be <= region.max_lat")
	}
	if r.MinLon > r.MaxLon {
		errs = append(errs, "region.min_lon must be <= region.max_lon")
	}
	if r.MinLat < -90 || r.MaxLat > 90 {
		errs = append(errs, "region latitude must be within [-90, 90]")
	}
	if r.MinLon < -180 || r.MaxLon > 180 {
		errs = append(errs, "region longitude must be within [-180, 180]")
	}

	if c.Dedupe.ThresholdMeters <= 0 {
		errs = append(errs, "dedupe.threshold_meters must be > 0")
	}
	if !validIndex(c.Dedupe.Index) {
		errs = append(errs, fmt.Sprintf("dedupe.index %q must be %q or %q", c.Dedupe.Index, IndexScan, IndexGrid))
	}

	if c.Proximity.RadiusKM <= 0 {
		errs = append(errs, "proximity.radius_km must be > 0")
	}
	if c.Proximity.PreviewSize < 0 {
		errs = append(errs, "proximity.preview_size must be >= 0")
	}
	switch c.Proximity.PreviewOrder {
	case PreviewOrderPool, PreviewOrderDistance:
	default:
		errs = append(errs, fmt.Sprintf("proximity.preview_order %q must be %q or %q",
			c.Proximity.PreviewOrder, PreviewOrderPool, PreviewOrderDistance))
	}
	if !validIndex(c.Proximity.Index) {
		errs = append(errs, fmt.Sprintf("proximity.index %q must be %q or %q", c.Proximity.Index, IndexScan, IndexGrid))
	}

	for _, f := range c.Output.Formats {
		if !knownFormat(f) {
			errs = append(errs, fmt.Sprintf("output.formats: unknown format %q", f))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validIndex(s string) bool {
	return s == IndexScan || s == IndexGrid
}

func knownFormat(s string) bool {
	for _, f := range KnownFormats {
		if f == s {
			return true
		}
	}
	return false
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
