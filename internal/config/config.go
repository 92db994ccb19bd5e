package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-version"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "GX"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Tables    TablesConfig    `yaml:"tables" envconfig:"TABLES"`
	Docs      DocsConfig      `yaml:"docs" envconfig:"DOCS"`
	Golden    GoldenConfig    `yaml:"golden" envconfig:"GOLDEN"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TablesConfig controls where table files are looked up.
// Search order is ProjectDir, UserDir, GeosoftHome/csv, then ExtraDirs.
type TablesConfig struct {
	ProjectDir  string   `yaml:"project_dir" envconfig:"PROJECT_DIR" validate:"required"`
	UserDir     string   `yaml:"user_dir" envconfig:"USER_DIR"`
	GeosoftHome string   `yaml:"geosoft_home" envconfig:"GEOSOFT_HOME"`
	ExtraDirs   []string `yaml:"extra_dirs" envconfig:"EXTRA_DIRS"`
}

// DocsConfig contains version-history generation settings
type DocsConfig struct {
	MinVersion  string   `yaml:"min_version" envconfig:"MIN_VERSION" validate:"required,version"`
	TemplateDir string   `yaml:"template_dir" envconfig:"TEMPLATE_DIR"`
	OutputDir   string   `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	Manifests   []string `yaml:"manifests" envconfig:"MANIFESTS"`
}

// GoldenConfig contains regression harness settings
type GoldenConfig struct {
	Root          string `yaml:"root" envconfig:"ROOT" validate:"required"`
	Update        bool   `yaml:"update" envconfig:"UPDATE"`
	PrimaryExt    string `yaml:"primary_ext" envconfig:"PRIMARY_EXT" validate:"required,startswith=."`
	DescriptorExt string `yaml:"descriptor_ext" envconfig:"DESCRIPTOR_EXT" validate:"required,startswith=."`
}

// TelemetryConfig contains tracing and metrics export settings
type TelemetryConfig struct {
	TraceExporter   string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	SampleRatio     float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsTextfile string  `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Load loads configuration from defaults, the config file (if any) and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file layer.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Env fields carry no default tags, so unset variables leave file values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration with struct tags
func (c *Config) Validate() error {
	return newValidator().Struct(c)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		_, err := version.NewVersion(fl.Field().String())
		return err == nil
	})
	return v
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"gxkit.yaml",
		"configs/gxkit.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/gxkit.log",
		},
		Tables: TablesConfig{
			ProjectDir: ".",
			UserDir:    "user/csv",
		},
		Docs: DocsConfig{
			MinVersion: DefaultMinVersion,
			OutputDir:  "docs",
		},
		Golden: GoldenConfig{
			Root:          "testdata/golden",
			PrimaryExt:    ".bmp",
			DescriptorExt: ".xml",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}
