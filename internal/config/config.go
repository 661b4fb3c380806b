package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Catalog
	CatalogFile string `mapstructure:"catalog_file" yaml:"catalog_file"`
	AliasMode   string `mapstructure:"alias_mode" yaml:"alias_mode"` // aliases | canonical

	// Output
	Format              string `mapstructure:"format" yaml:"format"` // markdown | json | html
	OutputDir           string `mapstructure:"output_dir" yaml:"output_dir"`
	NegativeMarginLimit int    `mapstructure:"negative_margin_limit" yaml:"negative_margin_limit"`
	Workers             int    `mapstructure:"workers" yaml:"workers"`

	// Parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex         int    `mapstructure:"sheet_index" yaml:"sheet_index"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"catalog_file", "alias_mode", "format", "output_dir", "negative_margin_limit", "workers",
	"delimiter", "decimal_separator", "thousands_separator", "max_rows", "sheet_name", "sheet_index",
}

// Dir returns ~/.feedcheck.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".feedcheck"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.feedcheck/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory is loaded first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FEEDCHECK")
	v.AutomaticEnv()

	v.SetDefault("catalog_file", "")
	v.SetDefault("alias_mode", "aliases")
	v.SetDefault("format", "markdown")
	v.SetDefault("output_dir", "")
	v.SetDefault("negative_margin_limit", 20)
	v.SetDefault("workers", 4)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check rejects values no command can use.
func (c *Global) Check() error {
	switch c.AliasMode {
	case "aliases", "canonical":
	default:
		return fmt.Errorf("invalid alias_mode: %s (use aliases or canonical)", c.AliasMode)
	}
	switch c.Format {
	case "markdown", "json", "html":
	default:
		return fmt.Errorf("invalid format: %s (use markdown, json or html)", c.Format)
	}
	if c.Workers < 0 || c.MaxRows < 0 || c.SheetIndex < 0 {
		return fmt.Errorf("workers, max_rows and sheet_index must not be negative")
	}
	return nil
}
