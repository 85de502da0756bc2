// Package config loads model-usage settings from model-usage.yaml, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"model-usage/internal/classify"
)

const (
	maxWalkDepth = 25

	// EnvPrefix prefixes environment overrides: MODEL_USAGE_GRANTS_DSN.
	EnvPrefix = "MODEL_USAGE"
)

// FileNames are the config file names looked up during discovery, in order.
var FileNames = []string{"model-usage.yaml", "model-usage.yml"}

// Config represents the model-usage configuration.
type Config struct {
	// Dir is the directory package patterns are resolved in.
	Dir string `mapstructure:"dir"`
	// Patterns are the packages to analyse.
	Patterns []string `mapstructure:"patterns"`
	// Registry is the entity registry file. Empty means discover.
	Registry string `mapstructure:"registry"`
	// Filter restricts the imports entities are recognised through.
	Filter           string `mapstructure:"filter"`
	IncludeGenerated bool   `mapstructure:"include_generated"`
	Tests            bool   `mapstructure:"tests"`
	// Output is the snapshot path; "-" or empty prints to stdout.
	Output string `mapstructure:"output"`

	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Discover   DiscoverConfig   `mapstructure:"discover"`
	Grants     GrantsConfig     `mapstructure:"grants"`
}

// VocabularyConfig extends the built-in method vocabulary.
type VocabularyConfig struct {
	Insert      []string `mapstructure:"insert"`
	Update      []string `mapstructure:"update"`
	Delete      []string `mapstructure:"delete"`
	MixinSuffix string   `mapstructure:"mixin_suffix"`
}

// DiscoverConfig controls registry discovery.
type DiscoverConfig struct {
	Packages string `mapstructure:"packages"`
	Base     string `mapstructure:"base"`
}

// GrantsConfig holds grant generation settings.
type GrantsConfig struct {
	User     string `mapstructure:"user"`
	Host     string `mapstructure:"host"`
	Database string `mapstructure:"database"`
	Revoke   bool   `mapstructure:"revoke"`
	Flush    bool   `mapstructure:"flush"`
	DSN      string `mapstructure:"dsn"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults. A .env file in the working directory
// is loaded into the environment first; variables already set win.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	// A relative registry path is relative to the config file.
	if configPath != "" && cfg.Registry != "" && !filepath.IsAbs(cfg.Registry) {
		cfg.Registry = filepath.Join(filepath.Dir(configPath), cfg.Registry)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("patterns", []string{"./..."})
	v.SetDefault("registry", "")
	v.SetDefault("filter", "")
	v.SetDefault("include_generated", false)
	v.SetDefault("tests", false)
	v.SetDefault("output", "")

	v.SetDefault("vocabulary.insert", []string{})
	v.SetDefault("vocabulary.update", []string{})
	v.SetDefault("vocabulary.delete", []string{})
	v.SetDefault("vocabulary.mixin_suffix", classify.DefaultMixinSuffix)

	v.SetDefault("discover.packages", "")
	v.SetDefault("discover.base", "Model")

	v.SetDefault("grants.user", "")
	v.SetDefault("grants.host", "%")
	v.SetDefault("grants.database", "")
	v.SetDefault("grants.revoke", false)
	v.SetDefault("grants.flush", true)
	v.SetDefault("grants.dsn", "")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for model-usage.yaml or
// model-usage.yml, stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}

		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for range maxWalkDepth {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", nil
}

// VocabularyValue returns the classifier vocabulary: the defaults extended
// with the configured names.
func (c *Config) VocabularyValue() classify.Vocabulary {
	vocab := classify.DefaultVocabulary().Extend(c.Vocabulary.Insert, c.Vocabulary.Update, c.Vocabulary.Delete)
	if c.Vocabulary.MixinSuffix != "" {
		vocab.MixinSuffix = c.Vocabulary.MixinSuffix
	}

	return vocab
}

// DSN returns the MySQL data source name grants are applied through. When
// grants.database is set and the DSN names no schema, it is used as one.
func (c *Config) DSN() (string, error) {
	if c.Grants.DSN == "" {
		return "", errors.New("grants.dsn is required to apply grants")
	}

	mc, err := mysql.ParseDSN(c.Grants.DSN)
	if err != nil {
		return "", fmt.Errorf("parsing grants.dsn: %w", err)
	}

	if mc.DBName == "" {
		mc.DBName = c.Grants.Database
	}

	return mc.FormatDSN(), nil
}
