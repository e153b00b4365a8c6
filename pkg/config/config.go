package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultTocURL is the table of contents scraped when no URL is given.
const DefaultTocURL = "https://novel.example.com/book/contents"

// Selectors holds the two site-specific selector patterns.
type Selectors struct {
	Contents      string `mapstructure:"contents"`
	VolumeWrapper string `mapstructure:"volume_wrapper"`
	VolumeTitle   string `mapstructure:"volume_title"`
	ChapterLinks  string `mapstructure:"chapter_links"`
	MainContent   string `mapstructure:"main_content"`
}

// Config stores all configuration for the application.
type Config struct {
	RootDir       string    `mapstructure:"root_dir"`
	TocURL        string    `mapstructure:"toc_url"`
	UserAgent     string    `mapstructure:"user_agent"`
	ProxyURL      string    `mapstructure:"proxy_url"`
	LogLevel      string    `mapstructure:"log_level"`
	LogFormat     string    `mapstructure:"log_format"`
	MetricsFile   string    `mapstructure:"metrics_file"`
	MergeManifest bool      `mapstructure:"merge_manifest"`
	Author        string    `mapstructure:"author"`
	Language      string    `mapstructure:"language"`
	ChromePath    string    `mapstructure:"chrome_path"`
	Selectors     Selectors `mapstructure:"selectors"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root_dir", "")
	v.SetDefault("toc_url", DefaultTocURL)
	v.SetDefault("user_agent", "novelpack/1.0 (+https://github.com/user/novelpack)")
	v.SetDefault("proxy_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("metrics_file", "")
	v.SetDefault("merge_manifest", false)
	v.SetDefault("author", "Unknown")
	v.SetDefault("language", "en")
	v.SetDefault("chrome_path", "")
	v.SetDefault("selectors.contents", "#chapters")
	v.SetDefault("selectors.volume_wrapper", ".volume-wrapper")
	v.SetDefault("selectors.volume_title", ".volume-title")
	v.SetDefault("selectors.chapter_links", ".body-web ul.chapter-list li a")
	v.SetDefault("selectors.main_content", "#main-content")
}

// Load reads configuration from the config file and NOVELPACK_* environment variables.
// cfgFile, when set, must exist; otherwise novelpack.yaml is looked up in the working
// directory and in ~/.novelpack, and a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("NOVELPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("novelpack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".novelpack"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
