// Package config provides configuration management for assetmirror. It
// handles loading, validating, and saving the YAML configuration that names
// the mirror root, the discovery endpoint, the static source groups, and the
// general network settings. Sensible defaults are provided for every value.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/assetmirror/assetmirror/pkg/errors"
	"github.com/assetmirror/assetmirror/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	// Version is the config schema version, checked against
	// SupportedVersions at load time.
	Version string `yaml:"version"`

	Settings  Settings  `yaml:"settings"`
	Discovery Discovery `yaml:"discovery"`
	Sources   Sources   `yaml:"sources"`
	Hooks     Hooks     `yaml:"hooks,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// OutputDir is the mirror root; relative paths are resolved against the
	// working directory at startup.
	OutputDir string `yaml:"output_dir"`

	// UserAgent is the identifying header sent with every request.
	UserAgent string `yaml:"user_agent"`

	// Network settings.
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"`

	// ExtractArchives unpacks saved archive assets next to the file.
	ExtractArchives bool `yaml:"extract_archives"`

	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// Discovery configures the auxiliary listing endpoint.
type Discovery struct {
	Endpoint string   `yaml:"endpoint"`
	Origin   string   `yaml:"origin"`
	Mode     string   `yaml:"mode"`
	Segments []string `yaml:"segments"`
}

// Sources holds the statically configured locator groups.
type Sources struct {
	Archives  NamedGroup    `yaml:"archives,omitempty"`
	Languages LanguageGroup `yaml:"languages,omitempty"`
	Media     NumberedGroup `yaml:"media,omitempty"`
}

// NamedGroup expands to base_url + name + suffix for each name.
type NamedGroup struct {
	BaseURL string   `yaml:"base_url"`
	Suffix  string   `yaml:"suffix,omitempty"`
	Names   []string `yaml:"names"`
}

// URLs returns the expanded locators of the group.
func (g NamedGroup) URLs() []string {
	urls := make([]string, 0, len(g.Names))
	for _, name := range g.Names {
		urls = append(urls, g.BaseURL+name+g.Suffix)
	}
	return urls
}

// LanguageGroup expands to base_url + prefix + code for each language code.
type LanguageGroup struct {
	BaseURL string   `yaml:"base_url"`
	Prefix  string   `yaml:"prefix,omitempty"`
	Codes   []string `yaml:"codes"`
}

// URLs returns the expanded locators of the group.
func (g LanguageGroup) URLs() []string {
	urls := make([]string, 0, len(g.Codes))
	for _, code := range g.Codes {
		urls = append(urls, g.BaseURL+g.Prefix+code)
	}
	return urls
}

// NumberedGroup expands to base_url + prefix + n + suffix for n in [0, count).
type NumberedGroup struct {
	BaseURL string `yaml:"base_url"`
	Prefix  string `yaml:"prefix,omitempty"`
	Suffix  string `yaml:"suffix,omitempty"`
	Count   int    `yaml:"count"`
}

// URLs returns the expanded locators of the group.
func (g NumberedGroup) URLs() []string {
	urls := make([]string, 0, g.Count)
	for n := 0; n < g.Count; n++ {
		urls = append(urls, fmt.Sprintf("%s%s%d%s", g.BaseURL, g.Prefix, n, g.Suffix))
	}
	return urls
}

// URLs returns all static locators, group by group, in configuration order.
func (s Sources) URLs() []string {
	var urls []string
	urls = append(urls, s.Archives.URLs()...)
	urls = append(urls, s.Languages.URLs()...)
	urls = append(urls, s.Media.URLs()...)
	return urls
}

// Hooks names the optional Tengo scripts run during a mirror batch.
type Hooks struct {
	PreBatch  string `yaml:"pre_batch,omitempty"`
	PostSave  string `yaml:"post_save,omitempty"`
	PostBatch string `yaml:"post_batch,omitempty"`
}

// Default configuration values.
const (
	// CurrentVersion is the config schema version written by this build.
	CurrentVersion = "1.0"

	// SupportedVersions is the constraint a loaded config version must satisfy.
	SupportedVersions = ">= 1.0, < 2.0"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrent is the default number of parallel fetches.
	DefaultMaxConcurrent = 32

	// DefaultOutputDir is the default mirror root directory.
	DefaultOutputDir = "TFM_DOWNLOADED_ASSETS"

	// DefaultUserAgent is the browser-like identifying header sent by default.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.0.0 Safari/537.36"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults: the asset
// sets mirrored by the original tool.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Settings: Settings{
			OutputDir:     DefaultOutputDir,
			UserAgent:     DefaultUserAgent,
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			LogLevel:      "info",
		},
		Discovery: Discovery{
			Endpoint: "http://derpolino.alwaysdata.net/imagetfm/getFiles.php",
			Origin:   "https://www.transformice.com/",
			Mode:     "tfm",
			Segments: []string{"images", "ar", "godspaw", "share", "woot", "wp-admin", "wp-content", "wp-includes"},
		},
		Sources: Sources{
			Archives: NamedGroup{
				BaseURL: "http://transformice.com/images/x_bibliotheques/",
				Suffix:  ".swf",
				Names: []string{
					"x_fourrures", "x_fourrures2", "x_fourrures3", "x_fourrures4",
					"x_meli_costumes", "x_pictos_editeur",
				},
			},
			Languages: LanguageGroup{
				BaseURL: "http://transformice.com/langues/",
				Prefix:  "tfz_",
				Codes: []string{
					"en", "fr", "br", "es", "cn", "tr", "vk", "pl", "hu", "nl",
					"ro", "id", "de", "e2", "ar", "ph", "lt", "jp", "ch", "fi",
					"cz", "sk", "hr", "bu", "lv", "he", "it", "et", "az", "pt",
				},
			},
			Media: NumberedGroup{
				BaseURL: "http://transformice.com/images/musiques/",
				Prefix:  "tfm_",
				Suffix:  ".mp3",
				Count:   4,
			},
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "invalid config file path")
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to encode config")
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config to YAML")
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := c.validateVersion(); err != nil {
		return err
	}
	if c.Settings.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutInvalid
	}
	if c.Settings.MaxConcurrent < 1 {
		return errors.ErrConcurrencyInvalid
	}
	switch c.Settings.LogLevel {
	case "error", "warn", "warning", "info", "debug":
	default:
		return errors.Wrapf(errors.ErrInvalidLogLevel, "%q", c.Settings.LogLevel)
	}
	return nil
}

func (c *Config) validateVersion() error {
	v, err := version.NewVersion(c.Version)
	if err != nil {
		return errors.Wrapf(errors.ErrConfigVersion, "%q", c.Version)
	}
	constraint, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, "invalid version constraint")
	}
	if !constraint.Check(v) {
		return errors.Wrapf(errors.ErrConfigVersion, "%s does not satisfy %s", c.Version, SupportedVersions)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "assetmirror", "config.yaml"), nil
}

// applyDefaults fills zero values with their defaults after unmarshalling.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Settings.OutputDir == "" {
		c.Settings.OutputDir = DefaultOutputDir
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = DefaultUserAgent
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
}
