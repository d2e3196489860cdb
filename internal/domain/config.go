package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Store    StoreConfig   `toml:"store"`
	Source   SourceConfig  `toml:"source"`
	Display  DisplayConfig `toml:"display"`
	Log      LogConfig     `toml:"log"`
}

// StoreConfig holds settings for record documents from [store] section.
type StoreConfig struct {
	File string `toml:"file,omitempty"` // Default record document path
}

// SourceConfig holds settings for source locators from [source] section.
type SourceConfig struct {
	Repo string `toml:"repo,omitempty"` // Repository used for git: locators (default: working directory)
}

// DisplayConfig holds output settings from [display] section.
type DisplayConfig struct {
	TimeFormat string `toml:"time_format,omitempty"` // Go time layout for human output
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Directory and file names for star.
const (
	StarDirName      = "star"        // Directory name under the global config home
	LocalDirName     = ".star"       // Directory name for local state and config
	ConfigFileName   = "config.toml" // Config file name
	DefaultStoreFile = "star.xml"    // Default record document
)

// Default configuration values.
const (
	DefaultLogLevel   = "info"
	DefaultTimeFormat = "2006-01-02 15:04"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			File: DefaultStoreFile,
		},
		Display: DisplayConfig{
			TimeFormat: DefaultTimeFormat,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	GetLocalConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitLocalConfig(cfg *Config) error
	InitGlobalConfig(cfg *Config) error
}

// RenderConfigTemplate renders a commented config file seeded with cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
