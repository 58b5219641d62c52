package config

// Config represents the complete nujel configuration
type Config struct {
	BaseDir string `yaml:"-"` // Directory containing config file, for resolving relative paths
	Path    string `yaml:"-"` // Config file that was loaded, empty when running on defaults

	Keywords KeywordsConfig `yaml:"keywords"`
	TabSize  int            `yaml:"tab_size"` // Columns per tab stop (default: 8)
	Render   RenderConfig   `yaml:"render"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// KeywordsConfig extends or replaces the built-in keyword tables
type KeywordsConfig struct {
	Builtins StringOrSlice `yaml:"builtins"` // Extra identifiers highlighted as builtins
	Indent   StringOrSlice `yaml:"indent"`   // Extra heads whose bodies indent by two columns
	Replace  bool          `yaml:"replace"`  // Use only the lists above instead of extending the defaults
}

// RenderConfig holds output settings for the highlight command and the server
type RenderConfig struct {
	Format      string `yaml:"format"`       // html, ansi, json or tokens (default: html)
	Theme       string `yaml:"theme"`        // ayu-dark or plain (default: ayu-dark)
	LineNumbers bool   `yaml:"line_numbers"` // Prefix every line with its number
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Host        string            `yaml:"host"`
	Port        int               `yaml:"port"`
	Root        string            `yaml:"root"`        // Directory of sources to serve (default: ".")
	LiveReload  bool              `yaml:"live_reload"` // Inject the reload script and watch for changes
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig holds HTTP response compression settings
type CompressionConfig struct {
	Enabled bool   `yaml:"enabled"`  // Enable gzip compression (default: true)
	Level   string `yaml:"level"`    // Compression level: "fastest", "default", "best", "none" (default: "default")
	MinSize int    `yaml:"min_size"` // Minimum response size to compress in bytes (default: 1024)
}

// StoreConfig selects the persistent render store
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres or mysql; empty disables the store
	DSN    string `yaml:"dsn"`    // Driver data source; a relative sqlite path is resolved against BaseDir
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
	Quiet  bool   `yaml:"quiet"`  // suppress request logs
}

// StringOrSlice supports YAML fields that can be either a string or a slice of strings
type StringOrSlice []string

// UnmarshalYAML implements yaml.Unmarshaler to handle both string and []string
func (s *StringOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var slice []string
	if err := unmarshal(&slice); err != nil {
		return err
	}
	*s = slice
	return nil
}

// Contains checks if the slice contains the given string
func (s StringOrSlice) Contains(str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}
	return false
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		TabSize: 8,
		Render: RenderConfig{
			Format: "html",
			Theme:  "ayu-dark",
		},
		Server: ServerConfig{
			Host:       "localhost",
			Port:       8080,
			Root:       ".",
			LiveReload: true,
			Compression: CompressionConfig{
				Enabled: true,
				Level:   "default",
				MinSize: 1024,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
