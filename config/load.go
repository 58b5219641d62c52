package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/keywords"
	"github.com/sambeau/nujelmode/pkg/nujel/logging"
)

// EnvConfig names the environment variable holding a config path.
const EnvConfig = "NUJEL_CONFIG"

// DefaultSQLiteFile is the render store used when the sqlite driver is
// selected without a DSN.
const DefaultSQLiteFile = "nujel-cache.db"

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations; finding nothing is
// not an error and yields Defaults().
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := Defaults()
		if wd, err := os.Getwd(); err == nil {
			cfg.BaseDir = wd
		}
		return cfg, nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return Parse(data, absPath, getenv)
}

// Parse decodes configuration data that was read from path. Relative paths in
// the result are resolved against the directory of path.
func Parse(data []byte, path string, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("CONFIG-0002", map[string]any{"GoError": err.Error()}).WithFile(path)
	}
	cfg.Path = path
	cfg.BaseDir = filepath.Dir(path)

	if cfg.Server.Root != "" && !filepath.IsAbs(cfg.Server.Root) {
		cfg.Server.Root = filepath.Join(cfg.BaseDir, cfg.Server.Root)
	}
	if cfg.Store.Driver == "sqlite" {
		if cfg.Store.DSN == "" {
			cfg.Store.DSN = DefaultSQLiteFile
		}
		if !filepath.IsAbs(cfg.Store.DSN) && !strings.HasPrefix(cfg.Store.DSN, "file:") && cfg.Store.DSN != ":memory:" {
			cfg.Store.DSN = filepath.Join(cfg.BaseDir, cfg.Store.DSN)
		}
	}
	return cfg, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > NUJEL_CONFIG env > ./nujel.yaml > ~/.config/nujel/nujel.yaml
// An explicit path or NUJEL_CONFIG that does not exist is an error; an empty
// result means no file was found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.New("CONFIG-0001", map[string]any{"Path": explicit})
		}
		return explicit, nil
	}

	// Try NUJEL_CONFIG environment variable
	if envPath := getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", errors.New("CONFIG-0001", map[string]any{"Path": envPath})
		}
		return envPath, nil
	}

	// Try ./nujel.yaml
	if _, err := os.Stat("nujel.yaml"); err == nil {
		return "nujel.yaml", nil
	}

	// Try ~/.config/nujel/nujel.yaml
	home := getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		xdgPath := filepath.Join(home, ".config", "nujel", "nujel.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// Validate checks the whole configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.TabSize < 1 || cfg.TabSize > 16 {
		errs = append(errs, fmt.Sprintf("invalid tab_size: %d (must be 1-16)", cfg.TabSize))
	}

	if _, err := Keywords(cfg); err != nil {
		errs = append(errs, "keywords: "+err.Error())
	}

	if !contains(highlight.Formats(), cfg.Render.Format) {
		errs = append(errs, fmt.Sprintf("invalid render format: %s (must be %s)", cfg.Render.Format, strings.Join(highlight.Formats(), ", ")))
	}
	if _, err := highlight.LookupTheme(cfg.Render.Theme); err != nil {
		errs = append(errs, fmt.Sprintf("invalid theme: %s (must be %s)", cfg.Render.Theme, strings.Join(highlight.ThemeNames(), ", ")))
	}

	// Server validation
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port: %d (must be 1-65535)", cfg.Server.Port))
	}
	validLevels := map[string]bool{"fastest": true, "default": true, "best": true, "none": true}
	if !validLevels[cfg.Server.Compression.Level] {
		errs = append(errs, fmt.Sprintf("invalid compression level: %s (must be fastest, default, best, or none)", cfg.Server.Compression.Level))
	}
	if cfg.Server.Compression.MinSize < 0 {
		errs = append(errs, "compression min_size cannot be negative")
	}

	// Store validation
	switch cfg.Store.Driver {
	case "":
		if cfg.Store.DSN != "" {
			errs = append(errs, "store: dsn given without a driver")
		}
	case "sqlite":
	case "postgres", "mysql":
		if cfg.Store.DSN == "" {
			errs = append(errs, fmt.Sprintf("store: driver %s requires a dsn", cfg.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Sprintf("store: unsupported driver %q (must be sqlite, postgres, or mysql)", cfg.Store.Driver))
	}

	// Logging validation
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil || cfg.Logging.Level == "" {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}
	validFormats := map[string]bool{logging.FormatJSON: true, logging.FormatText: true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		e := errors.New("CONFIG-0003", map[string]any{"Problems": strings.Join(errs, "\n  - ")})
		if cfg.Path != "" {
			e = e.WithFile(cfg.Path)
		}
		return e
	}
	return nil
}

// Keywords builds the keyword table the configuration asks for.
func Keywords(cfg *Config) (*keywords.Table, error) {
	kw := cfg.Keywords
	if kw.Replace {
		return keywords.New(kw.Builtins, kw.Indent)
	}
	if len(kw.Builtins) == 0 && len(kw.Indent) == 0 {
		return keywords.Default(), nil
	}
	return keywords.Default().Extend(kw.Builtins, kw.Indent)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
