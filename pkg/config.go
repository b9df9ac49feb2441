package drifty

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the drifty configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default report format: plaintext, json, yaml
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// ScanConfig represents document discovery configuration
type ScanConfig struct {
	Extensions []string // Document file extensions, without the dot
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash    *HashConfig    `json:"hash"`
	Output  *OutputConfig  `json:"output"`
	Verbose *VerboseConfig `json:"verbose"`
	Scan    *ScanConfig    `json:"scan"`
}

// LoadConfig loads configuration from the .drifty/config file below
// projectRoot. A missing file yields the defaults; nothing is created until
// Save is called.
func LoadConfig(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, DriftyDir, ConfigFileName)

	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		VerboseLog(2, "No config at %s, using defaults", configPath)
	} else {
		iniFile, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.ini = iniFile
	}

	return cfg, nil
}

// DefaultConfig returns a configuration holding only defaults and no backing file
func DefaultConfig() *Config {
	return &Config{ini: ini.Empty()}
}

// Path returns the file the configuration is loaded from and saved to
func (c *Config) Path() string {
	return c.configPath
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm,
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: DefaultOutputFormat,
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetScanConfig returns the document discovery configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		Extensions: append([]string(nil), DefaultExtensions...),
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("extensions") {
			var extensions []string
			for _, ext := range section.Key("extensions").Strings(",") {
				ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
				if ext != "" {
					extensions = append(extensions, ext)
				}
			}
			if len(extensions) > 0 {
				scanConfig.Extensions = extensions
			}
		}
	}

	return scanConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:    c.GetHashConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Scan:    c.GetScanConfig(),
	}
}

// Hasher returns a hasher for the configured algorithm
func (c *Config) Hasher() (*Hasher, error) {
	return NewHasher(c.GetHashConfig().Default)
}

// Save saves the configuration to disk, creating the .drifty directory
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("configuration has no backing file")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// Set validates and stores a "key:value" setting without saving it
func (c *Config) Set(setting string) error {
	key, value, err := splitSetting(setting)
	if err != nil {
		return err
	}
	if err := validateSetting(key, value); err != nil {
		return err
	}
	section, name := settingLocation(key)
	c.ini.Section(section).Key(name).SetValue(value)
	return nil
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha512", "format:json", "level:2", "debug:resolve"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		if err := c.Set(override); err != nil {
			return err
		}
	}
	return nil
}

// splitSetting splits "key:value" into its trimmed parts
func splitSetting(setting string) (string, string, error) {
	parts := strings.SplitN(setting, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid override format '%s', expected 'key:value'", setting)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// settingLocation maps an override key to its ini section and key
func settingLocation(key string) (string, string) {
	switch key {
	case "default":
		return "filehash", "default"
	case "format":
		return "output", "format"
	case "level", "debug":
		return "verbose", key
	case "extensions":
		return "scan", "extensions"
	}
	return "", ""
}

// validateSetting checks a single override value
func validateSetting(key, value string) error {
	switch key {
	case "default":
		return ValidateHashAlgorithm(value)
	case "format":
		return ValidateOutputFormat(value)
	case "level":
		var level int
		if _, err := fmt.Sscanf(value, "%d", &level); err != nil {
			return fmt.Errorf("invalid verbose level: %s", value)
		}
		return ValidateVerboseLevel(level)
	case "debug":
		return nil
	case "extensions":
		return ValidateExtensions(value)
	default:
		return fmt.Errorf("unsupported override key '%s' (supported: default, format, level, debug, extensions)", key)
	}
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	switch strings.ToLower(algorithm) {
	case "sha256", "sha384", "sha512":
		return nil
	default:
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha256, sha384, sha512)", algorithm)
	}
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "plaintext", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: plaintext, json, yaml)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateExtensions validates a comma-separated extension list
func ValidateExtensions(extensions string) error {
	for _, ext := range strings.Split(extensions, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return fmt.Errorf("empty extension in '%s'", extensions)
		}
		if strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("invalid extension: %s", ext)
		}
	}
	return nil
}
