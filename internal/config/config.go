// Package config provides configuration structures and loading for langscan.
package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "langscan.yaml"

// Config represents the complete application configuration.
//
// The language extension table is intentionally not part of the configuration;
// it is a fixed built-in (see package languages).
type Config struct {
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Report       ReportConfig       `yaml:"report" mapstructure:"report"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// OutputConfig controls the persisted result file.
type OutputConfig struct {
	Filename string `yaml:"filename" mapstructure:"filename"` // written inside the scanned root
	Indent   string `yaml:"indent" mapstructure:"indent"`
}

// ReportConfig controls console rendering.
type ReportConfig struct {
	Color bool `yaml:"color" mapstructure:"color"`
}

// VerificationConfig represents persisted result verification settings.
type VerificationConfig struct {
	Method string `yaml:"method" mapstructure:"method"` // "count", "sha256" or "skip"
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Filename: "scan_results.json",
			Indent:   "    ",
		},
		Report: ReportConfig{
			Color: true,
		},
		Verification: VerificationConfig{
			Method: "count",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, verifyMethod string, noColor bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if verifyMethod != "" {
		c.Verification.Method = verifyMethod
	}
	if noColor {
		c.Report.Color = false
	}
}
