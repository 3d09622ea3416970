package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. LANGSCAN_LOGGING_LEVEL=debug.
const EnvPrefix = "LANGSCAN"

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOptional behaves like Load but falls back to defaults (plus environment
// overrides) when configPath does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return LoadFromViper(newViper())
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// newViper returns a Viper instance with defaults registered so that every
// key can be overridden from the environment.
func newViper() *viper.Viper {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("output.filename", defaults.Output.Filename)
	v.SetDefault("output.indent", defaults.Output.Indent)
	v.SetDefault("report.color", defaults.Report.Color)
	v.SetDefault("verification.method", defaults.Verification.Method)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)

	return v
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable
// values. A reference to an unset variable is an error.
func substituteEnvVars(cfg *Config) error {
	fields := []struct {
		key   string
		value *string
	}{
		{"output.filename", &cfg.Output.Filename},
		{"logging.output", &cfg.Logging.Output},
	}

	for _, f := range fields {
		if missing := unresolvedEnvVars(*f.value); len(missing) > 0 {
			return fmt.Errorf("%s: environment variable %s is not set", f.key, strings.Join(missing, ", "))
		}
		*f.value = expandEnvVar(*f.value)
	}
	return nil
}

// unresolvedEnvVars returns the names referenced in s that are not set.
func unresolvedEnvVars(s string) []string {
	var missing []string
	for _, m := range envVarPattern.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if _, exists := os.LookupEnv(name); !exists {
			missing = append(missing, name)
		}
	}
	return missing
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}
