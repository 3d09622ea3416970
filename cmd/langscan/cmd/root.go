package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/langscan/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	verifyMethod string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "langscan [dir]",
	Short: "Source tree language scanner",
	Long: `Langscan walks a directory tree, classifies every file by its extension
and reports file, line and byte counts per language.

Results are written to scan_results.json inside the scanned directory and
summarized on the console. When no directory is given, langscan asks for one.

Example:
  langscan ./myproject
  langscan --verify sha256 --no-color ./myproject`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runScan,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context; the walk itself always runs to completion.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile,
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Output overrides
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored console output")
	rootCmd.PersistentFlags().StringVar(&verifyMethod, "verify", "",
		"Override result verification method (count, sha256, skip)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	VerifyMethod string
	NoColor      bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		VerifyMethod: verifyMethod,
		NoColor:      noColor,
	}
}

// loadConfig loads the optional config file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(GetConfigFile())
	if err != nil {
		return nil, err
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.VerifyMethod, overrides.NoColor)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
