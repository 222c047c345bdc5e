package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "HUIZEN"

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the config file that was read, if any.
	ConfigFile string

	// Settings are the reconcile defaults.
	Settings application.Settings

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by the root command)
//  2. HUIZEN_* environment variables
//  3. .env and .env.local files
//  4. Config file (path, or .huizen.yaml in the working or home directory)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".huizen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read config", err)
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),
		Settings: application.Settings{
			Input:         v.GetString("input"),
			Areas:         v.GetString("areas"),
			ValuesOut:     v.GetString("values_out"),
			NotesOut:      v.GetString("notes_out"),
			Workbook:      v.GetString("workbook"),
			Report:        v.GetString("report"),
			Provenance:    v.GetString("provenance"),
			Locale:        v.GetString("locale"),
			Labels:        v.GetString("labels"),
			MaxIterations: v.GetInt("max_iterations"),
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if config.Settings.MaxIterations < 1 {
		return nil, errors.NewConfigError("max_iterations", "must be at least 1", nil)
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("values_out", constants.DefaultValuesFile)
	v.SetDefault("notes_out", constants.DefaultNotesFile)
	v.SetDefault("locale", constants.DefaultLocale)
	v.SetDefault("max_iterations", constants.DefaultMaxIterations)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// Empty strings leave the configured value in place.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set are not overridden, so .env.local must come first
// to win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
