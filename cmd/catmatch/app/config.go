package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/catmatch/internal/cmd/constants"
	pkgconstants "github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Report run
	Dir         string
	Output      string
	Subdirs     []string
	Exclude     []string
	MappingFile string
	MetricsFile string

	// Logging configuration. LogLevel is the explicit --log-level value;
	// EnvLogLevel comes from LOG_LEVEL or the config file and ranks below -v/-q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by cobra)
//  2. Environment variables, CATMATCH_ prefixed except the LOG_* and
//     NO_COLOR names shared with other tools
//  3. .env files
//  4. Config file (~/.catmatch.yaml or ./.catmatch.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. Unlike the
// searched locations, an explicit file must exist and parse.
func LoadConfigFile(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("CATMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"log_level", "log_format", "log_output", "no_color"} {
		env := strings.ToUpper(key)
		_ = v.BindEnv(key, "CATMATCH_"+env, env)
	}

	v.SetDefault("dir", ".")
	v.SetDefault("output", pkgconstants.DefaultReportName)
	v.SetDefault("format", constants.FormatText)
	v.SetDefault("subdirs", []string{pkgconstants.ReportsDir})
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(pkgconstants.ConfigName)
		// Missing config files are fine
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Dir:         v.GetString("dir"),
		Output:      v.GetString("output"),
		Subdirs:     v.GetStringSlice("subdirs"),
		Exclude:     v.GetStringSlice("exclude"),
		MappingFile: v.GetString("mapping_file"),
		MetricsFile: v.GetString("metrics_file"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}, nil
}

// UpdateFromFlags applies parsed command flags so they take precedence over
// config file and env vars. Boolean flags can only switch a setting on.
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

// loadEnvFiles loads .env.local then .env. godotenv never overrides a
// variable that is already set, so .env.local wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
