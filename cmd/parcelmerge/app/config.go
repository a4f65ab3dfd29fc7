package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/parcelmerge/pkg/constants"
	pmerrors "github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/sources"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "PARCELMERGE"

// Config holds the application configuration loaded from config files,
// environment variables, .env files and flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Merge configuration
	Sources       map[sources.ID]string
	Output        string
	Reference     string
	Order         []string
	Durable       bool
	ProgressEvery int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by cobra)
//  2. PARCELMERGE_* environment variables
//  3. .env and .env.local files
//  4. Config file (./parcelmerge.yaml or ~/.parcelmerge.yaml)
//  5. Defaults
//
// An explicit configFile must exist; the search locations may be empty.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Sources:       make(map[sources.ID]string, len(sources.IDs())),
		Output:        v.GetString("output"),
		Reference:     v.GetString("reference"),
		Order:         stringList(v, "order"),
		Durable:       v.GetBool("durable"),
		ProgressEvery: v.GetInt("progress_every"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	for _, id := range sources.IDs() {
		if path := v.GetString("sources." + id.String()); path != "" {
			config.Sources[id] = path
		}
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	for _, id := range sources.IDs() {
		v.SetDefault("sources."+id.String(), fmt.Sprintf(constants.DefaultSourcePattern, id))
	}
	v.SetDefault("output", constants.DefaultOutputPath)
	v.SetDefault("reference", sources.DefaultReference.String())
	v.SetDefault("order", []string{})
	v.SetDefault("durable", false)
	v.SetDefault("progress_every", constants.DefaultProgressEvery)
	v.SetDefault("format", "")
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return pmerrors.NewConfigError("config", "failed to read "+configFile, err)
		}
		return nil
	}

	v.SetConfigType("yaml")
	v.SetConfigName("parcelmerge")
	v.AddConfigPath(".")
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return pmerrors.NewConfigError("config", "failed to read parcelmerge.yaml", err)
	}

	home, herr := os.UserHomeDir()
	if herr != nil {
		return nil
	}
	v.SetConfigName(".parcelmerge")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return pmerrors.NewConfigError("config", "failed to read .parcelmerge.yaml", err)
	}
	return nil
}

// stringList accepts both YAML lists and comma separated env values.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, output string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if output != "" {
		c.Output = output
	}
}

// Merge builds the merge configuration.
func (c *Config) Merge() (merge.Config, error) {
	reference, err := sources.ParseID(c.Reference)
	if err != nil {
		return merge.Config{}, pmerrors.NewConfigError("reference", err.Error(), err)
	}
	order := make([]sources.ID, 0, len(c.Order))
	for _, name := range c.Order {
		id, err := sources.ParseID(name)
		if err != nil {
			return merge.Config{}, pmerrors.NewConfigError("order", err.Error(), err)
		}
		order = append(order, id)
	}
	paths := make(map[sources.ID]string, len(c.Sources))
	for id, path := range c.Sources {
		paths[id] = path
	}
	return merge.Config{
		SourcePaths:     paths,
		OutputPath:      c.Output,
		ReferenceSource: reference,
		Order:           order,
		Durable:         c.Durable,
	}, nil
}

// loadEnvFiles loads environment variables from .env files. Variables that
// are already set are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
