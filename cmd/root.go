package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gumup/gumup/internal/config"
	"github.com/gumup/gumup/internal/log"
)

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	traceMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gumup",
	Short: "Dependency-ordered bundling for annotated source files",
	Long: `gumup scans source files for @unit and @require annotations, resolves
the declared dependency graph, and concatenates the files so that every
unit follows all units it depends on.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .gumup/config.yaml, then ~/.config/gumup/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"write debug logs to .gumup/debug.log")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false,
		"enable tracing for this run")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("source_dirs", defaults.SourceDirs)
	viper.SetDefault("extensions", defaults.Extensions)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("cache.disabled", defaults.Cache.Disabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .gumup/config.yaml (current directory)
		// 2. ~/.config/gumup/config.yaml (user config)
		if _, err := os.Stat(".gumup/config.yaml"); err == nil {
			viper.SetConfigFile(".gumup/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "gumup"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .gumup/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".gumup/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debugMode {
		if _, err := log.Init(".gumup/debug.log"); err == nil {
			log.SetEnabled(true)
		}
	}
	if traceMode {
		cfg.Tracing.Enabled = true
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
