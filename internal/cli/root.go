// Package cli implements the acorde command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/acorde-sonar/algorithms/tonal"
	"github.com/RyanBlaney/acorde-sonar/algorithms/windowing"
	"github.com/RyanBlaney/acorde-sonar/internal/server"
	"github.com/RyanBlaney/acorde-sonar/logging"
	"github.com/RyanBlaney/acorde-sonar/recognition"
	"github.com/RyanBlaney/acorde-sonar/recognition/config"
)

const (
	appName   = "acorde"
	envPrefix = "ACORDE"
)

// flagKeys maps flag names onto configuration keys. Flags not listed use
// their own name with dashes replaced by underscores.
var flagKeys = map[string]string{
	"output":            "output_format",
	"window":            "analysis.window",
	"transform-size":    "analysis.transform_size",
	"min-peaks":         "analysis.min_peak_count",
	"tolerance":         "analysis.tolerance",
	"refine":            "analysis.refine_peaks",
	"band-from-catalog": "analysis.band_from_catalog",
	"concurrency":       "analysis.concurrency",
	"addr":              "server.addr",
}

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configFile string
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree around its own viper instance
func NewRootCommand() *cobra.Command {
	v := viper.New()
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Chord recognition from audio spectra",
		Long: `Recognize three-tone chords in audio.

Each buffer goes through a windowed magnitude spectrum, an adaptive peak
search inside a frequency band and a tolerance match against a chord
catalog. The built-in catalog holds seven chords; a YAML catalog can be
supplied with --catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, opts); err != nil {
				return err
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			return configureLogging(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "",
		"config file (default is $HOME/.config/acorde/acorde.yaml)")
	flags.String("catalog", "", "chord catalog YAML file (default is the built-in catalog)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.StringP("output", "o", "table", "output format (table, json, yaml)")

	rootCmd.AddCommand(
		newAnalyzeCommand(v),
		newSynthCommand(v),
		newCatalogCommand(v),
		newServeCommand(v),
	)

	return rootCmd
}

// initConfig reads the config file and environment into v
func initConfig(v *viper.Viper, opts *globalOptions) error {
	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath("/etc/" + appName)
		v.AddConfigPath("./configs")
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// an explicit --config must exist; the search paths are optional
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && opts.configFile == "" {
			return nil
		}
		return fmt.Errorf("could not read config: %w", err)
	}
	return nil
}

func configKey(flag string) string {
	if key, ok := flagKeys[flag]; ok {
		return key
	}
	return strings.ReplaceAll(flag, "-", "_")
}

// bindFlags binds each cobra flag to its configuration key, copying config
// values into flags the user did not set
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" || f.Name == "config" {
			return
		}
		key := configKey(f.Name)

		if !f.Changed && v.IsSet(key) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(key))); err != nil {
				lastErr = fmt.Errorf("flag --%s: %w", f.Name, err)
			}
		}

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// setDefaults seeds v with the library defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "table")
	v.SetDefault("catalog", "")

	analysis := config.DefaultAnalysisConfig()
	v.SetDefault("analysis.window", string(analysis.Window))
	v.SetDefault("analysis.transform_size", analysis.TransformSize)
	v.SetDefault("analysis.min_peak_count", analysis.MinPeakCount)
	v.SetDefault("analysis.band_low", analysis.BandLow)
	v.SetDefault("analysis.band_high", analysis.BandHigh)
	v.SetDefault("analysis.refine_peaks", analysis.RefinePeaks)
	v.SetDefault("analysis.band_from_catalog", analysis.BandFromCatalog)
	v.SetDefault("analysis.band_margin", analysis.BandMargin)
	v.SetDefault("analysis.tolerance", analysis.Tolerance)
	v.SetDefault("analysis.concurrency", analysis.Concurrency)

	srv := server.DefaultConfig()
	v.SetDefault("server.addr", srv.Addr)
	v.SetDefault("server.allowed_origins", srv.AllowedOrigins)
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)
}

func configureLogging(cmd *cobra.Command, v *viper.Viper) error {
	level, err := logging.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return err
	}
	if v.GetBool("verbose") {
		level = logging.DebugLevel
	}

	logger := logging.NewConsoleLogger(cmd.ErrOrStderr())
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	if used := v.ConfigFileUsed(); used != "" {
		logging.Debug("Using config file", logging.Fields{"path": used})
	}
	return nil
}

// analysisConfig reads the analysis section of v
func analysisConfig(v *viper.Viper) (*config.AnalysisConfig, error) {
	window, err := windowing.ParseType(v.GetString("analysis.window"))
	if err != nil {
		return nil, err
	}

	cfg := &config.AnalysisConfig{
		Window:          window,
		TransformSize:   v.GetInt("analysis.transform_size"),
		MinPeakCount:    v.GetInt("analysis.min_peak_count"),
		BandLow:         v.GetFloat64("analysis.band_low"),
		BandHigh:        v.GetFloat64("analysis.band_high"),
		RefinePeaks:     v.GetBool("analysis.refine_peaks"),
		BandFromCatalog: v.GetBool("analysis.band_from_catalog"),
		BandMargin:      v.GetFloat64("analysis.band_margin"),
		Tolerance:       v.GetFloat64("analysis.tolerance"),
		Concurrency:     v.GetInt("analysis.concurrency"),
	}
	return cfg, cfg.Validate()
}

func serverConfig(v *viper.Viper) server.Config {
	return server.Config{
		Addr:           v.GetString("server.addr"),
		AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
	}
}

func loadCatalog(v *viper.Viper) (*tonal.Catalog, error) {
	path := v.GetString("catalog")
	if path == "" {
		return tonal.DefaultCatalog(), nil
	}
	return tonal.LoadCatalogFile(path)
}

// newRecognizer builds a recognizer from the configuration in v
func newRecognizer(v *viper.Viper) (*recognition.Recognizer, error) {
	cfg, err := analysisConfig(v)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(v)
	if err != nil {
		return nil, err
	}
	return recognition.NewRecognizer(cfg, catalog)
}
