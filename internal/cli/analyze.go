package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/acorde-sonar/audio"
	"github.com/RyanBlaney/acorde-sonar/logging"
	"github.com/RyanBlaney/acorde-sonar/recognition"
	"github.com/RyanBlaney/acorde-sonar/recognition/config"
)

// addAnalysisFlags registers the flags that tune the recognition pipeline
func addAnalysisFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultAnalysisConfig()

	flags.String("window", string(defaults.Window), "taper window (none, hann, hamming, blackman)")
	flags.Int("transform-size", defaults.TransformSize, "FFT size, 0 for the buffer length")
	flags.Int("min-peaks", defaults.MinPeakCount, "peak yield the adaptive search aims for")
	flags.Float64("tolerance", defaults.Tolerance, "match tolerance in Hz")
	flags.Bool("refine", defaults.RefinePeaks, "refine peak frequencies by parabolic interpolation")
	flags.Bool("band-from-catalog", defaults.BandFromCatalog, "derive the peak band from the catalog frequency range")
	flags.Int("concurrency", defaults.Concurrency, "files analyzed in parallel, 0 for unbounded")
}

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [flags] <file.wav>...",
		Short: "Identify the chord in WAV files",
		Long: `Identify the chord played in one or more PCM WAV files.

Multi-channel files are averaged to mono. Files are analyzed in parallel
and reported in the order given.

Examples:
  # Classify a single recording
  acorde analyze chord.wav

  # Blackman window, 64k transform, JSON output
  acorde analyze --window blackman --transform-size 65536 -o json *.wav`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, v, args)
		},
	}

	addAnalysisFlags(cmd.Flags())
	return cmd
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	format := v.GetString("output_format")
	if err := checkFormat(format); err != nil {
		return err
	}

	recognizer, err := newRecognizer(v)
	if err != nil {
		return err
	}

	buffers := make([]recognition.Buffer, 0, len(paths))
	for _, path := range paths {
		wav, err := audio.ReadWAVFile(path)
		if err != nil {
			return err
		}
		logging.Debug("Loaded WAV file", logging.Fields{
			"path":        path,
			"sample_rate": wav.SampleRate,
			"channels":    wav.Channels,
			"bit_depth":   wav.BitDepth,
			"duration":    wav.Duration().String(),
		})
		buffers = append(buffers, recognition.Buffer{
			Name:       path,
			Samples:    wav.Samples,
			SampleRate: wav.SampleRate,
		})
	}

	analyses, err := recognizer.AnalyzeBatch(cmd.Context(), buffers)
	if err != nil {
		return err
	}

	results := make([]analysisResult, len(analyses))
	for i, a := range analyses {
		results[i] = newAnalysisResult(buffers[i].Name, a)
	}
	return writeAnalyses(cmd.OutOrStdout(), format, results)
}
