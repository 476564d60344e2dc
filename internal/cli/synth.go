package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/acorde-sonar/algorithms/synthesis"
	"github.com/RyanBlaney/acorde-sonar/audio"
	"github.com/RyanBlaney/acorde-sonar/logging"
)

type synthOptions struct {
	duration   float64
	sampleRate int
	amplitude  float64
	out        string
	bitDepth   int
}

func newSynthCommand(v *viper.Viper) *cobra.Command {
	opts := &synthOptions{}

	cmd := &cobra.Command{
		Use:   "synth [flags] <chord-key>",
		Short: "Synthesize a catalog chord and classify it",
		Long: `Synthesize the three tones of a catalog chord as a sum of sines, optionally
save them as a WAV file, and run the result through the recognizer.

Examples:
  # Check that Sol Maior is recognized from a one second buffer
  acorde synth sol_maior --duration 1

  # Write a 24-bit test file
  acorde synth do_maior --out do_maior.wav --bit-depth 24`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd, v, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.duration, "duration", 2.0, "duration in seconds")
	flags.IntVar(&opts.sampleRate, "sample-rate", 44100, "sample rate in Hz")
	flags.Float64Var(&opts.amplitude, "amplitude", synthesis.DefaultChordAmplitude, "peak amplitude shared by the three tones")
	flags.StringVar(&opts.out, "out", "", "write the synthesized buffer to this WAV file")
	flags.IntVar(&opts.bitDepth, "bit-depth", 16, "bit depth of the WAV file (16, 24 or 32)")
	addAnalysisFlags(flags)

	return cmd
}

func runSynth(cmd *cobra.Command, v *viper.Viper, opts *synthOptions, key string) error {
	format := v.GetString("output_format")
	if err := checkFormat(format); err != nil {
		return err
	}

	recognizer, err := newRecognizer(v)
	if err != nil {
		return err
	}

	sig, ok := recognizer.Catalog().Lookup(key)
	if !ok {
		return fmt.Errorf("unknown chord %q (see `acorde catalog`)", key)
	}

	_, samples, err := synthesis.Chord(sig.Frequencies[:], opts.sampleRate, opts.duration, opts.amplitude)
	if err != nil {
		return err
	}

	source := key
	if opts.out != "" {
		if err := audio.WriteWAVFile(opts.out, samples, opts.sampleRate, opts.bitDepth); err != nil {
			return err
		}
		logging.Info("Wrote WAV file", logging.Fields{"path": opts.out, "samples": len(samples)})
		source = opts.out
	}

	analysis, err := recognizer.Analyze(samples, opts.sampleRate)
	if err != nil {
		return err
	}

	return writeAnalyses(cmd.OutOrStdout(), format, []analysisResult{newAnalysisResult(source, analysis)})
}
