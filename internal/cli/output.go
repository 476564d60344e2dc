package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/acorde-sonar/algorithms/tonal"
	"github.com/RyanBlaney/acorde-sonar/recognition"
)

// Output formats accepted by --output
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// peakResult is a peak as printed by the CLI
type peakResult struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

// analysisResult is the printable form of one analysis
type analysisResult struct {
	Source      string       `json:"source" yaml:"source"`
	Label       string       `json:"label" yaml:"label"`
	Key         string       `json:"key,omitempty" yaml:"key,omitempty"`
	Score       int          `json:"score" yaml:"score"`
	Identified  bool         `json:"identified" yaml:"identified"`
	Duration    string       `json:"duration" yaml:"duration"`
	ProcessTime string       `json:"process_time" yaml:"process_time"`
	Peaks       []peakResult `json:"peaks" yaml:"peaks"`
}

func newAnalysisResult(source string, a *recognition.Analysis) analysisResult {
	peaks := make([]peakResult, len(a.Peaks))
	for i, p := range a.Peaks {
		peaks[i] = peakResult{Frequency: p.Frequency, Magnitude: p.Magnitude}
	}

	return analysisResult{
		Source:      source,
		Label:       a.Match.Label,
		Key:         a.Match.Key,
		Score:       a.Match.Score,
		Identified:  a.Match.Identified,
		Duration:    a.Duration.String(),
		ProcessTime: a.ProcessTime.String(),
		Peaks:       peaks,
	}
}

func checkFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", format)
	}
}

// writeStructured writes v as JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return checkFormat(format)
	}
}

func writeAnalyses(w io.Writer, format string, results []analysisResult) error {
	if format != FormatTable {
		return writeStructured(w, format, results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCHORD\tSCORE\tTOP PEAKS (Hz)")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", r.Source, r.Label, r.Score, tonal.TonesPerChord, formatPeaks(r.Peaks))
	}
	return tw.Flush()
}

// formatPeaks lists the frequencies of the peaks the classifier looks at
func formatPeaks(peaks []peakResult) string {
	n := min(len(peaks), tonal.MaxCandidatePeaks)
	freqs := make([]float64, n)
	for i := range n {
		freqs[i] = peaks[i].Frequency
	}
	return formatFrequencies(freqs)
}

func formatFrequencies(freqs []float64) string {
	if len(freqs) == 0 {
		return "-"
	}

	parts := make([]string, len(freqs))
	for i, f := range freqs {
		parts[i] = fmt.Sprintf("%.2f", f)
	}
	return strings.Join(parts, ", ")
}

func writeCatalog(w io.Writer, format string, signatures []tonal.ChordSignature) error {
	if format != FormatTable {
		return writeStructured(w, format, signatures)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tFREQUENCIES (Hz)")
	for _, sig := range signatures {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sig.Key, sig.Name, formatFrequencies(sig.Frequencies[:]))
	}
	return tw.Flush()
}
