package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/detector"
	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	InputOptions

	Report      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect [chat-log...]",
		Short: "Detect the timestamp variants used by chat exports",
		Long: `Sample chat exports and report which timestamp variants they use.

Each timestamped line is tested against the variants a merge accepts
(12- or 24-hour clock, 2- or 4-digit year). The report also shows whether
dates look day-first, as a merge expects, or month-first, which a merge
cannot read.

Without arguments every export in the input directory is sampled.

Optionally generates a starter config file with --write-config.

Exit codes:
  0 - Every sampled entry would parse
  1 - Some sampled entries would not parse
  2 - Configuration or runtime error

Example:
  chatmerge detect "chat logs/phone.txt"
  chatmerge detect --sample 500 --all
  chatmerge detect -w chatmerge.yaml "chat logs/phone.txt"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	addInputFlags(cmd.Flags(), &opts.InputOptions)
	cmd.Flags().StringVarP(&opts.Report, "report", "r", "text", "Report format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample per file")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected variants, not just the most frequent")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

// fileDetection pairs a chat export with its detection result.
type fileDetection struct {
	Path   string
	Result *detector.DetectionResult
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Report != "text" && opts.Report != "json" {
		return fmt.Errorf("unknown report format %q (use text or json)", opts.Report)
	}

	files := args
	if len(files) == 0 {
		cfg, err := resolveConfig(ctx, cmd, &opts.InputOptions)
		if err != nil {
			return err
		}
		files, err = parser.ListFiles(cfg.InputDir, cfg.Pattern)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no chat logs match %s", filepath.Join(cfg.InputDir, cfg.Pattern))
		}
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	detections := make([]fileDetection, 0, len(files))
	for _, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("chat log not found: %s", path)
		}
		result, err := d.DetectFromFile(ctx, path)
		if err != nil {
			return fmt.Errorf("detection failed: %w", err)
		}
		detections = append(detections, fileDetection{Path: path, Result: result})
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(cmd.OutOrStdout(), detections[0], opts.WriteConfig); err != nil {
			return err
		}
	}

	var err error
	switch opts.Report {
	case "json":
		err = outputDetectJSON(cmd.OutOrStdout(), detections, opts)
	default:
		err = outputDetectText(cmd.OutOrStdout(), detections, opts)
	}
	if err != nil {
		return err
	}

	for _, det := range detections {
		if !det.Result.Mergeable() {
			ExitCode = 1
		}
	}

	return nil
}

func outputDetectText(w io.Writer, detections []fileDetection, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Timestamp Variant Detection ===")

	for _, det := range detections {
		result := det.Result

		fmt.Fprintln(w)
		fmt.Fprintf(w, "File: %s\n", det.Path)
		fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
		fmt.Fprintf(w, "Timestamped lines: %d (%d parse)\n", result.EntryLines, result.ParsedLines)

		if !result.HasMatch() {
			fmt.Fprintln(w, "No accepted timestamp variant detected.")
		} else {
			best := result.BestMatch()
			fmt.Fprintf(w, "Detected variant: %s\n", best.Format.Name)
			fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d entries)\n",
				best.Confidence*100, best.MatchCount, result.EntryLines)
			fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
			fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))

			if opts.ShowAll && len(result.Matches) > 1 {
				fmt.Fprintln(w, "Other variants:")
				for _, m := range result.Matches[1:] {
					fmt.Fprintf(w, "  - %s (%.1f%%, layout %q)\n", m.Format.Name, m.Confidence*100, m.Format.Layout)
				}
			}
		}

		switch result.DateOrder {
		case detector.DateOrderMonthFirst:
			fmt.Fprintln(w, "WARNING: dates look month-first (MM/DD); merge reads them day-first.")
		case detector.DateOrderMixed:
			fmt.Fprintln(w, "WARNING: both day-first and month-first dates were seen.")
		case detector.DateOrderAmbiguous:
			fmt.Fprintln(w, "Note: no day or month above 12 was sampled; date order could not be confirmed.")
		}

		if len(result.Unparsed) > 0 {
			fmt.Fprintln(w, "Entries that would not parse:")
			for _, line := range result.Unparsed {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	return nil
}

// JSONMatch represents a variant match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Layout     string  `json:"layout"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
}

// JSONDetection represents the JSON output for one file.
type JSONDetection struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	EntryLines   int         `json:"entry_lines"`
	ParsedLines  int         `json:"parsed_lines"`
	DateOrder    string      `json:"date_order,omitempty"`
	Unparsed     []string    `json:"unparsed,omitempty"`
	Mergeable    bool        `json:"mergeable"`
}

func outputDetectJSON(w io.Writer, detections []fileDetection, opts *DetectOptions) error {
	out := make([]JSONDetection, 0, len(detections))

	for _, det := range detections {
		result := det.Result
		jd := JSONDetection{
			File:         det.Path,
			SampledLines: result.SampledLines,
			EntryLines:   result.EntryLines,
			ParsedLines:  result.ParsedLines,
			DateOrder:    string(result.DateOrder),
			Unparsed:     result.Unparsed,
			Mergeable:    result.Mergeable(),
			Matches:      make([]JSONMatch, 0),
		}

		matches := result.Matches
		if !opts.ShowAll && len(matches) > 1 {
			matches = matches[:1]
		}
		for _, m := range matches {
			jd.Matches = append(jd.Matches, JSONMatch{
				Name:       m.Format.Name,
				Layout:     m.Format.Layout,
				Confidence: m.Confidence,
				MatchCount: m.MatchCount,
				SampleLine: m.SampleLine,
			})
		}

		out = append(out, jd)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig writes a config reading every export that shares the
// detected file's directory and extension.
func writeStarterConfig(w io.Writer, det fileDetection, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !det.Result.HasMatch() {
		return fmt.Errorf("cannot generate config: no timestamp variant detected in %s", det.Path)
	}

	content, err := generateStarterConfig(det)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig renders a YAML config for the directory holding det.
func generateStarterConfig(det fileDetection) ([]byte, error) {
	dir := filepath.Dir(det.Path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	cfg := config.DefaultConfig()
	cfg.InputDir = dir
	if ext := filepath.Ext(det.Path); ext != "" {
		cfg.Pattern = "*" + ext
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	best := det.Result.BestMatch()
	header := fmt.Sprintf(`# chatmerge configuration
# Generated by: chatmerge detect
# Detected variant: %s (%.0f%% of entries)

`, best.Format.Name, best.Confidence*100)

	return append([]byte(header), body...), nil
}
