// Package detector inspects chat exports and reports which timestamp variants
// they use.
package detector

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// maxUnparsed bounds the entry lines kept as examples of unparsable timestamps.
const maxUnparsed = 5

// DateOrder describes how the day and month fields of the timestamps appear
// to be ordered.
type DateOrder string

const (
	// DateOrderUnknown means no timestamped entry was sampled.
	DateOrderUnknown DateOrder = ""
	// DateOrderDayFirst means some first field exceeds 12 (DD/MM).
	DateOrderDayFirst DateOrder = "day-first"
	// DateOrderMonthFirst means some second field exceeds 12 (MM/DD).
	DateOrderMonthFirst DateOrder = "month-first"
	// DateOrderAmbiguous means every day and month field is 12 or less.
	DateOrderAmbiguous DateOrder = "ambiguous"
	// DateOrderMixed means both orders were seen in the same file.
	DateOrderMixed DateOrder = "mixed"
)

// DetectionResult holds the result of analyzing a chat export.
type DetectionResult struct {
	Matches      []FormatMatch // Variants that matched, most frequent first
	SampledLines int           // Number of non-empty lines sampled
	EntryLines   int           // Sampled lines opening with a bracketed timestamp
	ParsedLines  int           // Entry lines whose timestamp parsed
	Unparsed     []string      // Examples of entry lines no variant accepted
	DateOrder    DateOrder
}

// FormatMatch represents a variant that matched with its share of entries.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (share of entry lines matched)
	MatchCount int       // Number of entry lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector analyzes chat exports to identify timestamp variants.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a chat export and returns detected variants.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of chat export lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	matches := make([]FormatMatch, len(d.formats))
	for i, format := range d.formats {
		matches[i].Format = format
	}

	var dayFirst, monthFirst bool
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		result.SampledLines++

		// Untrimmed, as in parser.Normalize: an indented timestamp is a continuation.
		loc := parser.TimestampPrefix.FindStringIndex(raw)
		if loc == nil {
			continue
		}
		result.EntryLines++

		tsText := raw[1 : loc[1]-1]
		first, second := dateFields(tsText)
		if first > 12 {
			dayFirst = true
		}
		if second > 12 {
			monthFirst = true
		}

		parsed := false
		value := parser.CleanTimestamp(tsText)
		for i, format := range d.formats {
			ts, err := time.Parse(format.Layout, value)
			if err != nil {
				continue
			}
			if matches[i].MatchCount == 0 {
				matches[i].SampleLine = line
				matches[i].ParsedTime = ts
			}
			matches[i].MatchCount++
			parsed = true
			break
		}

		if parsed {
			result.ParsedLines++
		} else if len(result.Unparsed) < maxUnparsed {
			result.Unparsed = append(result.Unparsed, line)
		}
	}

	for _, m := range matches {
		if m.MatchCount == 0 {
			continue
		}
		m.Confidence = float64(m.MatchCount) / float64(result.EntryLines)
		result.Matches = append(result.Matches, m)
	}

	// Most frequent first; ties keep the parser's layout order
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchCount > result.Matches[j].MatchCount
	})

	switch {
	case result.EntryLines == 0:
		result.DateOrder = DateOrderUnknown
	case dayFirst && monthFirst:
		result.DateOrder = DateOrderMixed
	case dayFirst:
		result.DateOrder = DateOrderDayFirst
	case monthFirst:
		result.DateOrder = DateOrderMonthFirst
	default:
		result.DateOrder = DateOrderAmbiguous
	}

	return result
}

// dateFields returns the first two numeric fields of "D/M/Y, ..." text.
func dateFields(tsText string) (int, int) {
	date, _, _ := strings.Cut(tsText, ",")
	parts := strings.Split(date, "/")
	if len(parts) < 2 {
		return 0, 0
	}
	first, _ := strconv.Atoi(parts[0])
	second, _ := strconv.Atoi(parts[1])
	return first, second
}

// sampleFile reads up to sampleSize lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	src := parser.NewFileSource(path)
	defer src.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.Text) != "" {
			lines = append(lines, line.Text)
		}
	}

	return lines, nil
}

// BestMatch returns the most frequent match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one variant matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Mergeable reports whether every sampled entry would parse during a merge.
func (r *DetectionResult) Mergeable() bool {
	return r.ParsedLines == r.EntryLines
}
