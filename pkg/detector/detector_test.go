package detector

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

func TestDefaultFormats_FollowParserLayouts(t *testing.T) {
	formats := DefaultFormats()
	if len(formats) != len(parser.DefaultLayouts) {
		t.Fatalf("got %d formats, want %d", len(formats), len(parser.DefaultLayouts))
	}

	p := parser.NewTimestampParser()
	for i, f := range formats {
		if f.Layout != parser.DefaultLayouts[i] {
			t.Errorf("format %d layout = %q, want %q", i, f.Layout, parser.DefaultLayouts[i])
		}
		if f.Name == f.Layout || len(f.Examples) == 0 {
			t.Errorf("layout %q has no description", f.Layout)
		}
		for _, ex := range f.Examples {
			if !parser.TimestampPrefix.MatchString("[" + ex + "]") {
				t.Errorf("example %q of %q does not match the timestamp prefix", ex, f.Name)
			}
			if _, err := p.Parse(ex); err != nil {
				t.Errorf("example %q of %q does not parse: %v", ex, f.Name, err)
			}
		}
	}
}

func TestDefaultFormats_UndescribedLayout(t *testing.T) {
	orig := parser.DefaultLayouts
	t.Cleanup(func() { parser.DefaultLayouts = orig })
	parser.DefaultLayouts = append(slices.Clone(orig), "2006-01-02 15:04:05")

	formats := DefaultFormats()
	last := formats[len(formats)-1]
	if last.Name != "2006-01-02 15:04:05" || last.Layout != "2006-01-02 15:04:05" {
		t.Errorf("last format = %+v", last)
	}
}

func TestDetector_DetectFromLines_Standard(t *testing.T) {
	lines := []string{
		"[01/02/23, 09:00:00 AM] Alice: Hello",
		"there!",
		"[25/02/23, 09:05:00 PM] Bob: Hi",
		"[26/02/23, 10:00:00 am] Alice: Morning",
	}

	result := New().DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}

	best := result.BestMatch()
	if best.Format.Name != "12-hour, 2-digit year" {
		t.Errorf("Expected 12-hour, 2-digit year, got %s", best.Format.Name)
	}
	if best.Confidence != 1.0 {
		t.Errorf("Expected 100%% confidence, got %.1f%%", best.Confidence*100)
	}
	if best.SampleLine != lines[0] {
		t.Errorf("SampleLine = %q", best.SampleLine)
	}
	want := time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC)
	if !best.ParsedTime.Equal(want) {
		t.Errorf("ParsedTime = %v, want %v", best.ParsedTime, want)
	}

	if result.SampledLines != 4 || result.EntryLines != 3 || result.ParsedLines != 3 {
		t.Errorf("counts = %d/%d/%d, want 4/3/3", result.SampledLines, result.EntryLines, result.ParsedLines)
	}
	if result.DateOrder != DateOrderDayFirst {
		t.Errorf("DateOrder = %q, want %q", result.DateOrder, DateOrderDayFirst)
	}
	if !result.Mergeable() {
		t.Error("Expected file to be mergeable")
	}
}

func TestDetector_DetectFromLines_MixedVariants(t *testing.T) {
	lines := []string{
		"[01/02/2023, 21:00:00] Alice: a",
		"[01/02/2023, 21:01:00] Alice: b",
		"[01/02/23, 09:00:00AM] Bob: c",
	}

	result := New().DetectFromLines(lines)

	if len(result.Matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result.Matches))
	}
	if result.Matches[0].Format.Name != "24-hour, 4-digit year" || result.Matches[0].MatchCount != 2 {
		t.Errorf("first match = %s (%d)", result.Matches[0].Format.Name, result.Matches[0].MatchCount)
	}
	if result.Matches[1].Format.Name != "12-hour without space, 2-digit year" {
		t.Errorf("second match = %s", result.Matches[1].Format.Name)
	}
	if result.DateOrder != DateOrderAmbiguous {
		t.Errorf("DateOrder = %q, want %q", result.DateOrder, DateOrderAmbiguous)
	}
}

func TestDetector_DetectFromLines_ExportSeparators(t *testing.T) {
	lines := []string{
		"[01/02/23, 9:00:00\u202fAM] Alice: narrow no-break space",
		"[01/02/23, 9:01:00\tPM] Bob: tab",
	}

	result := New().DetectFromLines(lines)

	if result.EntryLines != 2 || result.ParsedLines != 2 {
		t.Errorf("entries = %d, parsed = %d, want 2/2", result.EntryLines, result.ParsedLines)
	}
	if best := result.BestMatch(); best == nil || best.Format.Name != "12-hour, 2-digit year" || best.MatchCount != 2 {
		t.Errorf("BestMatch() = %+v", best)
	}
}

func TestDetector_DetectFromLines_IndentedTimestamp(t *testing.T) {
	lines := []string{
		"[01/02/23, 09:00:00 AM] Alice: Hello",
		"  [01/02/23, 09:00:01 AM] quoted",
	}

	result := New().DetectFromLines(lines)

	if result.SampledLines != 2 {
		t.Errorf("SampledLines = %d, want 2", result.SampledLines)
	}
	if result.EntryLines != 1 {
		t.Errorf("EntryLines = %d, want 1 (indented timestamp continues the entry above)", result.EntryLines)
	}
}

func TestDetector_DetectFromLines_MonthFirst(t *testing.T) {
	lines := []string{
		"[02/25/23, 09:00:00 AM] Alice: a",
		"[02/01/23, 09:00:00 AM] Alice: b",
	}

	result := New().DetectFromLines(lines)

	if result.DateOrder != DateOrderMonthFirst {
		t.Errorf("DateOrder = %q, want %q", result.DateOrder, DateOrderMonthFirst)
	}
	if result.Mergeable() {
		t.Error("month-first file should not be mergeable")
	}
	if len(result.Unparsed) != 1 || result.Unparsed[0] != lines[0] {
		t.Errorf("Unparsed = %v", result.Unparsed)
	}
	if result.ParsedLines != 1 {
		t.Errorf("ParsedLines = %d, want 1", result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_Mixed(t *testing.T) {
	lines := []string{
		"[25/02/23, 09:00:00 AM] Alice: a",
		"[02/25/23, 09:00:00 AM] Alice: b",
	}

	result := New().DetectFromLines(lines)
	if result.DateOrder != DateOrderMixed {
		t.Errorf("DateOrder = %q, want %q", result.DateOrder, DateOrderMixed)
	}
}

func TestDetector_DetectFromLines_NoEntries(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"blank lines", []string{"", "   "}},
		{"plain text", []string{"hello", "2024-01-15T10:30:00 started"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().DetectFromLines(tt.lines)
			if result.HasMatch() {
				t.Error("Expected no match")
			}
			if result.BestMatch() != nil {
				t.Error("BestMatch() should be nil")
			}
			if result.DateOrder != DateOrderUnknown {
				t.Errorf("DateOrder = %q, want unknown", result.DateOrder)
			}
			if !result.Mergeable() {
				t.Error("a file without entries merges to nothing")
			}
		})
	}
}

func TestDetector_UnparsedIsBounded(t *testing.T) {
	var lines []string
	for i := 0; i < maxUnparsed+3; i++ {
		lines = append(lines, "[31/02/23, 09:00:00 AM] Alice: bad")
	}

	result := New().DetectFromLines(lines)
	if len(result.Unparsed) != maxUnparsed {
		t.Errorf("len(Unparsed) = %d, want %d", len(result.Unparsed), maxUnparsed)
	}
	if result.EntryLines != maxUnparsed+3 {
		t.Errorf("EntryLines = %d", result.EntryLines)
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	content := "\ufeff[01/02/23, 09:00:00 AM] Alice: Hello\n\n[01/02/23, 09:01:00 AM] Bob: Hi\n[01/02/23, 09:02:00 AM] Bob: third\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New(WithSampleSize(2)).DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if result.SampledLines != 2 {
		t.Errorf("SampledLines = %d, want 2", result.SampledLines)
	}
	if result.ParsedLines != 2 {
		t.Errorf("ParsedLines = %d, want 2 (byte order mark should be stripped)", result.ParsedLines)
	}
}

func TestDetector_DetectFromFile_Missing(t *testing.T) {
	_, err := New().DetectFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWithSampleSize_IgnoresNonPositive(t *testing.T) {
	d := New(WithSampleSize(0))
	if d.sampleSize != 100 {
		t.Errorf("sampleSize = %d, want 100", d.sampleSize)
	}
}
