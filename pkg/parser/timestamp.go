package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// TimestampPrefix recognizes the bracketed timestamp that opens a chat entry.
// The separator before AM/PM may be any single Unicode space; iOS exports use
// U+202F there.
var TimestampPrefix = regexp.MustCompile(`^\[\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}:\d{2}([\s\p{Z}\x{1C}-\x{1F}\x{85}]?(AM|PM|am|pm))?\]`)

// CanonicalLayout is the layout messages are written with.
const CanonicalLayout = "02/01/06, 03:04:05 PM"

// DefaultLayouts are the layouts tried, in order, when parsing timestamp text.
// The first is the export format proper; the rest cover every variant the
// prefix pattern lets through.
var DefaultLayouts = []string{
	"2/1/06, 3:04:05 PM",
	"2/1/2006, 3:04:05 PM",
	"2/1/06, 3:04:05PM",
	"2/1/2006, 3:04:05PM",
	"2/1/06, 15:04:05",
	"2/1/2006, 15:04:05",
}

// TimestampParser parses the timestamp text captured from a chat entry.
type TimestampParser struct {
	layouts []string
}

// NewTimestampParser creates a parser trying the given layouts in order.
// With no layouts it uses DefaultLayouts.
func NewTimestampParser(layouts ...string) *TimestampParser {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	return &TimestampParser{layouts: layouts}
}

// Parse returns the time described by s. The AM/PM marker is matched
// case-insensitively and any run of whitespace counts as one space. The error
// from the first layout is returned when no layout fits.
func (p *TimestampParser) Parse(s string) (time.Time, error) {
	value := CleanTimestamp(s)

	var firstErr error
	for _, layout := range p.layouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no timestamp layouts configured")
	}
	return time.Time{}, firstErr
}

// CleanTimestamp upper-cases s and folds every whitespace run to a single
// ASCII space so the layouts only ever see one spelling of the separators.
func CleanTimestamp(s string) string {
	return strings.ToUpper(strings.Join(strings.FieldsFunc(s, isSpace), " "))
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1C && r <= 0x1F)
}

// FormatTimestamp renders ts in CanonicalLayout.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(CanonicalLayout)
}
