package detector

import "github.com/ccollicutt/chatmerge/pkg/parser"

// TimestampFormat is one accepted spelling of the bracketed chat timestamp.
type TimestampFormat struct {
	Name     string   // Human-readable name
	Layout   string   // Go time layout for parsing
	Examples []string // Example timestamps
}

type variant struct {
	name     string
	examples []string
}

// variants describes the parser layouts for people reading a detect report.
var variants = map[string]variant{
	"2/1/06, 3:04:05 PM": {
		name:     "12-hour, 2-digit year",
		examples: []string{"01/02/23, 09:00:00 AM", "5/3/22, 11:15:30 pm", "1/2/23, 9:00:00\u202fAM"},
	},
	"2/1/2006, 3:04:05 PM": {
		name:     "12-hour, 4-digit year",
		examples: []string{"01/02/2023, 09:00:00 AM"},
	},
	"2/1/06, 3:04:05PM": {
		name:     "12-hour without space, 2-digit year",
		examples: []string{"01/02/23, 09:00:00AM"},
	},
	"2/1/2006, 3:04:05PM": {
		name:     "12-hour without space, 4-digit year",
		examples: []string{"01/02/2023, 09:00:00AM"},
	},
	"2/1/06, 15:04:05": {
		name:     "24-hour, 2-digit year",
		examples: []string{"01/02/23, 21:00:00"},
	},
	"2/1/2006, 15:04:05": {
		name:     "24-hour, 4-digit year",
		examples: []string{"01/02/2023, 21:00:00"},
	},
}

// DefaultFormats returns one format per parser.DefaultLayouts entry, in the
// order the parser tries them. Their layouts are mutually exclusive, so a
// timestamp matches at most one of them. A layout without a description is
// named by the layout itself.
func DefaultFormats() []*TimestampFormat {
	formats := make([]*TimestampFormat, 0, len(parser.DefaultLayouts))
	for _, layout := range parser.DefaultLayouts {
		f := &TimestampFormat{Name: layout, Layout: layout}
		if v, ok := variants[layout]; ok {
			f.Name = v.name
			f.Examples = v.examples
		}
		formats = append(formats, f)
	}
	return formats
}
