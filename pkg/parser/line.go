package parser

import "regexp"

// entryPattern splits a chat entry into timestamp, sender and text.
var entryPattern = regexp.MustCompile(`^\[(.*?)\] (.*?): (.*)`)

// LineParser turns logical lines into messages.
type LineParser struct {
	timestamps *TimestampParser
}

// NewLineParser creates a LineParser. A nil TimestampParser selects the
// default layouts.
func NewLineParser(tp *TimestampParser) *LineParser {
	if tp == nil {
		tp = NewTimestampParser()
	}
	return &LineParser{timestamps: tp}
}

// Parse converts a logical line into a message.
// It returns nil, nil when the line does not have the "[time] sender: text"
// shape, and a *FormatError when the shape matches but the timestamp does not
// parse.
func (p *LineParser) Parse(line LogicalLine) (*Message, error) {
	m := entryPattern.FindStringSubmatch(line.Text)
	if m == nil {
		return nil, nil
	}

	ts, err := p.timestamps.Parse(m[1])
	if err != nil {
		return nil, &FormatError{
			Source:    line.Source,
			LineNum:   line.LineNum,
			Timestamp: m[1],
			Err:       err,
		}
	}

	return &Message{
		Timestamp: ts,
		Sender:    m[2],
		Text:      m[3],
		Source:    line.Source,
		LineNum:   line.LineNum,
	}, nil
}

// ParseLine parses a logical line with the default layouts.
func ParseLine(line LogicalLine) (*Message, error) {
	return defaultLineParser.Parse(line)
}

var defaultLineParser = NewLineParser(nil)
