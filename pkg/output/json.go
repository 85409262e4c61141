package output

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// JSONFormatter writes messages as a JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonMessage struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
}

// Format renders the messages as an indented JSON array.
func (f *JSONFormatter) Format(ctx context.Context, msgs []*parser.Message, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := make([]jsonMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = jsonMessage{
			Timestamp: msg.Timestamp,
			Sender:    msg.Sender,
			Text:      msg.Text,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// WriteReportJSON renders a run report as JSON.
func WriteReportJSON(w io.Writer, report *Report, opts FormatOptions) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(report.Summary)
	}

	return encoder.Encode(report)
}
