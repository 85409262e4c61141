package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// Formatter renders merged messages in a specific format.
type Formatter interface {
	// Format renders the messages to the given writer.
	Format(ctx context.Context, msgs []*parser.Message, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls report rendering.
type FormatOptions struct {
	// Verbose lists every file and malformed entry.
	Verbose bool

	// Quiet prints the one-line summary only.
	Quiet bool
}

// NewFormatter returns the transcript formatter for format.
func NewFormatter(format config.OutputFormat) (Formatter, error) {
	switch format {
	case config.FormatText, "":
		return NewTextFormatter(), nil
	case config.FormatJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}
