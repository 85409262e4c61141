package output

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// TextFormatter writes messages in the chat export format, one per line.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders each message as "[DD/MM/YY, HH:MM:SS AM] sender: text".
func (f *TextFormatter) Format(ctx context.Context, msgs []*parser.Message, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "[%s] %s: %s\n", parser.FormatTimestamp(msg.Timestamp), msg.Sender, msg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReportText renders a run report as human-readable text.
func WriteReportText(w io.Writer, report *Report, opts FormatOptions) error {
	s := report.Summary

	if opts.Quiet {
		_, err := fmt.Fprintf(w, "chatmerge: %d files, %d messages written to %s\n",
			s.FilesRead, s.MessagesWritten, report.Metadata.Output)
		return err
	}

	fmt.Fprintln(w, "=== chatmerge report ===")
	fmt.Fprintln(w)

	if opts.Verbose {
		for _, fs := range report.Files {
			fmt.Fprintf(w, "%s\n", fs.Path)
			fmt.Fprintf(w, "  lines: %d read, %d duplicate, %d orphaned\n",
				fs.RawLines, fs.DuplicateLines, fs.OrphanedLines)
			fmt.Fprintf(w, "  entries: %d total, %d parsed, %d unstructured, %d malformed\n",
				fs.LogicalLines, fs.Messages, fs.UnstructuredLines, fs.MalformedLines)
		}
		if len(report.Files) > 0 {
			fmt.Fprintln(w)
		}
	}

	if len(report.Malformed) > 0 {
		fmt.Fprintf(w, "Malformed entries: %d\n", len(report.Malformed))
		for _, m := range report.Malformed {
			fmt.Fprintf(w, "  - %s:%d: timestamp %q\n", m.Source, m.LineNum, m.Timestamp)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Files: %d, lines: %d (%d duplicate), entries: %d\n",
		s.FilesRead, s.RawLines, s.DuplicateLines, s.LogicalLines)
	_, err := fmt.Fprintf(w, "Messages: %d parsed, %d duplicate, %d written\n",
		s.Messages, s.DuplicateMessages, s.MessagesWritten)
	return err
}
