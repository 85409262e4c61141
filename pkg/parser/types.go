// Package parser reads chat export files and turns their lines into messages.
package parser

import (
	"fmt"
	"time"
)

// RawLine is one physical line of an input file, line terminator removed.
type RawLine struct {
	// Text is the line content.
	Text string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// LogicalLine is one complete chat entry: a timestamped line with its
// continuation lines appended.
type LogicalLine struct {
	// Text is the joined entry text.
	Text string

	// Source is the file path this entry came from.
	Source string

	// LineNum is the line number of the timestamped line that opened the entry.
	LineNum int
}

// Message is a parsed chat entry.
type Message struct {
	Timestamp time.Time
	Sender    string
	Text      string

	// Source and LineNum record where the message was first seen.
	// They are not part of message identity.
	Source  string
	LineNum int
}

// FormatError reports a chat entry whose timestamp text matched none of the
// accepted layouts.
type FormatError struct {
	Source    string
	LineNum   int
	Timestamp string
	Err       error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: unrecognized timestamp %q", e.Source, e.LineNum, e.Timestamp)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
