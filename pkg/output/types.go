// Package output writes merged transcripts and run reports.
package output

import "time"

// Report describes one merge run.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Files holds per-file statistics in processing order.
	Files []FileStats

	// Malformed lists entries whose timestamp could not be parsed.
	// Only populated when such entries are skipped.
	Malformed []Malformed

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	FilesRead         int
	RawLines          int
	DuplicateLines    int
	LogicalLines      int
	OrphanedLines     int
	UnstructuredLines int
	MalformedLines    int
	Messages          int
	DuplicateMessages int
	MessagesWritten   int
}

// FileStats counts what happened to one input file.
type FileStats struct {
	Path string

	// RawLines is the number of physical lines read.
	RawLines int

	// DuplicateLines were dropped by exact-text deduplication.
	DuplicateLines int

	// LogicalLines is the number of chat entries after joining continuations.
	LogicalLines int

	// OrphanedLines are continuation lines with no entry above them.
	OrphanedLines int

	// UnstructuredLines are entries without a "sender: text" part.
	UnstructuredLines int

	// MalformedLines are entries whose timestamp did not parse.
	MalformedLines int

	// Messages is the number of entries parsed into messages.
	Messages int
}

// Malformed records one skipped entry.
type Malformed struct {
	Source    string
	LineNum   int
	Timestamp string
	Error     string
}

// Metadata provides context about the run.
type Metadata struct {
	RunID     string
	InputDir  string
	Pattern   string
	Output    string
	StartedAt time.Time
	Duration  time.Duration
}

// Add folds the statistics of one file into the summary.
func (s *Summary) Add(fs FileStats) {
	s.FilesRead++
	s.RawLines += fs.RawLines
	s.DuplicateLines += fs.DuplicateLines
	s.LogicalLines += fs.LogicalLines
	s.OrphanedLines += fs.OrphanedLines
	s.UnstructuredLines += fs.UnstructuredLines
	s.MalformedLines += fs.MalformedLines
	s.Messages += fs.Messages
}

// HasMalformed returns true if any entry was skipped for a bad timestamp.
func (r *Report) HasMalformed() bool {
	return r.Summary.MalformedLines > 0
}
