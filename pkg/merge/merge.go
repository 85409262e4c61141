// Package merge combines chat exports into one deduplicated, ordered transcript.
package merge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/dedup"
	"github.com/ccollicutt/chatmerge/pkg/output"
	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// Merger runs the merge pipeline for one configuration.
type Merger struct {
	cfg    *config.Config
	log    zerolog.Logger
	parser *parser.LineParser
	runID  string
}

// Option configures merger behavior.
type Option func(*Merger)

// WithLogger sets the logger for run diagnostics. The default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Merger) {
		m.log = log
	}
}

// WithLineParser replaces the default entry parser.
func WithLineParser(p *parser.LineParser) Option {
	return func(m *Merger) {
		if p != nil {
			m.parser = p
		}
	}
}

// WithRunID tags the report with id.
func WithRunID(id string) Option {
	return func(m *Merger) {
		m.runID = id
	}
}

// New creates a merger from configuration.
func New(cfg *config.Config, opts ...Option) (*Merger, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m := &Merger{
		cfg:    cfg,
		log:    zerolog.Nop(),
		parser: parser.NewLineParser(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Result is the outcome of a merge.
type Result struct {
	// Messages are deduplicated and sorted by timestamp.
	Messages []*parser.Message

	Report *output.Report
}

// Collect reads, parses, deduplicates and sorts every input file without
// writing anything.
func (m *Merger) Collect(ctx context.Context) (*Result, error) {
	start := time.Now()
	report := &output.Report{
		Metadata: output.Metadata{
			RunID:     m.runID,
			InputDir:  m.cfg.InputDir,
			Pattern:   m.cfg.Pattern,
			Output:    m.cfg.Output,
			StartedAt: start,
		},
	}

	files, err := parser.ListFiles(m.cfg.InputDir, m.cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("listing chat logs: %w", err)
	}
	if len(files) == 0 {
		m.log.Warn().
			Str("input_dir", m.cfg.InputDir).
			Str("pattern", m.cfg.Pattern).
			Msg("no chat logs found")
	}

	var pool []*parser.Message
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgs, stats, err := m.processFile(ctx, path, report)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, stats)
		report.Summary.Add(stats)
		pool = append(pool, msgs...)
	}

	unique, dropped := dedup.Messages(pool)
	report.Summary.DuplicateMessages = dropped
	Sort(unique)

	report.Metadata.Duration = time.Since(start)

	return &Result{Messages: unique, Report: report}, nil
}

// Run collects the messages and writes them to the configured output,
// replacing any previous content.
func (m *Merger) Run(ctx context.Context) (*Result, error) {
	result, err := m.Collect(ctx)
	if err != nil {
		return nil, err
	}

	formatter, err := output.NewFormatter(m.cfg.Format)
	if err != nil {
		return nil, err
	}

	if err := output.WriteFile(ctx, m.cfg.Output, formatter, result.Messages); err != nil {
		return nil, err
	}

	result.Report.Summary.MessagesWritten = len(result.Messages)
	result.Report.Metadata.Duration = time.Since(result.Report.Metadata.StartedAt)

	m.log.Info().
		Int("files", result.Report.Summary.FilesRead).
		Int("messages", len(result.Messages)).
		Int("duplicates", result.Report.Summary.DuplicateMessages).
		Str("output", m.cfg.Output).
		Msg("merged chat logs")

	return result, nil
}

// processFile runs one file through line dedup, normalization and parsing.
func (m *Merger) processFile(ctx context.Context, path string, report *output.Report) ([]*parser.Message, output.FileStats, error) {
	stats := output.FileStats{Path: path}
	log := m.log.With().Str("file", path).Logger()

	raw, err := parser.ReadLines(ctx, path)
	if err != nil {
		return nil, stats, err
	}
	stats.RawLines = len(raw)

	unique, dropped := dedup.Lines(raw)
	stats.DuplicateLines = dropped

	normalized := parser.Normalize(unique)
	stats.LogicalLines = len(normalized.Lines)
	stats.OrphanedLines = normalized.Orphaned
	if normalized.Orphaned > 0 {
		log.Debug().Int("lines", normalized.Orphaned).Msg("dropped lines before first timestamp")
	}

	msgs := make([]*parser.Message, 0, len(normalized.Lines))
	for _, line := range normalized.Lines {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		msg, err := m.parser.Parse(line)
		if err != nil {
			var fe *parser.FormatError
			if !errors.As(err, &fe) || m.cfg.OnError != config.ErrorPolicySkip {
				return nil, stats, fmt.Errorf("parsing chat log: %w", err)
			}
			stats.MalformedLines++
			report.Malformed = append(report.Malformed, output.Malformed{
				Source:    fe.Source,
				LineNum:   fe.LineNum,
				Timestamp: fe.Timestamp,
				Error:     fe.Err.Error(),
			})
			log.Warn().
				Int("line", fe.LineNum).
				Str("timestamp", fe.Timestamp).
				Msg("skipping entry with unrecognized timestamp")
			continue
		}
		if msg == nil {
			stats.UnstructuredLines++
			log.Debug().Int("line", line.LineNum).Msg("dropped entry without sender")
			continue
		}
		msgs = append(msgs, msg)
	}
	stats.Messages = len(msgs)

	log.Debug().
		Int("raw_lines", stats.RawLines).
		Int("duplicate_lines", stats.DuplicateLines).
		Int("messages", stats.Messages).
		Msg("read chat log")

	return msgs, stats, nil
}
