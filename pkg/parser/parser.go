package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// MaxLineSize is the longest physical line a FileSource accepts.
const MaxLineSize = 1024 * 1024

const byteOrderMark = "\ufeff"

// FileSource reads the raw lines of a single chat export.
type FileSource struct {
	path string

	file    *os.File
	scanner *bufio.Scanner
	lineNum int
	done    bool
}

// NewFileSource creates a source for the file at path. The file is opened on
// the first call to Next.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next raw line.
// Returns io.EOF when the file is exhausted. Lines that are not valid UTF-8
// are reported as errors.
func (s *FileSource) Next(ctx context.Context) (*RawLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	if s.scanner == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		s.done = true
		if err := s.Close(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	s.lineNum++
	text := s.scanner.Text()
	if s.lineNum == 1 {
		text = strings.TrimPrefix(text, byteOrderMark)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("reading %s: line %d is not valid UTF-8", s.path, s.lineNum)
	}

	return &RawLine{
		Text:    text,
		Source:  s.path,
		LineNum: s.lineNum,
	}, nil
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening chat log %s: %w", s.path, err)
	}

	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	s.scanner.Split(ScanChatLines)
	return nil
}

// ScanChatLines is a bufio.SplitFunc that ends a line at "\n", "\r\n" or a
// lone "\r". The terminator is not part of the token.
func ScanChatLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A "\r" at the end of the buffer may be half of "\r\n".
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ReadLines reads every raw line of the file at path.
func ReadLines(ctx context.Context, path string) ([]RawLine, error) {
	src := NewFileSource(path)
	defer src.Close()

	var lines []RawLine
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
}
