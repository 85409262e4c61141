package parser

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFileSource_Next(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	content := "[01/02/23, 09:00:00 AM] Alice: Hello\nthere!\n[01/02/23, 09:00:05 AM] Bob: Hi\n"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	ctx := context.Background()
	var lines []*RawLine

	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 3 {
		t.Fatalf("Got %d lines, want 3", len(lines))
	}
	if lines[1].Text != "there!" {
		t.Errorf("Text = %q, want %q", lines[1].Text, "there!")
	}
	if lines[2].LineNum != 3 {
		t.Errorf("LineNum = %d, want 3", lines[2].LineNum)
	}
	if lines[0].Source != logFile {
		t.Errorf("Source = %q, want %q", lines[0].Source, logFile)
	}
}

func TestFileSource_CRLF(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(logFile, []byte("first\r\nsecond\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), logFile)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 2 || lines[0].Text != "first" || lines[1].Text != "second" {
		t.Errorf("ReadLines() = %+v, want [first second]", lines)
	}
}

func TestFileSource_LoneCR(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	content := "[01/02/23, 09:00:00 AM] Alice: one\r[01/02/23, 09:01:00 AM] Bob: two\r"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), logFile)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Text != "[01/02/23, 09:00:00 AM] Alice: one" || lines[1].LineNum != 2 {
		t.Errorf("ReadLines() = %+v", lines)
	}
}

func TestScanChatLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lf", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb\r", []string{"a", "b"}},
		{"mixed", "a\rb\r\nc\nd", []string{"a", "b", "c", "d"}},
		{"blank lines", "a\r\rb", []string{"a", "", "b"}},
		{"no terminator", "a", []string{"a"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// One byte per read so a "\r\n" pair is split across reads.
			scanner := bufio.NewScanner(iotest.OneByteReader(strings.NewReader(tt.input)))
			scanner.Split(ScanChatLines)

			var got []string
			for scanner.Scan() {
				got = append(got, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileSource_StripsByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	content := "\ufeff[01/02/23, 09:00:00 AM] Alice: Hello\n"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), logFile)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Got %d lines, want 1", len(lines))
	}
	if !TimestampPrefix.MatchString(lines[0].Text) {
		t.Errorf("first line %q should start with a timestamp", lines[0].Text)
	}
}

func TestFileSource_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(logFile, []byte("ok\n\xff\xfe broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadLines(context.Background(), logFile)
	if err == nil {
		t.Error("ReadLines() expected error for invalid UTF-8")
	}
}

func TestFileSource_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(logFile, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	ctx := context.Background()
	_, err := source.Next(ctx)
	if err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
	// Stays exhausted
	_, err = source.Next(ctx)
	if err != io.EOF {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	source := NewFileSource("/nonexistent/chat.txt")
	defer source.Close()

	ctx := context.Background()
	_, err := source.Next(ctx)
	if err == nil {
		t.Error("Next() expected error for missing file")
	}
}

func TestFileSource_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(logFile, []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := source.Next(ctx)
	if err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestFileSource_Close(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(logFile, []byte("line\nline two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource(logFile)

	// Read one line to open the file
	ctx := context.Background()
	if _, err := source.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if err := source.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileSource_LongLine(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chat.txt")
	long := make([]byte, 200*1024)
	for i := range long {
		long[i] = 'a'
	}
	if err := os.WriteFile(logFile, append(long, '\n'), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(context.Background(), logFile)
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if len(lines) != 1 || len(lines[0].Text) != len(long) {
		t.Errorf("ReadLines() did not return the long line intact")
	}
}
