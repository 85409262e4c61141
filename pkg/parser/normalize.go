package parser

import "strings"

// NormalizeResult holds the logical lines of one file.
type NormalizeResult struct {
	Lines []LogicalLine

	// Orphaned counts continuation lines seen before the first timestamped
	// line. They have no entry to join and are dropped.
	Orphaned int
}

// Normalize joins continuation lines onto the timestamped line above them.
// Each line matching TimestampPrefix opens a new entry; every other line is
// trimmed and appended to the open entry after a single space.
func Normalize(lines []RawLine) NormalizeResult {
	var res NormalizeResult
	var buf strings.Builder
	var cur LogicalLine
	open := false

	flush := func() {
		cur.Text = strings.TrimSpace(buf.String())
		res.Lines = append(res.Lines, cur)
		buf.Reset()
	}

	for _, line := range lines {
		if TimestampPrefix.MatchString(line.Text) {
			if open {
				flush()
			}
			cur = LogicalLine{Source: line.Source, LineNum: line.LineNum}
			buf.WriteString(strings.TrimSpace(line.Text))
			open = true
			continue
		}

		if !open {
			res.Orphaned++
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(strings.TrimSpace(line.Text))
	}

	if open {
		flush()
	}

	return res
}
