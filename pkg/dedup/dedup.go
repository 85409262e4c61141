// Package dedup removes exact duplicates from raw lines and parsed messages.
//
// Both passes keep the first occurrence and preserve input order.
package dedup

import (
	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// Lines drops raw lines whose text was already seen earlier in the slice.
// Comparison is on the exact text, whitespace included. It returns the kept
// lines and the number dropped.
func Lines(lines []parser.RawLine) ([]parser.RawLine, int) {
	seen := make(map[string]bool, len(lines))
	kept := make([]parser.RawLine, 0, len(lines))

	for _, line := range lines {
		if seen[line.Text] {
			continue
		}
		seen[line.Text] = true
		kept = append(kept, line)
	}

	return kept, len(lines) - len(kept)
}

// Key identifies a message for deduplication.
type Key struct {
	Unix   int64
	Sender string
	Text   string
}

// KeyOf returns the identity of msg: its timestamp, sender and text.
func KeyOf(msg *parser.Message) Key {
	return Key{
		Unix:   msg.Timestamp.Unix(),
		Sender: msg.Sender,
		Text:   msg.Text,
	}
}

// Messages drops messages whose key was already seen earlier in the slice.
// It returns the kept messages and the number dropped.
func Messages(msgs []*parser.Message) ([]*parser.Message, int) {
	seen := make(map[Key]bool, len(msgs))
	kept := make([]*parser.Message, 0, len(msgs))

	for _, msg := range msgs {
		key := KeyOf(msg)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, msg)
	}

	return kept, len(msgs) - len(kept)
}
