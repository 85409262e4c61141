package dedup

import (
	"testing"
	"time"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

func TestLines(t *testing.T) {
	input := []parser.RawLine{
		{Text: "[01/02/23, 09:00:00 AM] Alice: Hello", LineNum: 1},
		{Text: "there!", LineNum: 2},
		{Text: "[01/02/23, 09:00:00 AM] Alice: Hello", LineNum: 3},
		{Text: "there! ", LineNum: 4},
		{Text: "there!", LineNum: 5},
	}

	kept, dropped := Lines(input)

	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	wantLineNums := []int{1, 2, 4}
	if len(kept) != len(wantLineNums) {
		t.Fatalf("kept %d lines, want %d", len(kept), len(wantLineNums))
	}
	for i, n := range wantLineNums {
		if kept[i].LineNum != n {
			t.Errorf("kept[%d].LineNum = %d, want %d", i, kept[i].LineNum, n)
		}
	}
}

func TestLines_Empty(t *testing.T) {
	kept, dropped := Lines(nil)
	if len(kept) != 0 || dropped != 0 {
		t.Errorf("Lines(nil) = %v, %d, want empty, 0", kept, dropped)
	}
}

func TestMessages(t *testing.T) {
	base := time.Date(2022, 3, 5, 23, 15, 30, 0, time.UTC)

	input := []*parser.Message{
		{Timestamp: base, Sender: "Bob", Text: "Same message", Source: "a.txt"},
		{Timestamp: base, Sender: "Bob", Text: "Same message", Source: "b.txt"},
		{Timestamp: base, Sender: "Alice", Text: "Same message"},
		{Timestamp: base.Add(time.Second), Sender: "Bob", Text: "Same message"},
		{Timestamp: base, Sender: "Bob", Text: "Same message "},
	}

	kept, dropped := Messages(input)

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(kept) != 4 {
		t.Fatalf("kept %d messages, want 4", len(kept))
	}
	if kept[0].Source != "a.txt" {
		t.Errorf("first occurrence should win, got source %q", kept[0].Source)
	}
}

func TestMessages_IgnoresLocation(t *testing.T) {
	utc := time.Date(2022, 3, 5, 23, 15, 30, 0, time.UTC)
	local := utc.In(time.FixedZone("X", 3600))

	kept, dropped := Messages([]*parser.Message{
		{Timestamp: utc, Sender: "Bob", Text: "hi"},
		{Timestamp: local, Sender: "Bob", Text: "hi"},
	})

	if dropped != 1 || len(kept) != 1 {
		t.Errorf("Messages() kept %d dropped %d, want 1 and 1", len(kept), dropped)
	}
}
