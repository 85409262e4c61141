package merge

import (
	"sort"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// Sort orders msgs by timestamp, oldest first. Messages with equal
// timestamps keep their relative order.
func Sort(msgs []*parser.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}
