// chatmerge - Chat Export Merger
//
// chatmerge merges overlapping chat exports into one deduplicated transcript
// ordered by time.
package main

import (
	"os"

	"github.com/ccollicutt/chatmerge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
