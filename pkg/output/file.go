package output

import (
	"context"
	"fmt"
	"os"

	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// WriteFile truncates path and writes msgs to it with f.
func WriteFile(ctx context.Context, path string, f Formatter, msgs []*parser.Message) (err error) {
	file, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if err := f.Format(ctx, msgs, file); err != nil {
		return fmt.Errorf("writing %s output: %w", f.Name(), err)
	}
	return nil
}
