package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatmerge configuration file without merging.

Checks:
  - YAML syntax
  - Required fields
  - Glob pattern validity
  - Format, error policy and logging values
  - Webhook URLs and triggers
  - Input files matched (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Input:    %s (%s)\n", cfg.InputDir, cfg.Pattern)
	fmt.Fprintf(w, "  Output:   %s (%s)\n", cfg.Output, cfg.Format)
	fmt.Fprintf(w, "  On error: %s\n", cfg.OnError)
	fmt.Fprintf(w, "  Logging:  %s, %s\n", cfg.Logging.Level, cfg.Logging.Format)

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s [%s, %s]\n", i+1, name, wh.Trigger, wh.Timeout)
		}
	}

	// Missing inputs are warnings only
	files, err := parser.ListFiles(cfg.InputDir, cfg.Pattern)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error listing chat logs: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(w, "\nWarning: No files match %s in %s\n", cfg.Pattern, cfg.InputDir)
	} else {
		fmt.Fprintf(w, "\nChat logs matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	return nil
}
