package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatmerge/internal/logger"
	"github.com/ccollicutt/chatmerge/pkg/config"
	"github.com/ccollicutt/chatmerge/pkg/merge"
	"github.com/ccollicutt/chatmerge/pkg/output"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	InputOptions

	Report  string
	Verbose bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check chat exports without writing a transcript",
		Long: `Read and parse every chat export and report what a merge would do.

Entries whose timestamp cannot be parsed are listed instead of stopping the
run. Nothing is written.

Exit codes:
  0 - All entries parsed
  1 - Malformed entries found
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	addInputFlags(cmd.Flags(), &opts.InputOptions)
	cmd.Flags().StringVarP(&opts.Report, "report", "r", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-file statistics")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(ctx, cmd, &opts.InputOptions)
	if err != nil {
		return err
	}
	cfg.OnError = config.ErrorPolicySkip

	runID := logger.NewRunID()
	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
		RunID:  runID,
	})

	m, err := merge.New(cfg, merge.WithLogger(log), merge.WithRunID(runID))
	if err != nil {
		return err
	}

	result, err := m.Collect(ctx)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	formatOpts := output.FormatOptions{Verbose: opts.Verbose}
	switch opts.Report {
	case "text":
		err = output.WriteReportText(cmd.OutOrStdout(), result.Report, formatOpts)
	case "json":
		err = output.WriteReportJSON(cmd.OutOrStdout(), result.Report, formatOpts)
	default:
		return fmt.Errorf("unknown report format %q (use text or json)", opts.Report)
	}
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if result.Report.HasMalformed() {
		ExitCode = 1
	}

	return nil
}
