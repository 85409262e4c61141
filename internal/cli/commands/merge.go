package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatmerge/internal/logger"
	"github.com/ccollicutt/chatmerge/pkg/merge"
	"github.com/ccollicutt/chatmerge/pkg/output"
)

// MergeOptions holds command-line options for the merge command.
type MergeOptions struct {
	InputOptions
	WebhookOptions

	Verbose bool
	Quiet   bool
}

const mergeLong = `Merge every chat export in the input directory into one transcript.

Lines repeated within a file are dropped, continuation lines are joined onto
the message above them, and messages that appear in several exports are kept
once. The result is sorted by timestamp and written to the output file,
replacing its previous content.

Settings come from, in increasing priority: built-in defaults, the --config
file, CHATMERGE_* environment variables, and flags.

After a successful merge the run report is posted as JSON to every webhook
from the config file and to --webhook-url. Webhook failures are logged and
do not change the exit code.

Exit codes:
  0 - Transcript written
  2 - Configuration or runtime error`

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge chat exports into one transcript",
		Long:  mergeLong,
		Args:  cobra.NoArgs,
	}
	BindMerge(cmd)
	return cmd
}

// BindMerge adds the merge flags to cmd and makes merging its action.
// The root command uses it so that running chatmerge bare performs a merge.
func BindMerge(cmd *cobra.Command) {
	opts := &MergeOptions{}

	addInputFlags(cmd.Flags(), &opts.InputOptions)
	addOutputFlags(cmd.Flags(), &opts.InputOptions)
	addWebhookFlags(cmd.Flags(), &opts.WebhookOptions)
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print per-file statistics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print nothing on success")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runMerge(cmd, opts)
	}
}

func runMerge(cmd *cobra.Command, opts *MergeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(ctx, cmd, &opts.InputOptions)
	if err != nil {
		return err
	}

	webhooks, err := collectWebhooks(cmd, cfg, &opts.WebhookOptions)
	if err != nil {
		return err
	}

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

	result, err := m.Run(ctx)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	sendWebhooks(ctx, log, webhooks, result.Report)

	if opts.Quiet {
		return nil
	}

	return output.WriteReportText(cmd.OutOrStdout(), result.Report, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   !opts.Verbose,
	})
}
