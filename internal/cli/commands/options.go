package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ccollicutt/chatmerge/pkg/config"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// InputOptions holds the flags shared by commands that read chat logs.
type InputOptions struct {
	ConfigPath string
	InputDir   string
	Pattern    string
	Output     string
	Format     string
	OnError    string
	LogLevel   string
	LogFormat  string
}

func addInputFlags(fs *pflag.FlagSet, opts *InputOptions) {
	fs.StringVar(&opts.ConfigPath, "config", "", "Optional YAML config file")
	fs.StringVar(&opts.InputDir, "input-dir", config.DefaultInputDir, "Directory holding the chat exports")
	fs.StringVar(&opts.Pattern, "pattern", config.DefaultPattern, "Glob selecting chat exports inside the input directory")
	fs.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&opts.LogFormat, "log-format", config.DefaultLogFormat, "Log format (pretty|json)")
}

func addOutputFlags(fs *pflag.FlagSet, opts *InputOptions) {
	fs.StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Merged transcript path (overwritten)")
	fs.StringVar(&opts.Format, "format", string(config.DefaultFormat), "Transcript format (text|json)")
	fs.StringVar(&opts.OnError, "on-error", string(config.DefaultOnError), "Malformed timestamp policy (abort|skip)")
}

// newEnv returns a viper instance reading CHATMERGE_* environment variables.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// flagOrEnv returns the flag value when it was set on the command line, the
// environment value for key when present, and current otherwise.
func flagOrEnv(cmd *cobra.Command, v *viper.Viper, flagName, key, current string) string {
	if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
		return f.Value.String()
	}
	if key != "" && v.IsSet(key) {
		return v.GetString(key)
	}
	return current
}

// resolveConfig layers defaults, the optional config file, the environment
// and explicit flags, in that order.
func resolveConfig(ctx context.Context, cmd *cobra.Command, opts *InputOptions) (*config.Config, error) {
	v := newEnv()

	cfg := config.DefaultConfig()
	if path := flagOrEnv(cmd, v, "config", "config", opts.ConfigPath); path != "" {
		loaded, err := config.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	cfg.InputDir = flagOrEnv(cmd, v, "input-dir", "input_dir", cfg.InputDir)
	cfg.Pattern = flagOrEnv(cmd, v, "pattern", "pattern", cfg.Pattern)
	cfg.Output = flagOrEnv(cmd, v, "output", "output", cfg.Output)
	cfg.Format = config.OutputFormat(flagOrEnv(cmd, v, "format", "format", string(cfg.Format)))
	cfg.OnError = config.ErrorPolicy(flagOrEnv(cmd, v, "on-error", "on_error", string(cfg.OnError)))
	cfg.Logging.Level = flagOrEnv(cmd, v, "log-level", "logging.level", cfg.Logging.Level)
	cfg.Logging.Format = flagOrEnv(cmd, v, "log-format", "logging.format", cfg.Logging.Format)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
