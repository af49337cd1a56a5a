package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/extension"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	platform   string
	timeout    time.Duration

	cfg     config.Config
	logger  *slog.Logger
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "keychord",
		Short: "Keybinding resolution toolkit",
		Long: `keychord merges layered key binding declarations and resolves keystrokes
against them, the way an editor does.

Bindings come from three tiers: defaults, user and extensions (Lua scripts).
Later tiers win; a "-command" declaration removes a lower-tier binding.

Examples:
  keychord check keybindings.json
  keychord list --command "editor.*"
  keychord resolve --keys "ctrl+k ctrl+s"
  keychord resolve --keys "ctrl+s" --ctx inDiffEditor
  keychord normalize keybindings.yaml
  keychord listen`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			opts.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to settings file (TOML)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.StringVar(&opts.platform, "platform", "", "Platform for modifier mapping (linux, mac, windows)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Chord timeout (overrides settings, e.g. 1500ms)")

	cmd.AddCommand(
		newCheckCmd(opts),
		newListCmd(opts),
		newResolveCmd(opts),
		newNormalizeCmd(opts),
		newListenCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// setup loads settings and builds the logger. Flags override the settings
// file and environment.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.platform != "" {
		p, err := key.ParsePlatform(o.platform)
		if err != nil {
			return err
		}
		cfg.Platform = p
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ChordTimeout = o.timeout
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	if o.logFile != "" {
		f, err := logging.OpenFile(o.logFile)
		if err != nil {
			return err
		}
		o.closers = append(o.closers, f)
		out = f
	}
	o.logger, err = logging.New(logging.Options{
		Level:  level,
		Format: logging.Format(cfg.LogFormat),
		Output: out,
	})
	return err
}

func (o *rootOptions) close() {
	for _, c := range o.closers {
		_ = c.Close()
	}
	o.closers = nil
}

// extensionDeclarations runs the configured extension scripts.
func (o *rootOptions) extensionDeclarations(ctx context.Context) []keymap.Declaration {
	decls, err := extension.Load(ctx, o.cfg.ExtensionDir,
		extension.WithLogger(o.logger),
		extension.WithPlatform(o.cfg.Platform),
	)
	if err != nil {
		o.logger.Warn("extension scripts failed", "dir", o.cfg.ExtensionDir, "error", err)
	}
	return decls
}

// sources assembles the configured binding tiers.
func (o *rootOptions) sources(ctx context.Context) (keymap.Sources, error) {
	return config.Sources(o.cfg, o.extensionDeclarations(ctx))
}

// build merges the configured tiers into a table. Rejected declarations
// are logged by the merge and returned as the error.
func (o *rootOptions) build(ctx context.Context, warn io.Writer) (*keymap.Table, error) {
	src, err := o.sources(ctx)
	if err != nil {
		return nil, err
	}
	table, err := keymap.Build(src, keymap.WithLogger(o.logger))
	if err != nil {
		fmt.Fprintf(warn, "warning: %d key binding(s) rejected; run keychord check for details\n",
			len(keymap.DeclarationErrors(err)))
	}
	return table, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "keychord %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
			return nil
		},
	}
}
