package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/brettbedarf/nstree/config"
	"github.com/brettbedarf/nstree/internal/util"
	"github.com/brettbedarf/nstree/requests"
	"github.com/brettbedarf/nstree/session"
	"github.com/brettbedarf/nstree/shell"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options holds the command line flags
type options struct {
	configPath   string
	envFile      string
	logLevel     int
	verbose      bool
	nodesDef     string
	loadFile     string
	noSavePrompt bool
	noColor      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "nstree",
		Short: "In-memory directory tree simulator",
		Long: `nstree simulates a directory tree in memory and drives it through a small
command shell (mkdir, cd, ls, tree, save, reload, ...). Type "menu" at the
prompt for the full command list.

Exit Codes:
  0  - Normal termination (quit, exit or end of input)
  1  - Startup failed (config, node definitions or initial load)`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), &opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, &opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func bindFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a dotenv file with NSTREE_* settings")
	flags.IntVarP(&opts.logLevel, "log-level", "l", config.WarnVerbose,
		"Log verbosity level between 1 (error) and 5 (trace). Default is 2 (warn).")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Start the shell in verbose mode")
	flags.StringVarP(&opts.nodesDef, "nodes", "n", "", "Path to a JSON node definitions file to seed the tree")
	flags.StringVar(&opts.loadFile, "load", "", "Path to a saved tree to load at startup")
	flags.BoolVar(&opts.noSavePrompt, "no-save-prompt", false, "Exit without asking to save")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable styled output")
}

// loadConfig layers defaults, the config file, the dotenv file and explicit flags
func loadConfig(flags *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(opts.configPath); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", opts.configPath, err)
		}
	}
	if opts.envFile != "" {
		override, err := config.LoadEnvOverride(opts.envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
		}
		cfg.Merge(override)
	}

	var flagOverride config.ConfigOverride
	if flags.Changed("log-level") {
		flagOverride.LogLvl = util.Pointer(opts.logLevel)
	}
	if flags.Changed("verbose") {
		flagOverride.Verbose = util.Pointer(opts.verbose)
	}
	if opts.noSavePrompt {
		flagOverride.PromptOnExit = util.Pointer(false)
	}
	if opts.noColor {
		flagOverride.Color = util.Pointer(false)
	}
	cfg.Merge(&flagOverride)
	return cfg, nil
}

// run prepares the session and drives the shell until it stops
func run(ctx context.Context, cfg *config.Config, opts *options, in io.Reader, out io.Writer) error {
	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	logger.Info().
		Str("logLevel", util.ZerologLevel(cfg.LogLvl).String()).
		Bool("verbose", cfg.Verbose).
		Str("nodes", opts.nodesDef).
		Str("load", opts.loadFile).
		Msg("nstree initializing")

	sess := session.New(cfg)
	defer sess.Close()

	if opts.loadFile != "" {
		report, err := sess.Reload(opts.loadFile)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", opts.loadFile, err)
		}
		for _, le := range report.LineErrors {
			logger.Warn().Int("line", le.Line).Str("text", le.Text).Err(le.Err).Msg("Skipped saved tree line")
		}
		logger.Info().Str("file", opts.loadFile).Int("entries", report.Entries).Msg("Loaded saved tree")
	}

	if opts.nodesDef != "" {
		set, err := requests.LoadNodesFile(opts.nodesDef)
		if err != nil {
			return fmt.Errorf("failed to load node definitions %s: %w", opts.nodesDef, err)
		}
		logger.Debug().
			Int("files", len(set.Files)).
			Int("directories", len(set.Dirs)).
			Msg("Successfully loaded node requests")
		requests.Apply(sess, set)
	}

	color := cfg.Color
	if f, ok := out.(*os.File); ok {
		color = color && shell.ColorEnabled(f)
	} else {
		color = false
	}
	sh := shell.New(sess, in, out,
		shell.WithColor(color),
		shell.WithSavePrompt(cfg.PromptOnExit),
	)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("nstree exiting")
	return nil
}
