// Package cli wires configuration, storage and analytics into the board
// and exposes it as the tcheck command tree.
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tcheck/internal/config"
	"github.com/sandeepkv93/tcheck/internal/update"
	"github.com/spf13/cobra"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	configPath string
	ephemeral  bool
	cfg        config.Config

	// runTUI is replaced in tests, which have no terminal.
	runTUI func(ctx context.Context, rt *runtime) error
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{runTUI: runProgram}

	root.cmd = &cobra.Command{
		Use:   config.AppName,
		Short: "A terminal-inspired task manager",
		Long: `tcheck keeps tasks in tabs, with priorities, themes and a progress bar.

Run without arguments for the interactive board. The subcommands work on
the same store, so scripts and the board stay in sync.

EXAMPLES:
  tcheck                         # open the board
  tcheck add "write the report"  # add a task to the first tab
  tcheck list --json             # dump tasks as JSON
  tcheck tab add Work            # open a new tab
  tcheck serve                   # JSON API on localhost

CONFIGURATION:
  The config file lives at $XDG_CONFIG_HOME/tcheck/config.toml and is
  created with defaults on first run. TCHECK_<SECTION>_<KEY> environment
  variables override it, e.g. TCHECK_STORAGE_DRIVER=redis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, root.cfg, nil)
			if err != nil {
				return err
			}
			runErr := root.runTUI(ctx, rt)
			if closeErr := rt.Close(); runErr == nil {
				runErr = closeErr
			}
			return runErr
		},
	}

	flags := root.cmd.PersistentFlags()
	flags.StringVar(&root.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tcheck/config.toml)")
	flags.BoolVar(&root.ephemeral, "ephemeral", false, "keep everything in memory for this run")

	root.cmd.AddCommand(
		root.addCommand(),
		root.listCommand(),
		root.toggleCommand(),
		root.editCommand(),
		root.removeCommand(),
		root.priorityCommand(),
		root.tabCommand(),
		root.themeCommand(),
		root.statsCommand(),
		root.upgradeCommand(),
		root.serveCommand(),
	)
	return root
}

func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) loadConfig() error {
	path := r.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if r.ephemeral {
		cfg.Storage.Driver = config.DriverMemory
	}
	r.cfg = cfg
	return nil
}

// withBoard opens the runtime for a one-shot command, runs fn and reports
// any write that did not reach the store.
func (r *RootCommand) withBoard(cmd *cobra.Command, fn func(rt *runtime) error) error {
	rt, err := openRuntime(cmd.Context(), r.cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runErr := fn(rt)
	if closeErr := rt.Close(); runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func runProgram(ctx context.Context, rt *runtime) error {
	model := update.NewModel(update.Options{
		Board:   rt.board,
		Tracker: rt.tracker,
		Logger:  rt.fileLogger,
		Keys:    rt.cfg.Keys,
		Context: ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
