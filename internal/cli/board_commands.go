package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sandeepkv93/tcheck/internal/httpapi"
	"github.com/sandeepkv93/tcheck/internal/theme"
	"github.com/spf13/cobra"
)

func (r *RootCommand) tabCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: "List, add, close or rename tabs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tabs with task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				for i, tab := range rt.board.Tabs() {
					st := rt.board.Stats(tab.ID)
					fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s  %d/%d\n", i+1, tab.ID, tab.Title, st.Completed, st.Total)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add [title]",
		Short: "Open a new tab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				tab, err := rt.board.AddTab(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("failed to add tab: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added tab %s: %s\n", tab.ID, tab.Title)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "close [tab id]",
		Short: "Close a tab, moving its tasks to the first remaining tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				moved := len(rt.board.TasksForTab(args[0]))
				if err := rt.board.CloseTab(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("failed to close tab: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Closed %s, moved %d task(s) to %s\n", args[0], moved, rt.board.Tabs()[0].Title)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename [tab id] [title]",
		Short: "Rename a tab",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				title := strings.Join(args[1:], " ")
				if err := rt.board.RenameTab(cmd.Context(), args[0], title); err != nil {
					return fmt.Errorf("failed to rename tab: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], strings.TrimSpace(title))
				return nil
			})
		},
	})
	return cmd
}

func (r *RootCommand) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the color theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List themes, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				current := rt.board.Theme()
				for _, t := range theme.All() {
					marker := " "
					if t.Key == current {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, t.Key, t.Name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set [theme]",
		Short:     "Switch theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: theme.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				if err := rt.board.SetTheme(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("%w: %s (choose from %s)", err, args[0], strings.Join(theme.Keys(), ", "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func (r *RootCommand) upgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Unlock Pro features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				out := cmd.OutOrStdout()
				if rt.board.Premium() {
					fmt.Fprintln(out, "Already Pro.")
					return nil
				}
				fmt.Fprintln(out, "Processing upgrade...")
				if err := rt.board.Upgrade(cmd.Context()); err != nil {
					return fmt.Errorf("upgrade failed: %w", err)
				}
				fmt.Fprintln(out, "Welcome to Pro! Priority levels unlocked")
				return nil
			})
		},
	}
}

func (r *RootCommand) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = r.cfg.HTTP.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return r.withBoard(cmd, func(rt *runtime) error {
				return httpapi.New(rt.board, rt.logger).Run(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
