package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/views"
	"github.com/spf13/cobra"
)

// ErrPremiumRequired is returned by priority changes before the upgrade.
var ErrPremiumRequired = errors.New("priority levels are a Pro feature, run `tcheck upgrade`")

var errAmbiguousID = errors.New("task id prefix matches more than one task")

func (r *RootCommand) addCommand() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "add [task text]",
		Short: "Add a task",
		Long:  "Add a task to a tab. Without --tab the task goes to the first tab.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				task, err := rt.board.AddTask(cmd.Context(), strings.Join(args, " "), tab)
				if err != nil {
					return fmt.Errorf("failed to add task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", task.ID, task.Text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "tab id")
	return cmd
}

func (r *RootCommand) listCommand() *cobra.Command {
	var (
		tab    string
		all    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in board order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				var tasks []model.Task
				if all {
					tasks = rt.board.Tasks()
				} else {
					if tab == "" {
						tab = rt.board.ActiveTab()
					}
					if _, err := rt.board.Tab(tab); err != nil {
						return fmt.Errorf("%w: %s", err, tab)
					}
					tasks = rt.board.TasksForTab(tab)
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(tasks)
				}
				printTasks(cmd.OutOrStdout(), tasks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "tab id (default: first tab)")
	cmd.Flags().BoolVar(&all, "all", false, "list tasks from every tab")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, task := range tasks {
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", box, task.Priority.Label(), task.ID, task.Text)
	}
}

func (r *RootCommand) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [task id]",
		Short: "Mark a task done, or not done again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				id, err := resolveTask(rt.board, args[0])
				if err != nil {
					return err
				}
				task, err := rt.board.ToggleTask(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to toggle task: %w", err)
				}
				state := "open"
				if task.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", task.Text, state)
				return nil
			})
		},
	}
}

func (r *RootCommand) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [task id] [new text]",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				id, err := resolveTask(rt.board, args[0])
				if err != nil {
					return err
				}
				if err := rt.board.UpdateTask(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
					return fmt.Errorf("failed to edit task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
				return nil
			})
		},
	}
}

func (r *RootCommand) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				id, err := resolveTask(rt.board, args[0])
				if err != nil {
					return err
				}
				if err := rt.board.DeleteTask(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func (r *RootCommand) priorityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "priority [task id] [p0|p1|p2|p3|none]",
		Short: "Set a task's priority (Pro)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(args[1])
			if err != nil {
				return err
			}
			return r.withBoard(cmd, func(rt *runtime) error {
				if !rt.board.Premium() {
					return ErrPremiumRequired
				}
				id, err := resolveTask(rt.board, args[0])
				if err != nil {
					return err
				}
				if err := rt.board.SetPriority(cmd.Context(), id, p); err != nil {
					return fmt.Errorf("failed to set priority: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Priority of %s set to %s\n", id, p.Label())
				return nil
			})
		},
	}
}

func (r *RootCommand) statsCommand() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion progress for a tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withBoard(cmd, func(rt *runtime) error {
				if tab == "" {
					tab = rt.board.ActiveTab()
				}
				if _, err := rt.board.Tab(tab); err != nil {
					return fmt.Errorf("%w: %s", err, tab)
				}
				st := rt.board.Stats(tab)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d%% COMPLETE\n%d/%d Tasks Complete\n",
					views.ProgressBar(st.Percentage), st.Percentage, st.Completed, st.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "tab id (default: first tab)")
	return cmd
}

// resolveTask accepts a full id or an unambiguous prefix of one.
func resolveTask(b *board.Board, ref string) (string, error) {
	if ref == "" {
		return "", board.ErrTaskNotFound
	}
	if _, err := b.Task(ref); err == nil {
		return ref, nil
	}
	match := ""
	for _, task := range b.Tasks() {
		if strings.HasPrefix(task.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, ref)
			}
			match = task.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", board.ErrTaskNotFound, ref)
	}
	return match, nil
}
