package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved stories",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyRenameCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyClearCmd())
	cmd.AddCommand(historyExportCmd())
	return cmd
}

// withStore runs fn against an open store.
func withStore(fn func(ctx context.Context, db store.Store) error) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)
	return fn(ctx, p.db)
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved stories, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				stories, err := db.ListHistory(ctx)
				if err != nil {
					return err
				}
				if len(stories) == 0 {
					fmt.Fprintln(os.Stdout, "No saved stories.")
					return nil
				}
				for _, s := range stories {
					mode := "auto"
					if s.Interactive {
						mode = "interactive"
					}
					fmt.Fprintf(os.Stdout, "%s  %s  %s (%s, %d items)\n",
						s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Title, mode, len(s.Items))
				}
				return nil
			})
		},
	}
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				s, err := db.GetHistory(ctx, args[0])
				if err != nil {
					return historyErr(args[0], err)
				}
				fmt.Fprintln(os.Stdout, story.FormatText(s))
				return nil
			})
		},
	}
}

func historyRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a saved story",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}
			return withStore(func(ctx context.Context, db store.Store) error {
				return historyErr(args[0], db.RenameHistory(ctx, args[0], title))
			})
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				return historyErr(args[0], db.DeleteHistory(ctx, args[0]))
			})
		},
	}
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				n, err := db.ClearHistory(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "Deleted %d saved stories.\n", n)
				return nil
			})
		},
	}
}

func historyExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every saved story as plain text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, db store.Store) error {
				stories, err := db.ListHistory(ctx)
				if err != nil {
					return err
				}
				if len(stories) == 0 {
					return fmt.Errorf("no saved stories to export")
				}
				return writeOutput(out, story.FormatHistory(stories, time.Now()))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func historyErr(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no saved story with id %q", id)
	}
	return err
}

func writeOutput(path, contents string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(os.Stdout, contents)
		return err
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s.\n", path)
	return nil
}
