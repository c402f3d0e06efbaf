package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

func listCmd() *cobra.Command {
	var worldview string
	cmd := &cobra.Command{
		Use:   "list [kind]",
		Short: "List stored records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind dataset.Kind
			if len(args) == 1 {
				k, err := dataset.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			}
			return runList(kind, worldview)
		},
	}
	cmd.Flags().StringVar(&worldview, "worldview", "", "Worldview to filter")
	return cmd
}

func runList(kind dataset.Kind, worldview string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	records, err := p.db.ListRecords(ctx, kind, worldview)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No records found.")
		return nil
	}
	for _, r := range records {
		printRecord(r)
	}
	return nil
}

func printRecord(r store.RecordSummary) {
	fmt.Fprintf(os.Stdout, "%-8s %-24s %s [%s]\n", r.Kind, r.ID, r.Name, r.Worldview)
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete every record of a kind with the given id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dataset.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runDelete(kind, args[1])
		},
	}
}

func runDelete(kind dataset.Kind, id string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	d, err := p.db.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	n := d.Remove(kind, id)
	if n == 0 {
		return fmt.Errorf("no %s with id %q", kind, id)
	}
	if err := p.db.ReplaceDataset(ctx, d); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	if _, err := p.session(ctx, d); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted %d %s.\n", n, kind.Label())
	return nil
}

func worldviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worldviews",
		Short: "List worldviews with record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorldviews()
		},
	}
}

func runWorldviews() error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	items, err := p.db.ListWorldviews(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No worldviews found.")
		return nil
	}
	for _, w := range items {
		fmt.Fprintf(os.Stdout, "%s: %d scenes, %d layers, %d plays, %d commands\n",
			w.Worldview, w.Scenes, w.Layers, w.Plays, w.Commands)
	}
	return nil
}
