package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
)

func repairCmd() *cobra.Command {
	var relink bool
	var dryRun bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Assign fresh ids to every stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(relink, dryRun, verbose)
		},
	}
	cmd.Flags().BoolVar(&relink, "relink", false, "Rewrite references to repaired ids when unambiguous")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without saving")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every id change")
	return cmd
}

func runRepair(relink, dryRun, verbose bool) error {
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
	opts := p.opts
	opts.RelinkReferences = relink
	res := ingest.Repair(d, p.alloc, opts)

	if verbose {
		for _, c := range res.Changes {
			fmt.Fprintf(os.Stdout, "  %s #%d %s: %s -> %s\n", c.Kind, c.Index, c.Name, c.OldID, c.NewID)
		}
	}
	fmt.Fprintf(os.Stdout, "Reassigned %d ids", len(res.Changes))
	if relink {
		fmt.Fprintf(os.Stdout, ", relinked %d references", res.Relinked)
	}
	fmt.Fprintln(os.Stdout, ".")
	if dryRun {
		fmt.Fprintln(os.Stdout, "Dry run: nothing saved.")
		return nil
	}
	if err := p.db.ReplaceDataset(ctx, res.Dataset); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return p.resetSession(ctx)
}
