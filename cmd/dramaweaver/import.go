package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
)

func importCmd() *cobra.Command {
	var dryRun bool
	var keepHistory bool
	cmd := &cobra.Command{
		Use:   "import <file-or-dir>...",
		Short: "Re-key and merge JSON datasets into the stored dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args, dryRun, keepHistory)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Merge and report without saving")
	cmd.Flags().BoolVar(&keepHistory, "keep-history", false, "Keep saved stories")
	return cmd
}

func runImport(paths []string, dryRun, keepHistory bool) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	opts := p.opts
	opts.DryRun = dryRun
	result, err := ingest.Run(ctx, p.db, p.alloc, paths, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, result.Summary())
	if len(result.Worldviews) > 0 {
		fmt.Fprintf(os.Stdout, "  Worldviews:    %v\n", result.Worldviews)
	}
	fmt.Fprintf(os.Stdout, "  Files skipped: %d\n", result.FilesSkipped)
	for _, label := range result.Skipped {
		fmt.Fprintf(os.Stdout, "  - skipped %s\n", label)
	}
	if len(result.Dangling) > 0 {
		fmt.Fprintf(os.Stdout, "\nUnresolved references (%d):\n", len(result.Dangling))
		for _, ref := range result.Dangling {
			fmt.Fprintf(os.Stdout, "  - %s\n", ref)
		}
	}
	if dryRun {
		fmt.Fprintln(os.Stdout, "Dry run: nothing saved.")
		return nil
	}

	if !keepHistory {
		n, err := p.db.ClearHistory(ctx)
		if err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		if n > 0 {
			fmt.Fprintf(os.Stdout, "Cleared %d saved stories.\n", n)
		}
	}
	return p.resetSession(ctx)
}
