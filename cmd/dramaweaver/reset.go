package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

func resetCmd() *cobra.Command {
	var yes bool
	var empty bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the dataset with the sample data and clear history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every record and saved story; pass --yes to confirm")
			}
			return runReset(empty)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start from an empty dataset instead of the sample data")
	return cmd
}

func runReset(empty bool) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	d := dataset.Demo()
	if empty {
		d = &dataset.Dataset{}
	}
	if err := p.db.ReplaceDataset(ctx, d); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	if _, err := p.db.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	if err := p.resetSession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Dataset reset.")
	return nil
}
