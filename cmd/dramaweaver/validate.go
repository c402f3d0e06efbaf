package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/validate"
)

func validateCmd() *cobra.Command {
	var fillLayers bool
	var worldview string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the stored dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(fillLayers, worldview)
		},
	}
	cmd.Flags().BoolVar(&fillLayers, "fill-missing-layers", false, "Create layers for play references that resolve to none")
	cmd.Flags().StringVar(&worldview, "worldview", "", "Only fill layers for plays of this worldview")
	return cmd
}

func runValidate(fillLayers bool, worldview string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	if fillLayers {
		d, err := p.db.LoadDataset(ctx)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}
		created := ingest.FillMissingLayers(d, worldview)
		if len(created) > 0 {
			if err := p.db.ReplaceDataset(ctx, d); err != nil {
				return fmt.Errorf("saving dataset: %w", err)
			}
		}
		for _, l := range created {
			fmt.Fprintf(os.Stdout, "Created layer %s %s (sequence %d) [%s]\n", l.ID, l.Name, l.Sequence, l.Worldview)
		}
	}

	report, err := validate.Run(ctx, p.db)
	if err != nil {
		return err
	}

	errorIssues := report.Errors()
	warnIssues := report.Warnings()
	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := fmt.Sprintf("%s %s", issue.Kind, issue.RecordID)
		if issue.Name != "" {
			location = fmt.Sprintf("%s %s", location, issue.Name)
		}
		if issue.Worldview != "" {
			location = fmt.Sprintf("%s [%s]", location, issue.Worldview)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
