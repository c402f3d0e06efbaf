package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

func searchCmd() *cobra.Command {
	var kindName string
	var worldview string
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search record names and text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind dataset.Kind
			if kindName != "" {
				k, err := dataset.ParseKind(kindName)
				if err != nil {
					return err
				}
				kind = k
			}
			return runSearch(strings.Join(args, " "), kind, worldview)
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "", "Record kind to filter")
	cmd.Flags().StringVar(&worldview, "worldview", "", "Worldview to filter")
	return cmd
}

func runSearch(query string, kind dataset.Kind, worldview string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	results, err := p.db.Search(ctx, query, kind, worldview)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%s %s (%s) [%s] score=%.2f\n", r.Kind, r.ID, r.Name, r.Worldview, r.Score)
		if r.Snippet != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", r.Snippet)
		}
	}
	return nil
}
