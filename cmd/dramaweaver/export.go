package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func exportCmd() *cobra.Command {
	var out string
	var dataURI bool
	var worldview string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored dataset as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(out, dataURI, worldview)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "Write a base64 data URI instead of JSON")
	cmd.Flags().StringVar(&worldview, "worldview", "", "Only export this worldview")
	return cmd
}

func runExport(out string, dataURI bool, worldview string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	d, err := p.dataset(ctx)
	if err != nil {
		return err
	}
	if worldview != "" {
		d = d.FilterWorldview(worldview)
	}
	d.Normalize()

	if dataURI {
		uri, err := story.DataURI(d)
		if err != nil {
			return err
		}
		return writeOutput(out, uri)
	}
	payload, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return writeOutput(out, string(payload))
}
