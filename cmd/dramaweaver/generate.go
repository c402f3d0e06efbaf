package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func generateCmd() *cobra.Command {
	var sceneID string
	var noSave bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a story from the selected scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(sceneID, !noSave)
		},
	}
	cmd.Flags().StringVar(&sceneID, "scene", "", "Scene id (defaults to the selected scene)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not append the story to history")
	return cmd
}

func runGenerate(sceneID string, save bool) error {
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
	state, err := p.session(ctx, d)
	if err != nil {
		return err
	}
	if sceneID == "" {
		sceneID = state.SelectedSceneID
	}

	gen := story.NewGenerator(story.WithLogger(p.log))
	st, err := gen.Generate(d, sceneID, state.Filter())
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, story.FormatText(st))
	if !save {
		return nil
	}
	if err := p.db.AppendHistory(ctx, st); err != nil {
		return fmt.Errorf("saving story: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nSaved as %s.\n", st.ID)
	return nil
}
