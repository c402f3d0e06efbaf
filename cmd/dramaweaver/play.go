package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func playCmd() *cobra.Command {
	var sceneID string
	var noSave bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Walk through the selected scene layer by layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(sceneID, !noSave)
		},
	}
	cmd.Flags().StringVar(&sceneID, "scene", "", "Scene id (defaults to the selected scene)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not append the finished story to history")
	return cmd
}

func runPlay(sceneID string, save bool) error {
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
	w, err := gen.Start(d, sceneID, state.Filter())
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(newPlayModel(w)).Run()
	if err != nil {
		return fmt.Errorf("running walkthrough: %w", err)
	}
	m := final.(playModel)
	if !m.walk.Done() {
		fmt.Fprintln(os.Stdout, "Walkthrough abandoned.")
		return nil
	}

	st := m.walk.Story()
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
