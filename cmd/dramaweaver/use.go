package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
)

func useCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Show or change the selected worldview, scene and filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSession(func(s session.State, d *dataset.Dataset) (session.State, error) {
				return s, nil
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "worldview [name]",
		Short: "Select a worldview; no name clears the selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return updateSession(func(s session.State, d *dataset.Dataset) (session.State, error) {
				return session.SelectWorldview(s, d, name, time.Now())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "scene <id>",
		Short: "Select the scene stories are generated from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSession(func(s session.State, d *dataset.Dataset) (session.State, error) {
				return session.SelectScene(s, d, args[0], time.Now())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "filter <on|off>",
		Short:     "Restrict generation to the selected worldview",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			return updateSession(func(s session.State, d *dataset.Dataset) (session.State, error) {
				s = session.SetFilter(s, enabled, time.Now())
				s, _ = session.Reconcile(s, d, time.Now())
				return s, nil
			})
		},
	})
	return cmd
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func updateSession(update func(session.State, *dataset.Dataset) (session.State, error)) error {
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
	before, err := p.session(ctx, d)
	if err != nil {
		return err
	}
	after, err := update(before, d)
	if err != nil {
		return err
	}
	if after != before {
		if err := p.db.SaveSession(ctx, after); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}
	printSession(after, d)
	return nil
}

func printSession(s session.State, d *dataset.Dataset) {
	worldview := s.SelectedWorldview
	if worldview == "" {
		worldview = "(none)"
	}
	filter := "off"
	if s.WorldviewFilter {
		filter = "on"
	}
	scene := "(none)"
	if sc, ok := d.SceneByID(s.SelectedSceneID); ok {
		scene = fmt.Sprintf("%s %s", sc.ID, sc.Name)
	}
	fmt.Fprintf(os.Stdout, "Worldview: %s\nFilter:    %s\nScene:     %s\n", worldview, filter, scene)
}
