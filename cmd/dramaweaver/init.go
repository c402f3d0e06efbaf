package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/config"
	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	var demo bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new dramaweaver project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, dsn, demo)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://./dramaweaver.db", "Database DSN (sqlite://, postgres://, redis://)")
	cmd.Flags().BoolVar(&demo, "demo", true, "Seed the store with the sample dataset")
	return cmd
}

func runInit(projectName, dsn string, demo bool) error {
	ctx := context.Background()

	if _, err := config.Backend(dsn); err != nil {
		return err
	}
	if err := config.Write(configPath, config.New(projectName, dsn)); err != nil {
		return err
	}

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	if demo {
		if err := p.db.ReplaceDataset(ctx, dataset.Demo()); err != nil {
			return fmt.Errorf("seeding demo dataset: %w", err)
		}
	}
	fmt.Fprintf(os.Stdout, "Created %s for project %q.\n", configPath, projectName)
	return nil
}
