package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "dramaweaver",
		Short:        "Worldview-partitioned story dataset editor",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")

	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(importCmd())
	root.AddCommand(batchCmd())
	root.AddCommand(addCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(listCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(worldviewsCmd())
	root.AddCommand(repairCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(useCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(playCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(sqlCmd())
	root.AddCommand(serveCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
