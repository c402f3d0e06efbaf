package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/mcp"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := openProject(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	gen := story.NewGenerator(story.WithLogger(p.log))
	server := mcp.NewServer(p.db, p.alloc, gen, p.opts, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
