// Package mcp exposes dataset browsing, import, repair and story generation
// as MCP tools over stdio.
package mcp

import (
	"context"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

type Server struct {
	db    store.Store
	alloc *ident.Allocator
	opts  ingest.Options
	mcp   *sdk.Server

	// genMu serialises tool calls that touch the allocator or generator.
	genMu sync.Mutex
	gen   *story.Generator
}

func NewServer(db store.Store, alloc *ident.Allocator, gen *story.Generator, opts ingest.Options, version string) *Server {
	if alloc == nil {
		alloc = ident.New()
	}
	if gen == nil {
		gen = story.NewGenerator()
	}
	s := &Server{
		db:    db,
		alloc: alloc,
		opts:  opts,
		gen:   gen,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "dramaweaver",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
