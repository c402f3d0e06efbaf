package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
	"github.com/guyeu9/Interactive-story-game-editor/internal/validate"
)

type ListWorldviewsInput struct{}

type ListRecordsInput struct {
	Kind      string `json:"kind,omitempty" jsonschema:"scene, layer, play or command"`
	Worldview string `json:"worldview,omitempty" jsonschema:"restrict to one worldview"`
}

type SearchRecordsInput struct {
	Query     string `json:"query" jsonschema:"text to look for in names and descriptions"`
	Kind      string `json:"kind,omitempty" jsonschema:"restrict to a record kind"`
	Worldview string `json:"worldview,omitempty" jsonschema:"restrict to one worldview"`
}

type ImportDatasetsInput struct {
	JSON        string `json:"json" jsonschema:"dataset document: a dataset object or an array of datasets or scenario lists"`
	DryRun      bool   `json:"dry_run,omitempty" jsonschema:"merge without saving"`
	KeepHistory bool   `json:"keep_history,omitempty" jsonschema:"keep saved stories after a real import"`
}

type RepairIDsInput struct {
	Relink bool `json:"relink,omitempty" jsonschema:"rewrite references to repaired ids when unambiguous"`
	DryRun bool `json:"dry_run,omitempty" jsonschema:"report changes without saving"`
}

type ValidateDatasetInput struct{}

type GenerateStoryInput struct {
	SceneID   string `json:"scene_id,omitempty" jsonschema:"scene to generate from; defaults to the selected scene"`
	Worldview string `json:"worldview,omitempty" jsonschema:"only use records of this worldview"`
	Save      bool   `json:"save,omitempty" jsonschema:"append the story to history"`
}

type ListWorldviewsOutput struct {
	Worldviews []store.WorldviewSummary `json:"worldviews"`
}

type ListRecordsOutput struct {
	Records []store.RecordSummary `json:"records"`
}

type SearchRecordsOutput struct {
	Results []store.SearchResult `json:"results"`
}

type ImportDatasetsOutput struct {
	Summary    string         `json:"summary"`
	Datasets   int            `json:"datasets"`
	Imported   map[string]int `json:"imported"`
	Worldviews []string       `json:"worldviews"`
	Skipped    []string       `json:"skipped,omitempty"`
	Dangling   []string       `json:"dangling,omitempty"`
	Saved      bool           `json:"saved"`
}

type IDChangeOutput struct {
	Kind      string `json:"kind"`
	Position  int    `json:"position"`
	Worldview string `json:"worldview"`
	Name      string `json:"name"`
	OldID     string `json:"old_id"`
	NewID     string `json:"new_id"`
}

type RepairIDsOutput struct {
	Changes  []IDChangeOutput `json:"changes"`
	Relinked int              `json:"relinked"`
	Saved    bool             `json:"saved"`
}

type IssueOutput struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Worldview string `json:"worldview,omitempty"`
}

type ValidateDatasetOutput struct {
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Issues   []IssueOutput `json:"issues"`
}

type GenerateStoryOutput struct {
	Story story.Story `json:"story"`
	Text  string      `json:"text"`
	Saved bool        `json:"saved"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_worldviews",
		Description: "List worldviews with per-kind record counts",
	}, s.handleListWorldviews)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_records",
		Description: "List records with optional kind and worldview filters",
	}, s.handleListRecords)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_records",
		Description: "Search record names and text",
	}, s.handleSearchRecords)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "import_datasets",
		Description: "Re-key and merge a JSON dataset document into the stored dataset",
	}, s.handleImportDatasets)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "repair_ids",
		Description: "Assign fresh ids to every stored record",
	}, s.handleRepairIDs)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_dataset",
		Description: "Check the stored dataset for broken references and invalid values",
	}, s.handleValidateDataset)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_story",
		Description: "Generate a story from a scene",
	}, s.handleGenerateStory)
}

func parseKind(s string) (dataset.Kind, error) {
	if s == "" {
		return "", nil
	}
	return dataset.ParseKind(s)
}

func (s *Server) handleListWorldviews(ctx context.Context, req *sdk.CallToolRequest, input ListWorldviewsInput) (*sdk.CallToolResult, ListWorldviewsOutput, error) {
	items, err := s.db.ListWorldviews(ctx)
	if err != nil {
		return nil, ListWorldviewsOutput{}, err
	}
	if items == nil {
		items = []store.WorldviewSummary{}
	}
	return nil, ListWorldviewsOutput{Worldviews: items}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *sdk.CallToolRequest, input ListRecordsInput) (*sdk.CallToolResult, ListRecordsOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}
	items, err := s.db.ListRecords(ctx, kind, input.Worldview)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}
	if items == nil {
		items = []store.RecordSummary{}
	}
	return nil, ListRecordsOutput{Records: items}, nil
}

func (s *Server) handleSearchRecords(ctx context.Context, req *sdk.CallToolRequest, input SearchRecordsInput) (*sdk.CallToolResult, SearchRecordsOutput, error) {
	if input.Query == "" {
		return nil, SearchRecordsOutput{}, fmt.Errorf("query is required")
	}
	kind, err := parseKind(input.Kind)
	if err != nil {
		return nil, SearchRecordsOutput{}, err
	}
	results, err := s.db.Search(ctx, input.Query, kind, input.Worldview)
	if err != nil {
		return nil, SearchRecordsOutput{}, err
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	return nil, SearchRecordsOutput{Results: results}, nil
}

func (s *Server) handleImportDatasets(ctx context.Context, req *sdk.CallToolRequest, input ImportDatasetsInput) (*sdk.CallToolResult, ImportDatasetsOutput, error) {
	if input.JSON == "" {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("json is required")
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()

	current, err := s.db.LoadDataset(ctx)
	if err != nil {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("loading dataset: %w", err)
	}
	result, err := ingest.Import(current, []byte(input.JSON), s.alloc, s.opts)
	if err != nil {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("importing datasets: %w", err)
	}

	out := importOutput(result)
	if input.DryRun {
		return nil, out, nil
	}
	if err := s.db.ReplaceDataset(ctx, result.Dataset); err != nil {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("saving dataset: %w", err)
	}
	if !input.KeepHistory {
		if _, err := s.db.ClearHistory(ctx); err != nil {
			return nil, ImportDatasetsOutput{}, fmt.Errorf("clearing history: %w", err)
		}
	}
	state, err := s.db.LoadSession(ctx)
	if err != nil {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("loading session: %w", err)
	}
	if err := s.db.SaveSession(ctx, session.ResetSelection(state, time.Now())); err != nil {
		return nil, ImportDatasetsOutput{}, fmt.Errorf("saving session: %w", err)
	}
	out.Saved = true
	return nil, out, nil
}

func importOutput(r *ingest.Result) ImportDatasetsOutput {
	out := ImportDatasetsOutput{
		Summary:    r.Summary(),
		Datasets:   r.Datasets,
		Imported:   make(map[string]int, len(dataset.Kinds)),
		Worldviews: append([]string{}, r.Worldviews...),
		Skipped:    r.Skipped,
	}
	for _, kind := range dataset.Kinds {
		out.Imported[string(kind)] = r.Imported[kind]
	}
	for _, ref := range r.Dangling {
		out.Dangling = append(out.Dangling, ref.String())
	}
	return out
}

func (s *Server) handleRepairIDs(ctx context.Context, req *sdk.CallToolRequest, input RepairIDsInput) (*sdk.CallToolResult, RepairIDsOutput, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	d, err := s.db.LoadDataset(ctx)
	if err != nil {
		return nil, RepairIDsOutput{}, fmt.Errorf("loading dataset: %w", err)
	}
	opts := s.opts
	opts.RelinkReferences = input.Relink
	res := ingest.Repair(d, s.alloc, opts)

	out := RepairIDsOutput{
		Changes:  make([]IDChangeOutput, 0, len(res.Changes)),
		Relinked: res.Relinked,
	}
	for _, c := range res.Changes {
		out.Changes = append(out.Changes, IDChangeOutput{
			Kind:      string(c.Kind),
			Position:  c.Index,
			Worldview: c.Worldview,
			Name:      c.Name,
			OldID:     c.OldID,
			NewID:     c.NewID,
		})
	}
	if input.DryRun {
		return nil, out, nil
	}
	if err := s.db.ReplaceDataset(ctx, res.Dataset); err != nil {
		return nil, RepairIDsOutput{}, fmt.Errorf("saving dataset: %w", err)
	}
	out.Saved = true
	return nil, out, nil
}

func (s *Server) handleValidateDataset(ctx context.Context, req *sdk.CallToolRequest, input ValidateDatasetInput) (*sdk.CallToolResult, ValidateDatasetOutput, error) {
	report, err := validate.Run(ctx, s.db)
	if err != nil {
		return nil, ValidateDatasetOutput{}, err
	}
	out := ValidateDatasetOutput{
		Errors:   len(report.Errors()),
		Warnings: len(report.Warnings()),
		Issues:   make([]IssueOutput, 0, len(report.Issues)),
	}
	for _, issue := range report.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Severity:  string(issue.Severity),
			Code:      issue.Code,
			Message:   issue.Message,
			Kind:      string(issue.Kind),
			RecordID:  issue.RecordID,
			Name:      issue.Name,
			Worldview: issue.Worldview,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGenerateStory(ctx context.Context, req *sdk.CallToolRequest, input GenerateStoryInput) (*sdk.CallToolResult, GenerateStoryOutput, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	d, _, err := ingest.Load(ctx, s.db, s.alloc, s.opts)
	if err != nil {
		return nil, GenerateStoryOutput{}, err
	}
	state, err := s.db.LoadSession(ctx)
	if err != nil {
		return nil, GenerateStoryOutput{}, fmt.Errorf("loading session: %w", err)
	}

	sceneID := input.SceneID
	if sceneID == "" {
		sceneID = state.SelectedSceneID
	}
	filter := state.Filter()
	if input.Worldview != "" {
		filter = story.Filter{Worldview: input.Worldview, Enabled: true}
	}

	st, err := s.gen.Generate(d, sceneID, filter)
	if err != nil {
		return nil, GenerateStoryOutput{}, err
	}
	out := GenerateStoryOutput{Story: *st, Text: story.FormatText(st)}
	if input.Save {
		if err := s.db.AppendHistory(ctx, st); err != nil {
			return nil, GenerateStoryOutput{}, fmt.Errorf("saving story: %w", err)
		}
		out.Saved = true
	}
	return nil, out, nil
}
