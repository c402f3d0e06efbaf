package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ingest"
	"github.com/guyeu9/Interactive-story-game-editor/internal/parser"
)

type batchFlags struct {
	worldview string
	layer     string
	scope     string
	targets   []string
	dryRun    bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.worldview, "worldview", "", "Worldview for the new records")
	cmd.Flags().StringVar(&f.layer, "layer", "", "Default layer id for plays")
	cmd.Flags().StringVar(&f.scope, "scope", "", "Default command scope (GLOBAL, SCENE, LAYER)")
	cmd.Flags().StringSliceVar(&f.targets, "targets", nil, "Default command target ids")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Parse and report without saving")
}

func batchCmd() *cobra.Command {
	var file string
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "batch [kind]",
		Short: "Add records from a text file, one record per line",
		Long: "Each line is split on | or : into fields.\n" +
			"  scene:   name|description|tags\n" +
			"  layer:   name|sequence\n" +
			"  play:    name|description|result|layer_id|tags\n" +
			"  command: name|description|probability|scope|targets\n" +
			"A leading --- YAML block may set kind, worldview, layer, scope and targets.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			doc, err := readBatch(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			return runBatch(kind, doc, flags)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Batch file, - for stdin")
	flags.register(cmd)
	return cmd
}

func readBatch(stdin io.Reader, file string) (*parser.Document, error) {
	if file != "-" {
		doc, err := parser.ParseFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		return doc, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return parser.Parse(data)
}

func addCmd() *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "add <kind> <fields>",
		Short: "Add one record given as a batch line",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := parser.ParseLine(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			line.Number = 1
			return runBatch(args[0], &parser.Document{Lines: []parser.Line{line}}, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runBatch(kindName string, doc *parser.Document, flags batchFlags) error {
	ctx := context.Background()

	bo := ingest.BatchOptions{
		Worldview: strings.TrimSpace(flags.worldview),
		Layer:     strings.TrimSpace(flags.layer),
		Targets:   flags.targets,
	}
	if kindName != "" {
		kind, err := dataset.ParseKind(kindName)
		if err != nil {
			return err
		}
		bo.Kind = kind
	}
	if flags.scope != "" {
		bo.Scope = dataset.NormalizeScope(flags.scope)
	}

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
	if state.WorldviewFilter {
		bo.Selected = state.SelectedWorldview
	}

	result, err := ingest.Batch(d, doc, bo, p.alloc, p.opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added %d %s to %s: %s\n",
		len(result.Added), result.Kind.Label(), result.Worldview, strings.Join(result.Added, ", "))
	if flags.dryRun {
		fmt.Fprintln(os.Stdout, "Dry run: nothing saved.")
		return nil
	}
	return p.db.ReplaceDataset(ctx, result.Dataset)
}
