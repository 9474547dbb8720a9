package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// defaultRunLimit caps list_runs when no limit is given.
const defaultRunLimit = 20

// ExtractImageInput is the input schema for the extract_image tool.
type ExtractImageInput struct {
	Path              string `json:"path" jsonschema:"path to a png, jpg, jpeg or gif image of a reaction scheme"`
	OutputDir         string `json:"output_dir,omitempty" jsonschema:"directory to write the JSON artifact to (optional)"`
	Visualize         bool   `json:"visualize,omitempty" jsonschema:"render a PNG overlay of the detections"`
	FinegrainedSearch bool   `json:"finegrained_search,omitempty" jsonschema:"tile the image during diagram detection"`
}

// ExtractImageOutput is the output schema for the extract_image tool.
type ExtractImageOutput struct {
	Outcome OutcomeOutput `json:"outcome"`
}

// ExtractDirectoryInput is the input schema for the extract_directory tool.
type ExtractDirectoryInput struct {
	Path              string `json:"path" jsonschema:"directory of scheme images"`
	OutputDir         string `json:"output_dir" jsonschema:"directory to write one JSON artifact per image to"`
	FinegrainedSearch bool   `json:"finegrained_search,omitempty" jsonschema:"tile each image during diagram detection"`
}

// ExtractDirectoryOutput is the output schema for the extract_directory tool.
type ExtractDirectoryOutput struct {
	RunID        string          `json:"run_id"`
	Schemes      int             `json:"schemes"`
	DiagramsOnly int             `json:"diagrams_only"`
	Absent       int             `json:"absent"`
	Items        []OutcomeOutput `json:"items"`
}

// OutcomeOutput describes the result for one image.
type OutcomeOutput struct {
	Index        int               `json:"index"`
	Path         string            `json:"path"`
	Kind         string            `json:"kind"`
	Reason       string            `json:"reason,omitempty"`
	ArtifactPath string            `json:"artifact_path,omitempty"`
	OverlayPath  string            `json:"overlay_path,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Arrows       int               `json:"arrows"`
	Incomplete   bool              `json:"incomplete,omitempty"`
	Steps        []StepOutput      `json:"steps,omitempty"`
	Diagrams     []DiagramOutput   `json:"diagrams,omitempty"`
	Labels       []LabelOutput     `json:"labels,omitempty"`
	Conditions   []ConditionOutput `json:"conditions,omitempty"`
}

// StepOutput is one inferred reaction step.
type StepOutput struct {
	Reactants  []string `json:"reactants"`
	Products   []string `json:"products"`
	ArrowID    string   `json:"arrow_id"`
	Conditions []string `json:"conditions,omitempty"`
}

// DiagramOutput is one detected structure.
type DiagramOutput struct {
	ID      string `json:"id"`
	Box     [4]int `json:"box"`
	LabelID string `json:"label_id,omitempty"`
	Smiles  string `json:"smiles,omitempty"`
}

// LabelOutput is one detected label.
type LabelOutput struct {
	ID   string   `json:"id"`
	Text []string `json:"text"`
}

// ConditionOutput is one detected conditions region.
type ConditionOutput struct {
	ID      string   `json:"id"`
	ArrowID string   `json:"arrow_id,omitempty"`
	Text    []string `json:"text"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 20)"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

// RunOutput summarises one recorded run.
type RunOutput struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	Root         string `json:"root"`
	StartedAt    string `json:"started_at"`
	Schemes      int    `json:"schemes"`
	DiagramsOnly int    `json:"diagrams_only"`
	Absent       int    `json:"absent"`
}

// GetRunInput is the input schema for the get_run tool.
type GetRunInput struct {
	RunID string `json:"run_id" jsonschema:"id of the run to fetch"`
}

// GetRunOutput is the output schema for the get_run tool.
type GetRunOutput struct {
	Run   RunOutput       `json:"run"`
	Items []RunItemOutput `json:"items"`
}

// RunItemOutput is one recorded outcome of a run.
type RunItemOutput struct {
	Index        int    `json:"index"`
	Path         string `json:"path"`
	Kind         string `json:"kind"`
	Reason       string `json:"reason,omitempty"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	Diagrams     int    `json:"diagrams"`
	Steps        int    `json:"steps"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_image",
		Description: "Extract the reaction scheme from a single image",
	}, s.handleExtractImage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_directory",
		Description: "Extract every image in a directory, writing one artifact per image",
	}, s.handleExtractDirectory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recent extraction runs, newest first",
	}, s.handleListRuns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_run",
		Description: "Show the recorded outcomes of one extraction run",
	}, s.handleGetRun)
}

// handleExtractImage handles the extract_image tool invocation.
func (s *Server) handleExtractImage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractImageInput,
) (*mcp.CallToolResult, ExtractImageOutput, error) {
	if input.Path == "" {
		return nil, ExtractImageOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	opts := domain.ExtractOptions{
		OutputDir:         input.OutputDir,
		Visualize:         input.Visualize,
		FinegrainedSearch: input.FinegrainedSearch,
	}
	outcome, err := s.ports.Extractor.ExtractImage(ctx, input.Path, opts)
	if err != nil {
		return nil, ExtractImageOutput{}, err
	}

	return nil, ExtractImageOutput{Outcome: toOutcomeOutput(outcome)}, nil
}

// handleExtractDirectory handles the extract_directory tool invocation.
func (s *Server) handleExtractDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractDirectoryInput,
) (*mcp.CallToolResult, ExtractDirectoryOutput, error) {
	if input.Path == "" {
		return nil, ExtractDirectoryOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	opts := domain.ExtractOptions{
		OutputDir:         input.OutputDir,
		FinegrainedSearch: input.FinegrainedSearch,
	}
	batch, err := s.ports.Extractor.ExtractDir(ctx, input.Path, opts)
	if err != nil {
		return nil, ExtractDirectoryOutput{}, err
	}

	counts := batch.Counts()
	output := ExtractDirectoryOutput{
		RunID:        batch.RunID,
		Schemes:      counts.Schemes,
		DiagramsOnly: counts.DiagramsOnly,
		Absent:       counts.Absent,
		Items:        make([]OutcomeOutput, len(batch.Items)),
	}
	for i := range batch.Items {
		output.Items[i] = toOutcomeOutput(batch.Items[i])
	}

	return nil, output, nil
}

// handleListRuns handles the list_runs tool invocation.
func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	if s.ports.History == nil {
		return nil, ListRunsOutput{Runs: []RunOutput{}}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{
		Runs:  make([]RunOutput, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = toRunOutput(runs[i])
	}

	return nil, output, nil
}

// handleGetRun handles the get_run tool invocation.
func (s *Server) handleGetRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetRunInput,
) (*mcp.CallToolResult, GetRunOutput, error) {
	if s.ports.History == nil {
		return nil, GetRunOutput{}, fmt.Errorf("run %s: %w", input.RunID, domain.ErrNotFound)
	}

	run, err := s.ports.History.Get(ctx, input.RunID)
	if err != nil {
		return nil, GetRunOutput{}, err
	}

	output := GetRunOutput{
		Run:   toRunOutput(run.Summary()),
		Items: make([]RunItemOutput, len(run.Items)),
	}
	for i, it := range run.Items {
		output.Items[i] = RunItemOutput{
			Index:        it.Index,
			Path:         it.Path,
			Kind:         it.Kind.String(),
			Reason:       it.Reason,
			ArtifactPath: it.ArtifactPath,
			Diagrams:     it.Diagrams,
			Steps:        it.Steps,
		}
	}

	return nil, output, nil
}

func toRunOutput(r domain.RunSummary) RunOutput {
	return RunOutput{
		ID:           r.ID,
		Mode:         string(r.Mode),
		Root:         r.Root,
		StartedAt:    r.StartedAt.UTC().Format(time.RFC3339),
		Schemes:      r.Counts.Schemes,
		DiagramsOnly: r.Counts.DiagramsOnly,
		Absent:       r.Counts.Absent,
	}
}

func toOutcomeOutput(o domain.Outcome) OutcomeOutput {
	out := OutcomeOutput{
		Index:        o.Index,
		Path:         o.Path,
		Kind:         o.Kind.String(),
		Reason:       o.Reason,
		ArtifactPath: o.ArtifactPath,
		OverlayPath:  o.OverlayPath,
		Warnings:     o.Warnings,
	}

	var (
		labels     []domain.Label
		conditions []domain.Condition
	)
	switch {
	case o.Scheme != nil:
		out.Arrows = len(o.Scheme.Arrows)
		out.Incomplete = o.Scheme.Incomplete
		for _, st := range o.Scheme.Steps {
			out.Steps = append(out.Steps, StepOutput{
				Reactants:  st.Reactants,
				Products:   st.Products,
				ArrowID:    st.ArrowID,
				Conditions: st.Conditions,
			})
		}
		labels, conditions = o.Scheme.Labels, o.Scheme.Conditions
	case o.DiagramsOnly != nil:
		labels, conditions = o.DiagramsOnly.Labels, o.DiagramsOnly.Conditions
	}

	for _, d := range o.Diagrams() {
		out.Diagrams = append(out.Diagrams, DiagramOutput{
			ID:      d.ID,
			Box:     [4]int{d.Box.Left, d.Box.Top, d.Box.Right, d.Box.Bottom},
			LabelID: d.LabelID,
			Smiles:  d.Smiles,
		})
	}
	for _, l := range labels {
		out.Labels = append(out.Labels, LabelOutput{ID: l.ID, Text: l.Text})
	}
	for _, c := range conditions {
		out.Conditions = append(out.Conditions, ConditionOutput{ID: c.ID, ArrowID: c.ArrowID, Text: c.Text})
	}

	return out
}
