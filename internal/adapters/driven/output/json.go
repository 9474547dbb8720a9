package output

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure JSONSerialiser implements the interface.
var _ driven.Serialiser = (*JSONSerialiser)(nil)

// FormatVersion is the artifact schema version.
const FormatVersion = 1

// JSONSerialiser encodes outcomes as indented JSON documents.
type JSONSerialiser struct{}

// NewJSONSerialiser creates a JSON serialiser.
func NewJSONSerialiser() *JSONSerialiser {
	return &JSONSerialiser{}
}

// Extension returns "json".
func (s *JSONSerialiser) Extension() string {
	return "json"
}

// Marshal encodes a scheme or diagrams-only outcome.
func (s *JSONSerialiser) Marshal(o domain.Outcome) ([]byte, error) {
	doc, err := documentOf(o)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", o.Path, err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes an artifact written by Marshal.
func (s *JSONSerialiser) Unmarshal(data []byte) (domain.Outcome, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Outcome{}, fmt.Errorf("%w: decode artifact: %v", domain.ErrInvalidInput, err)
	}
	if doc.Version != FormatVersion {
		return domain.Outcome{}, fmt.Errorf("%w: unsupported artifact version %d", domain.ErrInvalidInput, doc.Version)
	}
	return doc.outcome()
}

// document is the artifact layout.
type document struct {
	Version    int            `json:"version"`
	Kind       string         `json:"kind"`
	Source     sourceDoc      `json:"source"`
	Arrows     []arrowDoc     `json:"arrows,omitempty"`
	Steps      []stepDoc      `json:"steps,omitempty"`
	Incomplete bool           `json:"incomplete,omitempty"`
	Diagrams   []diagramDoc   `json:"diagrams"`
	Labels     []labelDoc     `json:"labels"`
	Conditions []conditionDoc `json:"conditions"`
}

type sourceDoc struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Digest string `json:"digest"`
}

type rectDoc struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

type pointDoc struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type arrowDoc struct {
	ID   string   `json:"id"`
	Kind string   `json:"kind"`
	Box  rectDoc  `json:"box"`
	Tail pointDoc `json:"tail"`
	Head pointDoc `json:"head"`
}

type stepDoc struct {
	Index      int      `json:"index"`
	Reactants  []string `json:"reactants"`
	Products   []string `json:"products"`
	ArrowID    string   `json:"arrow_id"`
	Conditions []string `json:"conditions"`
}

type diagramDoc struct {
	ID      string  `json:"id"`
	Box     rectDoc `json:"box"`
	LabelID string  `json:"label_id,omitempty"`
	Smiles  string  `json:"smiles"`
}

type labelDoc struct {
	ID   string   `json:"id"`
	Box  rectDoc  `json:"box"`
	Text []string `json:"text"`
}

type conditionDoc struct {
	ID      string   `json:"id"`
	Box     rectDoc  `json:"box"`
	ArrowID string   `json:"arrow_id,omitempty"`
	Text    []string `json:"text"`
}

func documentOf(o domain.Outcome) (document, error) {
	switch {
	case o.Kind == domain.OutcomeScheme && o.Scheme != nil:
		s := o.Scheme
		return document{
			Version:    FormatVersion,
			Kind:       string(domain.OutcomeScheme),
			Source:     sourceOf(s.Source),
			Arrows:     mapSlice(s.Arrows, arrowOf),
			Steps:      mapSlice(s.Steps, stepOf),
			Incomplete: s.Incomplete,
			Diagrams:   mapSlice(s.Diagrams, diagramOf),
			Labels:     mapSlice(s.Labels, labelOf),
			Conditions: mapSlice(s.Conditions, conditionOf),
		}, nil
	case o.Kind == domain.OutcomeDiagramsOnly && o.DiagramsOnly != nil:
		d := o.DiagramsOnly
		return document{
			Version:    FormatVersion,
			Kind:       string(domain.OutcomeDiagramsOnly),
			Source:     sourceOf(d.Source),
			Diagrams:   mapSlice(d.Diagrams, diagramOf),
			Labels:     mapSlice(d.Labels, labelOf),
			Conditions: mapSlice(d.Conditions, conditionOf),
		}, nil
	default:
		return document{}, fmt.Errorf("%w: cannot serialise %s outcome for %s", domain.ErrInvalidInput, o.Kind, o.Path)
	}
}

func (d document) outcome() (domain.Outcome, error) {
	src := d.Source.toDomain()
	diagrams := mapSlice(d.Diagrams, diagramDoc.toDomain)
	labels := mapSlice(d.Labels, labelDoc.toDomain)
	conditions := mapSlice(d.Conditions, conditionDoc.toDomain)

	switch domain.OutcomeKind(d.Kind) {
	case domain.OutcomeScheme:
		return domain.SchemeOutcome(src.Path, &domain.ReactionScheme{
			Source:     src,
			Arrows:     mapSlice(d.Arrows, arrowDoc.toDomain),
			Steps:      mapSlice(d.Steps, stepDoc.toDomain),
			Incomplete: d.Incomplete,
			Diagrams:   diagrams,
			Labels:     labels,
			Conditions: conditions,
		}), nil
	case domain.OutcomeDiagramsOnly:
		return domain.DiagramsOnlyOutcome(src.Path, &domain.DiagramsOnlyResult{
			Source:     src,
			Diagrams:   diagrams,
			Labels:     labels,
			Conditions: conditions,
		}), nil
	default:
		return domain.Outcome{}, fmt.Errorf("%w: unknown artifact kind %q", domain.ErrInvalidInput, d.Kind)
	}
}

// mapSlice converts each element, keeping nil slices nil.
func mapSlice[S, D any](in []S, f func(S) D) []D {
	if in == nil {
		return nil
	}
	out := make([]D, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func sourceOf(s domain.SourceImage) sourceDoc {
	return sourceDoc{Path: s.Path, Format: string(s.Format), Width: s.Width, Height: s.Height, Digest: s.Digest}
}

func (s sourceDoc) toDomain() domain.SourceImage {
	return domain.SourceImage{Path: s.Path, Format: domain.ImageFormat(s.Format), Width: s.Width, Height: s.Height, Digest: s.Digest}
}

func rectOf(r domain.Rect) rectDoc {
	return rectDoc{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func (r rectDoc) toDomain() domain.Rect {
	return domain.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func arrowOf(a domain.Arrow) arrowDoc {
	return arrowDoc{
		ID:   a.ID,
		Kind: string(a.Kind),
		Box:  rectOf(a.Box),
		Tail: pointDoc{X: a.Tail.X, Y: a.Tail.Y},
		Head: pointDoc{X: a.Head.X, Y: a.Head.Y},
	}
}

func (a arrowDoc) toDomain() domain.Arrow {
	return domain.Arrow{
		ID:   a.ID,
		Kind: domain.ArrowKind(a.Kind),
		Box:  a.Box.toDomain(),
		Tail: domain.Point{X: a.Tail.X, Y: a.Tail.Y},
		Head: domain.Point{X: a.Head.X, Y: a.Head.Y},
	}
}

func stepOf(s domain.ReactionStep) stepDoc {
	return stepDoc{Index: s.Index, Reactants: s.Reactants, Products: s.Products, ArrowID: s.ArrowID, Conditions: s.Conditions}
}

func (s stepDoc) toDomain() domain.ReactionStep {
	return domain.ReactionStep{Index: s.Index, Reactants: s.Reactants, Products: s.Products, ArrowID: s.ArrowID, Conditions: s.Conditions}
}

func diagramOf(d domain.Diagram) diagramDoc {
	return diagramDoc{ID: d.ID, Box: rectOf(d.Box), LabelID: d.LabelID, Smiles: d.Smiles}
}

func (d diagramDoc) toDomain() domain.Diagram {
	return domain.Diagram{ID: d.ID, Box: d.Box.toDomain(), LabelID: d.LabelID, Smiles: d.Smiles}
}

func labelOf(l domain.Label) labelDoc {
	return labelDoc{ID: l.ID, Box: rectOf(l.Box), Text: l.Text}
}

func (l labelDoc) toDomain() domain.Label {
	return domain.Label{ID: l.ID, Box: l.Box.toDomain(), Text: l.Text}
}

func conditionOf(c domain.Condition) conditionDoc {
	return conditionDoc{ID: c.ID, Box: rectOf(c.Box), ArrowID: c.ArrowID, Text: c.Text}
}

func (c conditionDoc) toDomain() domain.Condition {
	return domain.Condition{ID: c.ID, Box: c.Box.toDomain(), ArrowID: c.ArrowID, Text: c.Text}
}
