package inference

import (
	"fmt"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// Detection statuses returned by the model server.
const (
	statusDetected = "detected"
	statusNotFound = "not_found"
)

// box is [left, top, right, bottom] in figure pixels.
type box [4]int

func boxOf(r domain.Rect) box {
	return box{r.Left, r.Top, r.Right, r.Bottom}
}

func (b box) rect() domain.Rect {
	return domain.Rect{Left: b[0], Top: b[1], Right: b[2], Bottom: b[3]}
}

// point is [x, y] in figure pixels.
type point [2]int

func pointOf(p domain.Point) point {
	return point{p.X, p.Y}
}

func (p point) toDomain() domain.Point {
	return domain.Point{X: p[0], Y: p[1]}
}

// figureDTO describes the figure context sent with every detection request.
type figureDTO struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	BondLength float64 `json:"bond_length,omitempty"`
}

func figureOf(fig domain.Figure) figureDTO {
	return figureDTO{Width: fig.Width(), Height: fig.Height(), BondLength: fig.SingleBondLength}
}

type arrowDTO struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Box  box    `json:"box"`
	Tail point  `json:"tail"`
	Head point  `json:"head"`
}

func arrowsOf(arrows []domain.Arrow) []arrowDTO {
	out := make([]arrowDTO, len(arrows))
	for i, a := range arrows {
		out[i] = arrowDTO{ID: a.ID, Kind: string(a.Kind), Box: boxOf(a.Box), Tail: pointOf(a.Tail), Head: pointOf(a.Head)}
	}
	return out
}

func (a arrowDTO) toDomain() (domain.Arrow, error) {
	kind := domain.ArrowKind(a.Kind)
	if kind == "" {
		kind = domain.ArrowSolid
	}
	if !kind.IsValid() {
		return domain.Arrow{}, fmt.Errorf("%w: unknown arrow kind %q", domain.ErrInference, a.Kind)
	}
	return domain.Arrow{ID: a.ID, Kind: kind, Box: a.Box.rect(), Tail: a.Tail.toDomain(), Head: a.Head.toDomain()}, nil
}

type diagramDTO struct {
	ID      string `json:"id"`
	Box     box    `json:"box"`
	LabelID string `json:"label_id,omitempty"`
	Smiles  string `json:"smiles,omitempty"`
}

type labelDTO struct {
	ID   string   `json:"id"`
	Box  box      `json:"box"`
	Text []string `json:"text,omitempty"`
}

type conditionDTO struct {
	ID      string   `json:"id"`
	Box     box      `json:"box"`
	ArrowID string   `json:"arrow_id,omitempty"`
	Text    []string `json:"text,omitempty"`
}

// unifiedDTO is the detected content of one figure.
type unifiedDTO struct {
	Diagrams   []diagramDTO   `json:"diagrams"`
	Labels     []labelDTO     `json:"labels"`
	Conditions []conditionDTO `json:"conditions"`
}

func unifiedOf(u domain.UnifiedResult) unifiedDTO {
	out := unifiedDTO{
		Diagrams:   make([]diagramDTO, len(u.Diagrams)),
		Labels:     make([]labelDTO, len(u.Labels)),
		Conditions: make([]conditionDTO, len(u.Conditions)),
	}
	for i, d := range u.Diagrams {
		out.Diagrams[i] = diagramDTO{ID: d.ID, Box: boxOf(d.Box), LabelID: d.LabelID, Smiles: d.Smiles}
	}
	for i, l := range u.Labels {
		out.Labels[i] = labelDTO{ID: l.ID, Box: boxOf(l.Box), Text: l.Text}
	}
	for i, c := range u.Conditions {
		out.Conditions[i] = conditionDTO{ID: c.ID, Box: boxOf(c.Box), ArrowID: c.ArrowID, Text: c.Text}
	}
	return out
}

func (u unifiedDTO) toDomain() domain.UnifiedResult {
	var out domain.UnifiedResult
	for _, d := range u.Diagrams {
		out.Diagrams = append(out.Diagrams, domain.Diagram{ID: d.ID, Box: d.Box.rect(), LabelID: d.LabelID, Smiles: d.Smiles})
	}
	for _, l := range u.Labels {
		out.Labels = append(out.Labels, domain.Label{ID: l.ID, Box: l.Box.rect(), Text: l.Text})
	}
	for _, c := range u.Conditions {
		out.Conditions = append(out.Conditions, domain.Condition{ID: c.ID, Box: c.Box.rect(), ArrowID: c.ArrowID, Text: c.Text})
	}
	return out
}

type arrowsRequest struct {
	Figure figureDTO `json:"figure"`
	Image  string    `json:"image"`
}

type arrowsResponse struct {
	Status string     `json:"status"`
	Arrows []arrowDTO `json:"arrows"`
}

type unifiedRequest struct {
	Figure       figureDTO  `json:"figure"`
	Diagrams     string     `json:"diagrams_image"`
	Labels       string     `json:"labels_image"`
	Conditions   string     `json:"conditions_image"`
	Arrows       []arrowDTO `json:"arrows"`
	DiagramsOnly bool       `json:"diagrams_only"`
	Finegrained  bool       `json:"finegrained"`
}

type unifiedResponse struct {
	Status string `json:"status"`
	unifiedDTO
}

type recogniseRequest struct {
	Model string `json:"model"`
	Image string `json:"image"`
}

type recogniseResponse struct {
	Smiles string `json:"smiles"`
}

type stepDTO struct {
	Reactants  []string `json:"reactants"`
	Products   []string `json:"products"`
	ArrowID    string   `json:"arrow_id"`
	Conditions []string `json:"conditions,omitempty"`
}

type rolesRequest struct {
	Figure figureDTO  `json:"figure"`
	Arrows []arrowDTO `json:"arrows"`
	unifiedDTO
}

type rolesResponse struct {
	Steps      []stepDTO `json:"steps"`
	Incomplete bool      `json:"incomplete"`
}

type upsampleRequest struct {
	Factor int    `json:"factor"`
	Image  string `json:"image"`
}

type upsampleResponse struct {
	Image string `json:"image"`
}
