package domain

// ArrowKind classifies a detected arrow.
type ArrowKind string

// Arrow kinds reported by the arrow detector.
const (
	ArrowSolid       ArrowKind = "solid"
	ArrowCurly       ArrowKind = "curly"
	ArrowEquilibrium ArrowKind = "equilibrium"
	ArrowResonance   ArrowKind = "resonance"
)

// IsValid returns true if the arrow kind is recognised.
func (k ArrowKind) IsValid() bool {
	switch k {
	case ArrowSolid, ArrowCurly, ArrowEquilibrium, ArrowResonance:
		return true
	default:
		return false
	}
}

// Arrow is a directional marker between diagrams.
type Arrow struct {
	// ID is unique within one image.
	ID string

	Kind ArrowKind
	Box  Rect

	// Tail and Head give the arrow direction.
	Tail Point
	Head Point
}

// Length returns the tail-to-head distance.
func (a Arrow) Length() float64 {
	return Distance(a.Tail, a.Head)
}

// Diagram is a region depicting a molecular structure.
type Diagram struct {
	ID  string
	Box Rect

	// LabelID references the attached Label, if any.
	LabelID string

	// Smiles is the recognised structure string. Empty until recognition
	// has run, and left empty when recognition fails for this crop.
	Smiles string
}

// IsRecognised returns true if a structure string is attached.
func (d Diagram) IsRecognised() bool {
	return d.Smiles != ""
}

// Label is a region holding a textual identifier such as a compound number.
type Label struct {
	ID   string
	Box  Rect
	Text []string
}

// Condition is a region holding reaction conditions next to an arrow.
type Condition struct {
	ID  string
	Box Rect

	// ArrowID references the arrow the conditions annotate.
	ArrowID string

	Text []string
}

// UnifiedResult is what the unified detector returns for one image.
type UnifiedResult struct {
	Diagrams   []Diagram
	Labels     []Label
	Conditions []Condition
}

// DiagramByID returns the diagram with the given id.
func (u UnifiedResult) DiagramByID(id string) (Diagram, bool) {
	for _, d := range u.Diagrams {
		if d.ID == id {
			return d, true
		}
	}
	return Diagram{}, false
}
