package domain

import "time"

// OutcomeKind says which of the three possible results an image produced.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeAbsent       OutcomeKind = "absent"
	OutcomeScheme       OutcomeKind = "scheme"
	OutcomeDiagramsOnly OutcomeKind = "diagrams_only"
)

// IsValid returns true if the outcome kind is recognised.
func (k OutcomeKind) IsValid() bool {
	switch k {
	case OutcomeAbsent, OutcomeScheme, OutcomeDiagramsOnly:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k OutcomeKind) String() string {
	return string(k)
}

// Outcome is the result of extracting one image.
// Exactly one of Scheme and DiagramsOnly is set unless Kind is absent,
// in which case both are nil and Reason explains why.
type Outcome struct {
	// Index is the position in a batch (0 for single images).
	Index int

	Path string
	Kind OutcomeKind

	Scheme       *ReactionScheme
	DiagramsOnly *DiagramsOnlyResult

	// Reason is set for absent outcomes.
	Reason string

	// ArtifactPath is the written artifact, empty if none was written.
	ArtifactPath string

	// OverlayPath is the rendered overlay, empty unless visualisation ran.
	OverlayPath string

	// Warnings collects non-fatal problems such as a failed artifact write.
	Warnings []string
}

// SchemeOutcome creates a scheme outcome.
func SchemeOutcome(path string, s *ReactionScheme) Outcome {
	return Outcome{Path: path, Kind: OutcomeScheme, Scheme: s}
}

// DiagramsOnlyOutcome creates a diagrams-only outcome.
func DiagramsOnlyOutcome(path string, d *DiagramsOnlyResult) Outcome {
	return Outcome{Path: path, Kind: OutcomeDiagramsOnly, DiagramsOnly: d}
}

// AbsentOutcome creates an absent outcome.
func AbsentOutcome(path, reason string) Outcome {
	return Outcome{Path: path, Kind: OutcomeAbsent, Reason: reason}
}

// IsAbsent returns true if the image produced nothing.
func (o Outcome) IsAbsent() bool {
	return o.Kind == OutcomeAbsent
}

// Source returns the source image of a non-absent outcome.
func (o Outcome) Source() (SourceImage, bool) {
	switch {
	case o.Scheme != nil:
		return o.Scheme.Source, true
	case o.DiagramsOnly != nil:
		return o.DiagramsOnly.Source, true
	default:
		return SourceImage{}, false
	}
}

// Diagrams returns the diagrams of a non-absent outcome.
func (o Outcome) Diagrams() []Diagram {
	switch {
	case o.Scheme != nil:
		return o.Scheme.Diagrams
	case o.DiagramsOnly != nil:
		return o.DiagramsOnly.Diagrams
	default:
		return nil
	}
}

// Warn appends a warning.
func (o *Outcome) Warn(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

// BatchOutcome is the result of extracting a directory.
// Items has one slot per scanned entry, in listing order.
type BatchOutcome struct {
	RunID      string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Items      []Outcome
}

// OutcomeCounts tallies outcomes by kind.
type OutcomeCounts struct {
	Schemes      int
	DiagramsOnly int
	Absent       int
}

// Total returns the number of counted outcomes.
func (c OutcomeCounts) Total() int {
	return c.Schemes + c.DiagramsOnly + c.Absent
}

// CountOutcomes tallies outcomes by kind.
func CountOutcomes(items []Outcome) OutcomeCounts {
	var c OutcomeCounts
	for _, o := range items {
		switch o.Kind {
		case OutcomeScheme:
			c.Schemes++
		case OutcomeDiagramsOnly:
			c.DiagramsOnly++
		default:
			c.Absent++
		}
	}
	return c
}

// Len returns the number of slots.
func (b *BatchOutcome) Len() int {
	return len(b.Items)
}

// Counts tallies the batch by outcome kind.
func (b *BatchOutcome) Counts() OutcomeCounts {
	return CountOutcomes(b.Items)
}

// Failed returns the absent slots in order.
func (b *BatchOutcome) Failed() []Outcome {
	var out []Outcome
	for _, o := range b.Items {
		if o.IsAbsent() {
			out = append(out, o)
		}
	}
	return out
}

// Duration returns how long the batch took.
func (b *BatchOutcome) Duration() time.Duration {
	if b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}
