package domain

import "time"

// RunMode identifies which entry point produced a run.
type RunMode string

// Run modes.
const (
	RunModeImage RunMode = "image"
	RunModeBatch RunMode = "batch"
	RunModeWatch RunMode = "watch"
)

// IsValid returns true if the run mode is recognised.
func (m RunMode) IsValid() bool {
	switch m {
	case RunModeImage, RunModeBatch, RunModeWatch:
		return true
	default:
		return false
	}
}

// RunRecord is the persisted summary of one extraction run.
type RunRecord struct {
	ID         string
	Mode       RunMode
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Items      []RunItem
}

// RunItem is the persisted summary of one outcome.
type RunItem struct {
	Index        int
	Path         string
	Kind         OutcomeKind
	Reason       string
	ArtifactPath string
	Digest       string
	Diagrams     int
	Steps        int
	Incomplete   bool
}

// NewRunItem summarises an outcome for the ledger.
func NewRunItem(o Outcome) RunItem {
	item := RunItem{
		Index:        o.Index,
		Path:         o.Path,
		Kind:         o.Kind,
		Reason:       o.Reason,
		ArtifactPath: o.ArtifactPath,
		Diagrams:     len(o.Diagrams()),
	}
	if src, ok := o.Source(); ok {
		item.Digest = src.Digest
	}
	if o.Scheme != nil {
		item.Steps = len(o.Scheme.Steps)
		item.Incomplete = o.Scheme.Incomplete
	}
	return item
}

// NewRunRecord summarises a batch for the ledger.
func NewRunRecord(mode RunMode, b *BatchOutcome) RunRecord {
	items := make([]RunItem, len(b.Items))
	for i, o := range b.Items {
		items[i] = NewRunItem(o)
	}
	return RunRecord{
		ID:         b.RunID,
		Mode:       mode,
		Root:       b.Root,
		StartedAt:  b.StartedAt,
		FinishedAt: b.FinishedAt,
		Items:      items,
	}
}

// RunSummary is a run without its items, as listed by the ledger.
type RunSummary struct {
	ID         string
	Mode       RunMode
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     OutcomeCounts
}

// Summary returns the run without its items.
func (r RunRecord) Summary() RunSummary {
	return RunSummary{
		ID:         r.ID,
		Mode:       r.Mode,
		Root:       r.Root,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Counts:     r.Counts(),
	}
}

// Counts tallies the recorded items by outcome kind.
func (r RunRecord) Counts() OutcomeCounts {
	var c OutcomeCounts
	for _, it := range r.Items {
		switch it.Kind {
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
