package domain

// ExtractOptions are the per-invocation switches of an extraction.
type ExtractOptions struct {
	// OutputDir receives one artifact per non-absent outcome.
	// Required for directory extraction.
	OutputDir string

	// Visualize renders an overlay after single-image extraction.
	Visualize bool

	// FinegrainedSearch is passed through to the unified detector.
	FinegrainedSearch bool
}

// ExtractOptions returns the invocation defaults held in the settings.
func (s Settings) ExtractOptions() ExtractOptions {
	return ExtractOptions{
		OutputDir:         s.Output.Dir,
		Visualize:         s.Extraction.Visualize,
		FinegrainedSearch: s.Extraction.FinegrainedSearch,
	}
}
