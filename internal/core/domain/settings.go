package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// UpsamplerKind selects the super-resolution backend for the labels view.
type UpsamplerKind string

// Available upsamplers.
const (
	// UpsamplerInterpolate resamples locally with a Catmull-Rom kernel.
	UpsamplerInterpolate UpsamplerKind = "interpolate"

	// UpsamplerModel calls the super-resolution model on the model server.
	UpsamplerModel UpsamplerKind = "model"

	// UpsamplerNone disables super-resolution.
	UpsamplerNone UpsamplerKind = "none"
)

// IsValid returns true if the upsampler kind is recognised.
func (k UpsamplerKind) IsValid() bool {
	switch k {
	case UpsamplerInterpolate, UpsamplerModel, UpsamplerNone:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k UpsamplerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the upsampler.
func (k UpsamplerKind) Description() string {
	switch k {
	case UpsamplerInterpolate:
		return "Interpolate (local Catmull-Rom resampling)"
	case UpsamplerModel:
		return "Model (model server super-resolution)"
	case UpsamplerNone:
		return "None (sharpened labels view only)"
	default:
		return unknownDescription
	}
}

// RecogniserModel is the structure recognition model variant.
type RecogniserModel string

// Available recogniser variants.
const (
	RecogniserCanonical RecogniserModel = "Canonical"
	RecogniserIsomeric  RecogniserModel = "Isomeric"
	RecogniserAugmented RecogniserModel = "Augmented"
)

// IsValid returns true if the recogniser model is recognised.
func (m RecogniserModel) IsValid() bool {
	switch m {
	case RecogniserCanonical, RecogniserIsomeric, RecogniserAugmented:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m RecogniserModel) String() string {
	return string(m)
}

// AllRecogniserModels returns all recogniser variants.
func AllRecogniserModels() []RecogniserModel {
	return []RecogniserModel{RecogniserCanonical, RecogniserIsomeric, RecogniserAugmented}
}

// PreprocessSettings holds view preprocessing configuration.
type PreprocessSettings struct {
	// Workers bounds the per-image view fan-out. 1 means sequential.
	Workers int

	// Minimum-dimension targets for the scaled views.
	GeneralMinDim    int
	ArrowsMinDim     int
	DiagramsMinDim   int
	ConditionsMinDim int

	// SRMaxWidth and SRMaxHeight guard super-resolution: labels views
	// larger than either are returned sharpened but not upsampled.
	SRMaxWidth  int
	SRMaxHeight int

	// SRFactor is the super-resolution scale factor.
	SRFactor int

	Upsampler UpsamplerKind
}

// InferenceSettings holds model server configuration.
type InferenceSettings struct {
	// BaseURL is the model server endpoint.
	BaseURL string

	// Timeout bounds a single model call.
	Timeout time.Duration

	// RequestsPerSecond and Burst throttle calls to the model server.
	RequestsPerSecond float64
	Burst             int

	// MaxInFlight bounds concurrent model calls. Calls overlap when views
	// are prepared in parallel or several MCP requests run at once.
	MaxInFlight int

	RecogniserModel RecogniserModel
}

// OutputSettings holds artifact output configuration.
type OutputSettings struct {
	// Dir is where artifacts are written. Empty disables persistence.
	Dir string
}

// ExtractionSettings holds pipeline behaviour switches.
type ExtractionSettings struct {
	// Visualize renders an overlay after single-image extraction.
	Visualize bool

	// FinegrainedSearch asks the unified detector to tile the image.
	FinegrainedSearch bool

	// DedicatedConditionsView feeds conditions detection its own view
	// instead of the general view.
	DedicatedConditionsView bool

	// EstimateBondLength attaches a single-bond length estimate to the figure.
	EstimateBondLength bool
}

// HistorySettings holds run ledger configuration.
type HistorySettings struct {
	// Enabled persists runs to the sqlite ledger.
	Enabled bool
}

// Settings holds all application settings.
type Settings struct {
	Preprocess PreprocessSettings
	Inference  InferenceSettings
	Output     OutputSettings
	Extraction ExtractionSettings
	History    HistorySettings
}

// DefaultSettings returns settings with the pipeline's standard values.
func DefaultSettings() Settings {
	return Settings{
		Preprocess: PreprocessSettings{
			Workers:          1,
			GeneralMinDim:    1024,
			ArrowsMinDim:     1024,
			DiagramsMinDim:   2048,
			ConditionsMinDim: 1024,
			SRMaxWidth:       1500,
			SRMaxHeight:      1500,
			SRFactor:         2,
			Upsampler:        UpsamplerInterpolate,
		},
		Inference: InferenceSettings{
			BaseURL:           "http://localhost:8765",
			Timeout:           2 * time.Minute,
			RequestsPerSecond: 10,
			Burst:             4,
			MaxInFlight:       4,
			RecogniserModel:   RecogniserCanonical,
		},
		Extraction: ExtractionSettings{
			EstimateBondLength: true,
		},
		History: HistorySettings{
			Enabled: true,
		},
	}
}

// Validate checks the settings for values the pipeline cannot run with.
func (s Settings) Validate() error {
	p := s.Preprocess
	if p.Workers < 1 {
		return fmt.Errorf("%w: preprocess.workers must be at least 1", ErrInvalidInput)
	}
	for name, v := range map[string]int{
		"preprocess.general_min_dim":    p.GeneralMinDim,
		"preprocess.arrows_min_dim":     p.ArrowsMinDim,
		"preprocess.diagrams_min_dim":   p.DiagramsMinDim,
		"preprocess.conditions_min_dim": p.ConditionsMinDim,
		"preprocess.sr_max_width":       p.SRMaxWidth,
		"preprocess.sr_max_height":      p.SRMaxHeight,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
		}
	}
	if p.SRFactor < 1 {
		return fmt.Errorf("%w: preprocess.sr_factor must be at least 1", ErrInvalidInput)
	}
	if !p.Upsampler.IsValid() {
		return fmt.Errorf("%w: unknown upsampler %q", ErrInvalidInput, p.Upsampler)
	}
	if !s.Inference.RecogniserModel.IsValid() {
		return fmt.Errorf("%w: recogniser model must be one of %v", ErrInvalidInput, AllRecogniserModels())
	}
	if s.Inference.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: inference.requests_per_second must be positive", ErrInvalidInput)
	}
	if s.Inference.Burst < 1 {
		return fmt.Errorf("%w: inference.burst must be at least 1", ErrInvalidInput)
	}
	if s.Inference.MaxInFlight < 1 {
		return fmt.Errorf("%w: inference.max_in_flight must be at least 1", ErrInvalidInput)
	}
	return nil
}
