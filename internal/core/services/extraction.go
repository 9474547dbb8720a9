package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
	"github.com/custodia-labs/schemex/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.SchemeExtractor = (*ExtractionService)(nil)

// reasonCancelled marks batch slots that were never started.
const reasonCancelled = "cancelled"

// ExtractionConfig holds the pipeline switches that are fixed for the
// lifetime of the service.
type ExtractionConfig struct {
	// Workers bounds the view fan-out. Values below 1 mean sequential.
	Workers int

	// DedicatedConditionsView prepares a separate conditions view instead
	// of reusing the general view.
	DedicatedConditionsView bool

	// EstimateBondLength attaches a bond length estimate to each figure.
	EstimateBondLength bool
}

// ExtractionConfigFromSettings derives the service configuration.
func ExtractionConfigFromSettings(s domain.Settings) ExtractionConfig {
	return ExtractionConfig{
		Workers:                 s.Preprocess.Workers,
		DedicatedConditionsView: s.Extraction.DedicatedConditionsView,
		EstimateBondLength:      s.Extraction.EstimateBondLength,
	}
}

// ExtractionService is the extraction pipeline controller.
// It sequences preprocessing, detection, recognition and role probing for
// one image at a time, and contains per-item failures for directories.
type ExtractionService struct {
	preprocessor driven.Preprocessor
	arrows       driven.ArrowDetector
	unified      driven.UnifiedDetector
	recogniser   driven.Recogniser
	roleProbe    driven.RoleProbe
	lister       driven.ImageLister

	// Optional collaborators.
	bonds      driven.BondEstimator
	serialiser driven.Serialiser
	writer     driven.ArtifactWriter
	visualiser driven.Visualiser
	runs       driven.RunStore

	cfg   ExtractionConfig
	now   func() time.Time
	newID func() string
}

// NewExtractionService creates a new pipeline controller.
// Optional collaborators are attached with the With* methods; when they are
// missing the matching step is skipped.
func NewExtractionService(
	preprocessor driven.Preprocessor,
	arrows driven.ArrowDetector,
	unified driven.UnifiedDetector,
	recogniser driven.Recogniser,
	roleProbe driven.RoleProbe,
	lister driven.ImageLister,
	cfg ExtractionConfig,
) *ExtractionService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &ExtractionService{
		preprocessor: preprocessor,
		arrows:       arrows,
		unified:      unified,
		recogniser:   recogniser,
		roleProbe:    roleProbe,
		lister:       lister,
		cfg:          cfg,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithBondEstimator attaches the bond length estimator.
func (s *ExtractionService) WithBondEstimator(b driven.BondEstimator) *ExtractionService {
	s.bonds = b
	return s
}

// WithOutput attaches artifact persistence.
func (s *ExtractionService) WithOutput(serialiser driven.Serialiser, writer driven.ArtifactWriter) *ExtractionService {
	s.serialiser = serialiser
	s.writer = writer
	return s
}

// WithVisualiser attaches the overlay renderer.
func (s *ExtractionService) WithVisualiser(v driven.Visualiser) *ExtractionService {
	s.visualiser = v
	return s
}

// WithRunStore attaches the run ledger.
func (s *ExtractionService) WithRunStore(r driven.RunStore) *ExtractionService {
	s.runs = r
	return s
}

// ExtractImage extracts a single image.
// Load failures and images without diagrams give an absent outcome and a
// nil error. Any other failure is returned to the caller.
func (s *ExtractionService) ExtractImage(ctx context.Context, path string, opts domain.ExtractOptions) (domain.Outcome, error) {
	started := s.now()

	out, fig, err := s.extract(ctx, path, opts)
	if err != nil {
		return domain.Outcome{Path: path}, err
	}

	if opts.Visualize && fig != nil && !out.IsAbsent() {
		s.visualise(ctx, *fig, &out, opts.OutputDir)
	}

	s.record(ctx, domain.RunModeImage, &domain.BatchOutcome{
		RunID:      s.newID(),
		Root:       path,
		StartedAt:  started,
		FinishedAt: s.now(),
		Items:      []domain.Outcome{out},
	})
	return out, nil
}

// ExtractDir extracts every entry of dir.
// The returned batch has one slot per listed entry in listing order,
// whatever happens to the individual images.
func (s *ExtractionService) ExtractDir(ctx context.Context, dir string, opts domain.ExtractOptions) (*domain.BatchOutcome, error) {
	if opts.OutputDir == "" {
		return nil, domain.ErrOutputDirRequired
	}
	if opts.Visualize {
		logger.Debug("Visualisation is only supported for single images, ignoring for %s", dir)
	}

	entries, err := s.lister.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	batch := &domain.BatchOutcome{
		RunID:     s.newID(),
		Root:      dir,
		StartedAt: s.now(),
		Items:     make([]domain.Outcome, len(entries)),
	}

	logger.Section("Batch " + dir)
	logger.Info("Extracting %d entries from %s", len(entries), dir)

	for i, path := range entries {
		if ctx.Err() != nil {
			logger.Warn("Batch cancelled, %d of %d entries not processed", len(entries)-i, len(entries))
			for j := i; j < len(entries); j++ {
				batch.Items[j] = domain.AbsentOutcome(entries[j], reasonCancelled)
				batch.Items[j].Index = j
			}
			break
		}
		batch.Items[i] = s.extractContained(ctx, path, opts)
		batch.Items[i].Index = i
	}

	batch.FinishedAt = s.now()
	s.record(ctx, domain.RunModeBatch, batch)

	c := batch.Counts()
	logger.Info("Batch complete: %d schemes, %d diagrams-only, %d absent", c.Schemes, c.DiagramsOnly, c.Absent)
	return batch, nil
}

// extractContained runs the single-image path and turns returned errors
// and panics into an absent outcome.
func (s *ExtractionService) extractContained(ctx context.Context, path string, opts domain.ExtractOptions) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Extraction failed for %s: panic: %v", path, r)
			out = domain.AbsentOutcome(path, fmt.Sprintf("panic: %v", r))
		}
	}()

	o, _, err := s.extract(ctx, path, opts)
	if err != nil {
		logger.Error("Extraction failed for %s: %v", path, err)
		return domain.AbsentOutcome(path, err.Error())
	}
	logger.Info("Extraction finished: %s (%s)", path, o.Kind)
	return o
}

// extract is the single-image pipeline. It returns the figure context for
// the caller's side effects.
//
//nolint:gocyclo // Sequential pipeline with one branch per detector result
func (s *ExtractionService) extract(ctx context.Context, path string, opts domain.ExtractOptions) (domain.Outcome, *domain.Figure, error) {
	logger.Debug("Extracting %s", path)

	// 1. Role views
	views, err := s.prepareViews(ctx, path)
	if err != nil {
		if domain.IsLoadFailure(err) {
			logger.Warn("Cannot load %s: %v", path, err)
			return domain.AbsentOutcome(path, err.Error()), nil, nil
		}
		return domain.Outcome{}, nil, err
	}

	// 2. Figure context
	fig := s.figure(views.general)

	// 3. Arrows
	var arrows []domain.Arrow
	diagsOnly := false
	arrowResult := s.arrows.DetectArrows(ctx, fig, views.arrows)
	switch arrowResult.Status() {
	case domain.DetectionDetected:
		arrows, _ = arrowResult.Value()
		diagsOnly = len(arrows) == 0
	case domain.DetectionNotFound:
		diagsOnly = true
	case domain.DetectionFailed:
		return domain.Outcome{}, nil, fmt.Errorf("detect arrows: %w", arrowResult.Err())
	default:
		return domain.Outcome{}, nil, fmt.Errorf("detect arrows: unexpected result %s", arrowResult.Status())
	}
	if diagsOnly {
		logger.Info("No arrows found in %s, extracting diagrams only", path)
		arrows = nil
	}

	// 4. Diagrams, labels, conditions
	unifiedResult := s.unified.Detect(ctx, driven.UnifiedRequest{
		Figure:       fig,
		Diagrams:     views.diagrams,
		Labels:       views.labels,
		Conditions:   views.conditions,
		Arrows:       arrows,
		DiagramsOnly: diagsOnly,
		Finegrained:  opts.FinegrainedSearch,
	})
	var unified domain.UnifiedResult
	switch unifiedResult.Status() {
	case domain.DetectionDetected:
		unified, _ = unifiedResult.Value()
	case domain.DetectionNotFound:
	case domain.DetectionFailed:
		return domain.Outcome{}, nil, fmt.Errorf("detect diagrams: %w", unifiedResult.Err())
	default:
		return domain.Outcome{}, nil, fmt.Errorf("detect diagrams: unexpected result %s", unifiedResult.Status())
	}
	if len(unified.Diagrams) == 0 {
		logger.Info("No diagrams found in %s, skipping the image", path)
		return domain.AbsentOutcome(path, domain.ErrNoDiagrams.Error()), &fig, nil
	}

	// 5. Structure recognition
	unified.Diagrams, err = s.recognise(ctx, fig, views.diagrams, unified.Diagrams)
	if err != nil {
		return domain.Outcome{}, nil, err
	}

	// 6. Assemble
	var out domain.Outcome
	if diagsOnly {
		out = domain.DiagramsOnlyOutcome(path, domain.NewDiagramsOnlyResult(fig.Source, unified))
	} else {
		probe, err := s.roleProbe.Probe(ctx, fig, arrows, unified)
		if err != nil {
			return domain.Outcome{}, nil, fmt.Errorf("probe roles: %w", err)
		}
		scheme, err := domain.NewReactionScheme(fig.Source, arrows, unified, probe)
		if err != nil {
			return domain.Outcome{}, nil, err
		}
		out = domain.SchemeOutcome(path, scheme)
	}

	// 7. Persist
	s.persist(ctx, &out, opts.OutputDir)

	return out, &fig, nil
}

// figure builds the per-image context from the general view.
func (s *ExtractionService) figure(general domain.View) domain.Figure {
	fig := domain.NewFigure(general)
	if s.bonds == nil || !s.cfg.EstimateBondLength {
		return fig
	}
	length, err := s.bonds.EstimateBondLength(general)
	if err != nil {
		logger.Debug("Bond length estimate failed for %s: %v", general.Source.Path, err)
		return fig
	}
	return fig.WithBondLength(length)
}

// persist writes the artifact for a non-absent outcome. Failures are
// recorded as warnings; the in-memory outcome stays valid.
func (s *ExtractionService) persist(ctx context.Context, out *domain.Outcome, dir string) {
	if dir == "" || out.IsAbsent() || s.serialiser == nil || s.writer == nil {
		return
	}

	data, err := s.serialiser.Marshal(*out)
	if err != nil {
		s.warn(out, "serialise %s: %v", out.Path, err)
		return
	}

	name := domain.Stem(out.Path) + "." + s.serialiser.Extension()
	written, err := s.writer.Write(ctx, dir, name, data)
	if err != nil {
		s.warn(out, "write artifact for %s: %v", out.Path, err)
		return
	}
	out.ArtifactPath = written
	logger.Debug("Wrote %s", written)
}

// visualise renders the overlay for a single-image extraction.
func (s *ExtractionService) visualise(ctx context.Context, fig domain.Figure, out *domain.Outcome, dir string) {
	if s.visualiser == nil {
		logger.Debug("No visualiser configured, skipping overlay for %s", out.Path)
		return
	}
	written, err := s.visualiser.Render(ctx, fig, *out, dir)
	if err != nil {
		s.warn(out, "render overlay for %s: %v", out.Path, err)
		return
	}
	out.OverlayPath = written
}

// record saves the run to the ledger. Failures are logged only.
func (s *ExtractionService) record(ctx context.Context, mode domain.RunMode, b *domain.BatchOutcome) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(context.WithoutCancel(ctx), domain.NewRunRecord(mode, b)); err != nil {
		logger.Warn("Record run %s: %v", b.RunID, err)
	}
}

func (s *ExtractionService) warn(out *domain.Outcome, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	out.Warn(msg)
}
