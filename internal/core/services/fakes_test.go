package services

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// --- Fakes for the extraction pipeline ---

// imageScenario describes how the fake collaborators react to one path.
type imageScenario struct {
	loadErr    error
	prepareErr error
	arrows     domain.Detection[[]domain.Arrow]
	unified    domain.Detection[domain.UnifiedResult]
	probe      domain.RoleProbeResult
	probeErr   error
	panicMsg   string
}

// Ready-made scenarios shared by the controller tests.
func schemeScenario() imageScenario {
	return imageScenario{
		arrows: domain.Detected([]domain.Arrow{{
			ID:   "a1",
			Kind: domain.ArrowSolid,
			Box:  domain.Rect{Left: 40, Top: 45, Right: 60, Bottom: 55},
			Tail: domain.Point{X: 40, Y: 50},
			Head: domain.Point{X: 60, Y: 50},
		}}),
		unified: domain.Detected(domain.UnifiedResult{
			Diagrams: []domain.Diagram{
				{ID: "d1", Box: domain.Rect{Left: 0, Top: 0, Right: 30, Bottom: 30}},
				{ID: "d2", Box: domain.Rect{Left: 70, Top: 0, Right: 100, Bottom: 30}},
			},
			Conditions: []domain.Condition{{ID: "c1", ArrowID: "a1"}},
		}),
		probe: domain.RoleProbeResult{Steps: []domain.ReactionStep{{
			Reactants:  []string{"d1"},
			Products:   []string{"d2"},
			ArrowID:    "a1",
			Conditions: []string{"c1"},
		}}},
	}
}

func diagramsOnlyScenario() imageScenario {
	s := schemeScenario()
	s.arrows = domain.NotFound[[]domain.Arrow]()
	return s
}

func noDiagramsScenario() imageScenario {
	s := schemeScenario()
	s.unified = domain.NotFound[domain.UnifiedResult]()
	return s
}

// fakePipeline implements every model-facing port of the controller.
type fakePipeline struct {
	mu        sync.Mutex
	scenarios map[string]imageScenario

	prepared     map[string][]domain.Role
	arrowFigures []domain.Figure
	unifiedReqs  []driven.UnifiedRequest
	probeCalls   int
	crops        []image.Rectangle

	recogniseErr   error
	recogniseFails map[int]bool
	recogniseCalls int
}

func newFakePipeline(scenarios map[string]imageScenario) *fakePipeline {
	return &fakePipeline{
		scenarios:      scenarios,
		prepared:       make(map[string][]domain.Role),
		recogniseFails: make(map[int]bool),
	}
}

func (f *fakePipeline) scenario(path string) (imageScenario, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scenarios[path]
	return s, ok
}

func (f *fakePipeline) Load(_ context.Context, path string) (domain.SourceImage, image.Image, error) {
	format, ok := domain.FormatForPath(path)
	if !ok {
		return domain.SourceImage{}, nil, domain.ErrUnsupportedFormat
	}
	s, ok := f.scenario(path)
	if !ok {
		return domain.SourceImage{}, nil, domain.ErrNotFound
	}
	if s.loadErr != nil {
		return domain.SourceImage{}, nil, s.loadErr
	}
	src := domain.SourceImage{Path: path, Format: format, Width: 100, Height: 100, Digest: "digest-" + path}
	return src, image.NewGray(image.Rect(0, 0, 100, 100)), nil
}

func (f *fakePipeline) Prepare(_ context.Context, src domain.SourceImage, img image.Image, role domain.Role) (domain.View, error) {
	s, _ := f.scenario(src.Path)
	if s.prepareErr != nil {
		return domain.View{}, s.prepareErr
	}
	f.mu.Lock()
	f.prepared[src.Path] = append(f.prepared[src.Path], role)
	f.mu.Unlock()

	if role == domain.RoleDiagrams {
		// Diagrams are prepared at twice the figure size.
		return domain.NewView(role, src, image.NewRGBA(image.Rect(0, 0, 200, 200))), nil
	}
	return domain.NewView(role, src, img), nil
}

func (f *fakePipeline) DetectArrows(_ context.Context, fig domain.Figure, _ domain.View) domain.Detection[[]domain.Arrow] {
	s, _ := f.scenario(fig.Source.Path)
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	f.mu.Lock()
	f.arrowFigures = append(f.arrowFigures, fig)
	f.mu.Unlock()
	return s.arrows
}

func (f *fakePipeline) Detect(_ context.Context, req driven.UnifiedRequest) domain.Detection[domain.UnifiedResult] {
	s, _ := f.scenario(req.Figure.Source.Path)
	f.mu.Lock()
	f.unifiedReqs = append(f.unifiedReqs, req)
	f.mu.Unlock()
	return s.unified
}

func (f *fakePipeline) Recognise(_ context.Context, crop image.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.recogniseCalls
	f.recogniseCalls++
	f.crops = append(f.crops, crop.Bounds())
	if f.recogniseErr != nil || f.recogniseFails[call] {
		return "", errors.New("recogniser exploded")
	}
	return "C1=CC=CC=C1", nil
}

func (f *fakePipeline) Probe(_ context.Context, fig domain.Figure, _ []domain.Arrow, _ domain.UnifiedResult) (domain.RoleProbeResult, error) {
	s, _ := f.scenario(fig.Source.Path)
	f.mu.Lock()
	f.probeCalls++
	f.mu.Unlock()
	return s.probe, s.probeErr
}

// fakeLister implements driven.ImageLister.
type fakeLister struct {
	entries []string
	err     error
	calls   int
}

func (l *fakeLister) List(_ context.Context, _ string) ([]string, error) {
	l.calls++
	return l.entries, l.err
}

// fakeSerialiser implements driven.Serialiser.
type fakeSerialiser struct {
	calls int
	err   error
}

func (s *fakeSerialiser) Extension() string { return "json" }

func (s *fakeSerialiser) Marshal(o domain.Outcome) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte(o.Kind), nil
}

func (s *fakeSerialiser) Unmarshal(_ []byte) (domain.Outcome, error) {
	return domain.Outcome{}, errors.New("not supported")
}

// fakeWriter implements driven.ArtifactWriter.
type fakeWriter struct {
	written map[string][]byte
	err     error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{written: make(map[string][]byte)}
}

func (w *fakeWriter) Write(_ context.Context, dir, name string, data []byte) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	p := dir + "/" + name
	w.written[p] = data
	return p, nil
}

// fakeVisualiser implements driven.Visualiser.
type fakeVisualiser struct {
	calls int
	err   error
}

func (v *fakeVisualiser) Render(_ context.Context, fig domain.Figure, _ domain.Outcome, dir string) (string, error) {
	v.calls++
	if v.err != nil {
		return "", v.err
	}
	return dir + "/" + fig.Source.Stem() + ".overlay.png", nil
}

// fakeBonds implements driven.BondEstimator.
type fakeBonds struct {
	length float64
	err    error
}

func (b fakeBonds) EstimateBondLength(_ domain.View) (float64, error) {
	return b.length, b.err
}

// fakeModel implements driven.Model.
type fakeModel struct {
	name  string
	err   error
	pings int
}

func (m *fakeModel) Name() string { return m.name }

func (m *fakeModel) Ping(_ context.Context) error {
	m.pings++
	return m.err
}

// Compile-time checks for the fakes.
var (
	_ driven.Preprocessor    = (*fakePipeline)(nil)
	_ driven.ArrowDetector   = (*fakePipeline)(nil)
	_ driven.UnifiedDetector = (*fakePipeline)(nil)
	_ driven.Recogniser      = (*fakePipeline)(nil)
	_ driven.RoleProbe       = (*fakePipeline)(nil)
	_ driven.ImageLister     = (*fakeLister)(nil)
	_ driven.Serialiser      = (*fakeSerialiser)(nil)
	_ driven.ArtifactWriter  = (*fakeWriter)(nil)
	_ driven.Visualiser      = (*fakeVisualiser)(nil)
	_ driven.BondEstimator   = fakeBonds{}
	_ driven.Model           = (*fakeModel)(nil)
)

// newTestExtractor wires a controller around the fakes.
func newTestExtractor(p *fakePipeline, lister *fakeLister, cfg ExtractionConfig) *ExtractionService {
	if lister == nil {
		lister = &fakeLister{}
	}
	return NewExtractionService(p, p, p, p, p, lister, cfg)
}
