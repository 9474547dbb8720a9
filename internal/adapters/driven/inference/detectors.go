package inference

import (
	"context"
	"fmt"
	"image"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure adapters implement the interfaces.
var (
	_ driven.ArrowDetector   = (*ArrowDetector)(nil)
	_ driven.UnifiedDetector = (*UnifiedDetector)(nil)
	_ driven.Recogniser      = (*Recogniser)(nil)
	_ driven.RoleProbe       = (*RoleProbe)(nil)
	_ driven.Upsampler       = (*Upsampler)(nil)
	_ driven.Model           = (*ArrowDetector)(nil)
	_ driven.Model           = (*UnifiedDetector)(nil)
	_ driven.Model           = (*Recogniser)(nil)
	_ driven.Model           = (*RoleProbe)(nil)
	_ driven.Model           = (*Upsampler)(nil)
)

// Model names reported by the model server.
const (
	ModelArrows   = "arrows"
	ModelUnified  = "unified"
	ModelRoles    = "roles"
	ModelUpsample = "upsample"
)

// ArrowDetector detects reaction arrows.
type ArrowDetector struct {
	client *Client
}

// NewArrowDetector creates an arrow detector.
func NewArrowDetector(c *Client) *ArrowDetector {
	return &ArrowDetector{client: c}
}

// Name returns the model name.
func (d *ArrowDetector) Name() string { return ModelArrows }

// Ping checks the arrow model is loaded.
func (d *ArrowDetector) Ping(ctx context.Context) error { return d.client.ping(ctx, ModelArrows) }

// DetectArrows sends the arrows view to the model server.
func (d *ArrowDetector) DetectArrows(ctx context.Context, fig domain.Figure, view domain.View) domain.Detection[[]domain.Arrow] {
	img, err := encodeImage(view.Image)
	if err != nil {
		return domain.Failed[[]domain.Arrow](err)
	}

	var resp arrowsResponse
	if err := d.client.post(ctx, "/v1/arrows", arrowsRequest{Figure: figureOf(fig), Image: img}, &resp); err != nil {
		return domain.Failed[[]domain.Arrow](err)
	}

	switch resp.Status {
	case statusNotFound:
		return domain.NotFound[[]domain.Arrow]()
	case statusDetected:
	default:
		return domain.Failed[[]domain.Arrow](fmt.Errorf("%w: unknown status %q", domain.ErrInference, resp.Status))
	}

	arrows := make([]domain.Arrow, 0, len(resp.Arrows))
	for _, a := range resp.Arrows {
		arrow, err := a.toDomain()
		if err != nil {
			return domain.Failed[[]domain.Arrow](err)
		}
		arrows = append(arrows, arrow)
	}
	return domain.Detected(arrows)
}

// UnifiedDetector detects diagrams, labels and conditions.
type UnifiedDetector struct {
	client *Client
}

// NewUnifiedDetector creates a unified detector.
func NewUnifiedDetector(c *Client) *UnifiedDetector {
	return &UnifiedDetector{client: c}
}

// Name returns the model name.
func (d *UnifiedDetector) Name() string { return ModelUnified }

// Ping checks the unified model is loaded.
func (d *UnifiedDetector) Ping(ctx context.Context) error { return d.client.ping(ctx, ModelUnified) }

// Detect sends the diagrams, labels and conditions views in one request.
func (d *UnifiedDetector) Detect(ctx context.Context, req driven.UnifiedRequest) domain.Detection[domain.UnifiedResult] {
	body := unifiedRequest{
		Figure:       figureOf(req.Figure),
		Arrows:       arrowsOf(req.Arrows),
		DiagramsOnly: req.DiagramsOnly,
		Finegrained:  req.Finegrained,
	}
	for _, v := range []struct {
		dst  *string
		view domain.View
	}{
		{&body.Diagrams, req.Diagrams},
		{&body.Labels, req.Labels},
		{&body.Conditions, req.Conditions},
	} {
		img, err := encodeImage(v.view.Image)
		if err != nil {
			return domain.Failed[domain.UnifiedResult](fmt.Errorf("%s view: %w", v.view.Role, err))
		}
		*v.dst = img
	}

	var resp unifiedResponse
	if err := d.client.post(ctx, "/v1/unified", body, &resp); err != nil {
		return domain.Failed[domain.UnifiedResult](err)
	}

	switch resp.Status {
	case statusNotFound:
		return domain.NotFound[domain.UnifiedResult]()
	case statusDetected:
		return domain.Detected(resp.unifiedDTO.toDomain())
	default:
		return domain.Failed[domain.UnifiedResult](fmt.Errorf("%w: unknown status %q", domain.ErrInference, resp.Status))
	}
}

// Recogniser converts diagram crops to SMILES.
type Recogniser struct {
	client *Client
	model  domain.RecogniserModel
}

// NewRecogniser creates a recogniser for the client's configured variant.
func NewRecogniser(c *Client) *Recogniser {
	return &Recogniser{client: c, model: c.cfg.RecogniserModel}
}

// Name returns the recogniser variant.
func (r *Recogniser) Name() string { return string(r.model) }

// Ping checks the recogniser variant is loaded.
func (r *Recogniser) Ping(ctx context.Context) error { return r.client.ping(ctx, string(r.model)) }

// Recognise sends one crop.
func (r *Recogniser) Recognise(ctx context.Context, crop image.Image) (string, error) {
	img, err := encodeImage(crop)
	if err != nil {
		return "", err
	}
	var resp recogniseResponse
	if err := r.client.post(ctx, "/v1/recognise", recogniseRequest{Model: string(r.model), Image: img}, &resp); err != nil {
		return "", fmt.Errorf("recognise: %w", err)
	}
	return resp.Smiles, nil
}

// RoleProbe infers reaction steps from the detected content.
type RoleProbe struct {
	client *Client
}

// NewRoleProbe creates a role probe.
func NewRoleProbe(c *Client) *RoleProbe {
	return &RoleProbe{client: c}
}

// Name returns the model name.
func (p *RoleProbe) Name() string { return ModelRoles }

// Ping checks the role model is loaded.
func (p *RoleProbe) Ping(ctx context.Context) error { return p.client.ping(ctx, ModelRoles) }

// Probe sends the arrows and recognised content.
func (p *RoleProbe) Probe(ctx context.Context, fig domain.Figure, arrows []domain.Arrow, unified domain.UnifiedResult) (domain.RoleProbeResult, error) {
	req := rolesRequest{
		Figure:     figureOf(fig),
		Arrows:     arrowsOf(arrows),
		unifiedDTO: unifiedOf(unified),
	}
	var resp rolesResponse
	if err := p.client.post(ctx, "/v1/roles", req, &resp); err != nil {
		return domain.RoleProbeResult{}, err
	}

	out := domain.RoleProbeResult{Incomplete: resp.Incomplete}
	for i, s := range resp.Steps {
		out.Steps = append(out.Steps, domain.ReactionStep{
			Index:      i,
			Reactants:  s.Reactants,
			Products:   s.Products,
			ArrowID:    s.ArrowID,
			Conditions: s.Conditions,
		})
	}
	return out, nil
}

// Upsampler performs model-based super-resolution.
type Upsampler struct {
	client *Client
}

// NewUpsampler creates a super-resolution adapter.
func NewUpsampler(c *Client) *Upsampler {
	return &Upsampler{client: c}
}

// Name returns the model name.
func (u *Upsampler) Name() string { return ModelUpsample }

// Ping checks the super-resolution model is loaded.
func (u *Upsampler) Ping(ctx context.Context) error { return u.client.ping(ctx, ModelUpsample) }

// Upsample sends img and decodes the enlarged result.
func (u *Upsampler) Upsample(ctx context.Context, img image.Image, factor int) (image.Image, error) {
	payload, err := encodeImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpsample, err)
	}
	var resp upsampleResponse
	if err := u.client.post(ctx, "/v1/upsample", upsampleRequest{Factor: factor, Image: payload}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpsample, err)
	}
	out, err := decodeImage(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpsample, err)
	}
	return out, nil
}
