package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// roleViews holds the views of one image.
type roleViews struct {
	general    domain.View
	arrows     domain.View
	diagrams   domain.View
	labels     domain.View
	conditions domain.View
}

// roles returns the roles prepared for every image.
func (s *ExtractionService) roles() []domain.Role {
	roles := []domain.Role{
		domain.RoleGeneral,
		domain.RoleArrows,
		domain.RoleDiagrams,
		domain.RoleLabels,
	}
	if s.cfg.DedicatedConditionsView {
		roles = append(roles, domain.RoleConditions)
	}
	return roles
}

// prepareViews loads the source once and fans the preprocessor out over the
// roles. Views are independent values, so they can be built in parallel up
// to the configured worker bound.
func (s *ExtractionService) prepareViews(ctx context.Context, path string) (roleViews, error) {
	src, img, err := s.preprocessor.Load(ctx, path)
	if err != nil {
		return roleViews{}, fmt.Errorf("load %s: %w", path, err)
	}

	roles := s.roles()
	prepared := make([]domain.View, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, role := range roles {
		g.Go(func() error {
			v, err := s.preprocessor.Prepare(gctx, src, img, role)
			if err != nil {
				return fmt.Errorf("prepare %s view of %s: %w", role, path, err)
			}
			prepared[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return roleViews{}, err
	}

	var views roleViews
	for i, role := range roles {
		switch role {
		case domain.RoleGeneral:
			views.general = prepared[i]
		case domain.RoleArrows:
			views.arrows = prepared[i]
		case domain.RoleDiagrams:
			views.diagrams = prepared[i]
		case domain.RoleLabels:
			views.labels = prepared[i]
		case domain.RoleConditions:
			views.conditions = prepared[i]
		}
	}
	if views.conditions.IsZero() {
		views.conditions = views.general
	}
	return views, nil
}
