package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/logger"
)

// LoadModels checks every model-backed adapter once before any image is
// processed. The first failure is returned wrapped in domain.ErrModelLoad;
// callers treat it as fatal. Nil models are skipped.
func LoadModels(ctx context.Context, models ...driven.Model) error {
	logger.Section("Models")
	for _, m := range models {
		if m == nil {
			continue
		}
		logger.Info("Loading model %s", m.Name())
		if err := m.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrModelLoad, m.Name(), err)
		}
		logger.Debug("Model %s ready", m.Name())
	}
	return nil
}
