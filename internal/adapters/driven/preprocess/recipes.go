package preprocess

import (
	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// recipes returns the stage list of every role.
func recipes(cfg Config, up driven.Upsampler) map[domain.Role][]Stage {
	return map[domain.Role][]Stage{
		domain.RoleGeneral: {
			Gray, ScaleMinDim(cfg.GeneralMinDim), Normalise, Binarise,
		},
		domain.RoleArrows: {
			Gray, ScaleMinDim(cfg.ArrowsMinDim), Normalise, Binarise,
		},
		domain.RoleDiagrams: {
			RGB, ScaleMinDim(cfg.DiagramsMinDim), Normalise,
		},
		domain.RoleLabels: {
			Gray, Sharpen, SRGuard(cfg.SRMaxWidth, cfg.SRMaxHeight, cfg.SRFactor, up),
		},
		domain.RoleConditions: {
			Gray, ScaleMinDim(cfg.ConditionsMinDim),
		},
	}
}
