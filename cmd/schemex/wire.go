package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/schemex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/schemex/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/schemex/internal/adapters/driven/inference"
	"github.com/custodia-labs/schemex/internal/adapters/driven/output"
	"github.com/custodia-labs/schemex/internal/adapters/driven/preprocess"
	"github.com/custodia-labs/schemex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/schemex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/schemex/internal/adapters/driven/upscale"
	"github.com/custodia-labs/schemex/internal/adapters/driven/visualise"
	"github.com/custodia-labs/schemex/internal/adapters/driving/cli"
	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/core/services"
	"github.com/custodia-labs/schemex/internal/logger"
)

// buildServices wires the adapters into the core services.
// Models are not contacted here; commands that process images call
// LoadModels first.
func buildServices(_ context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded settings from %s", configStore.Path())

	client := inference.NewClient(inference.ConfigFromSettings(settings.Inference))
	arrows := inference.NewArrowDetector(client)
	unified := inference.NewUnifiedDetector(client)
	recogniser := inference.NewRecogniser(client)
	roleProbe := inference.NewRoleProbe(client)
	models := []driven.Model{arrows, unified, recogniser, roleProbe}

	var upsampler driven.Upsampler
	switch settings.Preprocess.Upsampler {
	case domain.UpsamplerInterpolate:
		upsampler = upscale.NewInterpolator()
	case domain.UpsamplerModel:
		srModel := inference.NewUpsampler(client)
		upsampler = srModel
		models = append(models, srModel)
	case domain.UpsamplerNone:
	}

	runStore, err := openRunStore(configDir, settings.History)
	if err != nil {
		return nil, err
	}

	writer := output.NewFileWriter()
	extractor := services.NewExtractionService(
		preprocess.NewPreprocessor(preprocess.ConfigFromSettings(settings.Preprocess), upsampler),
		arrows,
		unified,
		recogniser,
		roleProbe,
		filesystem.NewLister(),
		services.ExtractionConfigFromSettings(*settings),
	).
		WithBondEstimator(preprocess.NewBondEstimator()).
		WithOutput(output.NewJSONSerialiser(), writer).
		WithVisualiser(visualise.NewOverlayRenderer(writer)).
		WithRunStore(runStore)

	return &cli.Services{
		Extractor:  extractor,
		Watcher:    services.NewWatchService(extractor, filesystem.NewWatcher()),
		History:    services.NewHistoryService(runStore),
		Settings:   settingsService,
		ConfigPath: configStore.Path(),
		LoadModels: func(ctx context.Context) error {
			return services.LoadModels(ctx, models...)
		},
		Close: runStore.Close,
	}, nil
}

// openRunStore opens the sqlite ledger under configDir/data, or an
// in-memory ledger when history is disabled.
func openRunStore(configDir string, h domain.HistorySettings) (driven.RunStore, error) {
	if !h.Enabled {
		return memory.NewRunStore(), nil
	}
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open run ledger: %w", err)
	}
	return store, nil
}
