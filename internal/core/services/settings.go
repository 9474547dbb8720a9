package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkers           = "preprocess.workers"
	keyGeneralMinDim     = "preprocess.general_min_dim"
	keyArrowsMinDim      = "preprocess.arrows_min_dim"
	keyDiagramsMinDim    = "preprocess.diagrams_min_dim"
	keyConditionsMinDim  = "preprocess.conditions_min_dim"
	keySRMaxWidth        = "preprocess.sr_max_width"
	keySRMaxHeight       = "preprocess.sr_max_height"
	keySRFactor          = "preprocess.sr_factor"
	keyUpsampler         = "preprocess.upsampler"
	keyBaseURL           = "inference.base_url"
	keyTimeout           = "inference.timeout"
	keyRequestsPerSecond = "inference.requests_per_second"
	keyBurst             = "inference.burst"
	keyMaxInFlight       = "inference.max_in_flight"
	keyRecogniserModel   = "inference.recogniser_model"
	keyOutputDir         = "output.dir"
	keyVisualize         = "extraction.visualize"
	keyFinegrained       = "extraction.finegrained_search"
	keyConditionsView    = "extraction.dedicated_conditions_view"
	keyEstimateBond      = "extraction.estimate_bond_length"
	keyHistoryEnabled    = "history.enabled"
)

// settingField binds a config key to a Settings field.
type settingField struct {
	key   string
	get   func(*domain.Settings) any
	parse func(*domain.Settings, string) error
}

// settingFields lists every supported key in display order.
var settingFields = []settingField{
	intField(keyWorkers, func(s *domain.Settings) *int { return &s.Preprocess.Workers }),
	intField(keyGeneralMinDim, func(s *domain.Settings) *int { return &s.Preprocess.GeneralMinDim }),
	intField(keyArrowsMinDim, func(s *domain.Settings) *int { return &s.Preprocess.ArrowsMinDim }),
	intField(keyDiagramsMinDim, func(s *domain.Settings) *int { return &s.Preprocess.DiagramsMinDim }),
	intField(keyConditionsMinDim, func(s *domain.Settings) *int { return &s.Preprocess.ConditionsMinDim }),
	intField(keySRMaxWidth, func(s *domain.Settings) *int { return &s.Preprocess.SRMaxWidth }),
	intField(keySRMaxHeight, func(s *domain.Settings) *int { return &s.Preprocess.SRMaxHeight }),
	intField(keySRFactor, func(s *domain.Settings) *int { return &s.Preprocess.SRFactor }),
	{
		key: keyUpsampler,
		get: func(s *domain.Settings) any { return s.Preprocess.Upsampler.String() },
		parse: func(s *domain.Settings, v string) error {
			s.Preprocess.Upsampler = domain.UpsamplerKind(v)
			return nil
		},
	},
	stringField(keyBaseURL, func(s *domain.Settings) *string { return &s.Inference.BaseURL }),
	{
		key: keyTimeout,
		get: func(s *domain.Settings) any { return s.Inference.Timeout.String() },
		parse: func(s *domain.Settings, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			s.Inference.Timeout = d
			return nil
		},
	},
	{
		key: keyRequestsPerSecond,
		get: func(s *domain.Settings) any { return s.Inference.RequestsPerSecond },
		parse: func(s *domain.Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			s.Inference.RequestsPerSecond = f
			return nil
		},
	},
	intField(keyBurst, func(s *domain.Settings) *int { return &s.Inference.Burst }),
	intField(keyMaxInFlight, func(s *domain.Settings) *int { return &s.Inference.MaxInFlight }),
	{
		key: keyRecogniserModel,
		get: func(s *domain.Settings) any { return s.Inference.RecogniserModel.String() },
		parse: func(s *domain.Settings, v string) error {
			s.Inference.RecogniserModel = domain.RecogniserModel(v)
			return nil
		},
	},
	stringField(keyOutputDir, func(s *domain.Settings) *string { return &s.Output.Dir }),
	boolField(keyVisualize, func(s *domain.Settings) *bool { return &s.Extraction.Visualize }),
	boolField(keyFinegrained, func(s *domain.Settings) *bool { return &s.Extraction.FinegrainedSearch }),
	boolField(keyConditionsView, func(s *domain.Settings) *bool { return &s.Extraction.DedicatedConditionsView }),
	boolField(keyEstimateBond, func(s *domain.Settings) *bool { return &s.Extraction.EstimateBondLength }),
	boolField(keyHistoryEnabled, func(s *domain.Settings) *bool { return &s.History.Enabled }),
}

func intField(key string, ptr func(*domain.Settings) *int) settingField {
	return settingField{
		key: key,
		get: func(s *domain.Settings) any { return *ptr(s) },
		parse: func(s *domain.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*ptr(s) = n
			return nil
		},
	}
}

func stringField(key string, ptr func(*domain.Settings) *string) settingField {
	return settingField{
		key: key,
		get: func(s *domain.Settings) any { return *ptr(s) },
		parse: func(s *domain.Settings, v string) error {
			*ptr(s) = v
			return nil
		},
	}
}

func boolField(key string, ptr func(*domain.Settings) *bool) settingField {
	return settingField{
		key: key,
		get: func(s *domain.Settings) any { return *ptr(s) },
		parse: func(s *domain.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*ptr(s) = b
			return nil
		},
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Keys missing from the store keep their default values.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Preprocess: domain.PreprocessSettings{
			Workers:          s.getInt(keyWorkers, d.Preprocess.Workers),
			GeneralMinDim:    s.getInt(keyGeneralMinDim, d.Preprocess.GeneralMinDim),
			ArrowsMinDim:     s.getInt(keyArrowsMinDim, d.Preprocess.ArrowsMinDim),
			DiagramsMinDim:   s.getInt(keyDiagramsMinDim, d.Preprocess.DiagramsMinDim),
			ConditionsMinDim: s.getInt(keyConditionsMinDim, d.Preprocess.ConditionsMinDim),
			SRMaxWidth:       s.getInt(keySRMaxWidth, d.Preprocess.SRMaxWidth),
			SRMaxHeight:      s.getInt(keySRMaxHeight, d.Preprocess.SRMaxHeight),
			SRFactor:         s.getInt(keySRFactor, d.Preprocess.SRFactor),
			Upsampler:        domain.UpsamplerKind(s.getString(keyUpsampler, d.Preprocess.Upsampler.String())),
		},
		Inference: domain.InferenceSettings{
			BaseURL:           s.getString(keyBaseURL, d.Inference.BaseURL),
			Timeout:           s.getDuration(keyTimeout, d.Inference.Timeout),
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.Inference.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, d.Inference.Burst),
			MaxInFlight:       s.getInt(keyMaxInFlight, d.Inference.MaxInFlight),
			RecogniserModel:   domain.RecogniserModel(s.getString(keyRecogniserModel, d.Inference.RecogniserModel.String())),
		},
		Output: domain.OutputSettings{
			Dir: s.getString(keyOutputDir, d.Output.Dir),
		},
		Extraction: domain.ExtractionSettings{
			Visualize:               s.getBool(keyVisualize, d.Extraction.Visualize),
			FinegrainedSearch:       s.getBool(keyFinegrained, d.Extraction.FinegrainedSearch),
			DedicatedConditionsView: s.getBool(keyConditionsView, d.Extraction.DedicatedConditionsView),
			EstimateBondLength:      s.getBool(keyEstimateBond, d.Extraction.EstimateBondLength),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, d.History.Enabled),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, f := range settingFields {
		if err := s.configStore.Set(f.key, f.get(settings)); err != nil {
			return fmt.Errorf("save %s: %w", f.key, err)
		}
	}
	return nil
}

// Set updates a single setting by dot-notation key.
func (s *SettingsService) Set(key, value string) error {
	field, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := field.parse(settings, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(key, field.get(settings))
}

// Keys returns the supported setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingFields))
	for i, f := range settingFields {
		keys[i] = f.key
	}
	return keys
}

// Value returns the display value of key in settings.
func Value(settings *domain.Settings, key string) (any, bool) {
	field, ok := lookupField(key)
	if !ok {
		return nil, false
	}
	return field.get(settings), true
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func lookupField(key string) (settingField, bool) {
	for _, f := range settingFields {
		if f.key == key {
			return f, true
		}
	}
	return settingField{}, false
}

// Helper methods

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultVal
	}
	return d
}
