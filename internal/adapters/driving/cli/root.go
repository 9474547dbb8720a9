// Package cli provides the cobra command tree for schemex.
//
// Commands reach the core through driving ports only. The composition root
// registers a ServiceFactory; services are built on first use so that
// commands such as version run without touching the config or the model
// server.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/schemex/internal/core/ports/driving"
	"github.com/custodia-labs/schemex/internal/logger"
)

// annotationNoServices marks commands that run without the service graph.
const annotationNoServices = "schemex/no-services"

var version = "dev"

var (
	verbose   bool
	configDir string

	factory  ServiceFactory
	services *Services
)

// errNotConfigured is returned by commands whose service is missing.
var errNotConfigured = errors.New("service not configured")

// Services holds the driving ports used by the commands.
type Services struct {
	Extractor driving.SchemeExtractor
	Watcher   driving.WatchService
	History   driving.RunHistory
	Settings  driving.SettingsService

	// ConfigPath is the config file location.
	ConfigPath string

	// LoadModels checks every model once. Commands that process images
	// call it before the first image.
	LoadModels func(ctx context.Context) error

	// Close releases held resources such as the run ledger.
	Close func() error
}

// ServiceFactory builds the services for a config directory.
// An empty configDir selects the default location.
type ServiceFactory func(ctx context.Context, configDir string) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "schemex",
	Short: "Extract reaction schemes from images",
	Long: `schemex turns raster images of chemical reaction schemes into structured
descriptions: arrows, molecular diagrams with recognised structures, labels,
conditions and the reaction steps that connect them.

Images are processed by a local model server; see 'schemex config show'
for the endpoint and pipeline settings.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.schemex)")
}

// SetVersion sets the version reported by 'schemex version'.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers the function that builds the services.
func SetServiceFactory(f ServiceFactory) {
	factory = f
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if services != nil || factory == nil {
		return nil
	}
	if _, skip := cmd.Annotations[annotationNoServices]; skip {
		return nil
	}

	s, err := factory(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	services = s
	return nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

// loadModels runs the startup model check, if one is configured.
func loadModels(ctx context.Context) error {
	if services.LoadModels == nil {
		return nil
	}
	return services.LoadModels(ctx)
}
