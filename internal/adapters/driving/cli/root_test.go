package cli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/schemex/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "schemex", rootCmd.Use)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"extract", "watch", "runs", "config", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_BuildsServicesFromFactory(t *testing.T) {
	withServices(t, nil)
	var gotDir string
	SetServiceFactory(func(_ context.Context, dir string) (*Services, error) {
		gotDir = dir
		return &Services{ConfigPath: "/cfg/config.toml"}, nil
	})
	t.Cleanup(func() { configDir = "" })

	out, err := execute(t, "--config-dir", "/cfg", "config", "path")

	require.NoError(t, err)
	assert.Equal(t, "/cfg", gotDir)
	assert.Equal(t, "/cfg/config.toml\n", out)
}

func TestRootCmd_FactoryError(t *testing.T) {
	withServices(t, nil)
	SetServiceFactory(func(context.Context, string) (*Services, error) {
		return nil, errors.New("open config: permission denied")
	})

	_, err := execute(t, "config", "path")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	withServices(t, &Services{ConfigPath: "/cfg/config.toml"})
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, err := execute(t, "--verbose", "config", "path")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestExecute_ClosesServices(t *testing.T) {
	closed := false
	withServices(t, &Services{
		ConfigPath: "/cfg/config.toml",
		Close: func() error {
			closed = true
			return nil
		},
	})
	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"config", "path"})
	rootCmd.SetOut(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	require.NoError(t, Execute(context.Background()))
	assert.True(t, closed)
}
