package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

func TestLoadModels_AllReady(t *testing.T) {
	arrows := &fakeModel{name: "arrows"}
	recogniser := &fakeModel{name: "recogniser"}

	err := LoadModels(context.Background(), arrows, nil, recogniser)

	require.NoError(t, err)
	assert.Equal(t, 1, arrows.pings)
	assert.Equal(t, 1, recogniser.pings)
}

func TestLoadModels_FailureIsFatal(t *testing.T) {
	sr := &fakeModel{name: "super-resolution", err: errors.New("weights missing")}
	later := &fakeModel{name: "recogniser"}

	err := LoadModels(context.Background(), sr, later)

	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.Contains(t, err.Error(), "super-resolution")
	assert.Contains(t, err.Error(), "weights missing")
	assert.Zero(t, later.pings, "loading stops at the first failure")
}

func TestLoadModels_NoModels(t *testing.T) {
	assert.NoError(t, LoadModels(context.Background()))
	assert.NoError(t, LoadModels(context.Background(), []driven.Model{}...))
}
