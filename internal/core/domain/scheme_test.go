package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReactionScheme_RequiresArrows(t *testing.T) {
	s, err := NewReactionScheme(SourceImage{Path: "a.png"}, nil, UnifiedResult{}, RoleProbeResult{})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNoArrows)
}

func TestNewReactionScheme_IncompleteWithoutSteps(t *testing.T) {
	arrows := []Arrow{{ID: "a1", Kind: ArrowSolid}}
	s, err := NewReactionScheme(SourceImage{Path: "a.png"}, arrows, UnifiedResult{}, RoleProbeResult{})
	require.NoError(t, err)
	assert.True(t, s.Incomplete)
	assert.Empty(t, s.Steps)
}

func TestNewReactionScheme_CopiesUnifiedResult(t *testing.T) {
	src := SourceImage{Path: "a.png", Digest: "abc"}
	unified := UnifiedResult{
		Diagrams:   []Diagram{{ID: "d1"}, {ID: "d2"}},
		Labels:     []Label{{ID: "l1"}},
		Conditions: []Condition{{ID: "c1", ArrowID: "a1"}},
	}
	probe := RoleProbeResult{Steps: []ReactionStep{{Reactants: []string{"d1"}, Products: []string{"d2"}, ArrowID: "a1"}}}

	s, err := NewReactionScheme(src, []Arrow{{ID: "a1"}}, unified, probe)
	require.NoError(t, err)
	assert.Equal(t, src, s.Source)
	assert.False(t, s.Incomplete)
	assert.Len(t, s.Steps, 1)
	assert.Equal(t, unified.Diagrams, s.Diagrams)
	assert.Equal(t, unified.Conditions, s.Conditions)

	d, ok := unified.DiagramByID("d2")
	assert.True(t, ok)
	assert.Equal(t, "d2", d.ID)
	_, ok = unified.DiagramByID("zz")
	assert.False(t, ok)
}

func TestFigure(t *testing.T) {
	general := NewView(RoleGeneral, SourceImage{Path: "a.png"}, image.NewGray(image.Rect(0, 0, 8, 6)))
	fig := NewFigure(general)
	assert.Equal(t, "a.png", fig.Source.Path)
	assert.Equal(t, 8, fig.Width())
	assert.Equal(t, 6, fig.Height())
	assert.Zero(t, fig.SingleBondLength)

	withBond := fig.WithBondLength(12.5)
	assert.InDelta(t, 12.5, withBond.SingleBondLength, 1e-9)
	assert.Zero(t, fig.SingleBondLength)
}
