package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPlan_SourceMajorOrder(t *testing.T) {
	override := decimal.RequireFromString("2.5")
	plan := Plan{
		DefaultAmount: decimal.RequireFromString("1.0"),
		Sources: []Source{
			{KeyRef: "src1"},
			{KeyRef: "src2", Amount: &override},
		},
		Destinations: []string{"dst1", "dst2"},
	}

	specs, err := ExpandPlan(plan)
	require.NoError(t, err)
	require.Len(t, specs, 4)

	assert.Equal(t, "src1", specs[0].SourceKeyRef)
	assert.Equal(t, "dst1", specs[0].Destination)
	assert.True(t, specs[0].Amount.Equal(decimal.RequireFromString("1.0")))

	assert.Equal(t, "src1", specs[1].SourceKeyRef)
	assert.Equal(t, "dst2", specs[1].Destination)
	assert.True(t, specs[1].Amount.Equal(decimal.RequireFromString("1.0")))

	assert.Equal(t, "src2", specs[2].SourceKeyRef)
	assert.Equal(t, "dst1", specs[2].Destination)
	assert.True(t, specs[2].Amount.Equal(override))

	assert.Equal(t, "src2", specs[3].SourceKeyRef)
	assert.Equal(t, "dst2", specs[3].Destination)
	assert.True(t, specs[3].Amount.Equal(override))
}

func TestExpandPlan_CrossProductSize(t *testing.T) {
	plan := Plan{DefaultAmount: decimal.NewFromInt(1)}
	for i := 0; i < 5; i++ {
		plan.Sources = append(plan.Sources, Source{KeyRef: "src"})
	}
	for i := 0; i < 7; i++ {
		plan.Destinations = append(plan.Destinations, "dst")
	}

	specs, err := ExpandPlan(plan)
	require.NoError(t, err)
	assert.Len(t, specs, 35)
}

func TestExpandPlan_EmptySources(t *testing.T) {
	_, err := ExpandPlan(Plan{Destinations: []string{"dst"}})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestExpandPlan_EmptyDestinations(t *testing.T) {
	_, err := ExpandPlan(Plan{Sources: []Source{{KeyRef: "src"}}})
	assert.ErrorIs(t, err, ErrNoDestinations)
}
